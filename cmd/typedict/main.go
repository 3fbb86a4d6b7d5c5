// Copyright 2021 Converter Systems LLC. All rights reserved.

// typedict is a tool to generate the OPC Binary type dictionary of the structures defined in an HCL file.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/awcullen/opcua-typedict/internal/config"
	"github.com/awcullen/opcua-typedict/server"
	"github.com/awcullen/opcua-typedict/typedict"
	"github.com/awcullen/opcua-typedict/ua"
	"github.com/pkg/errors"
)

var (
	in, out, uri, nodeSet string
	verbose               bool
)

func main() {
	log.SetFlags(0)

	flag.StringVar(&in, "config", "types.hcl", "Path to structure definitions")
	flag.StringVar(&out, "out", "", "Path to output file (default stdout)")
	flag.StringVar(&uri, "uri", "urn:localhost:typedict", "Application uri of the server")
	flag.StringVar(&nodeSet, "nodeset", "", "Path to an additional UANodeSet file")
	flag.BoolVar(&verbose, "v", false, "Print the NodeIDs of each structure")
	flag.Parse()

	f, err := config.Load(in)
	if err != nil {
		log.Fatalf("Failed to read definitions: %s", err)
	}
	doc, err := build(context.Background(), f)
	if err != nil {
		log.Fatalf("Failed to build dictionary: %s", err)
	}
	if out == "" {
		os.Stdout.Write(doc)
		return
	}
	if err := os.WriteFile(out, doc, 0o644); err != nil {
		log.Fatalf("Failed to write dictionary: %s", err)
	}
	log.Printf("Wrote %d structures to %s.\n", len(f.Structures), out)
}

// build creates the structures in a new server and returns the dictionary
// document once the server has read it back.
func build(ctx context.Context, f *config.File) ([]byte, error) {
	opts := []server.Option{server.WithNamespaceURIs(f.Namespace)}
	if nodeSet != "" {
		opts = append(opts, server.WithNodeSetFile(nodeSet))
	}
	srv, err := server.New(uri, opts...)
	if err != nil {
		return nil, err
	}
	defer srv.Close()

	nm := srv.NamespaceManager()
	ns, ok := nm.NamespaceIndex(f.Namespace)
	if !ok {
		return nil, errors.Errorf("namespace %s not found", f.Namespace)
	}
	b, err := typedict.NewDataTypeDictionaryBuilder(nm, ns, f.Namespace, f.Dictionary, f.Options()...)
	if err != nil {
		return nil, err
	}
	nodes, err := f.Apply(ctx, b)
	if err != nil {
		return nil, err
	}
	if err := b.SetDictByteString(ctx); err != nil {
		return nil, err
	}

	reg, err := srv.LoadTypeDefinitions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "verifying dictionary")
	}
	for _, n := range nodes {
		st, err := reg.Lookup(n.Name())
		if err != nil {
			return nil, errors.Wrap(err, "verifying dictionary")
		}
		if verbose {
			log.Printf("%s DataType=%s Encoding=%s Fields=%d\n", st.Name, st.DataTypeID, st.EncodingID, len(st.Fields))
		}
	}

	dv, err := nm.ReadValue(ctx, b.DictID())
	if err != nil {
		return nil, err
	}
	doc, ok := dv.Value.(ua.ByteString)
	if !ok {
		return nil, errors.Errorf("dictionary %s has no value", b.DictID())
	}
	return []byte(doc), nil
}
