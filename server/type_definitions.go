// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"context"
	"log"
	"sync"

	"github.com/awcullen/opcua-typedict/binaryschema"
	"github.com/awcullen/opcua-typedict/ua"
	"github.com/pkg/errors"
)

// ErrServerClosed is returned by operations that need the workers of a closed server.
var ErrServerClosed = errors.New("server closed")

// LoadTypeDefinitions reads every dictionary of the OPC Binary type system and
// replaces the type registry with the structures they define. Each structure
// is bound to its DataType and encoding nodes by following the references of
// its description node. Dictionaries are parsed concurrently by the workers
// of the server.
func (srv *Server) LoadTypeDefinitions(ctx context.Context) (*binaryschema.Registry, error) {
	reg, err := srv.readTypeDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	srv.Lock()
	srv.typeRegistry = reg
	srv.Unlock()
	return reg, nil
}

// readTypeDefinitions builds a registry from the dictionaries. The server
// cannot be closed while the workers are parsing.
func (srv *Server) readTypeDefinitions(ctx context.Context) (*binaryschema.Registry, error) {
	srv.RLock()
	defer srv.RUnlock()
	if srv.closed {
		return nil, ErrServerClosed
	}
	nm := srv.namespaceManager
	typeSystem, ok := nm.FindNode(ua.ObjectIDOPCBinarySchemaTypeSystem)
	if !ok {
		return nil, ua.BadNodeIDUnknown
	}
	dictionaries := []*VariableNode{}
	for _, n := range nm.GetChildren(typeSystem, []ua.NodeID{ua.ReferenceTypeIDHasComponent}) {
		if v, ok := n.(*VariableNode); ok && typeDefinition(v) == ua.VariableTypeIDDataTypeDictionaryType {
			dictionaries = append(dictionaries, v)
		}
	}

	results := make([]*binaryschema.Dictionary, len(dictionaries))
	errs := make([]error, len(dictionaries))
	var wg sync.WaitGroup
	for i, d := range dictionaries {
		i, d := i, d
		wg.Add(1)
		srv.workerpool.Submit(func() {
			defer wg.Done()
			doc, ok := d.Value().Value.(ua.ByteString)
			if !ok || len(doc) == 0 {
				return
			}
			results[i], errs[i] = binaryschema.Parse([]byte(doc))
		})
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	reg := binaryschema.NewRegistry(ua.NewEncodingContext(nm.NamespaceUris()...))
	for i, dict := range results {
		id := dictionaries[i].NodeID()
		if errs[i] != nil {
			log.Printf("Error parsing dictionary %s. %s\n", id, errs[i])
			return nil, errors.Wrapf(errs[i], "dictionary %s", id)
		}
		if dict == nil {
			continue
		}
		if err := reg.Load(dict); err != nil {
			log.Printf("Error loading dictionary %s. %s\n", id, err)
			return nil, errors.Wrapf(err, "dictionary %s", id)
		}
		srv.bindDescriptions(reg, dictionaries[i])
	}
	return reg, nil
}

// bindDescriptions binds the structures described below the dictionary node to
// the encoding that references each description, and the DataType that
// references that encoding.
func (srv *Server) bindDescriptions(reg *binaryschema.Registry, dictionary Node) {
	nm := srv.namespaceManager
	uris := nm.NamespaceUris()
	for _, r := range dictionary.References() {
		if r.IsInverse || r.ReferenceTypeID != ua.ReferenceTypeIDHasComponent {
			continue
		}
		desc, ok := nm.FindVariable(ua.ToNodeID(r.TargetID, uris))
		if !ok || typeDefinition(desc) != ua.VariableTypeIDDataTypeDescriptionType {
			continue
		}
		encodingID := inverseTarget(desc, ua.ReferenceTypeIDHasDescription, uris)
		encoding, ok := nm.FindNode(encodingID)
		if !ok {
			log.Printf("Error finding encoding of description %s.\n", desc.NodeID())
			continue
		}
		dataType, ok := nm.FindDataType(inverseTarget(encoding, ua.ReferenceTypeIDHasEncoding, uris))
		if !ok {
			log.Printf("Error finding data type of encoding %s.\n", encodingID)
			continue
		}
		if err := reg.Bind(desc.BrowseName().Name, dataType.NodeID(), encodingID); err != nil {
			log.Printf("Error binding description %s. %s\n", desc.NodeID(), err)
		}
	}
}

func inverseTarget(n Node, referenceTypeID ua.NodeID, uris []string) ua.NodeID {
	for _, r := range n.References() {
		if r.IsInverse && r.ReferenceTypeID == referenceTypeID {
			return ua.ToNodeID(r.TargetID, uris)
		}
	}
	return ua.NilNodeID
}
