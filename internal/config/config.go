// Copyright 2021 Converter Systems LLC. All rights reserved.

// Package config reads structure definitions from HCL files.
//
//	namespace  = "http://example.org/types"
//	dictionary = "TypeDictionary"
//
//	structure "basic_structure" {
//	  field "ID" { type = Int32 }
//	  field "Values" {
//	    type  = Double
//	    array = true
//	  }
//	}
//
// Builtin types may be written as bare identifiers. Any other type is the name
// of a structure of the same file.
package config

import (
	"context"

	"github.com/awcullen/opcua-typedict/typedict"
	"github.com/awcullen/opcua-typedict/ua"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

// DefaultDictionary is the name of the dictionary when none is configured.
const DefaultDictionary = "TypeDictionary"

// File is the content of a definition file.
type File struct {
	Namespace   string       `hcl:"namespace"`
	Dictionary  string       `hcl:"dictionary,optional"`
	Description string       `hcl:"description,optional"`
	IDBase      *uint32      `hcl:"id_base,optional"`
	Structures  []*Structure `hcl:"structure,block"`
}

// Structure is a structure block.
type Structure struct {
	Name   string   `hcl:"name,label"`
	Fields []*Field `hcl:"field,block"`
}

// Field is a field block of a structure.
type Field struct {
	Name  string `hcl:"name,label"`
	Type  string `hcl:"type"`
	Array bool   `hcl:"array,optional"`
}

// Load reads the definition file at path.
func Load(path string) (*File, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "parsing %s", path)
	}
	return decode(f)
}

// Parse reads a definition from src. The filename is used in error messages.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "parsing %s", filename)
	}
	return decode(f)
}

func decode(f *hcl.File) (*File, error) {
	var file File
	if diags := gohcl.DecodeBody(f.Body, evalContext(), &file); diags.HasErrors() {
		return nil, errors.Wrap(diags, "decoding definitions")
	}
	if file.Dictionary == "" {
		file.Dictionary = DefaultDictionary
	}
	if err := file.validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// evalContext exposes the builtin types as variables holding their names.
func evalContext() *hcl.EvalContext {
	vars := map[string]cty.Value{}
	for t := ua.BuiltinTypeBoolean; t <= ua.BuiltinTypeDiagnosticInfo; t++ {
		vars[t.String()] = cty.StringVal(t.String())
	}
	return &hcl.EvalContext{Variables: vars}
}

func (f *File) validate() error {
	if f.Namespace == "" {
		return errors.New("namespace is empty")
	}
	seen := map[string]string{}
	for _, s := range f.Structures {
		name := typedict.ToCamelCase(s.Name)
		if name == "" {
			return errors.Errorf("structure %q has no usable name", s.Name)
		}
		if prev, ok := seen[name]; ok {
			return errors.Errorf("structures %q and %q are both named %s", prev, s.Name, name)
		}
		seen[name] = s.Name
		for _, fld := range s.Fields {
			if fld.Type == "" {
				return errors.Errorf("field %s.%s has no type", s.Name, fld.Name)
			}
		}
	}
	return nil
}

// Options returns the builder options configured by the file.
func (f *File) Options() []typedict.Option {
	opts := []typedict.Option{}
	if f.IDBase != nil {
		opts = append(opts, typedict.WithIDBase(*f.IDBase))
	}
	if f.Description != "" {
		opts = append(opts, typedict.WithDictionaryDescription(f.Description))
	}
	return opts
}

// Apply creates the structures of the file with the builder. Every structure
// is created before fields are added, so fields may refer to structures
// defined later in the file.
func (f *File) Apply(ctx context.Context, b *typedict.DataTypeDictionaryBuilder) ([]*typedict.StructNode, error) {
	nodes := make([]*typedict.StructNode, 0, len(f.Structures))
	for _, s := range f.Structures {
		n, err := b.CreateDataType(ctx, s.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "structure %s", s.Name)
		}
		nodes = append(nodes, n)
	}
	for i, s := range f.Structures {
		for _, fld := range s.Fields {
			var err error
			if fld.Array {
				err = nodes[i].AddArrayField(fld.Name, typedict.TypeName(fld.Type))
			} else {
				err = nodes[i].AddField(fld.Name, typedict.TypeName(fld.Type))
			}
			if err != nil {
				return nil, errors.Wrapf(err, "field %s.%s of type %s", s.Name, fld.Name, fld.Type)
			}
		}
	}
	return nodes, nil
}
