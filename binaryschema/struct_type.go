// Copyright 2021 Converter Systems LLC. All rights reserved.

package binaryschema

import (
	"github.com/awcullen/opcua-typedict/ua"
)

// StructType describes a structure of a dictionary, with the nodes that
// identify it in the address space.
type StructType struct {
	Name       string
	Namespace  string
	Fields     []*FieldDescriptor
	DataTypeID ua.NodeID
	EncodingID ua.NodeID
	index      map[string]int
}

// FieldDescriptor describes a field of a StructType. Exactly one of Builtin
// and Struct identifies the type of the field.
type FieldDescriptor struct {
	Name     string
	TypeName string
	Builtin  ua.BuiltinType
	Struct   *StructType
	IsArray  bool
}

// Field returns the field with the given name.
func (t *StructType) Field(name string) (*FieldDescriptor, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.Fields[i], true
}

// New returns a record of this type with every field set to its default.
// Scalars default to their zero value, arrays to an empty slice and nested
// structures to a new record.
func (t *StructType) New() *Record {
	rec := &Record{typ: t, values: make([]any, len(t.Fields))}
	for i, f := range t.Fields {
		rec.values[i] = f.zero()
	}
	return rec
}

// String returns the name of the structure.
func (t *StructType) String() string {
	return t.Name
}
