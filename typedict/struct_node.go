// Copyright 2021 Converter Systems LLC. All rights reserved.

package typedict

import (
	"github.com/awcullen/opcua-typedict/ua"
)

// StructNode is a structure created by a DataTypeDictionaryBuilder. A
// StructNode may be used as the type of a field of another structure.
type StructNode struct {
	builder *DataTypeDictionaryBuilder
	name    string
	structureNodes
}

// Name returns the name of the structure, as converted with ToCamelCase.
func (s *StructNode) Name() string {
	return s.name
}

// TypeName returns the name of the structure.
func (s *StructNode) TypeName() string {
	return s.name
}

// DataType returns the NodeID of the DataType node.
func (s *StructNode) DataType() ua.NodeID {
	return s.dataType
}

// Encoding returns the NodeID of the "Default Binary" encoding node.
func (s *StructNode) Encoding() ua.NodeID {
	return s.encoding
}

// Description returns the NodeID of the description node in the dictionary.
func (s *StructNode) Description() ua.NodeID {
	return s.description
}

// AddField appends a scalar field to the structure.
func (s *StructNode) AddField(name string, typ TypeRef) error {
	return s.builder.AddField(typ, name, s.name, false)
}

// AddArrayField appends an array field, preceded by its length field, to the structure.
func (s *StructNode) AddArrayField(name string, typ TypeRef) error {
	return s.builder.AddField(typ, name, s.name, true)
}
