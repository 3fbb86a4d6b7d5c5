// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"github.com/awcullen/opcua-typedict/ua"
)

// DataTypeNode is a node of class DataType.
type DataTypeNode struct {
	nodeBase
	isAbstract bool
}

var _ Node = (*DataTypeNode)(nil)

// NewDataTypeNode ...
func NewDataTypeNode(nodeID ua.NodeID, browseName ua.QualifiedName, displayName ua.LocalizedText, description ua.LocalizedText, references []ua.Reference, isAbstract bool) *DataTypeNode {
	return &DataTypeNode{
		nodeBase:   newNodeBase(ua.NodeClassDataType, nodeID, browseName, displayName, description, references),
		isAbstract: isAbstract,
	}
}

// IsAbstract returns the IsAbstract attribute of this node.
func (n *DataTypeNode) IsAbstract() bool {
	return n.isAbstract
}
