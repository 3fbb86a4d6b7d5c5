// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"github.com/awcullen/opcua-typedict/ua"
)

// VariableTypeNode is a node of class VariableType.
type VariableTypeNode struct {
	nodeBase
	dataType   ua.NodeID
	valueRank  int32
	isAbstract bool
}

var _ Node = (*VariableTypeNode)(nil)

// NewVariableTypeNode ...
func NewVariableTypeNode(nodeID ua.NodeID, browseName ua.QualifiedName, displayName ua.LocalizedText, description ua.LocalizedText, references []ua.Reference, dataType ua.NodeID, valueRank int32, isAbstract bool) *VariableTypeNode {
	return &VariableTypeNode{
		nodeBase:   newNodeBase(ua.NodeClassVariableType, nodeID, browseName, displayName, description, references),
		dataType:   dataType,
		valueRank:  valueRank,
		isAbstract: isAbstract,
	}
}

// DataType returns the DataType attribute of this node.
func (n *VariableTypeNode) DataType() ua.NodeID {
	return n.dataType
}

// ValueRank returns the ValueRank attribute of this node.
func (n *VariableTypeNode) ValueRank() int32 {
	return n.valueRank
}

// IsAbstract returns the IsAbstract attribute of this node.
func (n *VariableTypeNode) IsAbstract() bool {
	return n.isAbstract
}
