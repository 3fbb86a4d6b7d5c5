// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"sync"

	"github.com/awcullen/opcua-typedict/ua"
)

// VariableNode is a node of class Variable.
type VariableNode struct {
	nodeBase
	valueLock       sync.RWMutex
	value           ua.DataValue
	dataType        ua.NodeID
	valueRank       int32
	arrayDimensions []uint32
	accessLevel     byte
	historizing     bool
}

var _ Node = (*VariableNode)(nil)

// NewVariableNode ...
func NewVariableNode(nodeID ua.NodeID, browseName ua.QualifiedName, displayName ua.LocalizedText, description ua.LocalizedText, references []ua.Reference, value ua.DataValue, dataType ua.NodeID, valueRank int32, arrayDimensions []uint32, accessLevel byte, historizing bool) *VariableNode {
	return &VariableNode{
		nodeBase:        newNodeBase(ua.NodeClassVariable, nodeID, browseName, displayName, description, references),
		value:           value,
		dataType:        dataType,
		valueRank:       valueRank,
		arrayDimensions: arrayDimensions,
		accessLevel:     accessLevel,
		historizing:     historizing,
	}
}

// Value returns the value of the Variable.
func (n *VariableNode) Value() ua.DataValue {
	n.valueLock.RLock()
	res := n.value
	n.valueLock.RUnlock()
	return res
}

// SetValue sets the value of the Variable.
func (n *VariableNode) SetValue(value ua.DataValue) {
	n.valueLock.Lock()
	n.value = value
	n.valueLock.Unlock()
}

// DataType returns the DataType attribute of this node.
func (n *VariableNode) DataType() ua.NodeID {
	return n.dataType
}

// ValueRank returns the ValueRank attribute of this node.
func (n *VariableNode) ValueRank() int32 {
	return n.valueRank
}

// ArrayDimensions returns the ArrayDimensions attribute of this node.
func (n *VariableNode) ArrayDimensions() []uint32 {
	return n.arrayDimensions
}

// AccessLevel returns the AccessLevel attribute of this node.
func (n *VariableNode) AccessLevel() byte {
	return n.accessLevel
}

// Historizing returns the Historizing attribute of this node.
func (n *VariableNode) Historizing() bool {
	return n.historizing
}
