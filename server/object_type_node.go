// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"github.com/awcullen/opcua-typedict/ua"
)

// ObjectTypeNode is a node of class ObjectType.
type ObjectTypeNode struct {
	nodeBase
	isAbstract bool
}

var _ Node = (*ObjectTypeNode)(nil)

// NewObjectTypeNode ...
func NewObjectTypeNode(nodeID ua.NodeID, browseName ua.QualifiedName, displayName ua.LocalizedText, description ua.LocalizedText, references []ua.Reference, isAbstract bool) *ObjectTypeNode {
	return &ObjectTypeNode{
		nodeBase:   newNodeBase(ua.NodeClassObjectType, nodeID, browseName, displayName, description, references),
		isAbstract: isAbstract,
	}
}

// IsAbstract returns the IsAbstract attribute of this node.
func (n *ObjectTypeNode) IsAbstract() bool {
	return n.isAbstract
}
