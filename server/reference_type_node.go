// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"github.com/awcullen/opcua-typedict/ua"
)

// ReferenceTypeNode is a node of class ReferenceType.
type ReferenceTypeNode struct {
	nodeBase
	isAbstract  bool
	symmetric   bool
	inverseName ua.LocalizedText
}

var _ Node = (*ReferenceTypeNode)(nil)

// NewReferenceTypeNode ...
func NewReferenceTypeNode(nodeID ua.NodeID, browseName ua.QualifiedName, displayName ua.LocalizedText, description ua.LocalizedText, references []ua.Reference, isAbstract bool, symmetric bool, inverseName ua.LocalizedText) *ReferenceTypeNode {
	return &ReferenceTypeNode{
		nodeBase:    newNodeBase(ua.NodeClassReferenceType, nodeID, browseName, displayName, description, references),
		isAbstract:  isAbstract,
		symmetric:   symmetric,
		inverseName: inverseName,
	}
}

// IsAbstract returns the IsAbstract attribute of this node.
func (n *ReferenceTypeNode) IsAbstract() bool {
	return n.isAbstract
}

// Symmetric returns the Symmetric attribute of this node.
func (n *ReferenceTypeNode) Symmetric() bool {
	return n.symmetric
}

// InverseName returns the InverseName attribute of this node.
func (n *ReferenceTypeNode) InverseName() ua.LocalizedText {
	return n.inverseName
}
