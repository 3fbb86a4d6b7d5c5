// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"sync"

	"github.com/awcullen/opcua-typedict/ua"
)

// Node is a node of the address space.
type Node interface {
	NodeID() ua.NodeID
	NodeClass() ua.NodeClass
	BrowseName() ua.QualifiedName
	DisplayName() ua.LocalizedText
	Description() ua.LocalizedText
	References() []ua.Reference
	SetReferences([]ua.Reference)
}

// nodeBase holds the attributes common to all node classes.
type nodeBase struct {
	sync.RWMutex
	nodeID      ua.NodeID
	nodeClass   ua.NodeClass
	browseName  ua.QualifiedName
	displayName ua.LocalizedText
	description ua.LocalizedText
	references  []ua.Reference
}

func newNodeBase(nodeClass ua.NodeClass, nodeID ua.NodeID, browseName ua.QualifiedName, displayName ua.LocalizedText, description ua.LocalizedText, references []ua.Reference) nodeBase {
	if references == nil {
		references = []ua.Reference{}
	}
	return nodeBase{
		nodeID:      nodeID,
		nodeClass:   nodeClass,
		browseName:  browseName,
		displayName: displayName,
		description: description,
		references:  references,
	}
}

// NodeID returns the NodeID attribute of this node.
func (n *nodeBase) NodeID() ua.NodeID {
	return n.nodeID
}

// NodeClass returns the NodeClass attribute of this node.
func (n *nodeBase) NodeClass() ua.NodeClass {
	return n.nodeClass
}

// BrowseName returns the BrowseName attribute of this node.
func (n *nodeBase) BrowseName() ua.QualifiedName {
	return n.browseName
}

// DisplayName returns the DisplayName attribute of this node.
func (n *nodeBase) DisplayName() ua.LocalizedText {
	return n.displayName
}

// Description returns the Description attribute of this node.
func (n *nodeBase) Description() ua.LocalizedText {
	return n.description
}

// References returns the References of this node.
func (n *nodeBase) References() []ua.Reference {
	n.RLock()
	res := n.references
	n.RUnlock()
	return res
}

// SetReferences sets the References of this node.
func (n *nodeBase) SetReferences(value []ua.Reference) {
	n.Lock()
	n.references = value
	n.Unlock()
}

// typeDefinition returns the target of the HasTypeDefinition reference, if any.
func typeDefinition(n Node) ua.NodeID {
	for _, r := range n.References() {
		if !r.IsInverse && r.ReferenceTypeID == ua.ReferenceTypeIDHasTypeDefinition {
			return r.TargetID.NodeID
		}
	}
	return ua.NilNodeID
}
