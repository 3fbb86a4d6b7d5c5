// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"github.com/awcullen/opcua-typedict/ua"
)

// ObjectNode is a node of class Object.
type ObjectNode struct {
	nodeBase
	eventNotifier byte
}

var _ Node = (*ObjectNode)(nil)

// NewObjectNode ...
func NewObjectNode(nodeID ua.NodeID, browseName ua.QualifiedName, displayName ua.LocalizedText, description ua.LocalizedText, references []ua.Reference, eventNotifier byte) *ObjectNode {
	return &ObjectNode{
		nodeBase:      newNodeBase(ua.NodeClassObject, nodeID, browseName, displayName, description, references),
		eventNotifier: eventNotifier,
	}
}

// EventNotifier returns the EventNotifier attribute of this node.
func (n *ObjectNode) EventNotifier() byte {
	return n.eventNotifier
}
