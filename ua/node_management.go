// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

// AddNodesItem describes a Node to add to the address space.
// See https://reference.opcfoundation.org/v104/Core/docs/Part4/5.7.2/
type AddNodesItem struct {
	ParentNodeID       ExpandedNodeID
	ReferenceTypeID    NodeID
	RequestedNewNodeID ExpandedNodeID
	BrowseName         QualifiedName
	NodeClass          NodeClass
	NodeAttributes     any
	TypeDefinition     ExpandedNodeID
}

// ObjectAttributes are the attributes of an Object node.
type ObjectAttributes struct {
	DisplayName   LocalizedText
	Description   LocalizedText
	EventNotifier byte
}

// VariableAttributes are the attributes of a Variable node.
type VariableAttributes struct {
	DisplayName     LocalizedText
	Description     LocalizedText
	Value           any
	DataType        NodeID
	ValueRank       int32
	ArrayDimensions []uint32
	AccessLevel     byte
	UserAccessLevel byte
	Historizing     bool
}

// DataTypeAttributes are the attributes of a DataType node.
type DataTypeAttributes struct {
	DisplayName LocalizedText
	Description LocalizedText
	IsAbstract  bool
}

// AddReferencesItem describes a Reference to add to the address space.
// See https://reference.opcfoundation.org/v104/Core/docs/Part4/5.7.3/
type AddReferencesItem struct {
	SourceNodeID    NodeID
	ReferenceTypeID NodeID
	IsForward       bool
	TargetServerURI string
	TargetNodeID    ExpandedNodeID
	TargetNodeClass NodeClass
}

// AccessLevels
const (
	AccessLevelsNone         byte = 0
	AccessLevelsCurrentRead  byte = 1
	AccessLevelsCurrentWrite byte = 2
)
