// Copyright 2021 Converter Systems LLC. All rights reserved.

package typedict

import (
	"context"

	"github.com/awcullen/opcua-typedict/ua"
	"github.com/pkg/errors"
)

// NodeManager is the address space in which the dictionary and its
// structures are created. *server.NamespaceManager implements it.
type NodeManager interface {
	CreateNode(ctx context.Context, item ua.AddNodesItem) (ua.NodeID, error)
	AddReference(ctx context.Context, item ua.AddReferencesItem) error
	ReadValue(ctx context.Context, id ua.NodeID) (ua.DataValue, error)
	WriteValue(ctx context.Context, id ua.NodeID, value ua.DataValue) error
	BrowseChild(ctx context.Context, parentID ua.NodeID, referenceTypeID ua.NodeID, browseName ua.QualifiedName) (ua.NodeID, error)
}

// structureNodes identifies the nodes that describe one structure.
type structureNodes struct {
	dataType    ua.NodeID
	description ua.NodeID
	encoding    ua.NodeID
}

// typeGraph creates the nodes of structures below a dictionary node.
type typeGraph struct {
	nm     NodeManager
	ids    *IDAllocator
	nsIdx  uint16
	dictID ua.NodeID
}

// createNode adds the node with a new identifier. Identifiers already in
// use by the address space are skipped.
func (g *typeGraph) createNode(ctx context.Context, item ua.AddNodesItem) (ua.NodeID, error) {
	for {
		next, err := g.ids.Next()
		if err != nil {
			return ua.NilNodeID, err
		}
		item.RequestedNewNodeID = ua.NewExpandedNodeID(next)
		id, err := g.nm.CreateNode(ctx, item)
		if errors.Cause(err) == ua.BadNodeIDExists {
			continue
		}
		return id, err
	}
}

// createStructureNodes adds the DataType, description and encoding nodes of
// the named structure. The DataType is a subtype of Structure. The description
// is a component of the dictionary holding the name as given. The encoding is
// linked from the DataType and to the description. Steps that succeeded before
// a failure are not undone.
func (g *typeGraph) createStructureNodes(ctx context.Context, name string) (structureNodes, error) {
	var nodes structureNodes
	canonical := ToCamelCase(name)
	browseName := ua.NewQualifiedName(g.nsIdx, canonical)
	displayName := ua.NewLocalizedText(canonical, "")

	var err error
	nodes.dataType, err = g.createNode(ctx, ua.AddNodesItem{
		ParentNodeID:    ua.NewExpandedNodeID(ua.DataTypeIDStructure),
		ReferenceTypeID: ua.ReferenceTypeIDHasSubtype,
		BrowseName:      browseName,
		NodeClass:       ua.NodeClassDataType,
		NodeAttributes:  ua.DataTypeAttributes{DisplayName: displayName},
	})
	if err != nil {
		return nodes, errors.Wrapf(err, "creating data type %s", canonical)
	}

	nodes.description, err = g.createNode(ctx, ua.AddNodesItem{
		ParentNodeID:    ua.NewExpandedNodeID(g.dictID),
		ReferenceTypeID: ua.ReferenceTypeIDHasComponent,
		BrowseName:      browseName,
		NodeClass:       ua.NodeClassVariable,
		NodeAttributes: ua.VariableAttributes{
			DisplayName: displayName,
			Value:       name,
			DataType:    ua.DataTypeIDString,
			ValueRank:   ua.ValueRankScalar,
			AccessLevel: ua.AccessLevelsCurrentRead,
		},
		TypeDefinition: ua.NewExpandedNodeID(ua.VariableTypeIDDataTypeDescriptionType),
	})
	if err != nil {
		return nodes, errors.Wrapf(err, "creating description of %s", canonical)
	}

	nodes.encoding, err = g.createNode(ctx, ua.AddNodesItem{
		ParentNodeID:    ua.NewExpandedNodeID(nodes.dataType),
		ReferenceTypeID: ua.ReferenceTypeIDHasEncoding,
		BrowseName:      ua.NewQualifiedName(0, "Default Binary"),
		NodeClass:       ua.NodeClassObject,
		NodeAttributes:  ua.ObjectAttributes{DisplayName: ua.NewLocalizedText("Default Binary", "")},
		TypeDefinition:  ua.NewExpandedNodeID(ua.ObjectTypeIDDataTypeEncodingType),
	})
	if err != nil {
		return nodes, errors.Wrapf(err, "creating encoding of %s", canonical)
	}

	err = g.nm.AddReference(ctx, referenceItem(nodes.encoding, nodes.description, ua.ReferenceTypeIDHasDescription, true, ua.NodeClassVariable))
	if err != nil {
		return nodes, errors.Wrapf(err, "linking encoding of %s", canonical)
	}
	return nodes, nil
}

// referenceItem returns the request to add a reference from source to target.
func referenceItem(source, target, referenceTypeID ua.NodeID, isForward bool, targetNodeClass ua.NodeClass) ua.AddReferencesItem {
	return ua.AddReferencesItem{
		SourceNodeID:    source,
		ReferenceTypeID: referenceTypeID,
		IsForward:       isForward,
		TargetNodeID:    ua.NewExpandedNodeID(target),
		TargetNodeClass: targetNodeClass,
	}
}
