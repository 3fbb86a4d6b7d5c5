// Copyright 2021 Converter Systems LLC. All rights reserved.

// Package typedict registers custom structures in the address space of a
// server and publishes them in an OPC Binary type dictionary, so that clients
// can discover and decode them.
//
// A DataTypeDictionaryBuilder owns one dictionary node. Each structure gets a
// DataType node, a description node below the dictionary and a "Default Binary"
// encoding node. Fields are added through the returned StructNode, and
// SetDictByteString writes the rendered dictionary to the dictionary node.
//
// The builder is not safe for concurrent use.
package typedict

import (
	"context"

	"github.com/awcullen/opcua-typedict/ua"
	"github.com/pkg/errors"
)

// DataTypeDictionaryBuilder creates structures in the address space and keeps
// the dictionary that describes them.
type DataTypeDictionaryBuilder struct {
	nm           NodeManager
	nsIdx        uint16
	namespaceURI string
	dictName     string
	description  string
	idBase       uint32
	ids          *IDAllocator
	typeDict     *OPCTypeDictionaryBuilder
	graph        *typeGraph
	dictID       ua.NodeID
	structs      map[string]*StructNode
}

// Option is a functional option to be applied to a builder during initialization.
type Option func(*DataTypeDictionaryBuilder) error

// WithIDBase sets the value after which NodeIDs are issued.
func WithIDBase(base uint32) Option {
	return func(b *DataTypeDictionaryBuilder) error {
		b.idBase = base
		return nil
	}
}

// WithDictionaryDescription sets the description of the dictionary node.
func WithDictionaryDescription(text string) Option {
	return func(b *DataTypeDictionaryBuilder) error {
		b.description = text
		return nil
	}
}

// NewDataTypeDictionaryBuilder returns a builder of the dictionary with the
// given name. NodeIDs are issued in the namespace with the given index, and
// the dictionary's target namespace is namespaceURI.
func NewDataTypeDictionaryBuilder(nm NodeManager, nsIdx uint16, namespaceURI string, dictName string, opts ...Option) (*DataTypeDictionaryBuilder, error) {
	if nm == nil {
		return nil, errors.New("node manager is nil")
	}
	if dictName == "" {
		return nil, errors.New("dictionary name is empty")
	}
	b := &DataTypeDictionaryBuilder{
		nm:           nm,
		nsIdx:        nsIdx,
		namespaceURI: namespaceURI,
		dictName:     dictName,
		idBase:       DefaultIDBase,
		typeDict:     NewOPCTypeDictionaryBuilder(namespaceURI),
		structs:      make(map[string]*StructNode),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	b.ids = NewIDAllocator(nsIdx, b.idBase)
	b.graph = &typeGraph{nm: nm, ids: b.ids, nsIdx: nsIdx}
	return b, nil
}

// Init finds the dictionary node in the OPC Binary type system, or creates it.
// Calling Init again has no effect.
func (b *DataTypeDictionaryBuilder) Init(ctx context.Context) error {
	if !b.dictID.IsNil() {
		return nil
	}
	browseName := ua.NewQualifiedName(b.nsIdx, b.dictName)
	id, err := b.nm.BrowseChild(ctx, ua.ObjectIDOPCBinarySchemaTypeSystem, ua.ReferenceTypeIDHasComponent, browseName)
	switch errors.Cause(err) {
	case nil:
	case ua.BadNoMatch:
		id, err = b.graph.createNode(ctx, ua.AddNodesItem{
			ParentNodeID:    ua.NewExpandedNodeID(ua.ObjectIDOPCBinarySchemaTypeSystem),
			ReferenceTypeID: ua.ReferenceTypeIDHasComponent,
			BrowseName:      browseName,
			NodeClass:       ua.NodeClassVariable,
			NodeAttributes: ua.VariableAttributes{
				DisplayName: ua.NewLocalizedText(b.dictName, ""),
				Description: ua.NewLocalizedText(b.description, ""),
				DataType:    ua.DataTypeIDByteString,
				ValueRank:   ua.ValueRankScalar,
				AccessLevel: ua.AccessLevelsCurrentRead,
			},
			TypeDefinition: ua.NewExpandedNodeID(ua.VariableTypeIDDataTypeDictionaryType),
		})
		if err != nil {
			return errors.Wrapf(err, "creating dictionary %s", b.dictName)
		}
	default:
		return errors.Wrapf(err, "browsing dictionary %s", b.dictName)
	}
	b.dictID = id
	b.graph.dictID = id
	return nil
}

// DictID returns the NodeID of the dictionary node, or ua.NilNodeID before Init.
func (b *DataTypeDictionaryBuilder) DictID() ua.NodeID {
	return b.dictID
}

// NamespaceIndex returns the index of the namespace of the issued NodeIDs.
func (b *DataTypeDictionaryBuilder) NamespaceIndex() uint16 {
	return b.nsIdx
}

// TypeDictionary returns the dictionary of the structures created so far.
func (b *DataTypeDictionaryBuilder) TypeDictionary() *OPCTypeDictionaryBuilder {
	return b.typeDict
}

// CreateDataType creates the nodes of a structure and appends the structure,
// without fields, to the dictionary. The name is converted with ToCamelCase.
// Creating a structure again returns the same StructNode and clears its
// fields; no new nodes are created. A name that converts to the name of a
// builtin type, e.g. "string", is rejected with ErrReservedName.
func (b *DataTypeDictionaryBuilder) CreateDataType(ctx context.Context, name string) (*StructNode, error) {
	if err := b.Init(ctx); err != nil {
		return nil, err
	}
	canonical := ToCamelCase(name)
	if _, ok := ua.FindBuiltinType(canonical); ok {
		return nil, errors.Wrapf(ErrReservedName, "%q", name)
	}
	if s, ok := b.structs[canonical]; ok {
		if err := b.nm.WriteValue(ctx, s.description, ua.DataValue{Value: name}); err != nil {
			return nil, errors.Wrapf(err, "updating description of %s", canonical)
		}
		b.typeDict.AppendStruct(name)
		return s, nil
	}
	nodes, err := b.graph.createStructureNodes(ctx, name)
	if err != nil {
		return nil, err
	}
	b.typeDict.AppendStruct(name)
	s := &StructNode{
		builder:        b,
		name:           canonical,
		structureNodes: nodes,
	}
	b.structs[canonical] = s
	return s, nil
}

// AddField appends a field to the named structure. The field type is a
// builtin type or a structure of this dictionary.
func (b *DataTypeDictionaryBuilder) AddField(fieldType TypeRef, fieldName string, structName string, isArray bool) error {
	return b.typeDict.AddField(fieldType, fieldName, structName, isArray)
}

// SetDictByteString renders the dictionary and writes it to the dictionary
// node, replacing the previous document.
func (b *DataTypeDictionaryBuilder) SetDictByteString(ctx context.Context) error {
	if b.dictID.IsNil() {
		return errors.Errorf("dictionary %s is not initialized", b.dictName)
	}
	doc, err := b.typeDict.Value()
	if err != nil {
		return err
	}
	if err := b.nm.WriteValue(ctx, b.dictID, ua.DataValue{Value: ua.ByteString(doc)}); err != nil {
		return errors.Wrapf(err, "writing dictionary %s", b.dictName)
	}
	return nil
}

// AllocatedRange returns every NodeID issued by the builder, in order.
// Identifiers skipped because they were in use are included.
func (b *DataTypeDictionaryBuilder) AllocatedRange() []ua.NodeID {
	return b.ids.Issued()
}
