// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"context"
	"sync"
	"testing"

	"github.com/awcullen/opcua-typedict/binaryschema"
	"github.com/awcullen/opcua-typedict/ua"
	"github.com/pkg/errors"
	"gotest.tools/assert"
)

const pointDictionary = `<?xml version="1.0" encoding="utf-8"?>
<opc:TypeDictionary xmlns:opc="http://opcfoundation.org/BinarySchema/" xmlns:ua="http://opcfoundation.org/UA/" xmlns:tns="http://test.org/types" DefaultByteOrder="LittleEndian" TargetNamespace="http://test.org/types">
  <opc:Import Namespace="http://opcfoundation.org/UA/"/>
  <opc:StructuredType BaseType="ua:ExtensionObject" Name="Point">
    <opc:Field Name="X" TypeName="opc:Double"/>
    <opc:Field Name="Y" TypeName="opc:Double"/>
  </opc:StructuredType>
</opc:TypeDictionary>`

// defineStructure builds the nodes that describe a structure in the binary type system.
func defineStructure(t *testing.T, nm *NamespaceManager, ns uint16, name string, doc string) (dataTypeID, encodingID ua.NodeID) {
	ctx := context.Background()
	dictID := ua.NewNodeIDNumeric(ns, 100)
	dataTypeID = ua.NewNodeIDNumeric(ns, 101)
	encodingID = ua.NewNodeIDNumeric(ns, 102)
	descID := ua.NewNodeIDNumeric(ns, 103)

	_, err := nm.CreateNode(ctx, ua.AddNodesItem{
		ParentNodeID:       ua.NewExpandedNodeID(ua.ObjectIDOPCBinarySchemaTypeSystem),
		ReferenceTypeID:    ua.ReferenceTypeIDHasComponent,
		RequestedNewNodeID: ua.NewExpandedNodeID(dictID),
		BrowseName:         ua.NewQualifiedName(ns, "TestTypes"),
		NodeClass:          ua.NodeClassVariable,
		NodeAttributes: ua.VariableAttributes{
			Value:     ua.ByteString(doc),
			DataType:  ua.DataTypeIDByteString,
			ValueRank: ua.ValueRankScalar,
		},
		TypeDefinition: ua.NewExpandedNodeID(ua.VariableTypeIDDataTypeDictionaryType),
	})
	assert.NilError(t, err)
	_, err = nm.CreateNode(ctx, ua.AddNodesItem{
		ParentNodeID:       ua.NewExpandedNodeID(ua.DataTypeIDStructure),
		ReferenceTypeID:    ua.ReferenceTypeIDHasSubtype,
		RequestedNewNodeID: ua.NewExpandedNodeID(dataTypeID),
		BrowseName:         ua.NewQualifiedName(ns, name),
		NodeClass:          ua.NodeClassDataType,
	})
	assert.NilError(t, err)
	_, err = nm.CreateNode(ctx, ua.AddNodesItem{
		ParentNodeID:       ua.NewExpandedNodeID(dataTypeID),
		ReferenceTypeID:    ua.ReferenceTypeIDHasEncoding,
		RequestedNewNodeID: ua.NewExpandedNodeID(encodingID),
		BrowseName:         ua.NewQualifiedName(0, "Default Binary"),
		NodeClass:          ua.NodeClassObject,
		TypeDefinition:     ua.NewExpandedNodeID(ua.ObjectTypeIDDataTypeEncodingType),
	})
	assert.NilError(t, err)
	_, err = nm.CreateNode(ctx, ua.AddNodesItem{
		ParentNodeID:       ua.NewExpandedNodeID(dictID),
		ReferenceTypeID:    ua.ReferenceTypeIDHasComponent,
		RequestedNewNodeID: ua.NewExpandedNodeID(descID),
		BrowseName:         ua.NewQualifiedName(ns, name),
		NodeClass:          ua.NodeClassVariable,
		NodeAttributes: ua.VariableAttributes{
			Value:     name,
			DataType:  ua.DataTypeIDString,
			ValueRank: ua.ValueRankScalar,
		},
		TypeDefinition: ua.NewExpandedNodeID(ua.VariableTypeIDDataTypeDescriptionType),
	})
	assert.NilError(t, err)
	err = nm.AddReference(ctx, ua.AddReferencesItem{
		SourceNodeID:    encodingID,
		ReferenceTypeID: ua.ReferenceTypeIDHasDescription,
		IsForward:       true,
		TargetNodeID:    ua.NewExpandedNodeID(descID),
	})
	assert.NilError(t, err)
	return dataTypeID, encodingID
}

func TestLoadTypeDefinitions(t *testing.T) {
	srv := createTestServer(t)
	defer srv.Close()
	nm := srv.NamespaceManager()
	ns := nm.Add("http://test.org/types")
	dataTypeID, encodingID := defineStructure(t, nm, ns, "Point", pointDictionary)

	reg, err := srv.LoadTypeDefinitions(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, srv.TypeRegistry(), reg)

	st, err := reg.Lookup("Point")
	assert.NilError(t, err)
	assert.Equal(t, st.DataTypeID, dataTypeID)
	assert.Equal(t, st.EncodingID, encodingID)
	assert.Equal(t, len(st.Fields), 2)

	rec := st.New()
	assert.NilError(t, rec.Set("X", 1.5))
	eo, err := reg.Encode(rec)
	assert.NilError(t, err)
	assert.Equal(t, eo.TypeID, encodingID)
	got, err := reg.Decode(eo)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, rec)
}

func TestLoadTypeDefinitionsInvalidDictionary(t *testing.T) {
	srv := createTestServer(t)
	defer srv.Close()
	nm := srv.NamespaceManager()
	ns := nm.Add("http://test.org/types")
	defineStructure(t, nm, ns, "Point", "<opc:TypeDictionary")

	_, err := srv.LoadTypeDefinitions(context.Background())
	assert.ErrorContains(t, err, "dictionary ns=")
}

func TestLoadTypeDefinitionsEmpty(t *testing.T) {
	srv := createTestServer(t)
	defer srv.Close()

	reg, err := srv.LoadTypeDefinitions(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, len(reg.Types()), 0)
	_, err = reg.Lookup("Point")
	assert.Equal(t, errors.Cause(err), binaryschema.ErrNotFound)
}

func TestLoadTypeDefinitionsClosed(t *testing.T) {
	srv := createTestServer(t)
	srv.Close()
	_, err := srv.LoadTypeDefinitions(context.Background())
	assert.Equal(t, err, ErrServerClosed)
}

func TestLoadTypeDefinitionsConcurrentClose(t *testing.T) {
	srv := createTestServer(t)
	nm := srv.NamespaceManager()
	ns := nm.Add("http://test.org/types")
	defineStructure(t, nm, ns, "Point", pointDictionary)

	const loaders = 8
	errs := make(chan error, loaders)
	var wg sync.WaitGroup
	for i := 0; i < loaders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := srv.LoadTypeDefinitions(context.Background())
			errs <- err
		}()
	}
	assert.NilError(t, srv.Close())
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.Assert(t, err == nil || err == ErrServerClosed, "unexpected error %v", err)
	}
}
