// Copyright 2021 Converter Systems LLC. All rights reserved.

package typedict_test

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/awcullen/opcua-typedict/binaryschema"
	"github.com/awcullen/opcua-typedict/server"
	"github.com/awcullen/opcua-typedict/typedict"
	"github.com/awcullen/opcua-typedict/ua"
	"github.com/pkg/errors"
	"gotest.tools/assert"
)

const testNamespace = "http://test.freeopcua.github.io"

func newTestServer(t *testing.T) (*server.Server, uint16) {
	srv, err := server.New("urn:localhost:typedict-test", server.WithMaxWorkerThreads(2))
	assert.NilError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv, srv.NamespaceManager().Add(testNamespace)
}

func newTestBuilder(t *testing.T, opts ...typedict.Option) (*server.Server, *typedict.DataTypeDictionaryBuilder) {
	srv, ns := newTestServer(t)
	b, err := typedict.NewDataTypeDictionaryBuilder(srv.NamespaceManager(), ns, testNamespace, "TypeDictionary", opts...)
	assert.NilError(t, err)
	assert.NilError(t, b.Init(context.Background()))
	return srv, b
}

func hasReference(n server.Node, referenceTypeID ua.NodeID, isInverse bool, target ua.NodeID) bool {
	for _, r := range n.References() {
		if r.ReferenceTypeID == referenceTypeID && r.IsInverse == isInverse && r.TargetID.NodeID == target {
			return true
		}
	}
	return false
}

func numericID(t *testing.T, id ua.NodeID) uint32 {
	v, ok := id.Identifier().(uint32)
	assert.Assert(t, ok, "%s is not numeric", id)
	return v
}

func TestNewDataTypeDictionaryBuilderErrors(t *testing.T) {
	_, err := typedict.NewDataTypeDictionaryBuilder(nil, 2, testNamespace, "TypeDictionary")
	assert.ErrorContains(t, err, "node manager")

	srv, ns := newTestServer(t)
	_, err = typedict.NewDataTypeDictionaryBuilder(srv.NamespaceManager(), ns, testNamespace, "")
	assert.ErrorContains(t, err, "name is empty")
}

func TestInit(t *testing.T) {
	srv, b := newTestBuilder(t, typedict.WithDictionaryDescription("Types of the test server"))
	nm := srv.NamespaceManager()
	dictID := b.DictID()
	assert.Assert(t, !dictID.IsNil())
	assert.Equal(t, dictID, ua.NewNodeIDNumeric(b.NamespaceIndex(), typedict.DefaultIDBase+1))

	v, ok := nm.FindVariable(dictID)
	assert.Assert(t, ok)
	assert.Equal(t, v.BrowseName(), ua.NewQualifiedName(b.NamespaceIndex(), "TypeDictionary"))
	assert.Equal(t, v.DisplayName().Text, "TypeDictionary")
	assert.Equal(t, v.Description().Text, "Types of the test server")
	assert.Equal(t, v.DataType(), ua.DataTypeIDByteString)
	assert.Equal(t, v.ValueRank(), ua.ValueRankScalar)
	assert.Assert(t, hasReference(v, ua.ReferenceTypeIDHasComponent, true, ua.ObjectIDOPCBinarySchemaTypeSystem))
	assert.Assert(t, hasReference(v, ua.ReferenceTypeIDHasTypeDefinition, false, ua.VariableTypeIDDataTypeDictionaryType))

	// a second call does nothing
	assert.NilError(t, b.Init(context.Background()))
	assert.Equal(t, b.DictID(), dictID)
	assert.Equal(t, len(b.AllocatedRange()), 1)
}

func TestInitReusesDictionary(t *testing.T) {
	ctx := context.Background()
	srv, b := newTestBuilder(t)
	other, err := typedict.NewDataTypeDictionaryBuilder(srv.NamespaceManager(), b.NamespaceIndex(), testNamespace, "TypeDictionary", typedict.WithIDBase(9000))
	assert.NilError(t, err)
	assert.Equal(t, other.DictID(), ua.NilNodeID)
	assert.NilError(t, other.Init(ctx))
	assert.Equal(t, other.DictID(), b.DictID())
	assert.Equal(t, len(other.AllocatedRange()), 0)
}

func TestCreateDataType(t *testing.T) {
	srv, b := newTestBuilder(t)
	nm := srv.NamespaceManager()
	s, err := b.CreateDataType(context.Background(), "basic_structure")
	assert.NilError(t, err)
	assert.Equal(t, s.Name(), "BasicStructure")
	assert.Equal(t, s.TypeName(), "BasicStructure")

	dt, ok := nm.FindNode(s.DataType())
	assert.Assert(t, ok)
	assert.Equal(t, dt.NodeClass(), ua.NodeClassDataType)
	assert.Equal(t, dt.BrowseName(), ua.NewQualifiedName(b.NamespaceIndex(), "BasicStructure"))
	assert.Equal(t, dt.DisplayName().Text, "BasicStructure")
	assert.Assert(t, hasReference(dt, ua.ReferenceTypeIDHasSubtype, true, ua.DataTypeIDStructure))
	assert.Assert(t, hasReference(dt, ua.ReferenceTypeIDHasEncoding, false, s.Encoding()))
	assert.Assert(t, nm.IsSubtype(s.DataType(), ua.DataTypeIDStructure))

	desc, ok := nm.FindVariable(s.Description())
	assert.Assert(t, ok)
	assert.Equal(t, desc.BrowseName(), ua.NewQualifiedName(b.NamespaceIndex(), "BasicStructure"))
	assert.Equal(t, desc.Value().Value, "basic_structure")
	assert.Equal(t, desc.DataType(), ua.DataTypeIDString)
	assert.Assert(t, hasReference(desc, ua.ReferenceTypeIDHasComponent, true, b.DictID()))
	assert.Assert(t, hasReference(desc, ua.ReferenceTypeIDHasTypeDefinition, false, ua.VariableTypeIDDataTypeDescriptionType))
	assert.Assert(t, hasReference(desc, ua.ReferenceTypeIDHasDescription, true, s.Encoding()))

	enc, ok := nm.FindObject(s.Encoding())
	assert.Assert(t, ok)
	assert.Equal(t, enc.BrowseName(), ua.NewQualifiedName(0, "Default Binary"))
	assert.Assert(t, hasReference(enc, ua.ReferenceTypeIDHasEncoding, true, s.DataType()))
	assert.Assert(t, hasReference(enc, ua.ReferenceTypeIDHasTypeDefinition, false, ua.ObjectTypeIDDataTypeEncodingType))
	assert.Assert(t, hasReference(enc, ua.ReferenceTypeIDHasDescription, false, s.Description()))

	structs := b.TypeDictionary().Structs()
	assert.Equal(t, len(structs), 1)
	assert.Equal(t, structs[0].Name, "BasicStructure")
	assert.Equal(t, len(structs[0].Fields), 0)
}

func TestCreateDataTypeBuiltinName(t *testing.T) {
	ctx := context.Background()
	_, b := newTestBuilder(t)
	n := len(b.AllocatedRange())
	for _, name := range []string{"string", "Int32", "byte_string"} {
		_, err := b.CreateDataType(ctx, name)
		assert.Equal(t, errors.Cause(err), typedict.ErrReservedName, name)
	}
	assert.Equal(t, len(b.AllocatedRange()), n)
	assert.Equal(t, len(b.TypeDictionary().Structs()), 0)
}

func TestCreateDataTypeIDsExhausted(t *testing.T) {
	_, b := newTestBuilder(t, typedict.WithIDBase(math.MaxUint32-1))
	assert.Equal(t, b.DictID(), ua.NewNodeIDNumeric(b.NamespaceIndex(), math.MaxUint32))
	_, err := b.CreateDataType(context.Background(), "basic_structure")
	assert.Equal(t, errors.Cause(err), typedict.ErrIDsExhausted)
	assert.Equal(t, len(b.AllocatedRange()), 1)
}

func TestCreateDataTypeInitializes(t *testing.T) {
	srv, ns := newTestServer(t)
	b, err := typedict.NewDataTypeDictionaryBuilder(srv.NamespaceManager(), ns, testNamespace, "TypeDictionary")
	assert.NilError(t, err)
	_, err = b.CreateDataType(context.Background(), "basic_structure")
	assert.NilError(t, err)
	assert.Assert(t, !b.DictID().IsNil())
}

func TestCreateDataTypeIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	_, b := newTestBuilder(t)
	last := numericID(t, b.DictID())
	for _, name := range []string{"first", "second", "third", "fourth", "fifth"} {
		s, err := b.CreateDataType(ctx, name)
		assert.NilError(t, err)
		for _, id := range []ua.NodeID{s.DataType(), s.Description(), s.Encoding()} {
			assert.Equal(t, id.NamespaceIndex(), b.NamespaceIndex())
			v := numericID(t, id)
			assert.Assert(t, v > last, "%d follows %d", v, last)
			last = v
		}
	}
	assert.Equal(t, len(b.AllocatedRange()), 1+5*3)
}

func TestCreateDataTypeSkipsUsedIDs(t *testing.T) {
	ctx := context.Background()
	srv, ns := newTestServer(t)
	nm := srv.NamespaceManager()
	taken := ua.NewNodeIDNumeric(ns, typedict.DefaultIDBase+2)
	_, err := nm.CreateNode(ctx, ua.AddNodesItem{
		ParentNodeID:       ua.NewExpandedNodeID(ua.ObjectIDObjectsFolder),
		ReferenceTypeID:    ua.ReferenceTypeIDOrganizes,
		RequestedNewNodeID: ua.NewExpandedNodeID(taken),
		BrowseName:         ua.NewQualifiedName(ns, "Taken"),
		NodeClass:          ua.NodeClassObject,
		TypeDefinition:     ua.NewExpandedNodeID(ua.ObjectTypeIDFolderType),
	})
	assert.NilError(t, err)

	b, err := typedict.NewDataTypeDictionaryBuilder(nm, ns, testNamespace, "TypeDictionary")
	assert.NilError(t, err)
	s, err := b.CreateDataType(ctx, "basic_structure")
	assert.NilError(t, err)
	assert.Equal(t, b.DictID(), ua.NewNodeIDNumeric(ns, typedict.DefaultIDBase+1))
	assert.Equal(t, s.DataType(), ua.NewNodeIDNumeric(ns, typedict.DefaultIDBase+3))
	assert.Equal(t, b.AllocatedRange()[1], taken)
}

func TestCreateDataTypeAgain(t *testing.T) {
	ctx := context.Background()
	srv, b := newTestBuilder(t)
	s, err := b.CreateDataType(ctx, "basic_structure")
	assert.NilError(t, err)
	assert.NilError(t, s.AddField("ID", ua.BuiltinTypeInt32))
	n := len(b.AllocatedRange())

	again, err := b.CreateDataType(ctx, "Basic-Structure")
	assert.NilError(t, err)
	assert.Assert(t, again == s)
	assert.Equal(t, len(b.AllocatedRange()), n)
	structs := b.TypeDictionary().Structs()
	assert.Equal(t, len(structs), 1)
	assert.Equal(t, len(structs[0].Fields), 0)
	dv, err := srv.NamespaceManager().ReadValue(ctx, s.Description())
	assert.NilError(t, err)
	assert.Equal(t, dv.Value, "Basic-Structure")
}

func TestSetDictByteString(t *testing.T) {
	ctx := context.Background()
	srv, b := newTestBuilder(t)
	s, err := b.CreateDataType(ctx, "basic_structure")
	assert.NilError(t, err)
	assert.NilError(t, s.AddField("ID", ua.BuiltinTypeInt32))
	assert.NilError(t, b.SetDictByteString(ctx))

	want, err := b.TypeDictionary().Value()
	assert.NilError(t, err)
	dv, err := srv.NamespaceManager().ReadValue(ctx, b.DictID())
	assert.NilError(t, err)
	doc, ok := dv.Value.(ua.ByteString)
	assert.Assert(t, ok)
	assert.Equal(t, string(doc), string(want))
	assert.Assert(t, strings.Contains(string(doc), `<opc:StructuredType BaseType="ua:ExtensionObject" Name="BasicStructure">`))
}

func TestSetDictByteStringNotInitialized(t *testing.T) {
	srv, ns := newTestServer(t)
	b, err := typedict.NewDataTypeDictionaryBuilder(srv.NamespaceManager(), ns, testNamespace, "TypeDictionary")
	assert.NilError(t, err)
	assert.ErrorContains(t, b.SetDictByteString(context.Background()), "not initialized")
}

func TestAddFieldUnresolvedType(t *testing.T) {
	ctx := context.Background()
	_, b := newTestBuilder(t)
	s, err := b.CreateDataType(ctx, "basic_structure")
	assert.NilError(t, err)
	err = s.AddField("Other", typedict.TypeName("not_created"))
	assert.Equal(t, errors.Cause(err), typedict.ErrUnresolvedType)
	err = b.AddField(ua.BuiltinTypeInt32, "ID", "not_created", false)
	assert.Equal(t, errors.Cause(err), typedict.ErrUnknownStructure)
}

// A client reads a variable of a custom structure and decodes its value with
// the published dictionary.
func TestScalarStructureRoundTrip(t *testing.T) {
	ctx := context.Background()
	srv, b := newTestBuilder(t)
	nm := srv.NamespaceManager()

	basic, err := b.CreateDataType(ctx, "basic_structure")
	assert.NilError(t, err)
	assert.NilError(t, basic.AddField("ID", ua.BuiltinTypeInt32))
	assert.NilError(t, basic.AddField("Gender", ua.BuiltinTypeBoolean))
	assert.NilError(t, basic.AddField("Comments", ua.BuiltinTypeString))
	assert.NilError(t, b.SetDictByteString(ctx))

	reg, err := srv.LoadTypeDefinitions(ctx)
	assert.NilError(t, err)
	st, err := reg.Lookup("BasicStructure")
	assert.NilError(t, err)
	assert.Equal(t, st.Namespace, testNamespace)
	assert.Equal(t, st.DataTypeID, basic.DataType())
	assert.Equal(t, st.EncodingID, basic.Encoding())

	varID := ua.NewNodeIDNumeric(b.NamespaceIndex(), 1)
	_, err = nm.CreateNode(ctx, ua.AddNodesItem{
		ParentNodeID:       ua.NewExpandedNodeID(ua.ObjectIDObjectsFolder),
		ReferenceTypeID:    ua.ReferenceTypeIDOrganizes,
		RequestedNewNodeID: ua.NewExpandedNodeID(varID),
		BrowseName:         ua.NewQualifiedName(b.NamespaceIndex(), "BasicStruct"),
		NodeClass:          ua.NodeClassVariable,
		NodeAttributes: ua.VariableAttributes{
			DataType:    basic.DataType(),
			ValueRank:   ua.ValueRankScalar,
			AccessLevel: ua.AccessLevelsCurrentRead,
		},
		TypeDefinition: ua.NewExpandedNodeID(ua.VariableTypeIDBaseDataVariableType),
	})
	assert.NilError(t, err)

	rec := st.New()
	assert.NilError(t, rec.Set("ID", int32(3)))
	assert.NilError(t, rec.Set("Gender", true))
	assert.NilError(t, rec.Set("Comments", "Test string"))
	eo, err := reg.Encode(rec)
	assert.NilError(t, err)
	assert.NilError(t, nm.WriteValue(ctx, varID, ua.DataValue{Value: eo}))

	dv, err := nm.ReadValue(ctx, varID)
	assert.NilError(t, err)
	got, err := reg.Decode(dv.Value.(ua.ExtensionObject))
	assert.NilError(t, err)
	assert.DeepEqual(t, got, rec)
	id, _ := got.Get("ID")
	assert.Equal(t, id, int32(3))
	gender, _ := got.Get("Gender")
	assert.Equal(t, gender, true)
	comments, _ := got.Get("Comments")
	assert.Equal(t, comments, "Test string")
}

func TestNestedStructureRoundTrip(t *testing.T) {
	ctx := context.Background()
	srv, b := newTestBuilder(t)
	nm := srv.NamespaceManager()

	basic, err := b.CreateDataType(ctx, "basic_structure")
	assert.NilError(t, err)
	nested, err := b.CreateDataType(ctx, "nested_structure")
	assert.NilError(t, err)
	assert.NilError(t, basic.AddField("ID", ua.BuiltinTypeInt32))
	assert.NilError(t, basic.AddField("Comments", ua.BuiltinTypeString))
	assert.NilError(t, nested.AddField("Name", ua.BuiltinTypeString))
	assert.NilError(t, nested.AddField("Stuff", basic))
	assert.NilError(t, nested.AddArrayField("Values", ua.BuiltinTypeDouble))
	assert.NilError(t, nested.AddArrayField("Items", typedict.TypeName("basic_structure")))
	assert.NilError(t, b.SetDictByteString(ctx))

	fields := b.TypeDictionary().Structs()[1].Fields
	assert.DeepEqual(t, fields, []binaryschema.Field{
		{Name: "Name", TypeName: "opc:String"},
		{Name: "Stuff", TypeName: "tns:BasicStructure"},
		{Name: "NoOfValues", TypeName: "opc:Int32"},
		{Name: "Values", TypeName: "opc:Double", LengthField: "NoOfValues"},
		{Name: "NoOfItems", TypeName: "opc:Int32"},
		{Name: "Items", TypeName: "tns:BasicStructure", LengthField: "NoOfItems"},
	})

	reg, err := srv.LoadTypeDefinitions(ctx)
	assert.NilError(t, err)
	basicType, err := reg.Lookup("BasicStructure")
	assert.NilError(t, err)
	nestedType, err := reg.Lookup("NestedStructure")
	assert.NilError(t, err)
	assert.Equal(t, nestedType.DataTypeID, nested.DataType())

	inner := basicType.New()
	assert.NilError(t, inner.Set("ID", int32(7)))
	rec := nestedType.New()
	assert.NilError(t, rec.Set("Name", "outer"))
	assert.NilError(t, rec.Set("Stuff", inner))
	assert.NilError(t, rec.Set("Values", []float64{1.5, 2.5}))
	assert.NilError(t, rec.Set("Items", []*binaryschema.Record{inner, basicType.New()}))

	eo, err := reg.Encode(rec)
	assert.NilError(t, err)
	varID := ua.NewNodeIDNumeric(b.NamespaceIndex(), 2)
	_, err = nm.CreateNode(ctx, ua.AddNodesItem{
		ParentNodeID:       ua.NewExpandedNodeID(ua.ObjectIDObjectsFolder),
		ReferenceTypeID:    ua.ReferenceTypeIDOrganizes,
		RequestedNewNodeID: ua.NewExpandedNodeID(varID),
		BrowseName:         ua.NewQualifiedName(b.NamespaceIndex(), "NestedStruct"),
		NodeClass:          ua.NodeClassVariable,
		NodeAttributes: ua.VariableAttributes{
			Value:     eo,
			DataType:  nested.DataType(),
			ValueRank: ua.ValueRankScalar,
		},
		TypeDefinition: ua.NewExpandedNodeID(ua.VariableTypeIDBaseDataVariableType),
	})
	assert.NilError(t, err)

	dv, err := nm.ReadValue(ctx, varID)
	assert.NilError(t, err)
	got, err := reg.Decode(dv.Value.(ua.ExtensionObject))
	assert.NilError(t, err)
	assert.DeepEqual(t, got, rec)
}

func TestArrayFieldDefaultsEmpty(t *testing.T) {
	ctx := context.Background()
	srv, b := newTestBuilder(t)
	s, err := b.CreateDataType(ctx, "array_structure")
	assert.NilError(t, err)
	assert.NilError(t, s.AddArrayField("Values", ua.BuiltinTypeInt32))
	assert.NilError(t, b.SetDictByteString(ctx))

	reg, err := srv.LoadTypeDefinitions(ctx)
	assert.NilError(t, err)
	st, err := reg.Lookup("ArrayStructure")
	assert.NilError(t, err)
	eo, err := reg.Encode(st.New())
	assert.NilError(t, err)
	got, err := reg.Decode(eo)
	assert.NilError(t, err)
	values, ok := got.Get("Values")
	assert.Assert(t, ok)
	assert.DeepEqual(t, values, []int32{})
}

func TestSetDictByteStringSupersedes(t *testing.T) {
	ctx := context.Background()
	srv, b := newTestBuilder(t)
	s, err := b.CreateDataType(ctx, "basic_structure")
	assert.NilError(t, err)
	assert.NilError(t, s.AddField("ID", ua.BuiltinTypeInt32))
	assert.NilError(t, b.SetDictByteString(ctx))
	reg, err := srv.LoadTypeDefinitions(ctx)
	assert.NilError(t, err)

	later, err := b.CreateDataType(ctx, "later_structure")
	assert.NilError(t, err)
	assert.NilError(t, later.AddField("Flag", ua.BuiltinTypeBoolean))
	assert.NilError(t, s.AddField("Comments", ua.BuiltinTypeString))

	// not visible until the dictionary is written and read again
	_, err = reg.Lookup("LaterStructure")
	assert.Equal(t, errors.Cause(err), binaryschema.ErrNotFound)

	assert.NilError(t, b.SetDictByteString(ctx))
	reg, err = srv.LoadTypeDefinitions(ctx)
	assert.NilError(t, err)
	st, err := reg.Lookup("LaterStructure")
	assert.NilError(t, err)
	assert.Equal(t, st.DataTypeID, later.DataType())
	st, err = reg.Lookup("BasicStructure")
	assert.NilError(t, err)
	assert.Equal(t, len(st.Fields), 2)
	assert.Equal(t, len(reg.Types()), 2)
}

func TestCustomizedName(t *testing.T) {
	ctx := context.Background()
	srv, b := newTestBuilder(t)
	raw := "*c*u_stom-ized&Stru#ct"
	s, err := b.CreateDataType(ctx, raw)
	assert.NilError(t, err)
	assert.Equal(t, s.Name(), "CUStomIzedStruCt")
	assert.NilError(t, s.AddField("id", ua.BuiltinTypeInt32))
	assert.NilError(t, b.SetDictByteString(ctx))

	dv, err := srv.NamespaceManager().ReadValue(ctx, s.Description())
	assert.NilError(t, err)
	assert.Equal(t, dv.Value, raw)

	reg, err := srv.LoadTypeDefinitions(ctx)
	assert.NilError(t, err)
	st, err := reg.Lookup(typedict.ToCamelCase(raw))
	assert.NilError(t, err)
	assert.Equal(t, st.EncodingID, s.Encoding())
}

func TestDeleteAllocatedRange(t *testing.T) {
	ctx := context.Background()
	srv, b := newTestBuilder(t)
	nm := srv.NamespaceManager()
	for _, name := range []string{"first", "second"} {
		s, err := b.CreateDataType(ctx, name)
		assert.NilError(t, err)
		assert.NilError(t, s.AddField("ID", ua.BuiltinTypeInt32))
	}
	assert.NilError(t, b.SetDictByteString(ctx))

	ids := b.AllocatedRange()
	assert.Equal(t, len(ids), 7)
	for i := len(ids) - 1; i >= 0; i-- {
		assert.NilError(t, nm.DeleteNodeByID(ids[i]))
	}
	for _, id := range ids {
		_, ok := nm.FindNode(id)
		assert.Assert(t, !ok, "%s not deleted", id)
	}
	reg, err := srv.LoadTypeDefinitions(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(reg.Types()), 0)
}
