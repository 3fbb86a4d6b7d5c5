// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua_test

import (
	"testing"

	"github.com/awcullen/opcua-typedict/ua"
	"github.com/google/uuid"
	"gotest.tools/assert"
)

func TestParseNodeID(t *testing.T) {
	cases := []struct {
		in  string
		out ua.NodeID
	}{
		{"i=85", ua.ObjectIDObjectsFolder},
		{"ns=2;i=8001", ua.NewNodeIDNumeric(2, 8001)},
		{"ns=2;s=Demo.Static.Scalar.Float", ua.NewNodeIDString(2, "Demo.Static.Scalar.Float")},
		{"ns=2;g=5ce9dbce-5d79-434c-9ac3-1cfba9a6e92c", ua.NewNodeIDGUID(2, uuid.MustParse("5ce9dbce-5d79-434c-9ac3-1cfba9a6e92c"))},
		{"ns=2;b=YWJjZA==", ua.NewNodeIDOpaque(2, ua.ByteString("abcd"))},
		{"ns=2", ua.NilNodeID},
		{"ns=x;i=1", ua.NilNodeID},
		{"q=1", ua.NilNodeID},
	}
	for _, c := range cases {
		id := ua.ParseNodeID(c.in)
		assert.Equal(t, id, c.out, c.in)
		if !id.IsNil() {
			assert.Equal(t, ua.ParseNodeID(id.String()), id)
		}
	}
}

func TestNodeIDIsNil(t *testing.T) {
	assert.Assert(t, ua.NilNodeID.IsNil())
	assert.Assert(t, ua.NewNodeIDString(0, "").IsNil())
	assert.Assert(t, !ua.NewNodeIDNumeric(1, 0).IsNil())
	assert.Assert(t, !ua.DataTypeIDStructure.IsNil())
}

func TestToNodeID(t *testing.T) {
	uris := []string{ua.NamespaceURI, "urn:test:server", "http://test.org/types"}
	id := ua.NewNodeIDNumeric(0, 8001)
	assert.Equal(t, ua.ToNodeID(ua.ExpandedNodeID{NamespaceURI: "http://test.org/types", NodeID: id}, uris), ua.NewNodeIDNumeric(2, 8001))
	assert.Equal(t, ua.ToNodeID(ua.ExpandedNodeID{NamespaceURI: "http://unknown.org/", NodeID: id}, uris), ua.NilNodeID)
	assert.Equal(t, ua.ToNodeID(ua.NewExpandedNodeID(ua.NewNodeIDNumeric(1, 5)), uris), ua.NewNodeIDNumeric(1, 5))
	assert.Equal(t, ua.ExpandedNodeID{NamespaceURI: "urn:a", NodeID: ua.NewNodeIDNumeric(3, 5)}.String(), "nsu=urn:a;i=5")
}

func TestQualifiedNameString(t *testing.T) {
	assert.Equal(t, ua.ParseQualifiedName("2:Demo"), ua.NewQualifiedName(2, "Demo"))
	assert.Equal(t, ua.ParseQualifiedName("Default Binary"), ua.NewQualifiedName(0, "Default Binary"))
	assert.Equal(t, ua.ParseQualifiedName("x:Demo"), ua.NewQualifiedName(0, "x:Demo"))
	assert.Equal(t, ua.NewQualifiedName(2, "Demo").String(), "2:Demo")
	assert.Equal(t, ua.NewLocalizedText("Hello", "en").String(), "Hello (en)")
}

func TestFindBuiltinType(t *testing.T) {
	bt, ok := ua.FindBuiltinType("Int32")
	assert.Assert(t, ok)
	assert.Equal(t, bt, ua.BuiltinTypeInt32)
	assert.Equal(t, bt.DataTypeID(), ua.DataTypeIDInt32)

	bt, ok = ua.FindBuiltinType("Guid")
	assert.Assert(t, ok)
	assert.Equal(t, bt.DataTypeID(), ua.DataTypeIDGUID)
	assert.Equal(t, ua.BuiltinTypeLocalizedText.TypeName(), "LocalizedText")

	_, ok = ua.FindBuiltinType("int32")
	assert.Assert(t, !ok)
	_, ok = ua.FindBuiltinType("Null")
	assert.Assert(t, !ok)
}
