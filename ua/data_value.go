// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import "time"

// DataValue holds the value, quality and timestamp
type DataValue struct {
	Value           any
	StatusCode      StatusCode
	SourceTimestamp time.Time
	ServerTimestamp time.Time
}

// NewDataValue returns a new DataValue.
func NewDataValue(value any, statusCode StatusCode, sourceTimestamp time.Time, serverTimestamp time.Time) DataValue {
	return DataValue{value, statusCode, sourceTimestamp, serverTimestamp}
}

// ExtensionObject holds the binary encoded body of a structure, and the NodeID
// of the structure's encoding node.
type ExtensionObject struct {
	TypeID NodeID
	Body   ByteString
}

// NilExtensionObject is the nil value.
var NilExtensionObject = ExtensionObject{}

// IsNil returns true if the ExtensionObject carries no body.
func (e ExtensionObject) IsNil() bool {
	return e.TypeID.IsNil() && len(e.Body) == 0
}

// EncodingContext provides the namespace and server tables used when encoding
// ExpandedNodeIDs.
type EncodingContext interface {
	NamespaceURIs() []string
	ServerURIs() []string
}

type encodingContext struct {
	namespaceURIs []string
	serverURIs    []string
}

// NewEncodingContext returns an EncodingContext with the given namespace table.
// The standard namespace is used when none is given.
func NewEncodingContext(namespaceURIs ...string) EncodingContext {
	if len(namespaceURIs) == 0 {
		namespaceURIs = []string{NamespaceURI}
	}
	return &encodingContext{namespaceURIs: namespaceURIs}
}

func (c *encodingContext) NamespaceURIs() []string {
	return c.namespaceURIs
}

func (c *encodingContext) ServerURIs() []string {
	return c.serverURIs
}

// NamespaceURI is the uri of the standard namespace.
const NamespaceURI = "http://opcfoundation.org/UA/"
