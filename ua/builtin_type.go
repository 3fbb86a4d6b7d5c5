// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

// BuiltinType enumerates the primitive types of the UA binary protocol.
// The values match the variant encoding mask.
type BuiltinType byte

// BuiltinType enumeration.
const (
	BuiltinTypeNull BuiltinType = iota
	BuiltinTypeBoolean
	BuiltinTypeSByte
	BuiltinTypeByte
	BuiltinTypeInt16
	BuiltinTypeUInt16
	BuiltinTypeInt32
	BuiltinTypeUInt32
	BuiltinTypeInt64
	BuiltinTypeUInt64
	BuiltinTypeFloat
	BuiltinTypeDouble
	BuiltinTypeString
	BuiltinTypeDateTime
	BuiltinTypeGUID
	BuiltinTypeByteString
	BuiltinTypeXMLElement
	BuiltinTypeNodeID
	BuiltinTypeExpandedNodeID
	BuiltinTypeStatusCode
	BuiltinTypeQualifiedName
	BuiltinTypeLocalizedText
	BuiltinTypeExtensionObject
	BuiltinTypeDataValue
	BuiltinTypeVariant
	BuiltinTypeDiagnosticInfo
)

// names as they appear in OPC Binary type dictionaries.
var builtinTypeNames = [...]string{
	"Null",
	"Boolean",
	"SByte",
	"Byte",
	"Int16",
	"UInt16",
	"Int32",
	"UInt32",
	"Int64",
	"UInt64",
	"Float",
	"Double",
	"String",
	"DateTime",
	"Guid",
	"ByteString",
	"XmlElement",
	"NodeId",
	"ExpandedNodeId",
	"StatusCode",
	"QualifiedName",
	"LocalizedText",
	"ExtensionObject",
	"DataValue",
	"Variant",
	"DiagnosticInfo",
}

// String returns the name of the type as used in OPC Binary type dictionaries.
func (t BuiltinType) String() string {
	if int(t) < len(builtinTypeNames) {
		return builtinTypeNames[t]
	}
	return ""
}

// TypeName returns the name of the type as used in OPC Binary type dictionaries.
func (t BuiltinType) TypeName() string {
	return t.String()
}

// DataTypeID returns the NodeID of the DataType node of this type.
func (t BuiltinType) DataTypeID() NodeID {
	if t == BuiltinTypeNull || int(t) >= len(builtinTypeNames) {
		return NilNodeID
	}
	return NewNodeIDNumeric(0, uint32(t))
}

// FindBuiltinType returns the BuiltinType with the given name.
// The name is matched exactly, e.g. "Int32", "Guid", "NodeId".
func FindBuiltinType(name string) (BuiltinType, bool) {
	for i := 1; i < len(builtinTypeNames); i++ {
		if builtinTypeNames[i] == name {
			return BuiltinType(i), true
		}
	}
	return BuiltinTypeNull, false
}
