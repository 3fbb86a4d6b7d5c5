// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

// Well-known NodeIDs of namespace zero.
var (
	DataTypeIDBoolean        = NewNodeIDNumeric(0, 1)
	DataTypeIDSByte          = NewNodeIDNumeric(0, 2)
	DataTypeIDByte           = NewNodeIDNumeric(0, 3)
	DataTypeIDInt16          = NewNodeIDNumeric(0, 4)
	DataTypeIDUInt16         = NewNodeIDNumeric(0, 5)
	DataTypeIDInt32          = NewNodeIDNumeric(0, 6)
	DataTypeIDUInt32         = NewNodeIDNumeric(0, 7)
	DataTypeIDInt64          = NewNodeIDNumeric(0, 8)
	DataTypeIDUInt64         = NewNodeIDNumeric(0, 9)
	DataTypeIDFloat          = NewNodeIDNumeric(0, 10)
	DataTypeIDDouble         = NewNodeIDNumeric(0, 11)
	DataTypeIDString         = NewNodeIDNumeric(0, 12)
	DataTypeIDDateTime       = NewNodeIDNumeric(0, 13)
	DataTypeIDGUID           = NewNodeIDNumeric(0, 14)
	DataTypeIDByteString     = NewNodeIDNumeric(0, 15)
	DataTypeIDXMLElement     = NewNodeIDNumeric(0, 16)
	DataTypeIDNodeID         = NewNodeIDNumeric(0, 17)
	DataTypeIDExpandedNodeID = NewNodeIDNumeric(0, 18)
	DataTypeIDStatusCode     = NewNodeIDNumeric(0, 19)
	DataTypeIDQualifiedName  = NewNodeIDNumeric(0, 20)
	DataTypeIDLocalizedText  = NewNodeIDNumeric(0, 21)
	DataTypeIDStructure      = NewNodeIDNumeric(0, 22)
	DataTypeIDDataValue      = NewNodeIDNumeric(0, 23)
	DataTypeIDBaseDataType   = NewNodeIDNumeric(0, 24)
	DataTypeIDDiagnosticInfo = NewNodeIDNumeric(0, 25)

	ReferenceTypeIDReferences                = NewNodeIDNumeric(0, 31)
	ReferenceTypeIDNonHierarchicalReferences = NewNodeIDNumeric(0, 32)
	ReferenceTypeIDHierarchicalReferences    = NewNodeIDNumeric(0, 33)
	ReferenceTypeIDHasChild                  = NewNodeIDNumeric(0, 34)
	ReferenceTypeIDOrganizes                 = NewNodeIDNumeric(0, 35)
	ReferenceTypeIDHasModellingRule          = NewNodeIDNumeric(0, 37)
	ReferenceTypeIDHasEncoding               = NewNodeIDNumeric(0, 38)
	ReferenceTypeIDHasDescription            = NewNodeIDNumeric(0, 39)
	ReferenceTypeIDHasTypeDefinition         = NewNodeIDNumeric(0, 40)
	ReferenceTypeIDAggregates                = NewNodeIDNumeric(0, 44)
	ReferenceTypeIDHasSubtype                = NewNodeIDNumeric(0, 45)
	ReferenceTypeIDHasProperty               = NewNodeIDNumeric(0, 46)
	ReferenceTypeIDHasComponent              = NewNodeIDNumeric(0, 47)

	ObjectTypeIDBaseObjectType       = NewNodeIDNumeric(0, 58)
	ObjectTypeIDFolderType           = NewNodeIDNumeric(0, 61)
	ObjectTypeIDDataTypeSystemType   = NewNodeIDNumeric(0, 75)
	ObjectTypeIDDataTypeEncodingType = NewNodeIDNumeric(0, 76)

	VariableTypeIDBaseVariableType        = NewNodeIDNumeric(0, 62)
	VariableTypeIDBaseDataVariableType    = NewNodeIDNumeric(0, 63)
	VariableTypeIDPropertyType            = NewNodeIDNumeric(0, 68)
	VariableTypeIDDataTypeDescriptionType = NewNodeIDNumeric(0, 69)
	VariableTypeIDDataTypeDictionaryType  = NewNodeIDNumeric(0, 72)

	ObjectIDRootFolder                = NewNodeIDNumeric(0, 84)
	ObjectIDObjectsFolder             = NewNodeIDNumeric(0, 85)
	ObjectIDTypesFolder               = NewNodeIDNumeric(0, 86)
	ObjectIDDataTypesFolder           = NewNodeIDNumeric(0, 90)
	ObjectIDOPCBinarySchemaTypeSystem = NewNodeIDNumeric(0, 93)
)

// NodeClass enumeration.
type NodeClass int32

// NodeClass enumeration.
const (
	NodeClassUnspecified   NodeClass = 0
	NodeClassObject        NodeClass = 1
	NodeClassVariable      NodeClass = 2
	NodeClassMethod        NodeClass = 4
	NodeClassObjectType    NodeClass = 8
	NodeClassVariableType  NodeClass = 16
	NodeClassReferenceType NodeClass = 32
	NodeClassDataType      NodeClass = 64
	NodeClassView          NodeClass = 128
)

// String returns enumeration value as string.
func (v NodeClass) String() string {
	switch v {
	case NodeClassObject:
		return "Object"
	case NodeClassVariable:
		return "Variable"
	case NodeClassMethod:
		return "Method"
	case NodeClassObjectType:
		return "ObjectType"
	case NodeClassVariableType:
		return "VariableType"
	case NodeClassReferenceType:
		return "ReferenceType"
	case NodeClassDataType:
		return "DataType"
	case NodeClassView:
		return "View"
	default:
		return "Unspecified"
	}
}

// ValueRanks
const (
	ValueRankScalarOrOneDimension int32 = -3
	ValueRankAny                  int32 = -2
	ValueRankScalar               int32 = -1
	ValueRankOneOrMoreDimensions  int32 = 0
	ValueRankOneDimension         int32 = 1
)

// Reference describes an edge from a source node to a target node.
type Reference struct {
	ReferenceTypeID NodeID
	IsInverse       bool
	TargetID        ExpandedNodeID
}

// NewReference constructs a Reference to a local target node.
func NewReference(referenceTypeID NodeID, isInverse bool, targetID NodeID) Reference {
	return Reference{referenceTypeID, isInverse, NewExpandedNodeID(targetID)}
}
