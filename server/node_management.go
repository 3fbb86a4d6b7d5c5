// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"context"
	"reflect"
	"time"

	"github.com/awcullen/opcua-typedict/ua"
	"github.com/google/uuid"
)

// CreateNode adds a node described by the item to the address space. The node is
// referenced from its parent with the item's reference type, and from its type
// definition when the node class requires one.
func (m *NamespaceManager) CreateNode(ctx context.Context, item ua.AddNodesItem) (ua.NodeID, error) {
	if err := ctx.Err(); err != nil {
		return ua.NilNodeID, err
	}
	m.Lock()
	defer m.Unlock()

	id := ua.ToNodeID(item.RequestedNewNodeID, m.namespaces)
	if id.IsNil() {
		return ua.NilNodeID, ua.BadNodeIDInvalid
	}
	if _, ok := m.nodes[id]; ok {
		return ua.NilNodeID, ua.BadNodeIDExists
	}
	parentID := ua.ToNodeID(item.ParentNodeID, m.namespaces)
	parent, ok := m.nodes[parentID]
	if !ok {
		return ua.NilNodeID, ua.BadParentNodeIDInvalid
	}
	if rt, ok := m.nodes[item.ReferenceTypeID].(*ReferenceTypeNode); !ok || rt.IsAbstract() {
		return ua.NilNodeID, ua.BadReferenceTypeIDInvalid
	}
	if item.BrowseName.Name == "" {
		return ua.NilNodeID, ua.BadBrowseNameInvalid
	}
	for _, r := range parent.References() {
		if r.IsInverse || r.ReferenceTypeID != item.ReferenceTypeID {
			continue
		}
		if sibling, ok := m.nodes[ua.ToNodeID(r.TargetID, m.namespaces)]; ok && sibling.BrowseName() == item.BrowseName {
			return ua.NilNodeID, ua.BadBrowseNameDuplicated
		}
	}

	refs := []ua.Reference{ua.NewReference(item.ReferenceTypeID, true, parentID)}
	typeDefinitionID := ua.ToNodeID(item.TypeDefinition, m.namespaces)
	switch item.NodeClass {
	case ua.NodeClassObject:
		if _, ok := m.nodes[typeDefinitionID].(*ObjectTypeNode); !ok {
			return ua.NilNodeID, ua.BadTypeDefinitionInvalid
		}
	case ua.NodeClassVariable:
		if _, ok := m.nodes[typeDefinitionID].(*VariableTypeNode); !ok {
			return ua.NilNodeID, ua.BadTypeDefinitionInvalid
		}
	default:
		if !typeDefinitionID.IsNil() {
			return ua.NilNodeID, ua.BadTypeDefinitionInvalid
		}
	}
	if !typeDefinitionID.IsNil() {
		refs = append(refs, ua.NewReference(ua.ReferenceTypeIDHasTypeDefinition, false, typeDefinitionID))
	}

	var node Node
	switch item.NodeClass {
	case ua.NodeClassObject:
		attrs, ok := attributesOrZero[ua.ObjectAttributes](item.NodeAttributes)
		if !ok {
			return ua.NilNodeID, ua.BadNodeAttributesInvalid
		}
		node = NewObjectNode(id, item.BrowseName, displayNameOrDefault(attrs.DisplayName, item.BrowseName), attrs.Description, refs, attrs.EventNotifier)
	case ua.NodeClassVariable:
		attrs, ok := attributesOrZero[ua.VariableAttributes](item.NodeAttributes)
		if !ok {
			return ua.NilNodeID, ua.BadNodeAttributesInvalid
		}
		dataType := attrs.DataType
		if dataType.IsNil() {
			dataType = ua.DataTypeIDBaseDataType
		}
		if _, ok := m.nodes[dataType].(*DataTypeNode); !ok {
			return ua.NilNodeID, ua.BadNodeAttributesInvalid
		}
		if !m.isValueOfType(attrs.Value, dataType, attrs.ValueRank) {
			return ua.NilNodeID, ua.BadTypeMismatch
		}
		now := time.Now()
		node = NewVariableNode(id, item.BrowseName, displayNameOrDefault(attrs.DisplayName, item.BrowseName), attrs.Description, refs,
			ua.NewDataValue(attrs.Value, ua.Good, now, now), dataType, attrs.ValueRank, attrs.ArrayDimensions, attrs.AccessLevel, attrs.Historizing)
	case ua.NodeClassDataType:
		attrs, ok := attributesOrZero[ua.DataTypeAttributes](item.NodeAttributes)
		if !ok {
			return ua.NilNodeID, ua.BadNodeAttributesInvalid
		}
		node = NewDataTypeNode(id, item.BrowseName, displayNameOrDefault(attrs.DisplayName, item.BrowseName), attrs.Description, refs, attrs.IsAbstract)
	default:
		return ua.NilNodeID, ua.BadNodeClassInvalid
	}
	if err := m.addNodes([]Node{node}); err != nil {
		return ua.NilNodeID, err
	}
	return id, nil
}

// attributesOrZero returns the node attributes as T, or the zero T if none were given.
func attributesOrZero[T any](attrs any) (T, bool) {
	var zero T
	if attrs == nil {
		return zero, true
	}
	switch a := attrs.(type) {
	case T:
		return a, true
	case *T:
		if a == nil {
			return zero, true
		}
		return *a, true
	}
	return zero, false
}

func displayNameOrDefault(displayName ua.LocalizedText, browseName ua.QualifiedName) ua.LocalizedText {
	if displayName.Text == "" {
		return ua.NewLocalizedText(browseName.Name, "")
	}
	return displayName
}

// AddReference adds a reference between two existing nodes. The inverse
// reference is added to the target.
func (m *NamespaceManager) AddReference(ctx context.Context, item ua.AddReferencesItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.Lock()
	defer m.Unlock()

	source, ok := m.nodes[item.SourceNodeID]
	if !ok {
		return ua.BadSourceNodeIDInvalid
	}
	if _, ok := m.nodes[item.ReferenceTypeID].(*ReferenceTypeNode); !ok {
		return ua.BadReferenceTypeIDInvalid
	}
	if item.TargetServerURI != "" {
		return ua.BadTargetNodeIDInvalid
	}
	targetID := ua.ToNodeID(item.TargetNodeID, m.namespaces)
	target, ok := m.nodes[targetID]
	if !ok {
		return ua.BadTargetNodeIDInvalid
	}
	if item.TargetNodeClass != ua.NodeClassUnspecified && item.TargetNodeClass != target.NodeClass() {
		return ua.BadNodeClassInvalid
	}
	if hasReference(source.References(), item.ReferenceTypeID, !item.IsForward, targetID, m.namespaces) {
		return ua.BadDuplicateReferenceNotAllowed
	}
	ref := ua.NewReference(item.ReferenceTypeID, !item.IsForward, targetID)
	source.SetReferences(append(source.References(), ref))
	m.addInverseReferences(source.NodeID(), []ua.Reference{ref})
	return nil
}

// ReadValue returns the value of the variable with the given NodeID.
func (m *NamespaceManager) ReadValue(ctx context.Context, id ua.NodeID) (ua.DataValue, error) {
	if err := ctx.Err(); err != nil {
		return ua.DataValue{}, err
	}
	m.RLock()
	n, ok := m.nodes[id]
	m.RUnlock()
	if !ok {
		return ua.DataValue{}, ua.BadNodeIDUnknown
	}
	v, ok := n.(*VariableNode)
	if !ok {
		return ua.DataValue{}, ua.BadAttributeIDInvalid
	}
	return v.Value(), nil
}

// WriteValue replaces the value of the variable with the given NodeID. The value
// must match the DataType and ValueRank of the variable. Missing timestamps are
// set to the current time.
func (m *NamespaceManager) WriteValue(ctx context.Context, id ua.NodeID, value ua.DataValue) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.RLock()
	defer m.RUnlock()
	n, ok := m.nodes[id]
	if !ok {
		return ua.BadNodeIDUnknown
	}
	v, ok := n.(*VariableNode)
	if !ok {
		return ua.BadAttributeIDInvalid
	}
	if !m.isValueOfType(value.Value, v.DataType(), v.ValueRank()) {
		return ua.BadTypeMismatch
	}
	now := time.Now()
	if value.ServerTimestamp.IsZero() {
		value.ServerTimestamp = now
	}
	if value.SourceTimestamp.IsZero() {
		value.SourceTimestamp = now
	}
	v.SetValue(value)
	return nil
}

// BrowseChild returns the target of a forward reference of the given type (or
// a subtype) from the parent whose browse name matches.
func (m *NamespaceManager) BrowseChild(ctx context.Context, parentID ua.NodeID, referenceTypeID ua.NodeID, browseName ua.QualifiedName) (ua.NodeID, error) {
	if err := ctx.Err(); err != nil {
		return ua.NilNodeID, err
	}
	m.RLock()
	defer m.RUnlock()
	parent, ok := m.nodes[parentID]
	if !ok {
		return ua.NilNodeID, ua.BadNodeIDUnknown
	}
	for _, r := range parent.References() {
		if r.IsInverse || !m.isSubtype(r.ReferenceTypeID, referenceTypeID) {
			continue
		}
		if n, ok := m.nodes[ua.ToNodeID(r.TargetID, m.namespaces)]; ok && n.BrowseName() == browseName {
			return n.NodeID(), nil
		}
	}
	return ua.NilNodeID, ua.BadNoMatch
}

var builtinValueTypes = map[ua.NodeID]reflect.Type{
	ua.DataTypeIDBoolean:        reflect.TypeOf(false),
	ua.DataTypeIDSByte:          reflect.TypeOf(int8(0)),
	ua.DataTypeIDByte:           reflect.TypeOf(uint8(0)),
	ua.DataTypeIDInt16:          reflect.TypeOf(int16(0)),
	ua.DataTypeIDUInt16:         reflect.TypeOf(uint16(0)),
	ua.DataTypeIDInt32:          reflect.TypeOf(int32(0)),
	ua.DataTypeIDUInt32:         reflect.TypeOf(uint32(0)),
	ua.DataTypeIDInt64:          reflect.TypeOf(int64(0)),
	ua.DataTypeIDUInt64:         reflect.TypeOf(uint64(0)),
	ua.DataTypeIDFloat:          reflect.TypeOf(float32(0)),
	ua.DataTypeIDDouble:         reflect.TypeOf(float64(0)),
	ua.DataTypeIDString:         reflect.TypeOf(""),
	ua.DataTypeIDDateTime:       reflect.TypeOf(time.Time{}),
	ua.DataTypeIDGUID:           reflect.TypeOf(uuid.UUID{}),
	ua.DataTypeIDByteString:     reflect.TypeOf(ua.ByteString("")),
	ua.DataTypeIDXMLElement:     reflect.TypeOf(ua.XMLElement("")),
	ua.DataTypeIDNodeID:         reflect.TypeOf(ua.NodeID{}),
	ua.DataTypeIDExpandedNodeID: reflect.TypeOf(ua.ExpandedNodeID{}),
	ua.DataTypeIDStatusCode:     reflect.TypeOf(ua.StatusCode(0)),
	ua.DataTypeIDQualifiedName:  reflect.TypeOf(ua.QualifiedName{}),
	ua.DataTypeIDLocalizedText:  reflect.TypeOf(ua.LocalizedText{}),
	ua.DataTypeIDStructure:      reflect.TypeOf(ua.ExtensionObject{}),
	ua.DataTypeIDDataValue:      reflect.TypeOf(ua.DataValue{}),
}

// isValueOfType returns true if the value may be stored in a variable with the
// given DataType and ValueRank. Subtypes of a builtin type take its value type.
func (m *NamespaceManager) isValueOfType(value any, dataType ua.NodeID, valueRank int32) bool {
	if value == nil {
		return true
	}
	var want reflect.Type
	for id, i := dataType, 0; !id.IsNil() && i < 100; id, i = m.findSuperType(id), i+1 {
		if t, ok := builtinValueTypes[id]; ok {
			want = t
			break
		}
	}
	if want == nil {
		// BaseDataType and its direct subtypes accept any value.
		return true
	}
	got := reflect.TypeOf(value)
	switch valueRank {
	case ua.ValueRankScalar:
		return got == want
	case ua.ValueRankScalarOrOneDimension, ua.ValueRankAny:
		return got == want || got == reflect.SliceOf(want)
	default:
		return got == reflect.SliceOf(want)
	}
}
