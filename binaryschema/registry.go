// Copyright 2021 Converter Systems LLC. All rights reserved.

package binaryschema

import (
	"sort"
	"strings"
	"sync"

	"github.com/awcullen/opcua-typedict/ua"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a structure is not known to the registry.
	ErrNotFound = errors.New("structure not found")
	// ErrUnsupportedType is returned when a field has a type that cannot be encoded.
	ErrUnsupportedType = errors.New("unsupported field type")
)

// Registry holds the structures of loaded dictionaries, by name and by
// binary encoding id.
type Registry struct {
	sync.RWMutex
	types      map[string]*StructType
	byEncoding map[ua.NodeID]*StructType
	ec         ua.EncodingContext
}

// NewRegistry returns an empty Registry that encodes with the given context.
func NewRegistry(ec ua.EncodingContext) *Registry {
	if ec == nil {
		ec = ua.NewEncodingContext()
	}
	return &Registry{
		types:      make(map[string]*StructType),
		byEncoding: make(map[ua.NodeID]*StructType),
		ec:         ec,
	}
}

// Load adds the structures of the dictionary to the registry. A structure
// replaces any loaded structure with the same name.
func (r *Registry) Load(dict *Dictionary) error {
	enums := make(map[string]bool, len(dict.EnumeratedTypes))
	for _, et := range dict.EnumeratedTypes {
		enums[et.Name] = true
	}
	types := make(map[string]*StructType, len(dict.StructuredTypes))
	for _, st := range dict.StructuredTypes {
		if st.BaseType != "" && localName(st.BaseType) != "ExtensionObject" {
			return errors.Wrapf(ErrUnsupportedType, "%s: base type %q", st.Name, st.BaseType)
		}
		types[st.Name] = &StructType{Name: st.Name, Namespace: dict.TargetNamespace, index: map[string]int{}}
	}
	for _, st := range dict.StructuredTypes {
		t := types[st.Name]
		lengthFields := map[string]bool{}
		for _, f := range st.Fields {
			if f.LengthField != "" {
				lengthFields[f.LengthField] = true
			}
		}
		for _, f := range st.Fields {
			if lengthFields[f.Name] {
				continue
			}
			fd := &FieldDescriptor{Name: f.Name, TypeName: f.TypeName, IsArray: f.LengthField != ""}
			prefix, name := splitTypeName(f.TypeName)
			switch {
			case prefix == "tns" && types[name] != nil:
				fd.Struct = types[name]
			case prefix == "tns" && enums[name]:
				fd.Builtin = ua.BuiltinTypeInt32
			case prefix == "opc" || prefix == "ua":
				bt, ok := ua.FindBuiltinType(name)
				if _, supported := builtinCodecs[bt]; !ok || !supported {
					return errors.Wrapf(ErrUnsupportedType, "%s.%s: %q", st.Name, f.Name, f.TypeName)
				}
				fd.Builtin = bt
			default:
				return errors.Wrapf(ErrNotFound, "%s.%s: %q", st.Name, f.Name, f.TypeName)
			}
			t.index[fd.Name] = len(t.Fields)
			t.Fields = append(t.Fields, fd)
		}
	}
	for _, t := range types {
		if err := checkRecursion(t, map[*StructType]bool{}); err != nil {
			return err
		}
	}

	r.Lock()
	defer r.Unlock()
	for name, t := range types {
		if old, ok := r.types[name]; ok && !old.EncodingID.IsNil() {
			delete(r.byEncoding, old.EncodingID)
		}
		r.types[name] = t
	}
	return nil
}

// checkRecursion fails if a structure contains itself other than through an array.
func checkRecursion(t *StructType, path map[*StructType]bool) error {
	if path[t] {
		return errors.Errorf("structure %s contains itself", t.Name)
	}
	path[t] = true
	defer delete(path, t)
	for _, f := range t.Fields {
		if f.Struct != nil && !f.IsArray {
			if err := checkRecursion(f.Struct, path); err != nil {
				return err
			}
		}
	}
	return nil
}

func splitTypeName(typeName string) (prefix, name string) {
	if i := strings.IndexByte(typeName, ':'); i >= 0 {
		return typeName[:i], typeName[i+1:]
	}
	return "tns", typeName
}

func localName(typeName string) string {
	_, name := splitTypeName(typeName)
	return name
}

// Bind records the DataType node and binary encoding node of the named structure.
func (r *Registry) Bind(name string, dataTypeID, encodingID ua.NodeID) error {
	r.Lock()
	defer r.Unlock()
	t, ok := r.types[name]
	if !ok {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	if !t.EncodingID.IsNil() {
		delete(r.byEncoding, t.EncodingID)
	}
	t.DataTypeID = dataTypeID
	t.EncodingID = encodingID
	r.byEncoding[encodingID] = t
	return nil
}

// Lookup returns the structure with the given name.
func (r *Registry) Lookup(name string) (*StructType, error) {
	r.RLock()
	defer r.RUnlock()
	t, ok := r.types[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	return t, nil
}

// Types returns the loaded structures ordered by name.
func (r *Registry) Types() []*StructType {
	r.RLock()
	defer r.RUnlock()
	res := make([]*StructType, 0, len(r.types))
	for _, t := range r.types {
		res = append(res, t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

func (r *Registry) findEncoding(id ua.NodeID) (*StructType, error) {
	r.RLock()
	defer r.RUnlock()
	t, ok := r.byEncoding[id]
	if !ok {
		return nil, errors.Wrapf(ua.BadDataTypeIDUnknown, "encoding %s", id)
	}
	return t, nil
}

// Encode returns the record as an ExtensionObject with a binary body.
func (r *Registry) Encode(rec *Record) (ua.ExtensionObject, error) {
	t := rec.Type()
	if t.EncodingID.IsNil() {
		return ua.NilExtensionObject, errors.Wrapf(ua.BadDataTypeIDUnknown, "%s has no binary encoding", t.Name)
	}
	body, err := ua.MarshalBody(r.ec, func(enc *ua.BinaryEncoder) error {
		return t.encode(enc, rec)
	})
	if err != nil {
		return ua.NilExtensionObject, errors.Wrapf(err, "encoding %s", t.Name)
	}
	return ua.ExtensionObject{TypeID: t.EncodingID, Body: body}, nil
}

// Decode returns the record held by the ExtensionObject.
func (r *Registry) Decode(eo ua.ExtensionObject) (*Record, error) {
	t, err := r.findEncoding(eo.TypeID)
	if err != nil {
		return nil, err
	}
	dec := ua.NewBinaryDecoder(strings.NewReader(string(eo.Body)), r.ec)
	rec, err := t.decode(dec)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", t.Name)
	}
	return rec, nil
}

// WriteExtensionObject writes the record to the encoder as an ExtensionObject.
func (r *Registry) WriteExtensionObject(enc *ua.BinaryEncoder, rec *Record) error {
	t := rec.Type()
	if t.EncodingID.IsNil() {
		return errors.Wrapf(ua.BadDataTypeIDUnknown, "%s has no binary encoding", t.Name)
	}
	return enc.WriteStructure(t.EncodingID, func(enc *ua.BinaryEncoder) error {
		return t.encode(enc, rec)
	})
}

// ReadExtensionObject reads an ExtensionObject from the decoder and returns its record.
func (r *Registry) ReadExtensionObject(dec *ua.BinaryDecoder) (*Record, error) {
	var eo ua.ExtensionObject
	if err := dec.ReadExtensionObject(&eo); err != nil {
		return nil, err
	}
	return r.Decode(eo)
}
