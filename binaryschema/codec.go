// Copyright 2021 Converter Systems LLC. All rights reserved.

package binaryschema

import (
	"reflect"

	"github.com/awcullen/opcua-typedict/ua"
)

// builtinCodec reads and writes the values of a builtin type.
type builtinCodec struct {
	typ   reflect.Type
	write func(enc *ua.BinaryEncoder, v any) error
	read  func(dec *ua.BinaryDecoder) (any, error)
}

func codecOf[T any](write func(*ua.BinaryEncoder, T) error, read func(*ua.BinaryDecoder, *T) error) builtinCodec {
	return builtinCodec{
		typ: reflect.TypeOf((*T)(nil)).Elem(),
		write: func(enc *ua.BinaryEncoder, v any) error {
			t, ok := v.(T)
			if !ok {
				return ua.BadEncodingError
			}
			return write(enc, t)
		},
		read: func(dec *ua.BinaryDecoder) (any, error) {
			var t T
			err := read(dec, &t)
			return t, err
		},
	}
}

// builtinCodecs holds the builtin types a structure field may have.
// DataValue, Variant and DiagnosticInfo are not supported.
var builtinCodecs = map[ua.BuiltinType]builtinCodec{
	ua.BuiltinTypeBoolean:         codecOf((*ua.BinaryEncoder).WriteBoolean, (*ua.BinaryDecoder).ReadBoolean),
	ua.BuiltinTypeSByte:           codecOf((*ua.BinaryEncoder).WriteSByte, (*ua.BinaryDecoder).ReadSByte),
	ua.BuiltinTypeByte:            codecOf((*ua.BinaryEncoder).WriteByte, (*ua.BinaryDecoder).ReadByte),
	ua.BuiltinTypeInt16:           codecOf((*ua.BinaryEncoder).WriteInt16, (*ua.BinaryDecoder).ReadInt16),
	ua.BuiltinTypeUInt16:          codecOf((*ua.BinaryEncoder).WriteUInt16, (*ua.BinaryDecoder).ReadUInt16),
	ua.BuiltinTypeInt32:           codecOf((*ua.BinaryEncoder).WriteInt32, (*ua.BinaryDecoder).ReadInt32),
	ua.BuiltinTypeUInt32:          codecOf((*ua.BinaryEncoder).WriteUInt32, (*ua.BinaryDecoder).ReadUInt32),
	ua.BuiltinTypeInt64:           codecOf((*ua.BinaryEncoder).WriteInt64, (*ua.BinaryDecoder).ReadInt64),
	ua.BuiltinTypeUInt64:          codecOf((*ua.BinaryEncoder).WriteUInt64, (*ua.BinaryDecoder).ReadUInt64),
	ua.BuiltinTypeFloat:           codecOf((*ua.BinaryEncoder).WriteFloat, (*ua.BinaryDecoder).ReadFloat),
	ua.BuiltinTypeDouble:          codecOf((*ua.BinaryEncoder).WriteDouble, (*ua.BinaryDecoder).ReadDouble),
	ua.BuiltinTypeString:          codecOf((*ua.BinaryEncoder).WriteString, (*ua.BinaryDecoder).ReadString),
	ua.BuiltinTypeDateTime:        codecOf((*ua.BinaryEncoder).WriteDateTime, (*ua.BinaryDecoder).ReadDateTime),
	ua.BuiltinTypeGUID:            codecOf((*ua.BinaryEncoder).WriteGUID, (*ua.BinaryDecoder).ReadGUID),
	ua.BuiltinTypeByteString:      codecOf((*ua.BinaryEncoder).WriteByteString, (*ua.BinaryDecoder).ReadByteString),
	ua.BuiltinTypeXMLElement:      codecOf((*ua.BinaryEncoder).WriteXMLElement, (*ua.BinaryDecoder).ReadXMLElement),
	ua.BuiltinTypeNodeID:          codecOf((*ua.BinaryEncoder).WriteNodeID, (*ua.BinaryDecoder).ReadNodeID),
	ua.BuiltinTypeExpandedNodeID:  codecOf((*ua.BinaryEncoder).WriteExpandedNodeID, (*ua.BinaryDecoder).ReadExpandedNodeID),
	ua.BuiltinTypeStatusCode:      codecOf((*ua.BinaryEncoder).WriteStatusCode, (*ua.BinaryDecoder).ReadStatusCode),
	ua.BuiltinTypeQualifiedName:   codecOf((*ua.BinaryEncoder).WriteQualifiedName, (*ua.BinaryDecoder).ReadQualifiedName),
	ua.BuiltinTypeLocalizedText:   codecOf((*ua.BinaryEncoder).WriteLocalizedText, (*ua.BinaryDecoder).ReadLocalizedText),
	ua.BuiltinTypeExtensionObject: codecOf((*ua.BinaryEncoder).WriteExtensionObject, (*ua.BinaryDecoder).ReadExtensionObject),
}

var recordType = reflect.TypeOf((*Record)(nil))

// maxPreallocatedElements bounds the capacity reserved for a decoded array.
const maxPreallocatedElements = 64

// encode writes the fields of the record in declaration order.
func (t *StructType) encode(enc *ua.BinaryEncoder, rec *Record) error {
	if rec == nil {
		rec = t.New()
	}
	if rec.typ != t {
		return ua.BadEncodingError
	}
	for i, f := range t.Fields {
		if err := f.encode(enc, rec.values[i]); err != nil {
			return err
		}
	}
	return nil
}

// decode reads a record of this type.
func (t *StructType) decode(dec *ua.BinaryDecoder) (*Record, error) {
	rec := &Record{typ: t, values: make([]any, len(t.Fields))}
	for i, f := range t.Fields {
		v, err := f.decode(dec)
		if err != nil {
			return nil, err
		}
		rec.values[i] = v
	}
	return rec, nil
}

func (f *FieldDescriptor) encode(enc *ua.BinaryEncoder, v any) error {
	if !f.IsArray {
		return f.encodeElement(enc, v)
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return ua.BadEncodingError
	}
	if rv.IsNil() {
		return enc.WriteInt32(-1)
	}
	if err := enc.WriteInt32(int32(rv.Len())); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if err := f.encodeElement(enc, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (f *FieldDescriptor) encodeElement(enc *ua.BinaryEncoder, v any) error {
	if f.Struct != nil {
		rec, ok := v.(*Record)
		if !ok {
			return ua.BadEncodingError
		}
		return f.Struct.encode(enc, rec)
	}
	return builtinCodecs[f.Builtin].write(enc, v)
}

func (f *FieldDescriptor) decode(dec *ua.BinaryDecoder) (any, error) {
	if !f.IsArray {
		return f.decodeElement(dec)
	}
	var n int32
	if err := dec.ReadInt32(&n); err != nil {
		return nil, err
	}
	st := f.valueType()
	if n < 0 {
		return reflect.Zero(st).Interface(), nil
	}
	// the length is untrusted, so the slice grows only as elements are read.
	rv := reflect.MakeSlice(st, 0, min(int(n), maxPreallocatedElements))
	for i := 0; i < int(n); i++ {
		v, err := f.decodeElement(dec)
		if err != nil {
			return nil, err
		}
		rv = reflect.Append(rv, reflect.ValueOf(v))
	}
	return rv.Interface(), nil
}

func (f *FieldDescriptor) decodeElement(dec *ua.BinaryDecoder) (any, error) {
	if f.Struct != nil {
		return f.Struct.decode(dec)
	}
	return builtinCodecs[f.Builtin].read(dec)
}

// elementType returns the Go type of a single value of the field.
func (f *FieldDescriptor) elementType() reflect.Type {
	if f.Struct != nil {
		return recordType
	}
	return builtinCodecs[f.Builtin].typ
}

// valueType returns the Go type of the field's value.
func (f *FieldDescriptor) valueType() reflect.Type {
	if f.IsArray {
		return reflect.SliceOf(f.elementType())
	}
	return f.elementType()
}

// zero returns the default value of the field. Arrays default to an empty slice.
func (f *FieldDescriptor) zero() any {
	switch {
	case f.IsArray:
		return reflect.MakeSlice(f.valueType(), 0, 0).Interface()
	case f.Struct != nil:
		return f.Struct.New()
	default:
		return reflect.Zero(f.valueType()).Interface()
	}
}
