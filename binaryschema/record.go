// Copyright 2021 Converter Systems LLC. All rights reserved.

package binaryschema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/awcullen/opcua-typedict/ua"
	"github.com/pkg/errors"
)

// Record is an instance of a StructType.
type Record struct {
	typ    *StructType
	values []any
}

// Type returns the type of the record.
func (r *Record) Type() *StructType {
	return r.typ
}

// Get returns the value of the named field.
func (r *Record) Get(name string) (any, bool) {
	i, ok := r.typ.index[name]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Set replaces the value of the named field. The value must have the Go type
// of the field, e.g. int32 for opc:Int32, []string for an array of opc:String
// and *Record for a nested structure.
func (r *Record) Set(name string, value any) error {
	i, ok := r.typ.index[name]
	if !ok {
		return errors.Wrapf(ua.BadNoMatch, "%s has no field %q", r.typ.Name, name)
	}
	f := r.typ.Fields[i]
	if reflect.TypeOf(value) != f.valueType() {
		return errors.Wrapf(ua.BadTypeMismatch, "%s.%s expects %s, got %T", r.typ.Name, name, f.valueType(), value)
	}
	if f.Struct != nil {
		if err := checkRecordTypes(f, value); err != nil {
			return errors.Wrapf(err, "%s.%s", r.typ.Name, name)
		}
	}
	r.values[i] = value
	return nil
}

func checkRecordTypes(f *FieldDescriptor, value any) error {
	check := func(rec *Record) error {
		if rec != nil && rec.typ != f.Struct {
			return errors.Wrapf(ua.BadTypeMismatch, "expects %s, got %s", f.Struct.Name, rec.typ.Name)
		}
		return nil
	}
	if recs, ok := value.([]*Record); ok {
		for _, rec := range recs {
			if err := check(rec); err != nil {
				return err
			}
		}
		return nil
	}
	return check(value.(*Record))
}

// Equal returns true if both records have the same type and field values.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.typ == other.typ && reflect.DeepEqual(r.values, other.values)
}

// String returns a representation such as BasicStructure(ID:5, Name:x).
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(r.typ.Name)
	b.WriteByte('(')
	for i, f := range r.typ.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s:%v", f.Name, r.values[i])
	}
	b.WriteByte(')')
	return b.String()
}
