// Copyright 2021 Converter Systems LLC. All rights reserved.

// Package binaryschema reads OPC Binary type dictionaries and encodes the
// structures they describe.
package binaryschema

import (
	"encoding/xml"

	"github.com/pkg/errors"
)

// Namespace of the OPC Binary schema.
const Namespace = "http://opcfoundation.org/BinarySchema/"

// Dictionary is a parsed opc:TypeDictionary document.
type Dictionary struct {
	XMLName          xml.Name         `xml:"TypeDictionary"`
	TargetNamespace  string           `xml:"TargetNamespace,attr"`
	DefaultByteOrder string           `xml:"DefaultByteOrder,attr"`
	Imports          []Import         `xml:"Import"`
	StructuredTypes  []StructuredType `xml:"StructuredType"`
	EnumeratedTypes  []EnumeratedType `xml:"EnumeratedType"`
}

// Import names a dictionary this dictionary depends on.
type Import struct {
	Namespace string `xml:"Namespace,attr"`
	Location  string `xml:"Location,attr"`
}

// StructuredType is a structure of a dictionary.
type StructuredType struct {
	Name     string  `xml:"Name,attr"`
	BaseType string  `xml:"BaseType,attr"`
	Fields   []Field `xml:"Field"`
}

// Field is a field of a StructuredType.
type Field struct {
	Name        string `xml:"Name,attr"`
	TypeName    string `xml:"TypeName,attr"`
	LengthField string `xml:"LengthField,attr"`
}

// EnumeratedType is an enumeration of a dictionary.
type EnumeratedType struct {
	Name             string            `xml:"Name,attr"`
	LengthInBits     int               `xml:"LengthInBits,attr"`
	EnumeratedValues []EnumeratedValue `xml:"EnumeratedValue"`
}

// EnumeratedValue is a named value of an EnumeratedType.
type EnumeratedValue struct {
	Name  string `xml:"Name,attr"`
	Value int32  `xml:"Value,attr"`
}

// Parse decodes a dictionary document.
func Parse(doc []byte) (*Dictionary, error) {
	dict := &Dictionary{}
	if err := xml.Unmarshal(doc, dict); err != nil {
		return nil, errors.Wrap(err, "parsing type dictionary")
	}
	return dict, nil
}

// StructuredType returns the structure with the given name.
func (d *Dictionary) StructuredType(name string) (StructuredType, bool) {
	for _, st := range d.StructuredTypes {
		if st.Name == name {
			return st, true
		}
	}
	return StructuredType{}, false
}
