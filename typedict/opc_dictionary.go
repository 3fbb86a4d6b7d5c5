// Copyright 2021 Converter Systems LLC. All rights reserved.

package typedict

import (
	"encoding/xml"
	"strings"

	"github.com/awcullen/opcua-typedict/binaryschema"
	"github.com/awcullen/opcua-typedict/ua"
	"github.com/pkg/errors"
)

const (
	xsiNamespace       = "http://www.w3.org/2001/XMLSchema-instance"
	extensionObjectRef = "ua:ExtensionObject"
	lengthFieldPrefix  = "NoOf"
)

// OPCTypeDictionaryBuilder holds the structures of an OPC Binary type
// dictionary in the order they were appended, and renders the dictionary
// document.
type OPCTypeDictionaryBuilder struct {
	namespaceURI string
	structs      []*binaryschema.StructuredType
	index        map[string]*binaryschema.StructuredType
}

// NewOPCTypeDictionaryBuilder returns an empty dictionary with the given target namespace.
func NewOPCTypeDictionaryBuilder(namespaceURI string) *OPCTypeDictionaryBuilder {
	return &OPCTypeDictionaryBuilder{
		namespaceURI: namespaceURI,
		index:        make(map[string]*binaryschema.StructuredType),
	}
}

// NamespaceURI returns the target namespace of the dictionary.
func (b *OPCTypeDictionaryBuilder) NamespaceURI() string {
	return b.namespaceURI
}

// AppendStruct adds a structure with no fields. The name is converted with
// ToCamelCase. Appending a structure that exists clears its fields and keeps
// its position.
func (b *OPCTypeDictionaryBuilder) AppendStruct(name string) binaryschema.StructuredType {
	name = ToCamelCase(name)
	st, ok := b.index[name]
	if !ok {
		st = &binaryschema.StructuredType{Name: name, BaseType: extensionObjectRef}
		b.index[name] = st
		b.structs = append(b.structs, st)
	}
	st.Fields = nil
	return *st
}

// AddField appends a field to the named structure. An array field is preceded
// by a field of type Int32 that holds its length.
func (b *OPCTypeDictionaryBuilder) AddField(fieldType TypeRef, fieldName string, structName string, isArray bool) error {
	st, ok := b.index[ToCamelCase(structName)]
	if !ok {
		return errors.Wrapf(ErrUnknownStructure, "%q", structName)
	}
	if bt, ok := fieldType.(ua.BuiltinType); ok && !isBuiltin(bt) {
		return errors.Wrapf(ErrUnresolvedType, "field %s.%s: builtin type %d", st.Name, fieldName, byte(bt))
	}
	typeName := resolveTypeName(fieldType)
	if name, ok := strings.CutPrefix(typeName, "tns:"); ok && b.index[name] == nil {
		return errors.Wrapf(ErrUnresolvedType, "field %s.%s: %q", st.Name, fieldName, fieldType.TypeName())
	}
	if isArray {
		lengthField := lengthFieldPrefix + fieldName
		st.Fields = append(st.Fields,
			binaryschema.Field{Name: lengthField, TypeName: "opc:" + ua.BuiltinTypeInt32.TypeName()},
			binaryschema.Field{Name: fieldName, TypeName: typeName, LengthField: lengthField})
		return nil
	}
	st.Fields = append(st.Fields, binaryschema.Field{Name: fieldName, TypeName: typeName})
	return nil
}

// Structs returns a copy of the structures in the order they were appended.
func (b *OPCTypeDictionaryBuilder) Structs() []binaryschema.StructuredType {
	res := make([]binaryschema.StructuredType, len(b.structs))
	for i, st := range b.structs {
		res[i] = *st
		res[i].Fields = append([]binaryschema.Field(nil), st.Fields...)
	}
	return res
}

// document is the rendered form of the dictionary. The element and attribute
// names carry their prefixes literally.
type document struct {
	XMLName          xml.Name         `xml:"opc:TypeDictionary"`
	XSI              string           `xml:"xmlns:xsi,attr"`
	TNS              string           `xml:"xmlns:tns,attr"`
	DefaultByteOrder string           `xml:"DefaultByteOrder,attr"`
	OPC              string           `xml:"xmlns:opc,attr"`
	UA               string           `xml:"xmlns:ua,attr"`
	TargetNamespace  string           `xml:"TargetNamespace,attr"`
	Import           documentImport   `xml:"opc:Import"`
	StructuredTypes  []documentStruct `xml:"opc:StructuredType"`
}

type documentImport struct {
	Namespace string `xml:"Namespace,attr"`
}

type documentStruct struct {
	BaseType string          `xml:"BaseType,attr"`
	Name     string          `xml:"Name,attr"`
	Fields   []documentField `xml:"opc:Field"`
}

type documentField struct {
	Name        string `xml:"Name,attr"`
	TypeName    string `xml:"TypeName,attr"`
	LengthField string `xml:"LengthField,attr,omitempty"`
}

// Value returns the dictionary document, encoded as UTF-8 XML.
func (b *OPCTypeDictionaryBuilder) Value() ([]byte, error) {
	doc := document{
		XSI:              xsiNamespace,
		TNS:              b.namespaceURI,
		DefaultByteOrder: "LittleEndian",
		OPC:              binaryschema.Namespace,
		UA:               ua.NamespaceURI,
		TargetNamespace:  b.namespaceURI,
		Import:           documentImport{Namespace: ua.NamespaceURI},
		StructuredTypes:  make([]documentStruct, len(b.structs)),
	}
	for i, st := range b.structs {
		ds := documentStruct{BaseType: st.BaseType, Name: st.Name, Fields: make([]documentField, len(st.Fields))}
		for j, f := range st.Fields {
			ds.Fields[j] = documentField(f)
		}
		doc.StructuredTypes[i] = ds
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "rendering type dictionary")
	}
	return append([]byte(xml.Header), out...), nil
}
