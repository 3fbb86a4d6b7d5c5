// Copyright 2021 Converter Systems LLC. All rights reserved.

package typedict

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/awcullen/opcua-typedict/ua"
)

// TypeRef names the type of a field. It is satisfied by ua.BuiltinType,
// TypeName and *StructNode.
type TypeRef interface {
	TypeName() string
}

// TypeName is a TypeRef given by name, e.g. TypeName("Int32") or
// TypeName("basic_structure").
type TypeName string

// TypeName returns the name.
func (n TypeName) TypeName() string {
	return string(n)
}

// ToCamelCase returns the name with every run of characters other than
// letters and digits removed, and the first letter of each remaining word
// in upper case, e.g. "turtle_actionlib/ShapeActionFeedback" returns
// "TurtleActionlibShapeActionFeedback".
func ToCamelCase(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	var b strings.Builder
	b.Grow(len(name))
	for _, w := range words {
		r, n := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(w[n:])
	}
	return b.String()
}

// resolveTypeName returns the prefixed name of the type as written in the
// TypeName attribute of a field. Builtin types are prefixed "opc:", anything
// else is a structure of the target namespace. A StructNode is always a
// structure.
func resolveTypeName(ref TypeRef) string {
	switch r := ref.(type) {
	case ua.BuiltinType:
		return "opc:" + r.TypeName()
	case *StructNode:
		return "tns:" + r.name
	}
	name := ref.TypeName()
	if _, ok := ua.FindBuiltinType(name); ok {
		return "opc:" + name
	}
	return "tns:" + ToCamelCase(name)
}

// isBuiltin returns true if the type is one of the builtin types that may be
// the type of a field.
func isBuiltin(bt ua.BuiltinType) bool {
	return bt != ua.BuiltinTypeNull && bt.String() != ""
}
