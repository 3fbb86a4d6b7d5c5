// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"fmt"
	"strconv"
	"strings"
)

// ByteString is a sequence of octets.
type ByteString string

// XMLElement is an XML fragment.
type XMLElement string

// QualifiedName pairs a name and a namespace index.
type QualifiedName struct {
	NamespaceIndex uint16
	Name           string
}

// NewQualifiedName constructs a QualifiedName from a namespace index and a name.
func NewQualifiedName(ns uint16, text string) QualifiedName {
	return QualifiedName{ns, text}
}

// ParseQualifiedName returns a QualifiedName from a string, e.g. ParseQualifiedName("2:Demo")
func ParseQualifiedName(s string) QualifiedName {
	pos := strings.Index(s, ":")
	if pos == -1 {
		return QualifiedName{0, s}
	}
	ns, err := strconv.ParseUint(s[:pos], 10, 16)
	if err != nil {
		return QualifiedName{0, s}
	}
	return QualifiedName{uint16(ns), s[pos+1:]}
}

// String returns a string representation, e.g. "2:Demo"
func (a QualifiedName) String() string {
	return fmt.Sprintf("%d:%s", a.NamespaceIndex, a.Name)
}

// LocalizedText pairs text and a Locale string.
type LocalizedText struct {
	Text   string
	Locale string
}

// NewLocalizedText constructs a LocalizedText from text and Locale string.
func NewLocalizedText(text, locale string) LocalizedText {
	return LocalizedText{text, locale}
}

// String returns the string representation, e.g. "text (locale)"
func (a LocalizedText) String() string {
	if a.Locale == "" {
		return a.Text
	}
	return fmt.Sprintf("%s (%s)", a.Text, a.Locale)
}
