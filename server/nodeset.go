// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	_ "embed"
	"encoding/base64"
	"encoding/xml"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/awcullen/opcua-typedict/ua"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// minimalNodeSet holds the subset of the standard namespace needed to define structures.
//
//go:embed nodesets/Opc.Ua.Minimal.NodeSet2.xml
var minimalNodeSet []byte

// UANodeSet is the root element of a UANodeSet2 XML document.
type UANodeSet struct {
	XMLName       xml.Name   `xml:"UANodeSet"`
	NamespaceUris []string   `xml:"NamespaceUris>Uri"`
	Aliases       []*UAAlias `xml:"Aliases>Alias"`
	Nodes         []*UANode  `xml:",any"`
}

// UAAlias maps a symbolic name to a NodeID.
type UAAlias struct {
	Alias  string `xml:"Alias,attr"`
	NodeID string `xml:",chardata"`
}

// UANode holds the attributes of any node class of a UANodeSet.
type UANode struct {
	XMLName         xml.Name
	NodeID          string          `xml:"NodeId,attr"`
	BrowseName      string          `xml:"BrowseName,attr"`
	DisplayName     UALocalizedText `xml:"DisplayName"`
	Description     UALocalizedText `xml:"Description"`
	References      []*UAReference  `xml:"References>Reference"`
	IsAbstract      bool            `xml:"IsAbstract,attr"`
	Symmetric       bool            `xml:"Symmetric,attr"`
	InverseName     string          `xml:"InverseName"`
	EventNotifier   byte            `xml:"EventNotifier,attr"`
	DataType        string          `xml:"DataType,attr"`
	ValueRank       string          `xml:"ValueRank,attr"`
	ArrayDimensions string          `xml:"ArrayDimensions,attr"`
	AccessLevel     string          `xml:"AccessLevel,attr"`
	Historizing     bool            `xml:"Historizing,attr"`
	Value           *UAVariant      `xml:"Value"`
}

// UALocalizedText is a LocalizedText of a UANodeSet.
type UALocalizedText struct {
	Locale string `xml:"Locale,attr"`
	Text   string `xml:",chardata"`
}

// UAReference is a Reference of a UANodeSet.
type UAReference struct {
	ReferenceType string `xml:"ReferenceType,attr"`
	IsForward     string `xml:"IsForward,attr"`
	TargetNodeID  string `xml:",chardata"`
}

// UAVariant is the scalar value of a variable of a UANodeSet.
type UAVariant struct {
	Boolean    *bool    `xml:"Boolean"`
	Int32      *int32   `xml:"Int32"`
	UInt32     *uint32  `xml:"UInt32"`
	Double     *float64 `xml:"Double"`
	String     *string  `xml:"String"`
	ByteString *string  `xml:"ByteString"`
}

// LoadNodeSetFromFile loads the UANodeSet XML from a file with the given path into the namespace.
func (m *NamespaceManager) LoadNodeSetFromFile(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading nodeset. %s\n", err)
		return err
	}
	return m.LoadNodeSetFromBuffer(buf)
}

// LoadNodeSetFromBuffer loads the UANodeSet XML from a buffer into the namespace.
func (m *NamespaceManager) LoadNodeSetFromBuffer(buf []byte) error {
	set := &UANodeSet{}
	err := xml.Unmarshal(buf, set)
	if err != nil {
		log.Printf("Error decoding nodeset. %s\n", err)
		return errors.Wrap(err, "decoding nodeset")
	}

	nsMap := make(map[uint16]uint16, 8)
	for i, nsu := range set.NamespaceUris {
		nsMap[uint16(i+1)] = m.Add(nsu)
	}

	aliases := make(map[string]string, len(set.Aliases))
	for _, a := range set.Aliases {
		aliases[a.Alias] = strings.TrimSpace(a.NodeID)
	}

	nodes := make([]Node, 0, len(set.Nodes))
	for _, n := range set.Nodes {
		id := toNodeID(n.NodeID, aliases, nsMap)
		if id.IsNil() {
			continue
		}
		browseName := toBrowseName(n.BrowseName, nsMap)
		displayName := toLocalizedText(n.DisplayName)
		description := toLocalizedText(n.Description)
		refs := toRefs(n.References, aliases, nsMap)
		switch n.XMLName.Local {
		case "UAObjectType":
			nodes = append(nodes, NewObjectTypeNode(id, browseName, displayName, description, refs, n.IsAbstract))
		case "UAVariableType":
			nodes = append(nodes, NewVariableTypeNode(id, browseName, displayName, description, refs,
				toDataType(n.DataType, aliases, nsMap), toInt32(n.ValueRank, -1), n.IsAbstract))
		case "UADataType":
			nodes = append(nodes, NewDataTypeNode(id, browseName, displayName, description, refs, n.IsAbstract))
		case "UAReferenceType":
			nodes = append(nodes, NewReferenceTypeNode(id, browseName, displayName, description, refs,
				n.IsAbstract, n.Symmetric, ua.NewLocalizedText(n.InverseName, "")))
		case "UAObject":
			nodes = append(nodes, NewObjectNode(id, browseName, displayName, description, refs, n.EventNotifier))
		case "UAVariable":
			rank := toInt32(n.ValueRank, -1)
			nodes = append(nodes, NewVariableNode(id, browseName, displayName, description, refs,
				toDataValue(n.Value), toDataType(n.DataType, aliases, nsMap), rank, toDims(n.ArrayDimensions, rank),
				toUint8(n.AccessLevel, ua.AccessLevelsCurrentRead), n.Historizing))
		}
	}
	err = m.AddNodes(nodes)
	if err != nil {
		log.Printf("Error adding nodes. %s\n", err)
		return err
	}
	return nil
}

func toNodeID(s string, aliases map[string]string, nsMap map[uint16]uint16) ua.NodeID {
	s = strings.TrimSpace(s)
	if alias, exists := aliases[s]; exists {
		s = alias
	}
	id := ua.ParseNodeID(s)
	if ns, exists := nsMap[id.NamespaceIndex()]; exists && id.NamespaceIndex() > 0 {
		return remapNamespace(id, ns)
	}
	return id
}

func remapNamespace(id ua.NodeID, ns uint16) ua.NodeID {
	switch v := id.Identifier().(type) {
	case uint32:
		return ua.NewNodeIDNumeric(ns, v)
	case string:
		return ua.NewNodeIDString(ns, v)
	case uuid.UUID:
		return ua.NewNodeIDGUID(ns, v)
	case ua.ByteString:
		return ua.NewNodeIDOpaque(ns, v)
	}
	return id
}

func toDataType(s string, aliases map[string]string, nsMap map[uint16]uint16) ua.NodeID {
	if s == "" {
		return ua.DataTypeIDBaseDataType
	}
	return toNodeID(s, aliases, nsMap)
}

func toDims(dims string, rank int32) []uint32 {
	if dims == "" {
		if rank > 0 {
			return make([]uint32, rank)
		}
		return []uint32{}
	}
	sa := strings.Split(dims, ",")
	ia := make([]uint32, len(sa))
	for i, a := range sa {
		if v, err := strconv.ParseUint(a, 10, 32); err == nil {
			ia[i] = uint32(v)
		}
	}
	return ia
}

func toRefs(refs []*UAReference, aliases map[string]string, nsMap map[uint16]uint16) []ua.Reference {
	if len(refs) == 0 {
		return []ua.Reference{}
	}
	ra := make([]ua.Reference, len(refs))
	for i, r := range refs {
		ra[i] = ua.NewReference(
			toNodeID(r.ReferenceType, aliases, nsMap),
			r.IsForward == "false",
			toNodeID(r.TargetNodeID, aliases, nsMap),
		)
	}
	return ra
}

func toBrowseName(s string, nsMap map[uint16]uint16) ua.QualifiedName {
	var pos = strings.Index(s, ":")
	if pos == -1 {
		return ua.NewQualifiedName(0, s)
	}
	ns, err := strconv.ParseUint(s[:pos], 10, 16)
	if err != nil {
		return ua.NewQualifiedName(0, s)
	}
	s = s[pos+1:]
	if ns2, exists := nsMap[uint16(ns)]; exists {
		ns = uint64(ns2)
	}
	return ua.NewQualifiedName(uint16(ns), s)
}

func toLocalizedText(s UALocalizedText) ua.LocalizedText {
	return ua.NewLocalizedText(strings.TrimSpace(s.Text), s.Locale)
}

func toInt32(s string, def int32) int32 {
	if v, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int32(v)
	}
	return def
}

func toUint8(s string, def uint8) uint8 {
	if v, err := strconv.ParseUint(s, 10, 8); err == nil {
		return uint8(v)
	}
	return def
}

func toDataValue(v *UAVariant) ua.DataValue {
	now := time.Now()
	if v == nil {
		return ua.NewDataValue(nil, ua.Good, now, now)
	}
	var value any
	switch {
	case v.Boolean != nil:
		value = *v.Boolean
	case v.Int32 != nil:
		value = *v.Int32
	case v.UInt32 != nil:
		value = *v.UInt32
	case v.Double != nil:
		value = *v.Double
	case v.String != nil:
		value = *v.String
	case v.ByteString != nil:
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(*v.ByteString))
		if err != nil {
			log.Printf("Error decoding ByteString value. %s\n", err)
			return ua.NewDataValue(nil, ua.BadDecodingError, now, now)
		}
		value = ua.ByteString(b)
	}
	return ua.NewDataValue(value, ua.Good, now, now)
}
