// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IDType is the type of identifier of a NodeID.
type IDType byte

// IDType enumeration.
const (
	IDTypeNumeric IDType = iota
	IDTypeString
	IDTypeGUID
	IDTypeOpaque
)

// NodeID identifies a Node. NodeIDs are comparable and may be used as map keys.
type NodeID struct {
	namespaceIndex uint16
	idType         IDType
	nid            uint32
	sid            string
	gid            uuid.UUID
	bid            ByteString
}

// NewNodeIDNumeric constructs a new NodeID of numeric type.
func NewNodeIDNumeric(namespaceIndex uint16, identifier uint32) NodeID {
	return NodeID{namespaceIndex: namespaceIndex, idType: IDTypeNumeric, nid: identifier}
}

// NewNodeIDString constructs a new NodeID of string type.
func NewNodeIDString(namespaceIndex uint16, identifier string) NodeID {
	return NodeID{namespaceIndex: namespaceIndex, idType: IDTypeString, sid: identifier}
}

// NewNodeIDGUID constructs a new NodeID of GUID type.
func NewNodeIDGUID(namespaceIndex uint16, identifier uuid.UUID) NodeID {
	return NodeID{namespaceIndex: namespaceIndex, idType: IDTypeGUID, gid: identifier}
}

// NewNodeIDOpaque constructs a new NodeID of opaque type.
func NewNodeIDOpaque(namespaceIndex uint16, identifier ByteString) NodeID {
	return NodeID{namespaceIndex: namespaceIndex, idType: IDTypeOpaque, bid: identifier}
}

// NilNodeID is the nil value.
var NilNodeID = NodeID{}

// NamespaceIndex returns the namespace index.
func (n NodeID) NamespaceIndex() uint16 {
	return n.namespaceIndex
}

// IDType returns the identifier type.
func (n NodeID) IDType() IDType {
	return n.idType
}

// Identifier returns the identifier.
func (n NodeID) Identifier() any {
	switch n.idType {
	case IDTypeNumeric:
		return n.nid
	case IDTypeString:
		return n.sid
	case IDTypeGUID:
		return n.gid
	case IDTypeOpaque:
		return n.bid
	}
	return nil
}

// IsNil returns true if the nodeId is nil
func (n NodeID) IsNil() bool {
	if n.namespaceIndex > 0 {
		return false
	}
	switch n.idType {
	case IDTypeNumeric:
		return n.nid == 0
	case IDTypeString:
		return len(n.sid) == 0
	case IDTypeGUID:
		return n.gid == uuid.Nil
	case IDTypeOpaque:
		return len(n.bid) == 0
	}
	return false
}

// ParseNodeID returns a NodeID from a string representation.
//   - ParseNodeID("i=85") // integer, assumes ns=0
//   - ParseNodeID("ns=2;s=Demo.Static.Scalar.Float") // string
//   - ParseNodeID("ns=2;g=5ce9dbce-5d79-434c-9ac3-1cfba9a6e92c") // guid
//   - ParseNodeID("ns=2;b=YWJjZA==") // opaque byte string
func ParseNodeID(s string) NodeID {
	var ns uint64
	if strings.HasPrefix(s, "ns=") {
		pos := strings.Index(s, ";")
		if pos == -1 {
			return NilNodeID
		}
		var err error
		if ns, err = strconv.ParseUint(s[3:pos], 10, 16); err != nil {
			return NilNodeID
		}
		s = s[pos+1:]
	}
	switch {
	case strings.HasPrefix(s, "i="):
		id, err := strconv.ParseUint(s[2:], 10, 32)
		if err != nil {
			return NilNodeID
		}
		return NewNodeIDNumeric(uint16(ns), uint32(id))
	case strings.HasPrefix(s, "s="):
		return NewNodeIDString(uint16(ns), s[2:])
	case strings.HasPrefix(s, "g="):
		id, err := uuid.Parse(s[2:])
		if err != nil {
			return NilNodeID
		}
		return NewNodeIDGUID(uint16(ns), id)
	case strings.HasPrefix(s, "b="):
		id, err := base64.StdEncoding.DecodeString(s[2:])
		if err != nil {
			return NilNodeID
		}
		return NewNodeIDOpaque(uint16(ns), ByteString(id))
	}
	return NilNodeID
}

// String returns a string representation of the NodeID, e.g. "ns=2;s=Demo"
func (n NodeID) String() string {
	var id string
	switch n.idType {
	case IDTypeNumeric:
		id = "i=" + strconv.FormatUint(uint64(n.nid), 10)
	case IDTypeString:
		id = "s=" + n.sid
	case IDTypeGUID:
		id = "g=" + n.gid.String()
	case IDTypeOpaque:
		id = "b=" + base64.StdEncoding.EncodeToString([]byte(n.bid))
	default:
		return ""
	}
	if n.namespaceIndex > 0 {
		return fmt.Sprintf("ns=%d;%s", n.namespaceIndex, id)
	}
	return id
}

// ExpandedNodeID identifies a Node that may reside in another namespace table or server.
type ExpandedNodeID struct {
	ServerIndex  uint32
	NamespaceURI string
	NodeID       NodeID
}

// NewExpandedNodeID casts an ExpandedNodeID from a local NodeID.
func NewExpandedNodeID(nodeID NodeID) ExpandedNodeID {
	return ExpandedNodeID{NodeID: nodeID}
}

// ToNodeID converts the ExpandedNodeID to a NodeID, resolving the namespace uri
// against the given table. Returns NilNodeID if the uri is unknown.
func ToNodeID(n ExpandedNodeID, namespaceURIs []string) NodeID {
	if n.NamespaceURI == "" {
		return n.NodeID
	}
	for i, nsu := range namespaceURIs {
		if nsu == n.NamespaceURI {
			id := n.NodeID
			id.namespaceIndex = uint16(i)
			return id
		}
	}
	return NilNodeID
}

// String returns a string representation, e.g. "nsu=http://test.org/;i=6001"
func (n ExpandedNodeID) String() string {
	s := n.NodeID.String()
	if n.NamespaceURI != "" {
		id := n.NodeID
		id.namespaceIndex = 0
		s = "nsu=" + n.NamespaceURI + ";" + id.String()
	}
	if n.ServerIndex > 0 {
		return fmt.Sprintf("svr=%d;%s", n.ServerIndex, s)
	}
	return s
}
