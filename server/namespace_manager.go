// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"log"
	"sync"

	"github.com/awcullen/opcua-typedict/ua"
	"github.com/gammazero/deque"
)

var (
	hasChildandSubtypes = []ua.NodeID{ua.ReferenceTypeIDHasComponent, ua.ReferenceTypeIDHasProperty, ua.ReferenceTypeIDHasSubtype, ua.ReferenceTypeIDHasEncoding, ua.ReferenceTypeIDHasDescription}
)

// NamespaceManager manages the namespaces and nodes of the address space.
type NamespaceManager struct {
	sync.RWMutex
	namespaces []string
	nodes      map[ua.NodeID]Node
}

// NewNamespaceManager instantiates a new NamespaceManager. The namespace table
// starts with the standard namespace and the application namespace.
func NewNamespaceManager(applicationURI string) *NamespaceManager {
	return &NamespaceManager{
		namespaces: []string{ua.NamespaceURI, applicationURI},
		nodes:      make(map[ua.NodeID]Node, 256),
	}
}

// Add adds a namespace to the end of the table and returns the index.
// If the namespace already exists then returns the index.
func (m *NamespaceManager) Add(nsu string) uint16 {
	m.Lock()
	defer m.Unlock()
	for i, ns := range m.namespaces {
		if ns == nsu {
			return uint16(i)
		}
	}
	m.namespaces = append(m.namespaces, nsu)
	return uint16(len(m.namespaces) - 1)
}

// NamespaceUris returns the namespace table of the server.
func (m *NamespaceManager) NamespaceUris() []string {
	m.RLock()
	defer m.RUnlock()
	return append([]string(nil), m.namespaces...)
}

// NamespaceIndex returns the index of the namespace uri.
func (m *NamespaceManager) NamespaceIndex(nsu string) (uint16, bool) {
	m.RLock()
	defer m.RUnlock()
	if i := indexOfString(m.namespaces, nsu); i != -1 {
		return uint16(i), true
	}
	return 0, false
}

// FindNode returns the node with the given NodeID from the namespace.
func (m *NamespaceManager) FindNode(id ua.NodeID) (node Node, ok bool) {
	m.RLock()
	node, ok = m.nodes[id]
	m.RUnlock()
	return
}

// FindObject returns the node with the given NodeID from the namespace.
func (m *NamespaceManager) FindObject(id ua.NodeID) (node *ObjectNode, ok bool) {
	m.RLock()
	defer m.RUnlock()
	if node1, ok1 := m.nodes[id]; ok1 {
		node, ok = node1.(*ObjectNode)
	}
	return
}

// FindVariable returns the node with the given NodeID from the namespace.
func (m *NamespaceManager) FindVariable(id ua.NodeID) (node *VariableNode, ok bool) {
	m.RLock()
	defer m.RUnlock()
	if node1, ok1 := m.nodes[id]; ok1 {
		node, ok = node1.(*VariableNode)
	}
	return
}

// FindDataType returns the node with the given NodeID from the namespace.
func (m *NamespaceManager) FindDataType(id ua.NodeID) (node *DataTypeNode, ok bool) {
	m.RLock()
	defer m.RUnlock()
	if node1, ok1 := m.nodes[id]; ok1 {
		node, ok = node1.(*DataTypeNode)
	}
	return
}

// IsSubtype returns whether the subtype is derived from the given supertype in the namespace.
func (m *NamespaceManager) IsSubtype(subtype, supertype ua.NodeID) bool {
	m.RLock()
	defer m.RUnlock()
	return m.isSubtype(subtype, supertype)
}

func (m *NamespaceManager) isSubtype(subtype, supertype ua.NodeID) bool {
	id := subtype
	for i := 0; i < 100; i++ {
		if id == supertype {
			return true
		}
		id = m.findSuperType(id)
		if id.IsNil() {
			return false
		}
	}
	log.Printf("IsSubtype() exceeded limits.\n")
	return false
}

// FindSuperType returns the immediate supertype for the type.
func (m *NamespaceManager) FindSuperType(typeid ua.NodeID) ua.NodeID {
	m.RLock()
	defer m.RUnlock()
	return m.findSuperType(typeid)
}

func (m *NamespaceManager) findSuperType(typeid ua.NodeID) ua.NodeID {
	if n, ok := m.nodes[typeid]; ok {
		for _, r := range n.References() {
			if r.IsInverse && ua.ReferenceTypeIDHasSubtype == r.ReferenceTypeID {
				return ua.ToNodeID(r.TargetID, m.namespaces)
			}
		}
	}
	return ua.NilNodeID
}

func (m *NamespaceManager) addNodes(nodes []Node) error {
	for _, node := range nodes {
		m.nodes[node.NodeID()] = node
	}
	// add inverse refs of added nodes
	for _, node := range nodes {
		m.addInverseReferences(node.NodeID(), node.References())
	}
	return nil
}

// addInverseReferences adds the matching reference to the target of each given reference.
func (m *NamespaceManager) addInverseReferences(id ua.NodeID, refs []ua.Reference) {
	for _, r := range refs {
		if r.ReferenceTypeID == ua.ReferenceTypeIDHasTypeDefinition || r.ReferenceTypeID == ua.ReferenceTypeIDHasModellingRule {
			continue
		}
		t, ok := m.nodes[ua.ToNodeID(r.TargetID, m.namespaces)]
		if !ok {
			log.Printf("Error finding reference target: %s\n", r.TargetID)
			continue
		}
		if !hasReference(t.References(), r.ReferenceTypeID, !r.IsInverse, id, m.namespaces) {
			inverseRef := ua.Reference{
				ReferenceTypeID: r.ReferenceTypeID,
				IsInverse:       !r.IsInverse,
				TargetID:        ua.NewExpandedNodeID(id)}
			t.SetReferences(append(t.References(), inverseRef))
		}
	}
}

func hasReference(refs []ua.Reference, referenceTypeID ua.NodeID, isInverse bool, target ua.NodeID, uris []string) bool {
	for _, r := range refs {
		if r.ReferenceTypeID == referenceTypeID && r.IsInverse == isInverse && ua.ToNodeID(r.TargetID, uris) == target {
			return true
		}
	}
	return false
}

// AddNodes adds the nodes to the namespace.
// This method adds the inverse refs as well.
func (m *NamespaceManager) AddNodes(nodes []Node) error {
	m.Lock()
	defer m.Unlock()
	return m.addNodes(nodes)
}

// AddNode adds the node to the namespace.
// This method adds the inverse refs as well.
func (m *NamespaceManager) AddNode(node Node) error {
	m.Lock()
	defer m.Unlock()
	return m.addNodes([]Node{node})
}

// DeleteNodes removes the nodes from the namespace.
// This method removes the inverse refs as well.
func (m *NamespaceManager) DeleteNodes(nodes []Node, deleteChildren bool) error {
	m.Lock()
	defer m.Unlock()
	if deleteChildren {
		children := []Node{}
		for _, node := range nodes {
			children = append(children, m.getChildren(node, hasChildandSubtypes)...)
		}
		for _, node := range children {
			m.deleteNodeandInverseReferences(node)
		}
	}
	for _, node := range nodes {
		m.deleteNodeandInverseReferences(node)
	}
	return nil
}

func (m *NamespaceManager) deleteNodeandInverseReferences(node Node) {
	id := node.NodeID()
	// delete inverse references from target nodes.
	for _, r := range node.References() {
		if r.ReferenceTypeID == ua.ReferenceTypeIDHasTypeDefinition || r.ReferenceTypeID == ua.ReferenceTypeIDHasModellingRule {
			continue
		}
		t, ok := m.nodes[ua.ToNodeID(r.TargetID, m.namespaces)]
		if !ok {
			continue
		}
		refs := []ua.Reference{}
		for _, tr := range t.References() {
			if tr.ReferenceTypeID == r.ReferenceTypeID && tr.IsInverse != r.IsInverse && ua.ToNodeID(tr.TargetID, m.namespaces) == id {
				continue
			}
			refs = append(refs, tr)
		}
		t.SetReferences(refs)
	}
	// delete node from namespace.
	delete(m.nodes, id)
}

// DeleteNode removes the node from the namespace.
// This method removes the inverse refs as well.
func (m *NamespaceManager) DeleteNode(node Node, deleteChildren bool) error {
	return m.DeleteNodes([]Node{node}, deleteChildren)
}

// DeleteNodeByID removes the node with the given NodeID and its inverse refs.
// Nodes of the standard namespace cannot be deleted.
func (m *NamespaceManager) DeleteNodeByID(id ua.NodeID) error {
	node, err := m.findDeletable(id)
	if err != nil {
		return err
	}
	return m.DeleteNode(node, false)
}

// DeleteNodeByIDRecursive removes the node with the given NodeID, its children
// and their inverse refs. Returns the number of nodes removed.
func (m *NamespaceManager) DeleteNodeByIDRecursive(id ua.NodeID) (int, error) {
	node, err := m.findDeletable(id)
	if err != nil {
		return 0, err
	}
	m.Lock()
	defer m.Unlock()
	nodes := append([]Node{node}, m.getChildren(node, hasChildandSubtypes)...)
	for _, n := range nodes {
		m.deleteNodeandInverseReferences(n)
	}
	return len(nodes), nil
}

func (m *NamespaceManager) findDeletable(id ua.NodeID) (Node, error) {
	if id.IsNil() || id.NamespaceIndex() == 0 {
		return nil, ua.BadNodeIDInvalid
	}
	node, ok := m.FindNode(id)
	if !ok {
		return nil, ua.BadNodeIDUnknown
	}
	return node, nil
}

// GetChildren traverses the tree to get all target nodes with the given reference types.
func (m *NamespaceManager) GetChildren(node Node, withRefTypes []ua.NodeID) []Node {
	m.RLock()
	defer m.RUnlock()
	return m.getChildren(node, withRefTypes)
}

func (m *NamespaceManager) getChildren(node Node, withRefTypes []ua.NodeID) []Node {
	children := []Node{}
	visited := map[ua.NodeID]struct{}{node.NodeID(): {}}
	queue := deque.New[Node]()
	queue.PushBack(node)
	for queue.Len() > 0 {
		item := queue.PopFront()
		for _, r := range item.References() {
			if r.IsInverse || (withRefTypes != nil && !Contains(withRefTypes, r.ReferenceTypeID)) {
				continue
			}
			id := ua.ToNodeID(r.TargetID, m.namespaces)
			if _, seen := visited[id]; seen {
				continue
			}
			if target, ok := m.nodes[id]; ok {
				visited[id] = struct{}{}
				queue.PushBack(target)
				children = append(children, target)
			}
		}
	}
	return children
}

// Contains returns true if the given node is found to equal any of the given nodes.
func Contains(nodes []ua.NodeID, node ua.NodeID) bool {
	for _, n := range nodes {
		if n == node {
			return true
		}
	}
	return false
}

func indexOfString(data []string, element string) int {
	for k, e := range data {
		if element == e {
			return k
		}
	}
	return -1
}
