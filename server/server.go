// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"log"
	"sync"

	"github.com/awcullen/opcua-typedict/binaryschema"
	"github.com/awcullen/opcua-typedict/ua"
	"github.com/gammazero/workerpool"
)

const (
	// the default number of worker threads that may be created.
	defaultMaxWorkerThreads int = 4
)

// Server hosts an address space in which structures may be defined.
type Server struct {
	sync.RWMutex
	applicationURI   string
	namespaceURIs    []string
	nodeSetPaths     []string
	maxWorkerThreads int
	closed           bool
	workerpool       *workerpool.WorkerPool
	namespaceManager *NamespaceManager
	typeRegistry     *binaryschema.Registry
}

// New initializes a new instance of the Server. The address space is populated
// with the types of the standard namespace that structures are built from.
func New(applicationURI string, options ...Option) (*Server, error) {
	srv := &Server{
		applicationURI:   applicationURI,
		maxWorkerThreads: defaultMaxWorkerThreads,
	}

	// apply each option to the default
	for _, opt := range options {
		if err := opt(srv); err != nil {
			return nil, err
		}
	}

	srv.workerpool = workerpool.New(srv.maxWorkerThreads)
	srv.namespaceManager = NewNamespaceManager(applicationURI)
	if err := srv.namespaceManager.LoadNodeSetFromBuffer(minimalNodeSet); err != nil {
		srv.workerpool.Stop()
		return nil, err
	}
	for _, nsu := range srv.namespaceURIs {
		srv.namespaceManager.Add(nsu)
	}
	for _, path := range srv.nodeSetPaths {
		if err := srv.namespaceManager.LoadNodeSetFromFile(path); err != nil {
			srv.workerpool.Stop()
			return nil, err
		}
	}
	srv.typeRegistry = binaryschema.NewRegistry(ua.NewEncodingContext(srv.namespaceManager.NamespaceUris()...))
	return srv, nil
}

// NamespaceManager gets the namespace manager.
func (srv *Server) NamespaceManager() *NamespaceManager {
	return srv.namespaceManager
}

// TypeRegistry gets the structures found by the last call to LoadTypeDefinitions.
func (srv *Server) TypeRegistry() *binaryschema.Registry {
	srv.RLock()
	defer srv.RUnlock()
	return srv.typeRegistry
}

// Close stops the workers of the server.
func (srv *Server) Close() error {
	srv.Lock()
	defer srv.Unlock()
	if srv.closed {
		return nil
	}
	srv.closed = true
	srv.workerpool.StopWait()
	log.Printf("Server %s closed.\n", srv.applicationURI)
	return nil
}
