// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"github.com/pkg/errors"
)

// Option is a functional option to be applied to a server during initialization.
type Option func(*Server) error

// WithMaxWorkerThreads sets the default number of worker threads that may be created.
func WithMaxWorkerThreads(value int) Option {
	return func(srv *Server) error {
		if value < 1 {
			return errors.Errorf("max worker threads must be positive, got %d", value)
		}
		srv.maxWorkerThreads = value
		return nil
	}
}

// WithNamespaceURIs appends namespaces to the namespace table.
func WithNamespaceURIs(uris ...string) Option {
	return func(srv *Server) error {
		srv.namespaceURIs = append(srv.namespaceURIs, uris...)
		return nil
	}
}

// WithNodeSetFile loads the UANodeSet XML file into the address space.
func WithNodeSetFile(path string) Option {
	return func(srv *Server) error {
		srv.nodeSetPaths = append(srv.nodeSetPaths, path)
		return nil
	}
}
