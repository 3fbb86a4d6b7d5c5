// Copyright 2021 Converter Systems LLC. All rights reserved.

package typedict

import (
	"math"
	"sync/atomic"

	"github.com/awcullen/opcua-typedict/ua"
)

// DefaultIDBase is the value after which identifiers are issued, unless
// changed with WithIDBase.
const DefaultIDBase uint32 = 8000

// IDAllocator issues numeric NodeIDs of one namespace. Each call to Next
// returns a value greater than any returned before. Safe for concurrent use.
type IDAllocator struct {
	namespaceIndex uint16
	base           uint32
	counter        atomic.Uint32
}

// NewIDAllocator returns an allocator whose first identifier is base+1.
func NewIDAllocator(namespaceIndex uint16, base uint32) *IDAllocator {
	a := &IDAllocator{namespaceIndex: namespaceIndex, base: base}
	a.counter.Store(base)
	return a
}

// Next returns a new identifier, or ErrIDsExhausted once the largest
// identifier has been issued.
func (a *IDAllocator) Next() (ua.NodeID, error) {
	for {
		c := a.counter.Load()
		if c == math.MaxUint32 {
			return ua.NilNodeID, ErrIDsExhausted
		}
		if a.counter.CompareAndSwap(c, c+1) {
			return ua.NewNodeIDNumeric(a.namespaceIndex, c+1), nil
		}
	}
}

// Current returns the last identifier issued, or ua.NilNodeID if none.
func (a *IDAllocator) Current() ua.NodeID {
	c := a.counter.Load()
	if c == a.base {
		return ua.NilNodeID
	}
	return ua.NewNodeIDNumeric(a.namespaceIndex, c)
}

// Issued returns every identifier issued so far, in order.
func (a *IDAllocator) Issued() []ua.NodeID {
	c := a.counter.Load()
	res := make([]ua.NodeID, c-a.base)
	for i := range res {
		res[i] = ua.NewNodeIDNumeric(a.namespaceIndex, a.base+1+uint32(i))
	}
	return res
}
