// Copyright 2021 Converter Systems LLC. All rights reserved.

package typedict

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnresolvedType is returned when the type of a field is neither a builtin
	// type nor a structure of the dictionary.
	ErrUnresolvedType = errors.New("unresolved type")
	// ErrUnknownStructure is returned when a field is added to a structure that
	// was never created.
	ErrUnknownStructure = errors.New("unknown structure")
	// ErrReservedName is returned when the name of a structure is the name of a
	// builtin type.
	ErrReservedName = errors.New("name of a builtin type")
	// ErrIDsExhausted is returned when no identifier remains above the base.
	ErrIDsExhausted = errors.New("identifiers exhausted")
)
