// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"io"
	"sync"

	"github.com/djherbis/buffer"
)

const defaultBufferSize = 64 * 1024

// bytesPool is a pool of byte slices
var bytesPool = sync.Pool{New: func() any { s := make([]byte, defaultBufferSize); return &s }}

// bufferPool is a pool of capacity buffers
var bufferPool = buffer.NewMemPoolAt(int64(defaultBufferSize))

// MarshalBody runs fn against an encoder backed by a pooled buffer and returns
// the bytes written.
func MarshalBody(ec EncodingContext, fn func(*BinaryEncoder) error) (ByteString, error) {
	buf := buffer.NewPartitionAt(bufferPool)
	defer buf.Reset()
	if err := fn(NewBinaryEncoder(buf, ec)); err != nil {
		return "", err
	}
	b, err := io.ReadAll(buf)
	if err != nil {
		return "", BadEncodingError
	}
	return ByteString(b), nil
}
