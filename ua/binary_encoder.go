// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"encoding/binary"
	"io"
	"math"
	"time"

	"github.com/djherbis/buffer"
	"github.com/google/uuid"
)

// BinaryEncoder encodes the UA Binary protocol.
type BinaryEncoder struct {
	w  io.Writer
	ec EncodingContext
	bs [8]byte
}

// NewBinaryEncoder returns a new encoder that writes to an io.Writer.
func NewBinaryEncoder(w io.Writer, ec EncodingContext) *BinaryEncoder {
	return &BinaryEncoder{w, ec, [8]byte{}}
}

func (enc *BinaryEncoder) write(p []byte) error {
	if _, err := enc.w.Write(p); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteBoolean writes a boolean.
func (enc *BinaryEncoder) WriteBoolean(value bool) error {
	if value {
		enc.bs[0] = 1
	} else {
		enc.bs[0] = 0
	}
	return enc.write(enc.bs[:1])
}

// WriteSByte writes a sbyte.
func (enc *BinaryEncoder) WriteSByte(value int8) error {
	enc.bs[0] = byte(value)
	return enc.write(enc.bs[:1])
}

// WriteByte writes a byte.
func (enc *BinaryEncoder) WriteByte(value byte) error {
	enc.bs[0] = value
	return enc.write(enc.bs[:1])
}

// WriteInt16 writes an int16.
func (enc *BinaryEncoder) WriteInt16(value int16) error {
	binary.LittleEndian.PutUint16(enc.bs[:2], uint16(value))
	return enc.write(enc.bs[:2])
}

// WriteUInt16 writes an uint16.
func (enc *BinaryEncoder) WriteUInt16(value uint16) error {
	binary.LittleEndian.PutUint16(enc.bs[:2], value)
	return enc.write(enc.bs[:2])
}

// WriteInt32 writes an int32.
func (enc *BinaryEncoder) WriteInt32(value int32) error {
	binary.LittleEndian.PutUint32(enc.bs[:4], uint32(value))
	return enc.write(enc.bs[:4])
}

// WriteUInt32 writes an uint32.
func (enc *BinaryEncoder) WriteUInt32(value uint32) error {
	binary.LittleEndian.PutUint32(enc.bs[:4], value)
	return enc.write(enc.bs[:4])
}

// WriteInt64 writes an int64.
func (enc *BinaryEncoder) WriteInt64(value int64) error {
	binary.LittleEndian.PutUint64(enc.bs[:8], uint64(value))
	return enc.write(enc.bs[:8])
}

// WriteUInt64 writes an uint64.
func (enc *BinaryEncoder) WriteUInt64(value uint64) error {
	binary.LittleEndian.PutUint64(enc.bs[:8], value)
	return enc.write(enc.bs[:8])
}

// WriteFloat writes a float.
func (enc *BinaryEncoder) WriteFloat(value float32) error {
	binary.LittleEndian.PutUint32(enc.bs[:4], math.Float32bits(value))
	return enc.write(enc.bs[:4])
}

// WriteDouble writes a double.
func (enc *BinaryEncoder) WriteDouble(value float64) error {
	binary.LittleEndian.PutUint64(enc.bs[:8], math.Float64bits(value))
	return enc.write(enc.bs[:8])
}

// WriteString writes a string. The empty string is written as null.
func (enc *BinaryEncoder) WriteString(value string) error {
	if len(value) == 0 {
		return enc.WriteInt32(-1)
	}
	if err := enc.WriteInt32(int32(len(value))); err != nil {
		return BadEncodingError
	}
	if _, err := io.WriteString(enc.w, value); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteDateTime writes a date/time.
func (enc *BinaryEncoder) WriteDateTime(value time.Time) error {
	if value.IsZero() {
		return enc.WriteInt64(0)
	}
	// ticks are 100 nanosecond intervals since January 1, 1601
	ticks := (value.Unix()+11644473600)*10000000 + int64(value.Nanosecond())/100
	if ticks < 0 {
		ticks = 0
	}
	if ticks >= 2650467743990000000 {
		ticks = 0x7FFFFFFFFFFFFFFF
	}
	return enc.WriteInt64(ticks)
}

// WriteGUID writes a UUID
func (enc *BinaryEncoder) WriteGUID(value uuid.UUID) error {
	enc.bs[0] = value[3]
	enc.bs[1] = value[2]
	enc.bs[2] = value[1]
	enc.bs[3] = value[0]
	enc.bs[4] = value[5]
	enc.bs[5] = value[4]
	enc.bs[6] = value[7]
	enc.bs[7] = value[6]
	if err := enc.write(enc.bs[:8]); err != nil {
		return err
	}
	return enc.write(value[8:])
}

// WriteByteString writes a ByteString
func (enc *BinaryEncoder) WriteByteString(value ByteString) error {
	return enc.WriteString(string(value))
}

// WriteXMLElement writes a XMLElement
func (enc *BinaryEncoder) WriteXMLElement(value XMLElement) error {
	return enc.WriteString(string(value))
}

// WriteNodeID writes a NodeID, choosing the most compact form.
func (enc *BinaryEncoder) WriteNodeID(value NodeID) error {
	return enc.writeNodeID(value, 0)
}

func (enc *BinaryEncoder) writeNodeID(value NodeID, flags byte) error {
	ns := value.NamespaceIndex()
	switch value.IDType() {
	case IDTypeNumeric:
		id := value.nid
		switch {
		case id <= 255 && ns == 0:
			if err := enc.WriteByte(0x00 | flags); err != nil {
				return err
			}
			return enc.WriteByte(byte(id))
		case id <= 65535 && ns <= 255:
			if err := enc.WriteByte(0x01 | flags); err != nil {
				return err
			}
			if err := enc.WriteByte(byte(ns)); err != nil {
				return err
			}
			return enc.WriteUInt16(uint16(id))
		default:
			if err := enc.WriteByte(0x02 | flags); err != nil {
				return err
			}
			if err := enc.WriteUInt16(ns); err != nil {
				return err
			}
			return enc.WriteUInt32(id)
		}
	case IDTypeString:
		if err := enc.WriteByte(0x03 | flags); err != nil {
			return err
		}
		if err := enc.WriteUInt16(ns); err != nil {
			return err
		}
		return enc.WriteString(value.sid)
	case IDTypeGUID:
		if err := enc.WriteByte(0x04 | flags); err != nil {
			return err
		}
		if err := enc.WriteUInt16(ns); err != nil {
			return err
		}
		return enc.WriteGUID(value.gid)
	case IDTypeOpaque:
		if err := enc.WriteByte(0x05 | flags); err != nil {
			return err
		}
		if err := enc.WriteUInt16(ns); err != nil {
			return err
		}
		return enc.WriteByteString(value.bid)
	}
	return BadEncodingError
}

// WriteExpandedNodeID writes an ExpandedNodeID.
func (enc *BinaryEncoder) WriteExpandedNodeID(value ExpandedNodeID) error {
	var flags byte
	if value.NamespaceURI != "" {
		flags |= 0x80
	}
	if value.ServerIndex > 0 {
		flags |= 0x40
	}
	if err := enc.writeNodeID(value.NodeID, flags); err != nil {
		return err
	}
	if (flags & 0x80) != 0 {
		if err := enc.WriteString(value.NamespaceURI); err != nil {
			return err
		}
	}
	if (flags & 0x40) != 0 {
		if err := enc.WriteUInt32(value.ServerIndex); err != nil {
			return err
		}
	}
	return nil
}

// WriteStatusCode writes a StatusCode.
func (enc *BinaryEncoder) WriteStatusCode(value StatusCode) error {
	return enc.WriteUInt32(uint32(value))
}

// WriteQualifiedName writes a QualifiedName.
func (enc *BinaryEncoder) WriteQualifiedName(value QualifiedName) error {
	if err := enc.WriteUInt16(value.NamespaceIndex); err != nil {
		return err
	}
	return enc.WriteString(value.Name)
}

// WriteLocalizedText writes a LocalizedText.
func (enc *BinaryEncoder) WriteLocalizedText(value LocalizedText) error {
	var b byte
	if value.Locale != "" {
		b |= 1
	}
	if value.Text != "" {
		b |= 2
	}
	if err := enc.WriteByte(b); err != nil {
		return BadEncodingError
	}
	if (b & 1) != 0 {
		if err := enc.WriteString(value.Locale); err != nil {
			return BadEncodingError
		}
	}
	if (b & 2) != 0 {
		if err := enc.WriteString(value.Text); err != nil {
			return BadEncodingError
		}
	}
	return nil
}

// WriteExtensionObject writes an ExtensionObject that carries a binary body.
func (enc *BinaryEncoder) WriteExtensionObject(value ExtensionObject) error {
	if value.IsNil() {
		if err := enc.WriteNodeID(NilNodeID); err != nil {
			return BadEncodingError
		}
		return enc.WriteByte(0x00)
	}
	if err := enc.WriteNodeID(value.TypeID); err != nil {
		return BadEncodingError
	}
	if err := enc.WriteByte(0x01); err != nil {
		return BadEncodingError
	}
	if len(value.Body) == 0 {
		return enc.WriteInt32(0)
	}
	return enc.WriteByteString(value.Body)
}

// WriteStructure writes an ExtensionObject whose body is produced by fn.
// The body length is back-patched when the underlying writer supports WriteAt.
func (enc *BinaryEncoder) WriteStructure(typeID NodeID, fn func(*BinaryEncoder) error) error {
	if err := enc.WriteNodeID(typeID); err != nil {
		return BadEncodingError
	}
	if err := enc.WriteByte(0x01); err != nil {
		return BadEncodingError
	}
	// cast writer to BufferAt to access superpowers
	if buf, ok := enc.w.(buffer.BufferAt); ok {
		mark := buf.Len() // mark where length is written
		bs := make([]byte, 4)
		if _, err := buf.Write(bs); err != nil {
			return BadEncodingError
		}
		start := buf.Len()
		if err := fn(enc); err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(bs, uint32(buf.Len()-start))
		if _, err := buf.WriteAt(bs, mark); err != nil {
			return BadEncodingError
		}
		return nil
	}
	// if BufferAt interface not available
	buf2 := buffer.NewPartitionAt(bufferPool)
	defer buf2.Reset()
	if err := fn(NewBinaryEncoder(buf2, enc.ec)); err != nil {
		return err
	}
	if err := enc.WriteInt32(int32(buf2.Len())); err != nil {
		return err
	}
	buf3 := bytesPool.Get().(*[]byte)
	defer bytesPool.Put(buf3)
	if _, err := io.CopyBuffer(enc.w, buf2, *buf3); err != nil {
		return BadEncodingError
	}
	return nil
}
