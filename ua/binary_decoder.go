// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"encoding/binary"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BinaryDecoder decodes the UA binary protocol.
type BinaryDecoder struct {
	r  io.Reader
	ec EncodingContext
	bs [8]byte
}

// NewBinaryDecoder returns a new decoder that reads from an io.Reader.
func NewBinaryDecoder(r io.Reader, ec EncodingContext) *BinaryDecoder {
	return &BinaryDecoder{r, ec, [8]byte{}}
}

func (dec *BinaryDecoder) read(n int) ([]byte, error) {
	if _, err := io.ReadFull(dec.r, dec.bs[:n]); err != nil {
		return nil, BadDecodingError
	}
	return dec.bs[:n], nil
}

// ReadBoolean reads a bool.
func (dec *BinaryDecoder) ReadBoolean(value *bool) error {
	b, err := dec.read(1)
	if err != nil {
		return err
	}
	*value = b[0] != 0
	return nil
}

// ReadSByte reads a int8.
func (dec *BinaryDecoder) ReadSByte(value *int8) error {
	b, err := dec.read(1)
	if err != nil {
		return err
	}
	*value = int8(b[0])
	return nil
}

// ReadByte reads a byte.
func (dec *BinaryDecoder) ReadByte(value *byte) error {
	b, err := dec.read(1)
	if err != nil {
		return err
	}
	*value = b[0]
	return nil
}

// ReadInt16 reads a int16.
func (dec *BinaryDecoder) ReadInt16(value *int16) error {
	b, err := dec.read(2)
	if err != nil {
		return err
	}
	*value = int16(binary.LittleEndian.Uint16(b))
	return nil
}

// ReadUInt16 reads a uint16.
func (dec *BinaryDecoder) ReadUInt16(value *uint16) error {
	b, err := dec.read(2)
	if err != nil {
		return err
	}
	*value = binary.LittleEndian.Uint16(b)
	return nil
}

// ReadInt32 reads a int32.
func (dec *BinaryDecoder) ReadInt32(value *int32) error {
	b, err := dec.read(4)
	if err != nil {
		return err
	}
	*value = int32(binary.LittleEndian.Uint32(b))
	return nil
}

// ReadUInt32 reads a uint32.
func (dec *BinaryDecoder) ReadUInt32(value *uint32) error {
	b, err := dec.read(4)
	if err != nil {
		return err
	}
	*value = binary.LittleEndian.Uint32(b)
	return nil
}

// ReadInt64 reads a int64.
func (dec *BinaryDecoder) ReadInt64(value *int64) error {
	b, err := dec.read(8)
	if err != nil {
		return err
	}
	*value = int64(binary.LittleEndian.Uint64(b))
	return nil
}

// ReadUInt64 reads a uint64.
func (dec *BinaryDecoder) ReadUInt64(value *uint64) error {
	b, err := dec.read(8)
	if err != nil {
		return err
	}
	*value = binary.LittleEndian.Uint64(b)
	return nil
}

// ReadFloat reads a float32.
func (dec *BinaryDecoder) ReadFloat(value *float32) error {
	b, err := dec.read(4)
	if err != nil {
		return err
	}
	*value = math.Float32frombits(binary.LittleEndian.Uint32(b))
	return nil
}

// ReadDouble reads a float64.
func (dec *BinaryDecoder) ReadDouble(value *float64) error {
	b, err := dec.read(8)
	if err != nil {
		return err
	}
	*value = math.Float64frombits(binary.LittleEndian.Uint64(b))
	return nil
}

// ReadString reads a string. A null string is read as the empty string.
func (dec *BinaryDecoder) ReadString(value *string) error {
	var n int32
	if err := dec.ReadInt32(&n); err != nil {
		return err
	}
	if n <= 0 {
		*value = ""
		return nil
	}
	// copy rather than allocate n bytes up front, since n is untrusted.
	var sb strings.Builder
	if _, err := io.CopyN(&sb, dec.r, int64(n)); err != nil {
		return BadDecodingError
	}
	*value = sb.String()
	return nil
}

// ReadDateTime reads a time.Time. Zero ticks are read as the zero time.
func (dec *BinaryDecoder) ReadDateTime(value *time.Time) error {
	// ticks are 100 nanosecond intervals since January 1, 1601
	var ticks int64
	if err := dec.ReadInt64(&ticks); err != nil {
		return err
	}
	if ticks <= 0 {
		*value = time.Time{}
		return nil
	}
	if ticks == 0x7FFFFFFFFFFFFFFF {
		ticks = 2650467743990000000
	}
	*value = time.Unix(ticks/10000000-11644473600, (ticks%10000000)*100).UTC()
	return nil
}

// ReadGUID reads a uuid.UUID.
func (dec *BinaryDecoder) ReadGUID(value *uuid.UUID) error {
	b, err := dec.read(8)
	if err != nil {
		return err
	}
	v := uuid.UUID{}
	v[0] = b[3]
	v[1] = b[2]
	v[2] = b[1]
	v[3] = b[0]
	v[4] = b[5]
	v[5] = b[4]
	v[6] = b[7]
	v[7] = b[6]
	if _, err := io.ReadFull(dec.r, v[8:]); err != nil {
		return BadDecodingError
	}
	*value = v
	return nil
}

// ReadByteString reads a ByteString.
func (dec *BinaryDecoder) ReadByteString(value *ByteString) error {
	var s string
	if err := dec.ReadString(&s); err != nil {
		return err
	}
	*value = ByteString(s)
	return nil
}

// ReadXMLElement reads a XMLElement.
func (dec *BinaryDecoder) ReadXMLElement(value *XMLElement) error {
	var s string
	if err := dec.ReadString(&s); err != nil {
		return err
	}
	*value = XMLElement(s)
	return nil
}

// ReadNodeID reads a NodeID.
func (dec *BinaryDecoder) ReadNodeID(value *NodeID) error {
	_, err := dec.readNodeID(value)
	return err
}

// readNodeID reads a NodeID and returns the flags of the encoding byte.
func (dec *BinaryDecoder) readNodeID(value *NodeID) (byte, error) {
	var b byte
	if err := dec.ReadByte(&b); err != nil {
		return 0, err
	}
	var ns uint16
	switch b & 0x0F {
	case 0x00:
		var id byte
		if err := dec.ReadByte(&id); err != nil {
			return 0, err
		}
		*value = NewNodeIDNumeric(0, uint32(id))
	case 0x01:
		var ns1 byte
		if err := dec.ReadByte(&ns1); err != nil {
			return 0, err
		}
		var id uint16
		if err := dec.ReadUInt16(&id); err != nil {
			return 0, err
		}
		*value = NewNodeIDNumeric(uint16(ns1), uint32(id))
	case 0x02:
		if err := dec.ReadUInt16(&ns); err != nil {
			return 0, err
		}
		var id uint32
		if err := dec.ReadUInt32(&id); err != nil {
			return 0, err
		}
		*value = NewNodeIDNumeric(ns, id)
	case 0x03:
		if err := dec.ReadUInt16(&ns); err != nil {
			return 0, err
		}
		var id string
		if err := dec.ReadString(&id); err != nil {
			return 0, err
		}
		*value = NewNodeIDString(ns, id)
	case 0x04:
		if err := dec.ReadUInt16(&ns); err != nil {
			return 0, err
		}
		var id uuid.UUID
		if err := dec.ReadGUID(&id); err != nil {
			return 0, err
		}
		*value = NewNodeIDGUID(ns, id)
	case 0x05:
		if err := dec.ReadUInt16(&ns); err != nil {
			return 0, err
		}
		var id ByteString
		if err := dec.ReadByteString(&id); err != nil {
			return 0, err
		}
		*value = NewNodeIDOpaque(ns, id)
	default:
		return 0, BadDecodingError
	}
	return b & 0xF0, nil
}

// ReadExpandedNodeID reads an ExpandedNodeID.
func (dec *BinaryDecoder) ReadExpandedNodeID(value *ExpandedNodeID) error {
	var id NodeID
	flags, err := dec.readNodeID(&id)
	if err != nil {
		return err
	}
	result := ExpandedNodeID{NodeID: id}
	if (flags & 0x80) != 0 {
		if err := dec.ReadString(&result.NamespaceURI); err != nil {
			return err
		}
	}
	if (flags & 0x40) != 0 {
		if err := dec.ReadUInt32(&result.ServerIndex); err != nil {
			return err
		}
	}
	*value = result
	return nil
}

// ReadStatusCode reads a StatusCode.
func (dec *BinaryDecoder) ReadStatusCode(value *StatusCode) error {
	var u uint32
	if err := dec.ReadUInt32(&u); err != nil {
		return err
	}
	*value = StatusCode(u)
	return nil
}

// ReadQualifiedName reads a QualifiedName.
func (dec *BinaryDecoder) ReadQualifiedName(value *QualifiedName) error {
	var ns uint16
	if err := dec.ReadUInt16(&ns); err != nil {
		return err
	}
	var name string
	if err := dec.ReadString(&name); err != nil {
		return err
	}
	*value = QualifiedName{ns, name}
	return nil
}

// ReadLocalizedText reads a LocalizedText.
func (dec *BinaryDecoder) ReadLocalizedText(value *LocalizedText) error {
	var b byte
	if err := dec.ReadByte(&b); err != nil {
		return err
	}
	var text, locale string
	if (b & 1) != 0 {
		if err := dec.ReadString(&locale); err != nil {
			return err
		}
	}
	if (b & 2) != 0 {
		if err := dec.ReadString(&text); err != nil {
			return err
		}
	}
	*value = LocalizedText{text, locale}
	return nil
}

// ReadExtensionObject reads an ExtensionObject, leaving its body encoded.
func (dec *BinaryDecoder) ReadExtensionObject(value *ExtensionObject) error {
	var nodeID NodeID
	if err := dec.ReadNodeID(&nodeID); err != nil {
		return err
	}
	var b byte
	if err := dec.ReadByte(&b); err != nil {
		return err
	}
	switch b {
	case 0x00:
		*value = ExtensionObject{TypeID: nodeID}
		return nil
	case 0x01:
		var body ByteString
		if err := dec.ReadByteString(&body); err != nil {
			return err
		}
		*value = ExtensionObject{TypeID: nodeID, Body: body}
		return nil
	default:
		return BadDecodingError
	}
}
