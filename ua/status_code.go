// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import "fmt"

// StatusCode is the result of a service or operation. A StatusCode is an error.
type StatusCode uint32

const (
	// Good - The operation completed successfully.
	Good StatusCode = 0x00000000
	// BadEncodingError - Encoding halted because of invalid data in the objects being serialized.
	BadEncodingError StatusCode = 0x80060000
	// BadDecodingError - Decoding halted because of invalid data in the stream.
	BadDecodingError StatusCode = 0x80070000
	// BadDataTypeIDUnknown - The extension object cannot be (de)serialized because the data type id is not recognized.
	BadDataTypeIDUnknown StatusCode = 0x80110000
	// BadNodeIDInvalid - The syntax of the node id is not valid.
	BadNodeIDInvalid StatusCode = 0x80330000
	// BadNodeIDUnknown - The node id refers to a node that does not exist in the server address space.
	BadNodeIDUnknown StatusCode = 0x80340000
	// BadAttributeIDInvalid - The attribute is not supported for the specified Node.
	BadAttributeIDInvalid StatusCode = 0x80350000
	// BadReferenceTypeIDInvalid - The reference type id does not refer to a valid reference type node.
	BadReferenceTypeIDInvalid StatusCode = 0x804C0000
	// BadParentNodeIDInvalid - The parent node id does not to refer to a valid node.
	BadParentNodeIDInvalid StatusCode = 0x805B0000
	// BadNodeIDExists - The requested node id is already used by another node.
	BadNodeIDExists StatusCode = 0x805E0000
	// BadNodeClassInvalid - The node class is not valid.
	BadNodeClassInvalid StatusCode = 0x805F0000
	// BadBrowseNameDuplicated - The browse name is not unique among nodes that share the same relationship with the parent.
	BadBrowseNameDuplicated StatusCode = 0x80610000
	// BadBrowseNameInvalid - The browse name is invalid.
	BadBrowseNameInvalid StatusCode = 0x80600000
	// BadNodeAttributesInvalid - The node attributes are not valid for the node class.
	BadNodeAttributesInvalid StatusCode = 0x80620000
	// BadTypeDefinitionInvalid - The type definition node id does not reference an appropriate type node.
	BadTypeDefinitionInvalid StatusCode = 0x80630000
	// BadSourceNodeIDInvalid - The source node id does not reference a valid node.
	BadSourceNodeIDInvalid StatusCode = 0x80640000
	// BadTargetNodeIDInvalid - The target node id does not reference a valid node.
	BadTargetNodeIDInvalid StatusCode = 0x80650000
	// BadDuplicateReferenceNotAllowed - The reference type between the nodes is already defined.
	BadDuplicateReferenceNotAllowed StatusCode = 0x80660000
	// BadNoMatch - The requested operation has no match to return.
	BadNoMatch StatusCode = 0x806F0000
	// BadTypeMismatch - The value supplied for the attribute is not of the same type as the attribute's value.
	BadTypeMismatch StatusCode = 0x80740000
)

// IsGood returns true if the StatusCode is good.
func (c StatusCode) IsGood() bool {
	return (uint32(c) & 0xC0000000) == 0
}

// IsBad returns true if the StatusCode is bad.
func (c StatusCode) IsBad() bool {
	return (uint32(c) & 0x80000000) != 0
}

// Error returns the StatusCode message.
func (c StatusCode) Error() string {
	switch c {
	case Good:
		return "The operation completed successfully."
	case BadEncodingError:
		return "Encoding halted because of invalid data in the objects being serialized."
	case BadDecodingError:
		return "Decoding halted because of invalid data in the stream."
	case BadDataTypeIDUnknown:
		return "The extension object cannot be (de)serialized because the data type id is not recognized."
	case BadNodeIDInvalid:
		return "The syntax of the node id is not valid."
	case BadNodeIDUnknown:
		return "The node id refers to a node that does not exist in the server address space."
	case BadAttributeIDInvalid:
		return "The attribute is not supported for the specified Node."
	case BadReferenceTypeIDInvalid:
		return "The reference type id does not refer to a valid reference type node."
	case BadParentNodeIDInvalid:
		return "The parent node id does not to refer to a valid node."
	case BadNodeIDExists:
		return "The requested node id is already used by another node."
	case BadNodeClassInvalid:
		return "The node class is not valid."
	case BadBrowseNameDuplicated:
		return "The browse name is not unique among nodes that share the same relationship with the parent."
	case BadBrowseNameInvalid:
		return "The browse name is invalid."
	case BadNodeAttributesInvalid:
		return "The node attributes are not valid for the node class."
	case BadTypeDefinitionInvalid:
		return "The type definition node id does not reference an appropriate type node."
	case BadSourceNodeIDInvalid:
		return "The source node id does not reference a valid node."
	case BadTargetNodeIDInvalid:
		return "The target node id does not reference a valid node."
	case BadDuplicateReferenceNotAllowed:
		return "The reference type between the nodes is already defined."
	case BadNoMatch:
		return "The requested operation has no match to return."
	case BadTypeMismatch:
		return "The value supplied for the attribute is not of the same type as the attribute's value."
	default:
		return fmt.Sprintf("An unknown error occurred (0x%08X).", uint32(c))
	}
}
