package rlp

import "errors"

var (
	// ErrExpectedString is returned when a list is encountered where a
	// string was expected.
	ErrExpectedString = errors.New("rlp: expected string")

	// ErrExpectedList is returned when a string is encountered where a list
	// was expected.
	ErrExpectedList = errors.New("rlp: expected list")

	// ErrCanonSize is returned when a size prefix is not in canonical form.
	ErrCanonSize = errors.New("rlp: non-canonical size information")

	// ErrCanonInt is returned when an integer uses non-canonical encoding
	// (leading zero bytes).
	ErrCanonInt = errors.New("rlp: non-canonical integer encoding")

	// ErrTrailingItems is returned by ListEnd when unread items remain in
	// the current list.
	ErrTrailingItems = errors.New("rlp: trailing items in list")

	// ErrUint64Range is returned when a decoded integer exceeds 64 bits.
	ErrUint64Range = errors.New("rlp: uint64 overflow")

	// ErrUint256Range is returned when a decoded integer exceeds 256 bits.
	ErrUint256Range = errors.New("rlp: uint256 overflow")

	// ErrByteArraySize is returned when a string payload does not match the
	// target byte-array length.
	ErrByteArraySize = errors.New("rlp: byte array size mismatch")

	// ErrNoPointer is returned when the decode target is not a non-nil
	// pointer.
	ErrNoPointer = errors.New("rlp: decode target must be a non-nil pointer")

	// ErrUnsupportedType is returned for values outside the supported set.
	ErrUnsupportedType = errors.New("rlp: unsupported type")
)
