// Package rlp implements the canonical Ethereum recursive length prefix
// encoding. Scalars are encoded with no leading zero bytes and the empty
// string stands for zero; lists frame their concatenated payloads.
package rlp

import (
	"io"
	"math/big"
	"reflect"

	"github.com/holiman/uint256"
)

// EmptyString is the RLP encoding of the empty byte string.
const EmptyString = 0x80

// EmptyList is the RLP encoding of the empty list.
const EmptyList = 0xc0

var (
	bigIntType  = reflect.TypeOf(big.Int{})
	uint256Type = reflect.TypeOf(uint256.Int{})
)

// Encode writes the RLP encoding of val to w. val must be a supported type:
// bool, unsigned integer, *big.Int, *uint256.Int, []byte, string, a slice or
// array of supported types, or a struct whose exported fields are supported.
func Encode(w io.Writer, val interface{}) error {
	b, err := EncodeToBytes(val)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// EncodeToBytes returns the RLP encoding of val.
func EncodeToBytes(val interface{}) ([]byte, error) {
	return encodeValue(reflect.ValueOf(val))
}

func encodeValue(v reflect.Value) ([]byte, error) {
	// Unwrap interfaces and pointers. A nil pointer encodes as the empty
	// string so optional scalar fields round-trip.
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return []byte{EmptyString}, nil
		}
		v = v.Elem()
	}

	switch v.Type() {
	case bigIntType:
		bi := v.Interface().(big.Int)
		return encodeBigInt(&bi), nil
	case uint256Type:
		u := v.Interface().(uint256.Int)
		return encodeUint256(&u), nil
	}

	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return []byte{0x01}, nil
		}
		return []byte{EmptyString}, nil

	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return encodeUint(v.Uint()), nil

	case reflect.String:
		return encodeString([]byte(v.String())), nil

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return encodeString(v.Bytes()), nil
		}
		return encodeList(v)

	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(b), v)
			return encodeString(b), nil
		}
		return encodeList(v)

	case reflect.Struct:
		return encodeStruct(v)

	case reflect.Invalid:
		return []byte{EmptyString}, nil

	default:
		return nil, ErrUnsupportedType
	}
}

func encodeUint(u uint64) []byte {
	if u == 0 {
		return []byte{EmptyString}
	}
	if u < 128 {
		return []byte{byte(u)}
	}
	return encodeString(putUintBigEndian(u))
}

func encodeBigInt(i *big.Int) []byte {
	if i.Sign() == 0 {
		return []byte{EmptyString}
	}
	// big.Int.Bytes is big-endian with no leading zeros, which matches the
	// canonical scalar rule.
	return encodeString(i.Bytes())
}

func encodeUint256(i *uint256.Int) []byte {
	if i.IsZero() {
		return []byte{EmptyString}
	}
	return encodeString(i.Bytes())
}

func encodeString(data []byte) []byte {
	n := len(data)
	if n == 1 && data[0] <= 0x7f {
		return []byte{data[0]}
	}
	if n <= 55 {
		buf := make([]byte, 1+n)
		buf[0] = EmptyString + byte(n)
		copy(buf[1:], data)
		return buf
	}
	lenBytes := putUintBigEndian(uint64(n))
	buf := make([]byte, 1+len(lenBytes)+n)
	buf[0] = 0xb7 + byte(len(lenBytes))
	copy(buf[1:], lenBytes)
	copy(buf[1+len(lenBytes):], data)
	return buf
}

func encodeList(v reflect.Value) ([]byte, error) {
	var payload []byte
	for i := 0; i < v.Len(); i++ {
		enc, err := encodeValue(v.Index(i))
		if err != nil {
			return nil, err
		}
		payload = append(payload, enc...)
	}
	return WrapList(payload), nil
}

func encodeStruct(v reflect.Value) ([]byte, error) {
	var payload []byte
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			continue
		}
		enc, err := encodeValue(v.Field(i))
		if err != nil {
			return nil, err
		}
		payload = append(payload, enc...)
	}
	return WrapList(payload), nil
}

// WrapList wraps an already-encoded RLP payload in a list header.
func WrapList(payload []byte) []byte {
	n := len(payload)
	if n <= 55 {
		buf := make([]byte, 1+n)
		buf[0] = EmptyList + byte(n)
		copy(buf[1:], payload)
		return buf
	}
	lenBytes := putUintBigEndian(uint64(n))
	buf := make([]byte, 1+len(lenBytes)+n)
	buf[0] = 0xf7 + byte(len(lenBytes))
	copy(buf[1:], lenBytes)
	copy(buf[1+len(lenBytes):], payload)
	return buf
}

// AppendUint appends the RLP encoding of u to dst. Useful for building list
// payloads without reflection.
func AppendUint(dst []byte, u uint64) []byte {
	return append(dst, encodeUint(u)...)
}

// AppendString appends the RLP string encoding of data to dst.
func AppendString(dst, data []byte) []byte {
	return append(dst, encodeString(data)...)
}

// putUintBigEndian encodes u as big-endian with no leading zeros.
func putUintBigEndian(u uint64) []byte {
	var tmp [8]byte
	for i := 0; i < 8; i++ {
		tmp[i] = byte(u >> (8 * (7 - i)))
	}
	n := 0
	for n < 7 && tmp[n] == 0 {
		n++
	}
	return tmp[n:]
}
