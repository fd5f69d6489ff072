package rlp

import (
	"bytes"
	"io"
	"math/big"
	"reflect"

	"github.com/holiman/uint256"
)

// Kind represents the type of an RLP value.
type Kind int

const (
	Byte   Kind = iota // Single byte in [0x00, 0x7f].
	String             // RLP string (including empty string).
	List               // RLP list.
)

// Decode reads an RLP-encoded value from r and stores it in the value
// pointed to by val.
func Decode(r io.Reader, val interface{}) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return DecodeBytes(data, val)
}

// DecodeBytes decodes an RLP-encoded byte slice into the value pointed to
// by val.
func DecodeBytes(b []byte, val interface{}) error {
	return NewStreamFromBytes(b).decodeValue(reflect.ValueOf(val))
}

// Stream provides sequential access to RLP-encoded data. List and ListEnd
// scope reads to the current list; nested lists push new scopes.
type Stream struct {
	data  []byte
	pos   int
	stack []int // exclusive end positions of open lists
}

// NewStream creates a Stream reading all data from r.
func NewStream(r io.Reader) *Stream {
	data, _ := io.ReadAll(r)
	return NewStreamFromBytes(data)
}

// NewStreamFromBytes creates a Stream over b.
func NewStreamFromBytes(b []byte) *Stream {
	return &Stream{data: b}
}

// limit returns the current read boundary.
func (s *Stream) limit() int {
	if len(s.stack) > 0 {
		return s.stack[len(s.stack)-1]
	}
	return len(s.data)
}

// Kind reads the type tag and content size of the next value without
// consuming it.
func (s *Stream) Kind() (Kind, uint64, error) {
	lim := s.limit()
	if s.pos >= lim {
		return 0, 0, io.EOF
	}
	prefix := s.data[s.pos]
	switch {
	case prefix <= 0x7f:
		return Byte, 1, nil
	case prefix <= 0xb7:
		return String, uint64(prefix - 0x80), nil
	case prefix <= 0xbf:
		size, err := s.peekLongSize(prefix - 0xb7)
		return String, size, err
	case prefix <= 0xf7:
		return List, uint64(prefix - 0xc0), nil
	default:
		size, err := s.peekLongSize(prefix - 0xf7)
		return List, size, err
	}
}

func (s *Stream) peekLongSize(lenOfLen byte) (uint64, error) {
	if s.pos+1+int(lenOfLen) > s.limit() {
		return 0, io.ErrUnexpectedEOF
	}
	return readBigEndian(s.data[s.pos+1 : s.pos+1+int(lenOfLen)]), nil
}

// readItem consumes the next complete RLP item and returns its kind and
// payload. Canonicality of size prefixes and single-byte strings is
// enforced here.
func (s *Stream) readItem() (Kind, []byte, error) {
	lim := s.limit()
	if s.pos >= lim {
		return 0, nil, io.EOF
	}
	prefix := s.data[s.pos]

	switch {
	case prefix <= 0x7f:
		payload := s.data[s.pos : s.pos+1]
		s.pos++
		return Byte, payload, nil

	case prefix <= 0xb7:
		size := int(prefix - 0x80)
		start, end := s.pos+1, s.pos+1+size
		if end > lim {
			return 0, nil, io.ErrUnexpectedEOF
		}
		if size == 1 && s.data[start] <= 0x7f {
			return 0, nil, ErrCanonSize
		}
		s.pos = end
		return String, s.data[start:end], nil

	case prefix <= 0xbf:
		payload, err := s.readLong(prefix-0xb7, lim)
		return String, payload, err

	case prefix <= 0xf7:
		size := int(prefix - 0xc0)
		start, end := s.pos+1, s.pos+1+size
		if end > lim {
			return 0, nil, io.ErrUnexpectedEOF
		}
		s.pos = end
		return List, s.data[start:end], nil

	default:
		payload, err := s.readLong(prefix-0xf7, lim)
		return List, payload, err
	}
}

func (s *Stream) readLong(lenOfLen byte, lim int) ([]byte, error) {
	if s.pos+1+int(lenOfLen) > lim {
		return nil, io.ErrUnexpectedEOF
	}
	sizeBytes := s.data[s.pos+1 : s.pos+1+int(lenOfLen)]
	if sizeBytes[0] == 0 {
		return nil, ErrCanonSize
	}
	size := int(readBigEndian(sizeBytes))
	if size <= 55 {
		return nil, ErrCanonSize
	}
	start := s.pos + 1 + int(lenOfLen)
	end := start + size
	if end > lim {
		return nil, io.ErrUnexpectedEOF
	}
	s.pos = end
	return s.data[start:end], nil
}

// Bytes reads an RLP string value and returns its payload.
func (s *Stream) Bytes() ([]byte, error) {
	kind, payload, err := s.readItem()
	if err != nil {
		return nil, err
	}
	if kind == List {
		return nil, ErrExpectedString
	}
	return payload, nil
}

// Raw consumes the next item (string or list) and returns its full encoding
// including the prefix.
func (s *Stream) Raw() ([]byte, error) {
	start := s.pos
	if _, _, err := s.readItem(); err != nil {
		return nil, err
	}
	return s.data[start:s.pos], nil
}

// List reads the start of an RLP list and enters its scope. Subsequent
// reads are bounded by the list payload until ListEnd.
func (s *Stream) List() (uint64, error) {
	lim := s.limit()
	if s.pos >= lim {
		return 0, io.EOF
	}
	prefix := s.data[s.pos]

	var payloadStart, payloadEnd int
	switch {
	case prefix >= 0xc0 && prefix <= 0xf7:
		payloadStart = s.pos + 1
		payloadEnd = payloadStart + int(prefix-0xc0)
	case prefix > 0xf7:
		lenOfLen := int(prefix - 0xf7)
		if s.pos+1+lenOfLen > lim {
			return 0, io.ErrUnexpectedEOF
		}
		sizeBytes := s.data[s.pos+1 : s.pos+1+lenOfLen]
		if sizeBytes[0] == 0 {
			return 0, ErrCanonSize
		}
		size := int(readBigEndian(sizeBytes))
		if size <= 55 {
			return 0, ErrCanonSize
		}
		payloadStart = s.pos + 1 + lenOfLen
		payloadEnd = payloadStart + size
	default:
		return 0, ErrExpectedList
	}

	if payloadEnd > lim {
		return 0, io.ErrUnexpectedEOF
	}
	s.stack = append(s.stack, payloadEnd)
	s.pos = payloadStart
	return uint64(payloadEnd - payloadStart), nil
}

// ListEnd closes the current list scope. It fails with ErrTrailingItems if
// unread items remain in the list.
func (s *Stream) ListEnd() error {
	if len(s.stack) == 0 {
		return ErrExpectedList
	}
	end := s.stack[len(s.stack)-1]
	if s.pos != end {
		return ErrTrailingItems
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// AtListEnd reports whether the current list scope has been fully consumed.
func (s *Stream) AtListEnd() bool {
	if len(s.stack) == 0 {
		return s.pos >= len(s.data)
	}
	return s.pos >= s.stack[len(s.stack)-1]
}

// Uint64 reads a canonical RLP-encoded unsigned integer.
func (s *Stream) Uint64() (uint64, error) {
	b, err := s.Bytes()
	if err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, nil
	}
	if len(b) > 8 {
		return 0, ErrUint64Range
	}
	if b[0] == 0 {
		return 0, ErrCanonInt
	}
	return readBigEndian(b), nil
}

// BigInt reads a canonical RLP-encoded big integer.
func (s *Stream) BigInt() (*big.Int, error) {
	b, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b) > 1 && b[0] == 0 {
		return nil, ErrCanonInt
	}
	return new(big.Int).SetBytes(b), nil
}

// Uint256 reads a canonical RLP-encoded 256-bit unsigned integer.
func (s *Stream) Uint256() (*uint256.Int, error) {
	b, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b) > 32 {
		return nil, ErrUint256Range
	}
	if len(b) > 1 && b[0] == 0 {
		return nil, ErrCanonInt
	}
	return new(uint256.Int).SetBytes(b), nil
}

func readBigEndian(b []byte) uint64 {
	var val uint64
	for _, x := range b {
		val = val<<8 | uint64(x)
	}
	return val
}

// decodeValue decodes the next RLP value into v (must be a non-nil pointer).
func (s *Stream) decodeValue(v reflect.Value) error {
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrNoPointer
	}
	return s.decodeInto(v.Elem())
}

func (s *Stream) decodeInto(v reflect.Value) error {
	switch v.Type() {
	case bigIntType:
		bi, err := s.BigInt()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(*bi))
		return nil
	case uint256Type:
		u, err := s.Uint256()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(*u))
		return nil
	}

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return s.decodeInto(v.Elem())
	}

	switch v.Kind() {
	case reflect.Bool:
		b, err := s.Bytes()
		if err != nil {
			return err
		}
		switch {
		case len(b) == 0:
			v.SetBool(false)
		case len(b) == 1 && b[0] == 0x01:
			v.SetBool(true)
		default:
			return ErrCanonInt
		}
		return nil

	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		u, err := s.Uint64()
		if err != nil {
			return err
		}
		v.SetUint(u)
		return nil

	case reflect.String:
		b, err := s.Bytes()
		if err != nil {
			return err
		}
		v.SetString(string(b))
		return nil

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b, err := s.Bytes()
			if err != nil {
				return err
			}
			v.SetBytes(bytes.Clone(b))
			return nil
		}
		return s.decodeList(v)

	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b, err := s.Bytes()
			if err != nil {
				return err
			}
			if len(b) != v.Len() {
				return ErrByteArraySize
			}
			reflect.Copy(v, reflect.ValueOf(b))
			return nil
		}
		return s.decodeList(v)

	case reflect.Struct:
		return s.decodeStruct(v)

	default:
		return ErrUnsupportedType
	}
}

func (s *Stream) decodeList(v reflect.Value) error {
	if _, err := s.List(); err != nil {
		return err
	}
	if v.Kind() == reflect.Slice {
		v.Set(v.Slice(0, 0))
		for !s.AtListEnd() {
			elem := reflect.New(v.Type().Elem()).Elem()
			if err := s.decodeInto(elem); err != nil {
				return err
			}
			v.Set(reflect.Append(v, elem))
		}
		return s.ListEnd()
	}
	for i := 0; i < v.Len(); i++ {
		if err := s.decodeInto(v.Index(i)); err != nil {
			return err
		}
	}
	return s.ListEnd()
}

func (s *Stream) decodeStruct(v reflect.Value) error {
	if _, err := s.List(); err != nil {
		return err
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			continue
		}
		if err := s.decodeInto(v.Field(i)); err != nil {
			return err
		}
	}
	return s.ListEnd()
}
