package mail

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
)

// KeySize is the width of a fixed public key field.
const KeySize = 32

var (
	// ErrTruncatedInput means a declared or implied length runs past the end of the payload.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrInvalidEncoding means text bytes are not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid utf-8 text")
)

// ReadKey reads a 32-byte public key at *cursor.
func ReadKey(buf []byte, cursor *int) (solana.PublicKey, error) {
	if err := ensure(buf, *cursor, KeySize); err != nil {
		return solana.PublicKey{}, err
	}
	var key solana.PublicKey
	copy(key[:], buf[*cursor:*cursor+KeySize])
	*cursor += KeySize
	return key, nil
}

// ReadText reads a u32 little-endian length prefix followed by that many UTF-8 bytes.
// The cursor is left untouched on failure.
func ReadText(buf []byte, cursor *int) (string, error) {
	pos := *cursor
	length, err := ReadU32(buf, &pos)
	if err != nil {
		return "", err
	}
	if uint64(length) > uint64(len(buf)-pos) {
		return "", fmt.Errorf("%w: text of %d bytes at offset %d, have %d", ErrTruncatedInput, length, pos, len(buf)-pos)
	}
	content := buf[pos : pos+int(length)]
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w at offset %d", ErrInvalidEncoding, pos)
	}
	*cursor = pos + int(length)
	return string(content), nil
}

// ReadU32 reads a little-endian uint32.
func ReadU32(buf []byte, cursor *int) (uint32, error) {
	if err := ensure(buf, *cursor, 4); err != nil {
		return 0, err
	}
	value := binary.LittleEndian.Uint32(buf[*cursor:])
	*cursor += 4
	return value, nil
}

// ReadBool reads one byte; any nonzero value is true.
func ReadBool(buf []byte, cursor *int) (bool, error) {
	if err := ensure(buf, *cursor, 1); err != nil {
		return false, err
	}
	value := buf[*cursor] != 0
	*cursor++
	return value, nil
}

func ensure(buf []byte, cursor, n int) error {
	if cursor < 0 || cursor > len(buf) {
		return fmt.Errorf("%w: cursor %d outside payload of %d bytes", ErrTruncatedInput, cursor, len(buf))
	}
	if len(buf)-cursor < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedInput, n, cursor, len(buf)-cursor)
	}
	return nil
}

// fieldReader chains codec reads and keeps the first error, tagged with the field name.
type fieldReader struct {
	buf []byte
	pos int
	err error
}

func newFieldReader(buf []byte) *fieldReader {
	return &fieldReader{buf: buf}
}

func (r *fieldReader) key(field string) solana.PublicKey {
	if r.err != nil {
		return solana.PublicKey{}
	}
	value, err := ReadKey(r.buf, &r.pos)
	r.fail(field, err)
	return value
}

func (r *fieldReader) text(field string) string {
	if r.err != nil {
		return ""
	}
	value, err := ReadText(r.buf, &r.pos)
	r.fail(field, err)
	return value
}

func (r *fieldReader) u32(field string) uint32 {
	if r.err != nil {
		return 0
	}
	value, err := ReadU32(r.buf, &r.pos)
	r.fail(field, err)
	return value
}

func (r *fieldReader) boolean(field string) bool {
	if r.err != nil {
		return false
	}
	value, err := ReadBool(r.buf, &r.pos)
	r.fail(field, err)
	return value
}

func (r *fieldReader) fail(field string, err error) {
	if err != nil {
		r.err = fmt.Errorf("%s: %w", field, err)
	}
}
