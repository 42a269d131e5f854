// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

// Package codec implements the snapshot file's authenticated-encryption
// record format: each plaintext record is sealed with XSalsa20-Poly1305
// (golang.org/x/crypto/nacl/secretbox) under a fresh random nonce and
// framed with a little-endian u32 length prefix, so a reader can stream
// records without a prior directory.
package codec

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// KeySize is the required secret key length.
const KeySize = 32

// NonceSize is the per-record nonce length.
const NonceSize = 24

// Key is the fixed 32-byte secret used to seal and open records. Unlike
// the source program this is specified as, the key must be supplied by
// the caller at startup -- there is no built-in default (see the
// "Key distribution" entry in DESIGN.md).
type Key [KeySize]byte

// Writer seals and frames CSV records to an underlying io.Writer.
type Writer struct {
	w   io.Writer
	key Key
}

// NewWriter returns a Writer that seals records under key before
// writing them to w.
func NewWriter(w io.Writer, key Key) *Writer {
	return &Writer{w: w, key: key}
}

// WriteRecord seals plaintext under a fresh random nonce and writes the
// framed record: a little-endian u32 length, followed by the
// nonce-prefixed ciphertext (len(plaintext)+16+24 bytes).
func (w *Writer) WriteRecord(plaintext []byte) error {
	var nonce [NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("codec: generating nonce: %w", err)
	}

	sealed := secretbox.Seal(nil, plaintext, &nonce, (*[KeySize]byte)(&w.key))

	framed := make([]byte, NonceSize+len(sealed))
	copy(framed, nonce[:])
	copy(framed[NonceSize:], sealed)

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(framed)))

	if _, err := w.w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("codec: writing record length: %w", err)
	}
	if _, err := w.w.Write(framed); err != nil {
		return fmt.Errorf("codec: writing record body: %w", err)
	}
	return nil
}

// Reader opens framed, sealed records from an underlying io.Reader.
type Reader struct {
	r   io.Reader
	key Key
}

// NewReader returns a Reader that opens records sealed under key.
func NewReader(r io.Reader, key Key) *Reader {
	return &Reader{r: r, key: key}
}

// ErrAuth is returned when a record fails authentication -- a
// corrupted or tampered ciphertext.
var ErrAuth = fmt.Errorf("codec: message authentication failed")

// ReadRecord reads and opens the next record. It returns io.EOF (and no
// other error) when the stream ends exactly on a record boundary.
func (r *Reader) ReadRecord() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r.r, lenBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("codec: truncated record length: %w", err)
		}
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])

	framed := make([]byte, n)
	if _, err := io.ReadFull(r.r, framed); err != nil {
		return nil, fmt.Errorf("codec: truncated record body: %w", err)
	}
	if len(framed) < NonceSize {
		return nil, fmt.Errorf("codec: record shorter than nonce")
	}

	var nonce [NonceSize]byte
	copy(nonce[:], framed[:NonceSize])
	ciphertext := framed[NonceSize:]

	plaintext, ok := secretbox.Open(nil, ciphertext, &nonce, (*[KeySize]byte)(&r.key))
	if !ok {
		return nil, ErrAuth
	}
	return plaintext, nil
}
