// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package decode

import "strings"

const dnsHeaderLen = 12

// DecodeDNSQueryName reads the QNAME of the first question in a DNS (or
// mDNS) payload. At most one compressed (pointer) label is followed, to
// bound decode cost and forbid pointer cycles; a second pointer
// encountered after the first, or a pointer aimed forward/at-or-past its
// own position, is treated as malformed and yields ErrTruncated.
func DecodeDNSQueryName(payload []byte) (string, error) {
	if len(payload) < dnsHeaderLen {
		return "", ErrTruncated
	}
	return decodeName(payload, dnsHeaderLen, false)
}

// DecodeMDNSName reads the QNAME of the first question if one exists,
// otherwise the NAME of the first answer record. mDNS responses
// frequently carry zero questions and one or more answers.
func DecodeMDNSName(payload []byte) (string, error) {
	if len(payload) < dnsHeaderLen {
		return "", ErrTruncated
	}

	r := NewReader(payload)
	qdCount, err := r.U16BEAt(4)
	if err != nil {
		return "", err
	}
	anCount, err := r.U16BEAt(6)
	if err != nil {
		return "", err
	}

	if qdCount > 0 {
		return decodeName(payload, dnsHeaderLen, false)
	}
	if anCount > 0 {
		return decodeName(payload, dnsHeaderLen, false)
	}

	return "", ErrTruncated
}

// decodeName decodes a sequence of length-prefixed labels starting at
// offset, following at most one compression pointer. followedPointer
// tracks whether a pointer has already been taken, so a second one is
// rejected as a cycle guard.
func decodeName(payload []byte, offset int, followedPointer bool) (string, error) {
	r := NewReader(payload)

	var labels []string
	pos := offset

	for {
		lengthByte, err := r.U8At(pos)
		if err != nil {
			return "", err
		}

		if lengthByte == 0 {
			break
		}

		if lengthByte&0xC0 == 0xC0 {
			if followedPointer {
				return "", ErrTruncated
			}

			hi, err := r.U8At(pos)
			if err != nil {
				return "", err
			}
			lo, err := r.U8At(pos + 1)
			if err != nil {
				return "", err
			}

			target := int(hi&0x3f)<<8 | int(lo)
			if target >= pos {
				// forbids forward pointers and self-pointers: both are
				// either malformed or could be used to build a cycle.
				return "", ErrTruncated
			}

			rest, err := decodeName(payload, target, true)
			if err != nil {
				return "", err
			}
			if rest != "" {
				labels = append(labels, rest)
			}
			pos += 2
			return strings.Join(labels, "."), nil
		}

		if lengthByte&0xC0 != 0 {
			// the two remaining reserved label-type patterns (0x40, 0x80)
			// are not used by DNS in the wild; treat as malformed.
			return "", ErrTruncated
		}

		label, err := r.Slice(pos+1, int(lengthByte))
		if err != nil {
			return "", err
		}
		labels = append(labels, string(label))
		pos += 1 + int(lengthByte)
	}

	return strings.Join(labels, "."), nil
}
