// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package decode

import "bytes"

const httpScanLimit = 1500

var (
	hostPrefix = []byte("Host: ")
	crlf       = []byte("\r\n")
)

// DecodeHTTPHost scans the first ~1500 bytes of a TCP payload for a
// "Host: <value>\r\n" line anchored at the start of the buffer or right
// after a CRLF. It returns an empty string, no error, when no such line
// is found -- an HTTP payload without a Host line (or a non-HTTP
// payload) is routine, not malformed.
func DecodeHTTPHost(b []byte) (string, error) {
	if len(b) > httpScanLimit {
		b = b[:httpScanLimit]
	}

	if bytes.HasPrefix(b, hostPrefix) {
		if v, ok := hostValue(b[len(hostPrefix):]); ok {
			return v, nil
		}
	}

	idx := 0
	for {
		rel := bytes.Index(b[idx:], crlf)
		if rel < 0 {
			break
		}
		start := idx + rel + len(crlf)
		if start >= len(b) {
			break
		}

		if bytes.HasPrefix(b[start:], hostPrefix) {
			if v, ok := hostValue(b[start+len(hostPrefix):]); ok {
				return v, nil
			}
		}

		idx = start
	}

	return "", nil
}

func hostValue(b []byte) (string, bool) {
	end := bytes.Index(b, crlf)
	if end < 0 {
		return "", false
	}
	return string(b[:end]), true
}
