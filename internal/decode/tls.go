// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package decode

const (
	tlsContentTypeHandshake = 0x16
	tlsHandshakeClientHello = 0x01
	tlsExtServerName        = 0x0000
	tlsServerNameTypeHost   = 0x00
)

// DecodeTLSSNI extracts the server_name extension's host_name entry from
// a TLS record carrying a ClientHello. Any inconsistency in the nested
// length fields returns an empty string with no error: a missing SNI is
// routine, not malformed input, so it does not count as a decode
// failure for purposes of packet/byte accounting upstream.
func DecodeTLSSNI(b []byte) (string, error) {
	r := NewReader(b)

	contentType, err := r.U8At(0)
	if err != nil {
		return "", err
	}
	if contentType != tlsContentTypeHandshake {
		return "", nil
	}

	// record header: type(1) + version(2) + length(2)
	recordLen, err := r.U16BEAt(3)
	if err != nil {
		return "", err
	}
	body, err := r.Slice(5, int(recordLen))
	if err != nil {
		return "", nil
	}

	br := NewReader(body)

	handshakeType, err := br.U8At(0)
	if err != nil || handshakeType != tlsHandshakeClientHello {
		return "", nil
	}

	pos := 4 // handshake type(1) + length(3)
	pos += 2 // legacy_version
	pos += 32 // random

	sidLen, err := br.U8At(pos)
	if err != nil {
		return "", nil
	}
	pos += 1 + int(sidLen)

	csLen, err := br.U16BEAt(pos)
	if err != nil {
		return "", nil
	}
	pos += 2 + int(csLen)

	cmLen, err := br.U8At(pos)
	if err != nil {
		return "", nil
	}
	pos += 1 + int(cmLen)

	extTotalLen, err := br.U16BEAt(pos)
	if err != nil {
		return "", nil
	}
	pos += 2

	extensions, err := br.Slice(pos, int(extTotalLen))
	if err != nil {
		return "", nil
	}

	return scanExtensionsForSNI(extensions)
}

func scanExtensionsForSNI(extensions []byte) (string, error) {
	er := NewReader(extensions)

	pos := 0
	for pos+4 <= er.Len() {
		extType, err := er.U16BEAt(pos)
		if err != nil {
			return "", nil
		}
		extLen, err := er.U16BEAt(pos + 2)
		if err != nil {
			return "", nil
		}
		extBody, err := er.Slice(pos+4, int(extLen))
		if err != nil {
			return "", nil
		}

		if extType == tlsExtServerName {
			return parseServerNameList(extBody)
		}

		pos += 4 + int(extLen)
	}

	return "", nil
}

func parseServerNameList(body []byte) (string, error) {
	br := NewReader(body)

	listLen, err := br.U16BEAt(0)
	if err != nil {
		return "", nil
	}
	list, err := br.Slice(2, int(listLen))
	if err != nil {
		return "", nil
	}

	lr := NewReader(list)
	pos := 0
	for pos+3 <= lr.Len() {
		nameType, err := lr.U8At(pos)
		if err != nil {
			return "", nil
		}
		nameLen, err := lr.U16BEAt(pos + 1)
		if err != nil {
			return "", nil
		}
		name, err := lr.Slice(pos+3, int(nameLen))
		if err != nil {
			return "", nil
		}

		if nameType == tlsServerNameTypeHost {
			return string(name), nil
		}

		pos += 3 + int(nameLen)
	}

	return "", nil
}
