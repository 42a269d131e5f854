// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package decode

// WireGuard message types (one byte, little-endian wire format uses a
// single byte so endianness doesn't matter).
const (
	WireGuardHandshakeInitiation = 1
	WireGuardHandshakeResponse   = 2
	WireGuardCookieReply         = 3
	WireGuardTransportData       = 4
)

// IsWireGuard reports whether b looks like a WireGuard message: a
// one-byte type in {1,2,3,4} followed by three reserved zero bytes. It
// never yields an application name -- WireGuard carries none to
// extract -- but a recognised message is not a decode failure, so the
// caller still counts the packet toward totals.
func IsWireGuard(b []byte) bool {
	r := NewReader(b)

	msgType, err := r.U8At(0)
	if err != nil {
		return false
	}
	if msgType < WireGuardHandshakeInitiation || msgType > WireGuardTransportData {
		return false
	}

	reserved, err := r.Slice(1, 3)
	if err != nil {
		return false
	}
	for _, v := range reserved {
		if v != 0 {
			return false
		}
	}

	return true
}
