// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package decode

const ikeHeaderLen = 28

// IKEv2 exchange types (RFC 7296 §3.1), the four this engine names.
const (
	ExchangeIKESAInit      = 34
	ExchangeIKEAuth        = 35
	ExchangeCreateChildSA  = 36
	ExchangeInformational  = 37
)

// IKEHeader is the result of decoding an IKEv2 header.
type IKEHeader struct {
	MajorVersion int
	ExchangeName string // empty if the exchange type isn't one of the four named types
}

// ExchangeName maps an IKEv2 exchange type byte to its RFC 7296 name, or
// "" if it isn't one of the four this engine names.
func ExchangeName(exchangeType byte) string {
	switch int(exchangeType) {
	case ExchangeIKESAInit:
		return "IKE_SA_INIT"
	case ExchangeIKEAuth:
		return "IKE_AUTH"
	case ExchangeCreateChildSA:
		return "CREATE_CHILD_SA"
	case ExchangeInformational:
		return "INFORMATIONAL"
	}
	return ""
}

// DecodeIKEv2Header decodes the 28-byte IKEv2 header starting at the
// beginning of b (b is the UDP payload with any non-ESP marker already
// stripped by the caller, see DecodeNATT).
func DecodeIKEv2Header(b []byte) (IKEHeader, error) {
	r := NewReader(b)
	if r.Len() < ikeHeaderLen {
		return IKEHeader{}, ErrTruncated
	}

	versionByte, err := r.U8At(17)
	if err != nil {
		return IKEHeader{}, err
	}
	exchangeType, err := r.U8At(18)
	if err != nil {
		return IKEHeader{}, err
	}

	return IKEHeader{
		MajorVersion: int(versionByte >> 4),
		ExchangeName: ExchangeName(exchangeType),
	}, nil
}

// DecodeNATT inspects a UDP/4500 payload and reports whether it begins
// with a 4-byte all-zero non-ESP marker, in which case what follows is
// an IKEv2 message; otherwise the datagram is ESP-in-UDP and has no
// IKEv2 header to decode. Returns the payload with the marker stripped
// (a no-op when there was none) and whether a marker was found.
func DecodeNATT(udpPayload []byte) (rest []byte, isIKE bool, err error) {
	r := NewReader(udpPayload)

	marker, err := r.Slice(0, 4)
	if err != nil {
		return nil, false, err
	}

	for _, v := range marker {
		if v != 0 {
			return udpPayload, false, nil
		}
	}

	rest, err = r.Slice(4, r.Len()-4)
	if err != nil {
		return nil, false, err
	}
	return rest, true, nil
}
