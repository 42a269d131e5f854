// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package decode

import "testing"

func TestDecodeEthernetPlain(t *testing.T) {
	frame := buildEthernetIPv4UDP([4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, 1234, 53, nil)

	eth, err := DecodeEthernet(frame)
	if err != nil {
		t.Fatalf("DecodeEthernet err = %v; want nil", err)
	}
	if eth.LinkKind != LinkEthernetII || eth.HeaderLen != 14 {
		t.Fatalf("eth = %+v; want LinkEthernetII, HeaderLen 14", eth)
	}
}

func TestDecodeEthernetVLAN(t *testing.T) {
	frame := buildVLANIPv4UDP([4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, 1234, 53, nil)

	eth, err := DecodeEthernet(frame)
	if err != nil {
		t.Fatalf("DecodeEthernet err = %v; want nil", err)
	}
	if eth.LinkKind != LinkVLAN || eth.HeaderLen != 18 {
		t.Fatalf("eth = %+v; want LinkVLAN, HeaderLen 18", eth)
	}
}

func TestDecodeEthernetUnknownEtherType(t *testing.T) {
	frame := make([]byte, 14)
	frame[12] = 0x08
	frame[13] = 0x06 // ARP

	eth, err := DecodeEthernet(frame)
	if err != nil {
		t.Fatalf("DecodeEthernet err = %v; want nil", err)
	}
	if eth.LinkKind != LinkUnknown {
		t.Fatalf("eth.LinkKind = %q; want LinkUnknown", eth.LinkKind)
	}
}

func TestDecodeEthernetTruncated(t *testing.T) {
	if _, err := DecodeEthernet(make([]byte, 10)); err == nil {
		t.Fatal("expected ErrTruncated for a short frame, got nil")
	}
}
