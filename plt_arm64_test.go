package nxo

import (
	"encoding/binary"
	"testing"
)

func encodeStub(adrp, ldr, add, br uint32) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], adrp)
	binary.LittleEndian.PutUint32(buf[4:8], ldr)
	binary.LittleEndian.PutUint32(buf[8:12], add)
	binary.LittleEndian.PutUint32(buf[12:16], br)
	return buf
}

func TestScanPLTStubsARM64RecognizesStub(t *testing.T) {
	// adrp x16, #0x2000 ; ldr x17, [x16] ; add x16, x16, #0 ; br x17
	text := encodeStub(0xD0000010, 0xF9400211, 0x91000210, ret64)

	entries := scanPLTStubsARM64(text, 0x2000, 0x2008)
	if len(entries) != 1 {
		t.Fatalf("expected 1 PLT stub, got %d: %+v", len(entries), entries)
	}
	if entries[0].Offset != 0 || entries[0].Target != 0x2000 {
		t.Fatalf("expected offset=0 target=0x2000, got %+v", entries[0])
	}
}

func TestScanPLTStubsARM64RejectsTargetOutsideGot(t *testing.T) {
	text := encodeStub(0xD0000010, 0xF9400211, 0x91000210, ret64)

	// Computed target 0x2000 lies below pltGotStart: must not be reported as a stub.
	entries := scanPLTStubsARM64(text, 0x3000, 0x3008)
	if len(entries) != 0 {
		t.Fatalf("expected no stubs when target falls outside [pltGotStart, pltGotEnd), got %+v", entries)
	}
}

func TestScanPLTStubsARM64RejectsWrongMask(t *testing.T) {
	// second instruction isn't a matching ldr (top bits wrong).
	text := encodeStub(0xD0000010, 0x00000000, 0x91000210, ret64)

	entries := scanPLTStubsARM64(text, 0x2000, 0x2008)
	if len(entries) != 0 {
		t.Fatalf("expected no stubs for a non-matching instruction sequence, got %+v", entries)
	}
}
