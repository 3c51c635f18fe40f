package nxo

import (
	"encoding/binary"
	"testing"
)

func TestProcessRelocationsRelrBitmapExample(t *testing.T) {
	entries := []uint64{0x1000, 0x1 | (0b101 << 1)}
	buf := make([]byte, len(entries)*8)
	for i, e := range entries {
		binary.LittleEndian.PutUint64(buf[i*8:i*8+8], e)
	}

	f := &NxoFile{Full: buf}
	locations, err := f.processRelocationsRelr(0, uint64(len(buf)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[uint64]bool{0x1000: true, 0x1008: true, 0x1018: true}
	if len(locations) != len(want) {
		t.Fatalf("expected %d locations, got %d: %v", len(want), len(locations), locations)
	}
	for loc := range want {
		if !locations[loc] {
			t.Fatalf("expected location 0x%x to be present, got %v", loc, locations)
		}
	}
}

func TestProcessRelocationsRelrRejectsMissingBase(t *testing.T) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, 0x3) // low bit set, no base has been seen yet

	f := &NxoFile{Full: buf}
	if _, err := f.processRelocationsRelr(0, uint64(len(buf))); err == nil {
		t.Fatalf("expected error when the first RELR entry is a bitmap, not a base address")
	}
}

func TestProcessRelocationsExcludesTLSDESC(t *testing.T) {
	// A single AArch64 RELA entry with r_type == R_AARCH64_TLSDESC must
	// not be reported as a touched location, even though it is still
	// recorded as a relocation.
	buf := make([]byte, 0x18)
	binary.LittleEndian.PutUint64(buf[0:8], 0x2000)                 // r_offset
	binary.LittleEndian.PutUint64(buf[8:16], uint64(R_AARCH64_TLSDESC)) // r_info, sym index 0
	binary.LittleEndian.PutUint64(buf[16:24], 0)                    // r_addend

	f := &NxoFile{Full: buf}
	locations, err := f.processRelocations(0, uint64(len(buf)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locations) != 0 {
		t.Fatalf("expected TLSDESC relocation to be excluded from locations, got %v", locations)
	}
	if len(f.Relocations()) != 1 || f.Relocations()[0].RType != R_AARCH64_TLSDESC {
		t.Fatalf("expected the TLSDESC relocation to still be recorded, got %+v", f.Relocations())
	}
}
