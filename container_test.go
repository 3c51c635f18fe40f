package nxo

import (
	"encoding/binary"
	"testing"
)

// buildMinimalNRO hand-assembles the smallest NRO0 container this loader
// can parse end to end: one .text segment holding the header, a MOD0
// record, and a two-entry ARM32 dynamic table (DT_STRTAB/DT_STRSZ then
// DT_NULL), with empty .rodata/.data/.bss segments immediately past it.
func buildMinimalNRO() []byte {
	const (
		modOff    = 0x40
		dynOff    = 0x60
		strtabOff = 0x80
		strsize   = 0x10
		textSize  = 0x100
	)

	buf := make([]byte, textSize)
	put32 := func(off uint32, v uint32) { binary.LittleEndian.PutUint32(buf[off:off+4], v) }

	// NRO header.
	put32(0x04, modOff)
	copy(buf[0x10:0x14], "NRO0")
	put32(0x20, 0)        // text vaddr
	put32(0x24, textSize) // text size
	put32(0x28, textSize) // rodata vaddr
	put32(0x2C, 0)        // rodata size
	put32(0x30, textSize) // data vaddr
	put32(0x34, 0)        // data size
	put32(0x38, 0)        // bss size

	// MOD0 header: six self-relative i32 offsets past the magic.
	copy(buf[modOff:modOff+4], "MOD0")
	put32(modOff+0x04, dynOff-modOff)       // dynamic
	put32(modOff+0x08, textSize-modOff)     // bss start == end of text
	put32(modOff+0x0C, textSize-modOff)     // bss end (zero-size bss)
	put32(modOff+0x10, 0)                   // unwind start == modOff
	put32(modOff+0x14, 0)                   // unwind end == modOff (empty)
	put32(modOff+0x18, 0)                   // module start

	// ARM32 dynamic table: (u32 tag, u32 val) pairs, terminated by DT_NULL.
	put32(dynOff+0x00, uint32(DT_STRTAB))
	put32(dynOff+0x04, strtabOff)
	put32(dynOff+0x08, uint32(DT_STRSZ))
	put32(dynOff+0x0C, strsize)
	put32(dynOff+0x10, uint32(DT_NULL))
	put32(dynOff+0x14, 0)

	return buf
}

func TestLoadMinimalNRORoundTrip(t *testing.T) {
	data := buildMinimalNRO()

	f, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !f.ArmV7 {
		t.Fatalf("expected ArmV7 detection from the packed (tag,val) dynamic entry")
	}
	if f.OffSize != 4 {
		t.Fatalf("expected OffSize 4 for ARM32, got %d", f.OffSize)
	}
	if f.DynamicOff != 0x60 || f.DynamicSize != 0x18 {
		t.Fatalf("unexpected dynamic table bounds: off=0x%x size=0x%x", f.DynamicOff, f.DynamicSize)
	}
	if f.BssSize != 0 {
		t.Fatalf("expected a zero-size .bss, got size=0x%x", f.BssSize)
	}
	if _, _, ok := f.Got(); ok {
		t.Fatalf("expected no .got to be inferred: no PLT and no DT_INIT_ARRAY")
	}
	if len(f.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", f.Warnings)
	}

	if len(f.Sections()) == 0 {
		t.Fatalf("expected a non-empty flattened section map")
	}
	var sawDynamic, sawDynstr bool
	var prevEnd uint64
	for i, p := range f.Sections() {
		if i > 0 && p.Start != prevEnd {
			t.Fatalf("sections not contiguous: gap between 0x%x and 0x%x", prevEnd, p.Start)
		}
		if p.End <= p.Start {
			t.Fatalf("non-positive-length part %+v", p)
		}
		prevEnd = p.End
		switch p.Name {
		case ".dynamic":
			sawDynamic = true
			if p.Start != 0x60 || p.End != 0x78 {
				t.Fatalf("unexpected .dynamic bounds: %+v", p)
			}
		case ".dynstr":
			sawDynstr = true
			if p.Start != 0x80 || p.End != 0x90 {
				t.Fatalf("unexpected .dynstr bounds: %+v", p)
			}
		}
	}
	if !sawDynamic || !sawDynstr {
		t.Fatalf("expected .dynamic and .dynstr sections, got %+v", f.Sections())
	}
	if prevEnd != uint64(len(data)) {
		t.Fatalf("expected sections to cover the whole flat image, last end=0x%x want 0x%x", prevEnd, len(data))
	}
}

func TestLoadRejectsUnknownMagic(t *testing.T) {
	data := make([]byte, 0x20)
	if _, err := Load(data); err == nil {
		t.Fatalf("expected an error for a buffer with no recognized container magic")
	}
}

func TestLoadRejectsTruncatedInput(t *testing.T) {
	if _, err := Load([]byte{0, 1, 2}); err == nil {
		t.Fatalf("expected an error for input too short to contain any header")
	}
}
