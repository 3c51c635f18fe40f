package nxo

// Relocation is one entry out of .rel.dyn/.rela.dyn/.relr.dyn/.rel.plt
// (spec §4.6). Addend is nil for REL entries, which carry no explicit
// addend field; RELR-derived entries carry an explicit zero addend,
// matching the "no symbol, addend 0" framing RELA-style consumers
// expect.
type Relocation struct {
	Offset uint64
	RType  uint32
	Sym    *Symbol
	Addend *int64
}

// zeroAddend returns a fresh pointer to a zero addend, for relocation
// kinds that carry an explicit-but-always-zero addend field.
func zeroAddend() *int64 {
	v := int64(0)
	return &v
}

// processRelocations reads a REL (armv7, 8 bytes/entry) or RELA
// (aarch64, 0x18 bytes/entry) table and appends to f.relocations. It
// returns the set of locations touched, excluding TLSDESC entries which
// the spec singles out as "not a location write" (the dynamic linker
// resolves these lazily rather than patching them up front).
func (f *NxoFile) processRelocations(offset, size uint64) (map[uint64]bool, error) {
	locations := map[uint64]bool{}
	relocsize := uint64(0x18)
	if f.ArmV7 {
		relocsize = 8
	}
	c := newCursor(f.Full)
	c.seek(offset)
	count := size / relocsize
	for i := uint64(0); i < count; i++ {
		var off uint64
		var rtype uint32
		var rsym uint64
		var addend *int64

		if f.ArmV7 {
			o, err := c.readU32()
			if err != nil {
				return nil, err
			}
			info, err := c.readU32()
			if err != nil {
				return nil, err
			}
			off = uint64(o)
			rtype = info & 0xff
			rsym = uint64(info >> 8)
		} else {
			o, err := c.readU64()
			if err != nil {
				return nil, err
			}
			info, err := c.readU64()
			if err != nil {
				return nil, err
			}
			a, err := c.readI64()
			if err != nil {
				return nil, err
			}
			off = o
			rtype = uint32(info & 0xffffffff)
			rsym = info >> 32
			addend = &a
		}

		var sym *Symbol
		if rsym != 0 {
			if rsym >= uint64(len(f.dynSym)) {
				return nil, errTruncated("relocation symbol index out of range")
			}
			sym = f.dynSym[rsym]
		}

		if rtype != R_AARCH64_TLSDESC && rtype != R_ARM_TLS_DESC {
			locations[off] = true
		}
		f.relocations = append(f.relocations, &Relocation{Offset: off, RType: rtype, Sym: sym, Addend: addend})
	}
	return locations, nil
}

// processRelocationsRelr decodes a RELR compact relative-relocation
// bitmap (spec §4.6). Each 64-bit entry is either a base address (low
// bit clear) or a bitmap of offsets relative to the most recent base
// (low bit set, bit i meaning "where + i*8 is relocated").
//
// The bitmap format has no explicit starting address of its own: the
// very first entry in the stream must be a base-address entry, or the
// table is malformed.
func (f *NxoFile) processRelocationsRelr(offset, size uint64) (map[uint64]bool, error) {
	locations := map[uint64]bool{}
	const relocsize = 8
	c := newCursor(f.Full)
	c.seek(offset)
	count := size / relocsize

	var where uint64
	haveWhere := false
	for i := uint64(0); i < count; i++ {
		entry, err := c.readU64()
		if err != nil {
			return nil, err
		}
		if entry&1 != 0 {
			if !haveWhere {
				return nil, errTruncated("RELR bitmap entry before any base address")
			}
			bits := entry >> 1
			for bit := uint64(0); bit < (relocsize*8)-1; bit++ {
				if bits&(1<<bit) != 0 {
					loc := where + bit*relocsize
					locations[loc] = true
					f.relocations = append(f.relocations, &Relocation{Offset: loc, RType: R_FAKE_RELR, Addend: zeroAddend()})
				}
			}
			where += relocsize * ((relocsize * 8) - 1)
		} else {
			where = entry
			haveWhere = true
			locations[where] = true
			f.relocations = append(f.relocations, &Relocation{Offset: where, RType: R_FAKE_RELR, Addend: zeroAddend()})
			where += relocsize
		}
	}
	return locations, nil
}
