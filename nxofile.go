package nxo

// NxoFile is a fully parsed NSO/NRO/KIP module: the flat relocatable
// image plus everything recovered from its MOD0/dynamic structures
// (spec §3, §4). A zero-value NxoFile is not useful; construct one with
// Load or OpenFile.
type NxoFile struct {
	ArmV7   bool
	OffSize uint64

	Full []byte

	TextOff, TextSize     uint64
	RodataOff, RodataSize uint64
	DataOff, DataSize     uint64
	BssOff, BssSize       uint64

	ModOff        uint64
	DynamicOff    uint64
	DynamicSize   uint64
	UnwindOff     uint64
	UnwindEnd     uint64
	ModuleOff     uint64
	IsLibnx       bool
	LibnxGotStart uint64
	LibnxGotEnd   uint64

	dynamicSingle map[DT]uint64
	needed        []uint64

	DynStr []byte
	dynSym []*Symbol

	relocations []*Relocation
	pltEntries  []PLTEntry

	GotStart uint64
	GotEnd   uint64
	haveGot  bool
	ehTable  []EHEntry

	ehFrameStart, ehFrameEnd uint64
	haveEhFrame              bool

	sections []Part

	Warnings []string
}

// Needed resolves every DT_NEEDED entry into its library name string.
func (f *NxoFile) Needed() []string {
	out := make([]string, 0, len(f.needed))
	for _, o := range f.needed {
		s, err := f.getDynstr(o)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Got returns the inferred .got range, if one was found.
func (f *NxoFile) Got() (start, end uint64, ok bool) {
	return f.GotStart, f.GotEnd, f.haveGot
}

// Sections returns the flattened, sorted, non-overlapping part map
// produced by SegmentBuilder.Flatten.
func (f *NxoFile) Sections() []Part { return f.sections }

// Symbols returns the parsed .dynsym entries.
func (f *NxoFile) Symbols() []*Symbol { return f.dynSym }

// Relocations returns every relocation record recovered from
// .rel.dyn/.rela.dyn/.relr.dyn/.rel.plt/.rela.plt.
func (f *NxoFile) Relocations() []*Relocation { return f.relocations }

// PLTEntries returns the recovered AArch64 PLT stubs, empty on ARM32.
func (f *NxoFile) PLTEntries() []PLTEntry { return f.pltEntries }

// EHTable returns the decoded eh_frame_hdr binary search table.
func (f *NxoFile) EHTable() []EHEntry { return f.ehTable }

func (f *NxoFile) warn(msg string) { f.Warnings = append(f.Warnings, msg) }

// newNxoFileBase runs every parsing stage shared by NSO, NRO and KIP
// containers, in the same order as the source tool: flat image, MOD
// header, dynamic table, dynstr, hash tables, dynsym, relocations, PLT
// recovery, GOT inference, eh_frame_hdr, then the flattened section map
// (spec §4.3-§4.10).
func newNxoFileBase(text, ro, data rawSegment, bssSize uint64) (*NxoFile, error) {
	f := &NxoFile{
		TextOff: text.Vaddr, TextSize: text.Vsize,
		RodataOff: ro.Vaddr, RodataSize: ro.Vsize,
		DataOff: data.Vaddr, DataSize: data.Vsize,
	}

	full, warnings := buildFlatImage(text, ro, data)
	f.Full = full
	f.Warnings = append(f.Warnings, warnings...)

	c := newCursor(f.Full)
	modOff, err := c.readU32At(4)
	if err != nil {
		return nil, err
	}
	f.ModOff = uint64(modOff)

	magic, err := c.readFrom(f.ModOff, 4)
	if err != nil {
		return nil, err
	}
	if string(magic) != "MOD0" {
		return nil, errBadMod("invalid MOD0 magic")
	}

	c.seek(f.ModOff + 4)
	dynRel, err := c.readI32()
	if err != nil {
		return nil, err
	}
	bssStartRel, err := c.readI32()
	if err != nil {
		return nil, err
	}
	bssEndRel, err := c.readI32()
	if err != nil {
		return nil, err
	}
	unwindStartRel, err := c.readI32()
	if err != nil {
		return nil, err
	}
	unwindEndRel, err := c.readI32()
	if err != nil {
		return nil, err
	}
	moduleRel, err := c.readI32()
	if err != nil {
		return nil, err
	}

	f.DynamicOff = uint64(int64(f.ModOff) + int64(dynRel))
	bssOff := uint64(int64(f.ModOff) + int64(bssStartRel))
	bssEnd := uint64(int64(f.ModOff) + int64(bssEndRel))
	f.UnwindOff = uint64(int64(f.ModOff) + int64(unwindStartRel))
	f.UnwindEnd = uint64(int64(f.ModOff) + int64(unwindEndRel))
	f.ModuleOff = uint64(int64(f.ModOff) + int64(moduleRel))

	f.DataSize = bssOff - f.DataOff
	f.BssOff = bssOff
	f.BssSize = bssEnd - bssOff

	if lny, err := c.read(4); err == nil && string(lny) == "LNY0" {
		f.IsLibnx = true
		gotStartRel, err := c.readI32()
		if err != nil {
			return nil, err
		}
		gotEndRel, err := c.readI32()
		if err != nil {
			return nil, err
		}
		f.LibnxGotStart = uint64(int64(f.ModOff) + int64(gotStartRel))
		f.LibnxGotEnd = uint64(int64(f.ModOff) + int64(gotEndRel))
	}

	builder := NewSegmentBuilder()
	if err := builder.AddSegment(f.TextOff, f.TextSize, ".text", KindCode); err != nil {
		return nil, err
	}
	if err := builder.AddSegment(f.RodataOff, f.RodataSize, ".rodata", KindConst); err != nil {
		return nil, err
	}
	if err := builder.AddSegment(f.DataOff, f.DataSize, ".data", KindData); err != nil {
		return nil, err
	}
	if err := builder.AddSegment(f.BssOff, f.BssSize, ".bss", KindBSS); err != nil {
		return nil, err
	}

	// ARM32 detection: two u64 probes at dynamicOff and dynamicOff+0x10.
	probe1, err := c.readU64At(f.DynamicOff)
	if err != nil {
		return nil, err
	}
	probe2, err := c.readU64At(f.DynamicOff + 0x10)
	if err != nil {
		return nil, err
	}
	// Packed (u32 tag, u32 val) ARM32 entries put a nonzero val in the
	// upper 32 bits of this 8-byte probe for any real address-valued tag;
	// an AArch64 entry's first 8 bytes are the tag alone, which stays
	// small. A large probe therefore means ARM32, not AArch64.
	f.ArmV7 = probe1 > 0xFFFFFFFF || probe2 > 0xFFFFFFFF
	f.OffSize = 8
	if f.ArmV7 {
		f.OffSize = 4
	}

	if err := f.parseDynamic(); err != nil {
		return nil, err
	}
	if err := builder.AddSectionEnd(".dynamic", f.DynamicOff, f.DynamicOff+f.DynamicSize); err != nil {
		return nil, err
	}
	if err := builder.AddSectionEnd(".eh_frame_hdr", f.UnwindOff, f.UnwindEnd); err != nil {
		return nil, err
	}

	f.parseDynstr()

	for _, sec := range []struct {
		startKey, szKey DT
		name            string
	}{
		{DT_STRTAB, DT_STRSZ, ".dynstr"},
		{DT_INIT_ARRAY, DT_INIT_ARRAYSZ, ".init_array"},
		{DT_FINI_ARRAY, DT_FINI_ARRAYSZ, ".fini_array"},
		{DT_RELA, DT_RELASZ, ".rela.dyn"},
		{DT_REL, DT_RELSZ, ".rel.dyn"},
		{DT_RELR, DT_RELRSZ, ".relr.dyn"},
		{DT_JMPREL, DT_PLTRELSZ, pltRelocSectionName(f.ArmV7)},
	} {
		start, hasStart := f.dynamicValue(sec.startKey)
		size, hasSize := f.dynamicValue(sec.szKey)
		if hasStart && hasSize {
			if err := builder.AddSectionSize(sec.name, start, size); err != nil {
				return nil, err
			}
		}
	}

	hashStart, hashEnd, haveHash, gnuStart, gnuEnd, haveGnu, err := f.parseHash()
	if err != nil {
		return nil, err
	}
	if haveHash {
		if err := builder.AddSectionEnd(".hash", hashStart, hashEnd); err != nil {
			return nil, err
		}
	}
	if haveGnu {
		if err := builder.AddSectionEnd(".gnu.hash", gnuStart, gnuEnd); err != nil {
			return nil, err
		}
	}

	dynsymStart, dynsymEnd, haveDynsym, err := f.parseDynsym()
	if err != nil {
		return nil, err
	}
	if haveDynsym {
		if err := builder.AddSectionEnd(".dynsym", dynsymStart, dynsymEnd); err != nil {
			return nil, err
		}
	}

	locations := map[uint64]bool{}
	if off, ok1 := f.dynamicValue(DT_REL); ok1 {
		if size, ok2 := f.dynamicValue(DT_RELSZ); ok2 {
			loc, err := f.processRelocations(off, size)
			if err != nil {
				return nil, err
			}
			mergeLocations(locations, loc)
		}
	}
	if off, ok1 := f.dynamicValue(DT_RELA); ok1 {
		if size, ok2 := f.dynamicValue(DT_RELASZ); ok2 {
			loc, err := f.processRelocations(off, size)
			if err != nil {
				return nil, err
			}
			mergeLocations(locations, loc)
		}
	}
	if off, ok := f.dynamicValue(DT_RELR); ok {
		size, _ := f.dynamicValue(DT_RELRSZ)
		loc, err := f.processRelocationsRelr(off, size)
		if err != nil {
			return nil, err
		}
		mergeLocations(locations, loc)
	}

	var pltGotEnd *uint64
	if off, ok1 := f.dynamicValue(DT_JMPREL); ok1 {
		if size, ok2 := f.dynamicValue(DT_PLTRELSZ); ok2 {
			pltLoc, err := f.processRelocations(off, size)
			if err != nil {
				return nil, err
			}
			mergeLocations(locations, pltLoc)

			if len(pltLoc) > 0 {
				pltGotStart, end := minMaxLocations(pltLoc)
				end += f.OffSize
				pltGotEnd = &end

				if pltgot, ok := f.dynamicValue(DT_PLTGOT); ok {
					if err := builder.AddSectionEnd(".got.plt", pltgot, end); err != nil {
						return nil, err
					}
				}

				if !f.ArmV7 {
					textEnd := f.TextSize
					if textEnd > uint64(len(f.Full)) {
						textEnd = uint64(len(f.Full))
					}
					entries := scanPLTStubsARM64(f.Full[:textEnd], pltGotStart, end)
					f.pltEntries = entries
					if len(entries) > 0 {
						minOff, maxOff := entries[0].Offset, entries[0].Offset
						for _, e := range entries {
							if e.Offset < minOff {
								minOff = e.Offset
							}
							if e.Offset > maxOff {
								maxOff = e.Offset
							}
						}
						if err := builder.AddSectionEnd(".plt", minOff, maxOff+0x10); err != nil {
							return nil, err
						}
					}
				}
			}
		}
	}

	if !f.IsLibnx {
		if start, end, ok := f.inferGot(locations, pltGotEnd); ok {
			f.GotStart, f.GotEnd, f.haveGot = start, end, true
			if err := builder.AddSectionEnd(".got", start, end); err != nil {
				return nil, err
			}
		}
	} else {
		f.GotStart, f.GotEnd, f.haveGot = f.LibnxGotStart, f.LibnxGotEnd, true
		if err := builder.AddSectionEnd(".got", f.LibnxGotStart, f.LibnxGotEnd); err != nil {
			return nil, err
		}
	}

	if err := f.parseEHFrameHdr(); err != nil {
		return nil, err
	}
	if f.haveEhFrame {
		if err := builder.AddSectionEnd(".eh_frame", f.ehFrameStart, f.ehFrameEnd); err != nil {
			return nil, err
		}
	}

	f.sections = builder.Flatten()
	return f, nil
}

func pltRelocSectionName(armv7 bool) string {
	if armv7 {
		return ".rel.plt"
	}
	return ".rela.plt"
}

func mergeLocations(dst, src map[uint64]bool) {
	for k := range src {
		dst[k] = true
	}
}

func minMaxLocations(locs map[uint64]bool) (min, max uint64) {
	first := true
	for k := range locs {
		if first {
			min, max = k, k
			first = false
			continue
		}
		if k < min {
			min = k
		}
		if k > max {
			max = k
		}
	}
	return min, max
}
