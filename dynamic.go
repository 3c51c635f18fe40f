package nxo

// parseDynamic reads the dynamic table starting at f.DynamicOff, one
// (u32,u32) pair per entry in ARM32 mode or (u64,u64) in AArch64 mode,
// until DT_NULL or the end of the flat image (spec §4.4). DT_NEEDED is
// the only tag accumulated as a list; every other recognized tag keeps
// only its last-seen value, matching the source tool.
func (f *NxoFile) parseDynamic() error {
	c := newCursor(f.Full)
	c.seek(f.DynamicOff)

	f.dynamicSingle = map[DT]uint64{}

	for c.tell()+0x10 <= uint64(len(f.Full)) {
		var tag DT
		var val uint64
		if f.ArmV7 {
			rawTag, err := c.readU32()
			if err != nil {
				return err
			}
			rawVal, err := c.readU32()
			if err != nil {
				return err
			}
			tag, val = DT(rawTag), uint64(rawVal)
		} else {
			rawTag, err := c.readU64()
			if err != nil {
				return err
			}
			rawVal, err := c.readU64()
			if err != nil {
				return err
			}
			tag, val = DT(rawTag), rawVal
		}
		if tag == DT_NULL {
			break
		}
		if multipleDTs[tag] {
			f.needed = append(f.needed, val)
		} else {
			f.dynamicSingle[tag] = val
		}
	}
	f.DynamicSize = c.tell() - f.DynamicOff
	return nil
}

func (f *NxoFile) dynamicValue(tag DT) (uint64, bool) {
	v, ok := f.dynamicSingle[tag]
	return v, ok
}

// parseDynstr slices out the [STRTAB, STRTAB+STRSZ) byte range. A
// container missing either tag gets a single NUL byte instead, which
// keeps getDynstr(0) well defined and is recorded as a warning.
func (f *NxoFile) parseDynstr() {
	start, hasStart := f.dynamicValue(DT_STRTAB)
	size, hasSize := f.dynamicValue(DT_STRSZ)
	if !hasStart || !hasSize || start+size > uint64(len(f.Full)) {
		f.DynStr = []byte{0}
		f.Warnings = append(f.Warnings, "no dynstr")
		return
	}
	f.DynStr = f.Full[start : start+size]
}

// getDynstr returns the NUL-terminated ASCII string starting at byte
// offset o in .dynstr.
func (f *NxoFile) getDynstr(o uint64) (string, error) {
	if o >= uint64(len(f.DynStr)) {
		return "", errTruncated("dynstr offset out of range")
	}
	end := o
	for end < uint64(len(f.DynStr)) && f.DynStr[end] != 0 {
		end++
	}
	if end >= uint64(len(f.DynStr)) {
		return "", errTruncated("unterminated dynstr entry")
	}
	return string(f.DynStr[o:end]), nil
}

// parseDynsym reads .dynsym entries starting at DT_SYMTAB until the
// cursor runs into DT_STRTAB (the two tables are adjacent and there is
// no explicit symbol count) or a malformed st_name is seen, matching
// the source tool's stopping conditions exactly (spec §4.5).
func (f *NxoFile) parseDynsym() (uint64, uint64, bool, error) {
	symtab, hasSymtab := f.dynamicValue(DT_SYMTAB)
	strtab, hasStrtab := f.dynamicValue(DT_STRTAB)
	if !hasSymtab || !hasStrtab {
		return 0, 0, false, nil
	}

	c := newCursor(f.Full)
	c.seek(symtab)
	for {
		if symtab < strtab && strtab <= c.tell() {
			break
		}
		var name, value, size uint64
		var info, other uint8
		var shndx uint16
		var err error

		if f.ArmV7 {
			var stName, stValue, stSize uint32
			var stShndx uint16
			if stName, err = c.readU32(); err != nil {
				return 0, 0, false, err
			}
			if stValue, err = c.readU32(); err != nil {
				return 0, 0, false, err
			}
			if stSize, err = c.readU32(); err != nil {
				return 0, 0, false, err
			}
			if info, err = c.readU8(); err != nil {
				return 0, 0, false, err
			}
			if other, err = c.readU8(); err != nil {
				return 0, 0, false, err
			}
			if stShndx, err = c.readU16(); err != nil {
				return 0, 0, false, err
			}
			name, value, size, shndx = uint64(stName), uint64(stValue), uint64(stSize), stShndx
		} else {
			var stName uint32
			var stShndx uint16
			if stName, err = c.readU32(); err != nil {
				return 0, 0, false, err
			}
			if info, err = c.readU8(); err != nil {
				return 0, 0, false, err
			}
			if other, err = c.readU8(); err != nil {
				return 0, 0, false, err
			}
			if stShndx, err = c.readU16(); err != nil {
				return 0, 0, false, err
			}
			if value, err = c.readU64(); err != nil {
				return 0, 0, false, err
			}
			if size, err = c.readU64(); err != nil {
				return 0, 0, false, err
			}
			name, shndx = uint64(stName), stShndx
		}

		if name > uint64(len(f.DynStr)) {
			break
		}
		str, err := f.getDynstr(name)
		if err != nil {
			break
		}
		f.dynSym = append(f.dynSym, newSymbol(str, info, other, shndx, value, size))
	}
	return symtab, c.tell(), true, nil
}

// parseHash skips over DT_HASH / DT_GNU_HASH tables purely to discover
// their byte extent for the section map; the bucket/chain contents
// themselves aren't needed by anything downstream (spec §4.5).
func (f *NxoFile) parseHash() (hashStart, hashEnd uint64, haveHash bool, gnuStart, gnuEnd uint64, haveGnu bool, err error) {
	if start, ok := f.dynamicValue(DT_HASH); ok {
		c := newCursor(f.Full)
		c.seek(start)
		nbucket, e := c.readU32()
		if e != nil {
			return 0, 0, false, 0, 0, false, e
		}
		nchain, e := c.readU32()
		if e != nil {
			return 0, 0, false, 0, 0, false, e
		}
		c.skip(uint64(nbucket) * 4)
		c.skip(uint64(nchain) * 4)
		hashStart, hashEnd, haveHash = start, c.tell(), true
	}

	if start, ok := f.dynamicValue(DT_GNU_HASH); ok {
		c := newCursor(f.Full)
		c.seek(start)
		nbuckets, e := c.readU32()
		if e != nil {
			return hashStart, hashEnd, haveHash, 0, 0, false, e
		}
		symoffset, e := c.readU32()
		if e != nil {
			return hashStart, hashEnd, haveHash, 0, 0, false, e
		}
		bloomSize, e := c.readU32()
		if e != nil {
			return hashStart, hashEnd, haveHash, 0, 0, false, e
		}
		if _, e := c.readU32(); e != nil { // bloom_shift, unused
			return hashStart, hashEnd, haveHash, 0, 0, false, e
		}
		c.skip(uint64(bloomSize) * f.OffSize)

		buckets := make([]uint32, nbuckets)
		var maxSymix uint32
		for i := range buckets {
			b, e := c.readU32()
			if e != nil {
				return hashStart, hashEnd, haveHash, 0, 0, false, e
			}
			buckets[i] = b
			if b > maxSymix {
				maxSymix = b
			}
		}
		if nbuckets > 0 && maxSymix >= symoffset {
			c.skip(uint64(maxSymix-symoffset) * 4)
			for {
				v, e := c.readU32()
				if e != nil {
					return hashStart, hashEnd, haveHash, 0, 0, false, e
				}
				if v&1 != 0 {
					break
				}
			}
		}
		gnuStart, gnuEnd, haveGnu = start, c.tell(), true
	}

	return hashStart, hashEnd, haveHash, gnuStart, gnuEnd, haveGnu, nil
}
