package nxo

// loadNro parses an NRO0 container (spec §4.1). Unlike NSO, NRO segments
// are never compressed and FileOff always equals Vaddr: the image is
// already laid out the way it wants to be mapped.
func loadNro(data []byte) (*NxoFile, error) {
	if len(data) < 0x14 || string(data[0x10:0x14]) != "NRO0" {
		return nil, errBadMagic("invalid NRO magic")
	}
	if len(data) < 0x40 {
		return nil, errTruncated("NRO header truncated")
	}

	tvaddr, tsize := readU32LEAt(data, 0x20), readU32LEAt(data, 0x24)
	rvaddr, rsize := readU32LEAt(data, 0x28), readU32LEAt(data, 0x2C)
	dvaddr, dsize := readU32LEAt(data, 0x30), readU32LEAt(data, 0x34)
	bsssize := readU32LEAt(data, 0x38)

	text, err := nroSegment(data, tvaddr, tsize)
	if err != nil {
		return nil, err
	}
	ro, err := nroSegment(data, rvaddr, rsize)
	if err != nil {
		return nil, err
	}
	datab, err := nroSegment(data, dvaddr, dsize)
	if err != nil {
		return nil, err
	}

	return newNxoFileBase(text, ro, datab, uint64(bsssize))
}

func nroSegment(data []byte, vaddr, vsize uint32) (rawSegment, error) {
	end := uint64(vaddr) + uint64(vsize)
	if end > uint64(len(data)) {
		return rawSegment{}, errTruncated("NRO segment extends past end of file")
	}
	off := uint64(vaddr)
	return rawSegment{Bytes: data[vaddr:end], FileOff: &off, Vaddr: uint64(vaddr), Vsize: uint64(vsize)}, nil
}
