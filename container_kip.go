package nxo

// loadKip parses a KIP1 container (spec §4.1). Segment file offsets are
// implicit: text starts at 0x100 and each following segment starts right
// after the previous segment's on-disk size, whether compressed or not.
func loadKip(data []byte) (*NxoFile, error) {
	if len(data) < 4 || string(data[0:4]) != "KIP1" {
		return nil, errBadMagic("invalid KIP magic")
	}
	if len(data) < 0x58 {
		return nil, errTruncated("KIP header truncated")
	}

	flags := nxoFlags(data[0x1F])

	tloc, tsize, tfilesize := readU32LEAt(data, 0x20), readU32LEAt(data, 0x24), readU32LEAt(data, 0x28)
	rloc, rsize, rfilesize := readU32LEAt(data, 0x30), readU32LEAt(data, 0x34), readU32LEAt(data, 0x38)
	dloc, dsize, dfilesize := readU32LEAt(data, 0x40), readU32LEAt(data, 0x44), readU32LEAt(data, 0x48)
	bsssize := readU32LEAt(data, 0x54)

	toff := uint32(0x100)
	roff := toff + tfilesize
	doff := roff + rfilesize

	text, err := kipSegment(data, flags, flagTextCompressed, toff, tfilesize, tloc, tsize)
	if err != nil {
		return nil, err
	}
	ro, err := kipSegment(data, flags, flagROCompressed, roff, rfilesize, rloc, rsize)
	if err != nil {
		return nil, err
	}
	datab, err := kipSegment(data, flags, flagDataCompressed, doff, dfilesize, dloc, dsize)
	if err != nil {
		return nil, err
	}

	return newNxoFileBase(text, ro, datab, uint64(bsssize))
}

func kipSegment(data []byte, flags nxoFlags, bit nxoFlags, off, filesize, loc, vsize uint32) (rawSegment, error) {
	end := uint64(off) + uint64(filesize)
	if end > uint64(len(data)) {
		return rawSegment{}, errTruncated("KIP segment extends past end of file")
	}
	raw := data[off:end]

	if flags&bit == 0 {
		fo := uint64(off)
		return rawSegment{Bytes: raw, FileOff: &fo, Vaddr: uint64(loc), Vsize: uint64(vsize)}, nil
	}

	out, err := blzDecompress(raw)
	if err != nil {
		return rawSegment{}, err
	}
	return rawSegment{Bytes: out, FileOff: nil, Vaddr: uint64(loc), Vsize: uint64(vsize)}, nil
}
