package nxo

import "github.com/pierrec/lz4/v4"

// loadNso parses an NSO0 container (spec §4.1) and hands the three
// decoded segments to NxoFileBase construction.
func loadNso(data []byte) (*NxoFile, error) {
	if len(data) < 4 || string(data[0:4]) != "NSO0" {
		return nil, errBadMagic("invalid NSO magic")
	}
	if len(data) < 0x70 {
		return nil, errTruncated("NSO header truncated")
	}

	flags := nxoFlags(readU32LEAt(data, 0x0C))

	toff, tvaddr, tsize := readU32LEAt(data, 0x10), readU32LEAt(data, 0x14), readU32LEAt(data, 0x18)
	roff, rvaddr, rsize := readU32LEAt(data, 0x20), readU32LEAt(data, 0x24), readU32LEAt(data, 0x28)
	doff, dvaddr, dsize := readU32LEAt(data, 0x30), readU32LEAt(data, 0x34), readU32LEAt(data, 0x38)

	tfilesize := readU32LEAt(data, 0x60)
	rfilesize := readU32LEAt(data, 0x64)
	dfilesize := readU32LEAt(data, 0x68)
	bsssize := readU32LEAt(data, 0x3C)

	text, err := nsoSegment(data, flags, flagTextCompressed, toff, tfilesize, tvaddr, tsize)
	if err != nil {
		return nil, err
	}
	ro, err := nsoSegment(data, flags, flagROCompressed, roff, rfilesize, rvaddr, rsize)
	if err != nil {
		return nil, err
	}
	datab, err := nsoSegment(data, flags, flagDataCompressed, doff, dfilesize, dvaddr, dsize)
	if err != nil {
		return nil, err
	}

	return newNxoFileBase(text, ro, datab, uint64(bsssize))
}

// nsoSegment slices out one NSO segment, decompressing it with LZ4 when
// the corresponding flag bit is set.
func nsoSegment(data []byte, flags nxoFlags, bit nxoFlags, off, filesize, vaddr, vsize uint32) (rawSegment, error) {
	end := uint64(off) + uint64(filesize)
	if end > uint64(len(data)) {
		return rawSegment{}, errTruncated("NSO segment extends past end of file")
	}
	raw := data[off:end]

	if flags&bit == 0 {
		fo := uint64(off)
		return rawSegment{Bytes: raw, FileOff: &fo, Vaddr: uint64(vaddr), Vsize: uint64(vsize)}, nil
	}

	dst := make([]byte, vsize)
	n, err := lz4.UncompressBlock(raw, dst)
	if err != nil {
		return rawSegment{}, errBadCompression("LZ4 decompression failed: " + err.Error())
	}
	if uint32(n) != vsize {
		return rawSegment{}, errBadCompression("LZ4 decompressed size mismatch")
	}
	return rawSegment{Bytes: dst, FileOff: nil, Vaddr: uint64(vaddr), Vsize: uint64(vsize)}, nil
}
