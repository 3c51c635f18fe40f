package nxo

import "encoding/binary"

// blzDecompress implements the KIP1 "BLZ" backward-LZ decoder (spec
// §4.2), transcribed from nxo64/utils.py:kip1_blz_decompress. The
// algorithm runs from high address to low: the trailing 12 bytes of
// compressed hold (compressedSize, initIndex, uncompressedAddlSize),
// and the output buffer is the compressed bytes followed by
// uncompressedAddlSize zero bytes, filled in place from the top down.
func blzDecompress(compressed []byte) ([]byte, error) {
	if len(compressed) < 12 {
		return nil, errTruncated("BLZ footer missing")
	}
	footer := compressed[len(compressed)-12:]
	compressedSize := binary.LittleEndian.Uint32(footer[0:4])
	initIndex := binary.LittleEndian.Uint32(footer[4:8])
	addlSize := binary.LittleEndian.Uint32(footer[8:12])

	if compressedSize+addlSize == 0 {
		return []byte{}, nil
	}

	out := make([]byte, len(compressed)+int(addlSize))
	copy(out, compressed)

	cmpStart := int64(len(compressed)) - int64(compressedSize)
	cmpOfs := int64(compressedSize) - int64(initIndex)
	outOfs := int64(compressedSize) + int64(addlSize)

	// idx returns the array index for a cmp_start-relative position,
	// validating it lies inside out before the caller dereferences it.
	idx := func(rel int64) (int64, bool) {
		i := cmpStart + rel
		return i, i >= 0 && i < int64(len(out))
	}

	for outOfs > 0 {
		cmpOfs--
		ci, ok := idx(cmpOfs)
		if !ok {
			return nil, errBadCompression("control byte out of bounds")
		}
		control := out[ci]

		for bit := 0; bit < 8 && outOfs > 0; bit++ {
			if control&0x80 != 0 {
				cmpOfs -= 2
				lo, ok1 := idx(cmpOfs)
				hi, ok2 := idx(cmpOfs + 1)
				if !ok1 || !ok2 {
					return nil, errBadCompression("match offset out of bounds")
				}
				segmentOffset := uint16(out[lo]) | uint16(out[hi])<<8
				segmentSize := int64((segmentOffset>>12)&0xF) + 3
				offset := int64(segmentOffset&0x0FFF) + 2

				for i := int64(0); i < segmentSize; i++ {
					si, ok := idx(outOfs + offset)
					if !ok {
						return nil, errBadCompression("match copy out of bounds")
					}
					data := out[si]
					outOfs--
					di, ok := idx(outOfs)
					if !ok {
						return nil, errBadCompression("match write out of bounds")
					}
					out[di] = data
					if outOfs == 0 {
						break
					}
				}
			} else {
				outOfs--
				cmpOfs--
				di, ok1 := idx(outOfs)
				si, ok2 := idx(cmpOfs)
				if !ok1 || !ok2 {
					return nil, errBadCompression("literal copy out of bounds")
				}
				out[di] = out[si]
			}
			control <<= 1
		}
	}
	return out, nil
}
