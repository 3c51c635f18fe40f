package nxo

import (
	"bytes"
	"regexp"
)

var nroPathRe = regexp.MustCompile(`(?i)[a-z]:[\\/][ -~]{5,}\.n[rs]s`)

// pathOrName recovers the embedded NRO path or module name, if any
// (spec §4.10). NRO titles store a length-prefixed string in a short
// .rodata section; everything else falls back to scanning .rodata for
// a Windows-style path ending in .nrs/.nss, as emitted by some
// toolchains' embedded build metadata.
func (f *NxoFile) pathOrName() []byte {
	for _, part := range f.sections {
		size := part.End - part.Start
		if part.Name == ".rodata" && size > 8 && size < 0x1000 {
			raw, err := f.readFull(part.Start, part.End)
			if err != nil {
				continue
			}
			id := bytes.TrimLeft(raw, "\x00")
			if len(id) < 4 {
				continue
			}
			length := uint32(id[0]) | uint32(id[1])<<8 | uint32(id[2])<<16 | uint32(id[3])<<24
			if uint64(length)+4 <= uint64(len(id)) {
				return id[4 : length+4]
			}
		}
	}

	end := f.RodataOff + f.RodataSize
	if end > uint64(len(f.Full)) {
		end = uint64(len(f.Full))
	}
	if f.RodataOff > end {
		return nil
	}
	matches := nroPathRe.FindAll(f.Full[f.RodataOff:end], -1)
	if len(matches) > 0 {
		return matches[len(matches)-1]
	}
	return nil
}

func (f *NxoFile) readFull(start, end uint64) ([]byte, error) {
	if end > uint64(len(f.Full)) || start > end {
		return nil, errTruncated("section out of bounds")
	}
	return f.Full[start:end], nil
}

// Name returns the module's embedded file name with any directory
// components and .nrs/.nss suffix stripped, or nil if none was found.
func (f *NxoFile) Name() []byte {
	name := f.pathOrName()
	if name == nil {
		return nil
	}
	if i := bytes.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := bytes.LastIndexByte(name, '\\'); i >= 0 {
		name = name[i+1:]
	}
	lower := bytes.ToLower(name)
	if bytes.HasSuffix(lower, []byte(".nss")) || bytes.HasSuffix(lower, []byte(".nrs")) {
		name = name[:len(name)-4]
	}
	return name
}
