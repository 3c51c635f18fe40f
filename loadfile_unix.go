//go:build linux || darwin
// +build linux darwin

package nxo

import (
	"os"

	"golang.org/x/sys/unix"
)

// OpenFile maps path into memory and parses it with Load. The returned
// close function must be called once the NxoFile (and anything sliced
// out of its Full buffer) is no longer needed.
func OpenFile(path string) (*NxoFile, func() error, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer fh.Close()

	info, err := fh.Stat()
	if err != nil {
		return nil, nil, err
	}
	if info.Size() == 0 {
		return nil, nil, errTruncated("empty file")
	}

	data, err := unix.Mmap(int(fh.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}

	nxo, err := Load(data)
	if err != nil {
		unix.Munmap(data)
		return nil, nil, err
	}

	return nxo, func() error { return unix.Munmap(data) }, nil
}
