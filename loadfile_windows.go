//go:build windows
// +build windows

package nxo

import "os"

// OpenFile reads path fully into memory and parses it with Load. Unlike
// the Unix build, which maps the file, this just reads it: plumbing
// Windows' CreateFileMapping/MapViewOfFile through a parser that never
// writes isn't worth the extra surface for a read-only loader.
func OpenFile(path string) (*NxoFile, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	nxo, err := Load(data)
	if err != nil {
		return nil, nil, err
	}
	return nxo, func() error { return nil }, nil
}
