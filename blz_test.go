package nxo

import (
	"encoding/binary"
	"errors"
	"testing"
)

func blzFooter(compressedSize, initIndex, addlSize uint32) []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:4], compressedSize)
	binary.LittleEndian.PutUint32(buf[4:8], initIndex)
	binary.LittleEndian.PutUint32(buf[8:12], addlSize)
	return buf
}

func TestBlzDecompressRejectsShortInput(t *testing.T) {
	_, err := blzDecompress(make([]byte, 4))
	if err == nil {
		t.Fatalf("expected error for input shorter than the footer")
	}
	var nxoErr *Error
	if !errors.As(err, &nxoErr) || nxoErr.Kind != ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestBlzDecompressZeroSizeIsEmpty(t *testing.T) {
	out, err := blzDecompress(blzFooter(0, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty output, got %d bytes", len(out))
	}
}

func TestBlzDecompressDetectsOutOfBoundsControlByte(t *testing.T) {
	// compressedSize equals the whole (footer-only) buffer, but
	// initIndex is larger than compressedSize, so the very first
	// control-byte read walks off the start of the buffer.
	_, err := blzDecompress(blzFooter(12, 13, 0))
	if err == nil {
		t.Fatalf("expected out-of-bounds error")
	}
	var nxoErr *Error
	if !errors.As(err, &nxoErr) || nxoErr.Kind != ErrBadCompression {
		t.Fatalf("expected ErrBadCompression, got %v", err)
	}
}
