package nxo

import "encoding/binary"

// cursor is a bounds-checked little-endian read head over an in-memory
// buffer, equivalent to nxo64's BinFile: a plain bytes.Reader lacks the
// "seek to an absolute offset, read, restore the old position" idiom
// used pervasively while walking the dynamic table, so this wraps a
// plain position instead.
type cursor struct {
	buf []byte
	pos uint64
}

func newCursor(buf []byte) *cursor { return &cursor{buf: buf} }

func (c *cursor) seek(off uint64) { c.pos = off }

func (c *cursor) tell() uint64 { return c.pos }

func (c *cursor) skip(n uint64) { c.pos += n }

func (c *cursor) size() uint64 { return uint64(len(c.buf)) }

// read returns the next n bytes and advances the cursor. It fails with
// ErrTruncated if that would run past the end of the buffer.
func (c *cursor) read(n uint64) ([]byte, error) {
	if c.pos+n > uint64(len(c.buf)) || c.pos+n < c.pos {
		return nil, errTruncated("read past end of buffer")
	}
	out := c.buf[c.pos : c.pos+n]
	c.pos += n
	return out, nil
}

// readFrom reads n bytes at an absolute offset without disturbing the
// cursor's current position.
func (c *cursor) readFrom(off, n uint64) ([]byte, error) {
	old := c.pos
	c.seek(off)
	out, err := c.read(n)
	c.pos = old
	return out, err
}

func (c *cursor) readU8() (uint8, error) {
	b, err := c.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) readU16() (uint16, error) {
	b, err := c.read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) readU32() (uint32, error) {
	b, err := c.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readI32() (int32, error) {
	v, err := c.readU32()
	return int32(v), err
}

func (c *cursor) readU64() (uint64, error) {
	b, err := c.read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) readI64() (int64, error) {
	v, err := c.readU64()
	return int64(v), err
}

func (c *cursor) readU32At(off uint64) (uint32, error) {
	b, err := c.readFrom(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readU64At(off uint64) (uint64, error) {
	b, err := c.readFrom(off, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// readU32LEAt reads a u32 directly out of a plain byte slice at an
// absolute offset, for the container header parsers that never need a
// persistent cursor.
func readU32LEAt(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off : off+4])
}
