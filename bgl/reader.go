// bgl/reader.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bgl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	gomath "math"
)

// cursor reads little-endian values sequentially from a buffer. The
// first out-of-bounds read sets err to an ErrTruncatedData error; after
// that, all reads return zero values, so callers can check err once after
// a run of reads.
type cursor struct {
	buf []byte
	off int
	err error
}

func newCursor(buf []byte, off int) *cursor {
	return &cursor{buf: buf, off: off}
}

func (c *cursor) need(n int) bool {
	if c.err != nil {
		return false
	}
	if c.off < 0 || n < 0 || c.off > len(c.buf)-n {
		c.err = &DecodeError{Offset: c.off,
			Err: fmt.Errorf("%d bytes with %d available: %w", n, max(0, len(c.buf)-c.off), ErrTruncatedData)}
		return false
	}
	return true
}

func (c *cursor) u8() uint8 {
	if !c.need(1) {
		return 0
	}
	v := c.buf[c.off]
	c.off++
	return v
}

func (c *cursor) u16() uint16 {
	if !c.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(c.buf[c.off:])
	c.off += 2
	return v
}

func (c *cursor) u32() uint32 {
	if !c.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v
}

func (c *cursor) f32() float32 {
	return gomath.Float32frombits(c.u32())
}

func (c *cursor) skip(n int) {
	if c.need(n) {
		c.off += n
	}
}

// ascii returns the next n bytes as a string with trailing NULs removed.
func (c *cursor) ascii(n int) string {
	if !c.need(n) {
		return ""
	}
	s := c.buf[c.off : c.off+n]
	c.off += n
	return string(bytes.TrimRight(s, "\x00"))
}
