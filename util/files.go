// util/files.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Unfortunately, unlike io.ReadCloser, the zstd Decoder's Close() method
// doesn't return an error, so we need to make our own custom ReadCloser
// interface.
type FileReadCloser interface {
	io.Reader
	Close()
}

type bytesReadCloser struct {
	*bytes.Reader
}

func (bytesReadCloser) Close() {}

// IsCompressed reports whether path names a zstd-compressed file.
func IsCompressed(path string) bool {
	return filepath.Ext(path) == ".zst"
}

// OpenFile provides a FileReadCloser to access the specified file; if
// it's zstd compressed, the Reader will handle decompression
// transparently.
func OpenFile(path string) (FileReadCloser, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	br := bytesReadCloser{bytes.NewReader(b)}

	if IsCompressed(path) {
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}
		return zr, nil
	}
	return br, nil
}

// ReadFile returns the full contents of the given file, decompressing
// them if needed.
func ReadFile(path string) ([]byte, error) {
	r, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// WriteCompressedFile writes b to path with zstd compression.
func WriteCompressedFile(path string, b []byte) error {
	zw, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}
	defer zw.Close()

	return os.WriteFile(path, zw.EncodeAll(b, nil), 0o644)
}
