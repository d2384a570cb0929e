// bgl/ident.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bgl

import (
	"fmt"
	"strings"
)

// Idents are packed base-38 in bits 5-31 of a 32-bit word, most
// significant digit first. Digit 0 is a space, 2-11 are '0'-'9' and 12-37
// are 'A'-'Z'; digit 1 is unused.
const (
	identShift = 5
	identBase  = 38
	// 38^5 < 2^27 <= 38^6, so at most five characters fit.
	maxIdentLength = 5
)

func identDigitChar(d uint32) byte {
	switch {
	case d == 0:
		return ' '
	case d == 1:
		return '?'
	case d < 12:
		return byte('0' + d - 2)
	default:
		return byte('A' + d - 12)
	}
}

func identCharDigit(ch rune) (uint32, bool) {
	switch {
	case ch == ' ':
		return 0, true
	case ch >= '0' && ch <= '9':
		return uint32(ch-'0') + 2, true
	case ch >= 'A' && ch <= 'Z':
		return uint32(ch-'A') + 12, true
	default:
		return 0, false
	}
}

// DecodeIdent returns the string encoded in an ident word. Leading zero
// digits can't be distinguished from the absence of a digit, so an ident
// never starts with a space.
func DecodeIdent(word uint32) string {
	v := word >> identShift
	var digits []byte
	for v > 0 {
		digits = append(digits, identDigitChar(v%identBase))
		v /= identBase
	}

	var sb strings.Builder
	for i := len(digits) - 1; i >= 0; i-- {
		sb.WriteByte(digits[i])
	}
	return sb.String()
}

// EncodeIdent is the inverse of DecodeIdent. s may hold up to five
// characters from [ 0-9A-Z] and may not start with a space.
func EncodeIdent(s string) (uint32, error) {
	if len(s) > maxIdentLength {
		return 0, fmt.Errorf("%q: ident longer than %d characters", s, maxIdentLength)
	}
	if strings.HasPrefix(s, " ") {
		return 0, fmt.Errorf("%q: ident can't start with a space", s)
	}

	var v uint32
	for _, ch := range s {
		d, ok := identCharDigit(ch)
		if !ok {
			return 0, fmt.Errorf("%q: invalid ident character %q", s, ch)
		}
		v = v*identBase + d
	}
	return v << identShift, nil
}
