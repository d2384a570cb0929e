// bgl/errors.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bgl

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedData      = errors.New("Truncated data")
	ErrMalformedRecord    = errors.New("Malformed record")
	ErrUnrecognizedLayout = errors.New("Unrecognized subsection layout")
	ErrAirportNotFound    = errors.New("Airport not found")
)

// DecodeError records where in the container a decoding error happened.
// ICAO is set when the error occurred inside an airport record whose
// ident had already been read.
type DecodeError struct {
	ICAO   string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	if e.ICAO != "" {
		return fmt.Sprintf("%s: offset %#x: %v", e.ICAO, e.Offset, e.Err)
	}
	return fmt.Sprintf("offset %#x: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeError(icao string, offset int, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		if de.ICAO == "" {
			de.ICAO = icao
		}
		return de
	}
	return &DecodeError{ICAO: icao, Offset: offset, Err: err}
}
