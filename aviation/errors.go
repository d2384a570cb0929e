// aviation/errors.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import "errors"

var (
	ErrNotFound     = errors.New("Not found")
	ErrNoPathFound  = errors.New("No path found")
	ErrNodeNotFound = errors.New("Taxiway node not found")
	ErrRegistryLoad = errors.New("Unable to load airport registry")
	ErrForeignIndex = errors.New("Index belongs to a different airport")
)
