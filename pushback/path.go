// pushback/path.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package pushback

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/pushback-utility/pbutil/aviation"
	"github.com/pushback-utility/pbutil/math"
	"github.com/pushback-utility/pbutil/util"
)

// SavedPath is a custom pushback recorded for a parking spot. The first
// point is where the straight pushback ends and the second is the point
// the aircraft turns toward.
type SavedPath struct {
	ICAO     string
	Spot     string
	Points   []math.Point2LL
	Recorded time.Time
}

// PathStore holds saved pushback paths, keyed by airport and spot label.
// Load returns an error wrapping aviation.ErrNotFound if there is no
// path for the spot.
type PathStore interface {
	Load(icao, spot string) (SavedPath, error)
	Save(p SavedPath) error
}

// FileStore is a PathStore that keeps each path in its own compressed
// file under Dir.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(icao, spot string) string {
	name := strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, spot)
	return filepath.Join(s.Dir, strings.ToUpper(icao), name+".msgpack.zst")
}

func (s *FileStore) Load(icao, spot string) (SavedPath, error) {
	var p SavedPath
	if _, err := util.RetrieveObject(s.path(icao, spot), &p); errors.Is(err, fs.ErrNotExist) {
		return SavedPath{}, fmt.Errorf("%s %s: saved path: %w", icao, spot, aviation.ErrNotFound)
	} else if err != nil {
		return SavedPath{}, fmt.Errorf("%s %s: %w", icao, spot, err)
	}
	if len(p.Points) < 2 {
		return SavedPath{}, fmt.Errorf("%s %s: saved path has %d points, need at least 2", icao, spot, len(p.Points))
	}
	return p, nil
}

func (s *FileStore) Save(p SavedPath) error {
	if len(p.Points) < 2 {
		return fmt.Errorf("%s %s: path has %d points, need at least 2", p.ICAO, p.Spot, len(p.Points))
	}
	return util.StoreObject(s.path(p.ICAO, p.Spot), p)
}
