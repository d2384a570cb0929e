// scenery/library.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scenery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/pushback-utility/pbutil/aviation"
	"github.com/pushback-utility/pbutil/bgl"
	"github.com/pushback-utility/pbutil/log"
	"github.com/pushback-utility/pbutil/math"
	"github.com/pushback-utility/pbutil/util"
)

const (
	DefaultCacheSize = 8
	DefaultCacheTTL  = time.Hour
)

// Library resolves airports to the scenery containers that hold them,
// decodes them, and caches the results. It is safe for concurrent use;
// the airports it returns are shared and must not be modified.
type Library struct {
	root     string
	registry *aviation.Registry
	lg       *log.Logger

	cache *expirable.LRU[string, *aviation.Airport]
	group singleflight.Group
}

// NewLibrary returns a Library that finds scenery files relative to root
// using the given registry.
func NewLibrary(root string, registry *aviation.Registry, lg *log.Logger) *Library {
	return NewLibrarySize(root, registry, lg, DefaultCacheSize, DefaultCacheTTL)
}

// NewLibrarySize is like NewLibrary but allows specifying the number of
// decoded airports to keep and for how long.
func NewLibrarySize(root string, registry *aviation.Registry, lg *log.Logger, size int, ttl time.Duration) *Library {
	return &Library{
		root:     root,
		registry: registry,
		lg:       lg,
		cache:    expirable.NewLRU[string, *aviation.Airport](size, nil, ttl),
	}
}

func (l *Library) Registry() *aviation.Registry {
	return l.registry
}

// Path returns the location of a registry scenery file on the local
// filesystem. Registry paths use backslashes as separators. If the file
// doesn't exist but a zstd-compressed version does, that is returned.
func (l *Library) Path(file string) string {
	p := filepath.Join(l.root, filepath.FromSlash(strings.ReplaceAll(file, `\`, "/")))
	if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
		if _, err := os.Stat(p + ".zst"); err == nil {
			return p + ".zst"
		}
	}
	return p
}

// Airport returns the decoded airport with the given ICAO code.
func (l *Library) Airport(icao string) (*aviation.Airport, error) {
	if ap, ok := l.cache.Get(icao); ok {
		return ap, nil
	}

	v, err, _ := l.group.Do(icao, func() (any, error) {
		entry, ok := l.registry.Lookup(icao)
		if !ok {
			return nil, fmt.Errorf("%s: %w", icao, aviation.ErrNotFound)
		}

		path := l.Path(entry.File)
		buf, err := util.ReadFile(path)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		f, err := bgl.Decode(buf, l.lg.With("file", path))
		if err != nil {
			return nil, err
		}

		ap, err := f.FindAirport(icao)
		if err != nil {
			return nil, err
		}
		l.lg.Infof("%s: decoded %s from %s in %s", icao, ap, path, time.Since(start))

		l.cache.Add(icao, ap)
		return ap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*aviation.Airport), nil
}

// AirportNear returns the decoded airport closest to p.
func (l *Library) AirportNear(p math.Point2LL) (*aviation.Airport, error) {
	icao, _, err := l.registry.NearestAirport(p)
	if err != nil {
		return nil, err
	}
	return l.Airport(icao)
}

// Purge drops all cached airports.
func (l *Library) Purge() {
	l.cache.Purge()
}

// Cached returns the number of decoded airports currently cached.
func (l *Library) Cached() int {
	return l.cache.Len()
}
