// cmd/bgldump/bgldump_test.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pushback-utility/pbutil/aviation"
	"github.com/pushback-utility/pbutil/bgl/bgltest"
	"github.com/pushback-utility/pbutil/math"
	"github.com/pushback-utility/pbutil/util"
)

func writeContainers(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	p := math.Point2LL{8.5, 47.45}
	a := bgltest.Airport{
		ICAO:  "LSZH",
		Nodes: []bgltest.Node{{Location: p}, {Location: math.Offset2LL(p, 0, 40)}},
		Edges: []bgltest.Edge{{Start: 0, End: 0, Type: aviation.EdgeParking}},
		Spots: []bgltest.Spot{{Number: 3, Name: 10, Radius: 20, Location: math.Offset2LL(p, 0, 40), Airlines: []string{"SWR"}}},
	}
	if err := os.WriteFile(filepath.Join(dir, "APX1.BGL"), bgltest.SingleAirport(a), 0o644); err != nil {
		t.Fatal(err)
	}
	a.ICAO = "LSGG"
	if err := util.WriteCompressedFile(filepath.Join(dir, "sub", "APX2.bgl.zst"), bgltest.SingleAirport(a)); err != nil {
		t.Fatal(err)
	}
	// Truncated.
	if err := os.WriteFile(filepath.Join(dir, "sub", "bad.bgl"), []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestFindContainers(t *testing.T) {
	dir := writeContainers(t)

	files, err := findContainers([]string{dir})
	if err != nil {
		t.Fatalf("findContainers: %v", err)
	}
	if len(files) != 3 {
		t.Errorf("expected 3 containers, got %v", files)
	}
	for _, f := range files {
		if strings.HasSuffix(f, ".txt") {
			t.Errorf("unexpected file %s", f)
		}
	}

	// Explicitly named files are always included.
	txt := filepath.Join(dir, "readme.txt")
	if files, _ := findContainers([]string{txt}); len(files) != 1 || files[0] != txt {
		t.Errorf("unexpected files %v", files)
	}
}

func TestScanContainers(t *testing.T) {
	dir := writeContainers(t)

	var out strings.Builder
	if err := scanContainers(&out, []string{dir}, nil); err != nil {
		t.Fatalf("scanContainers: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "3 container(s), 2 airport(s), 0 problem(s), 1 failed") {
		t.Errorf("unexpected summary:\n%s", s)
	}
	if !strings.Contains(s, "LSZH") || !strings.Contains(s, "LSGG") {
		t.Errorf("missing airports:\n%s", s)
	}
}

func TestPrintFile(t *testing.T) {
	dir := writeContainers(t)

	var out strings.Builder
	if err := printFile(&out, filepath.Join(dir, "APX1.BGL"), nil); err != nil {
		t.Fatalf("printFile: %v", err)
	}
	for _, s := range []string{"LSZH (2 nodes, 1 edges, 1 parking spots)", "GATE 3", "PARKING", "SWR"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("output missing %q:\n%s", s, out.String())
		}
	}

	if err := printFile(&out, filepath.Join(dir, "sub", "bad.bgl"), nil); err == nil {
		t.Errorf("expected an error for a truncated container")
	}
}

func TestPrintFromLibrary(t *testing.T) {
	dir := writeContainers(t)
	index := filepath.Join(dir, "runways.xml")
	xml := `<data>
<ICAO id="LSGG"><File>sub\APX2.bgl</File><Latitude>47.45</Latitude><Longitude>8.5</Longitude></ICAO>
</data>`
	if err := os.WriteFile(index, []byte(xml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PBUTIL_SCENERY_ROOT", "")
	t.Setenv("PBUTIL_INDEX", "")
	var out strings.Builder
	if err := printFromLibrary(&out, "lsgg", nil); err == nil {
		t.Errorf("expected an error without the environment set")
	}

	t.Setenv("PBUTIL_SCENERY_ROOT", dir)
	t.Setenv("PBUTIL_INDEX", index)
	if err := printFromLibrary(&out, "lsgg", nil); err != nil {
		t.Fatalf("printFromLibrary: %v", err)
	}
	if !strings.Contains(out.String(), "LSGG (2 nodes") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	if err := printFromLibrary(&out, "EGLL", nil); !errors.Is(err, aviation.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
