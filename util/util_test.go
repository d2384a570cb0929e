// util/util_test.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var errTest = errors.New("test failure")

func TestErrorLogger(t *testing.T) {
	var e ErrorLogger
	if e.HaveErrors() {
		t.Errorf("fresh ErrorLogger reports errors")
	}

	e.Push("section 2")
	e.Push("airport KSEA")
	e.Error(errTest)
	e.Pop()
	e.ErrorString("wrapped: %w", errTest)
	e.Pop()

	if !e.HaveErrors() {
		t.Fatalf("expected errors")
	}
	errs := e.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	if errs[0] != "section 2 / airport KSEA: test failure" {
		t.Errorf("unexpected first message %q", errs[0])
	}
	if errs[1] != "section 2: wrapped: test failure" {
		t.Errorf("unexpected second message %q", errs[1])
	}
	if !e.Contains(errTest) || !errors.Is(e.Err(), errTest) {
		t.Errorf("expected recorded errors to match errTest")
	}
	if e.CurrentDepth() != 0 {
		t.Errorf("expected depth 0, got %d", e.CurrentDepth())
	}
}

func TestErrorLoggerNil(t *testing.T) {
	var e *ErrorLogger
	if e.HaveErrors() || e.Err() != nil || e.Contains(errTest) || len(e.Errors()) != 0 {
		t.Errorf("nil ErrorLogger should have no errors")
	}
	e.LogWarnings(nil)
}

func TestCheckDepthPanicsOnImbalance(t *testing.T) {
	var e ErrorLogger
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for unbalanced Push")
		}
	}()
	func() {
		defer e.CheckDepth(e.CurrentDepth())
		e.Push("never popped")
	}()
}

func TestReadFileCompressed(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("taxiway path "), 500)

	plain := filepath.Join(dir, "data.bgl")
	if err := os.WriteFile(plain, content, 0o644); err != nil {
		t.Fatal(err)
	}
	compressed := filepath.Join(dir, "data.bgl.zst")
	if err := WriteCompressedFile(compressed, content); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{plain, compressed} {
		b, err := ReadFile(path)
		if err != nil {
			t.Errorf("%s: %v", path, err)
		} else if !bytes.Equal(b, content) {
			t.Errorf("%s: contents mismatch", path)
		}
	}

	if fi, err := os.Stat(compressed); err != nil || fi.Size() >= int64(len(content)) {
		t.Errorf("compressed file isn't smaller than the original")
	}

	if _, err := ReadFile(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestStoreRetrieveObject(t *testing.T) {
	type route struct {
		ICAO  string
		Spot  int
		Nodes []int
	}
	path := filepath.Join(t.TempDir(), "nested", "route.msgpack.zst")
	r := route{ICAO: "LOWW", Spot: 12, Nodes: []int{4, 9}}
	if err := StoreObject(path, r); err != nil {
		t.Fatalf("StoreObject: %v", err)
	}

	var back route
	if _, err := RetrieveObject(path, &back); err != nil {
		t.Fatalf("RetrieveObject: %v", err)
	}
	if back.ICAO != r.ICAO || back.Spot != r.Spot || len(back.Nodes) != 2 || back.Nodes[1] != 9 {
		t.Errorf("got %+v, expected %+v", back, r)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind")
	}
}

func TestUnmarshalJSONBytesErrors(t *testing.T) {
	type cfg struct {
		BaseSpeed float64 `json:"base_speed"`
	}
	var c cfg
	err := UnmarshalJSONBytes([]byte("{\n  \"base_speed\": \"fast\"\n}"), &c)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected error mentioning line 2, got %v", err)
	}

	err = UnmarshalJSONBytes([]byte("{\n\n  \"base_speed\": 1,,\n}"), &c)
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("expected syntax error on line 3, got %v", err)
	}

	if err := UnmarshalJSONBytes([]byte(`{"base_speed": 2.5}`), &c); err != nil || c.BaseSpeed != 2.5 {
		t.Errorf("unexpected result %v / %+v", err, c)
	}
}
