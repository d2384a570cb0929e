// rand/rand_test.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rand

import "testing"

func TestSeedReproducible(t *testing.T) {
	a, b := New(), New()
	a.Seed(1234)
	b.Seed(1234)
	for i := range 100 {
		if x, y := a.Uint32(), b.Uint32(); x != y {
			t.Fatalf("%d: same seed produced %d and %d", i, x, y)
		}
	}
}

func TestIntnBounds(t *testing.T) {
	r := New()
	r.Seed(7)
	for _, n := range []int{1, 2, 17, 1000} {
		for range 500 {
			if v := r.Intn(n); v < 0 || v >= n {
				t.Errorf("Intn(%d) returned %d", n, v)
			}
		}
	}
}

func TestSymmetric(t *testing.T) {
	r := New()
	r.Seed(99)
	for range 1000 {
		if v := r.Symmetric(0.5); v < -0.5 || v > 0.5 {
			t.Errorf("Symmetric(0.5) returned %f", v)
		}
		if v := r.Float64(); v < 0 || v > 1 {
			t.Errorf("Float64 returned %f", v)
		}
	}
}

func TestIntnInvalid(t *testing.T) {
	for _, n := range []int{0, -3} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Intn(%d) didn't panic", n)
				}
			}()
			r := New()
			r.Intn(n)
		}()
	}
}
