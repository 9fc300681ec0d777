// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rng

import "testing"

func TestSameSeedSameSequence(t *testing.T) {
	a := NewPCG32(42)
	b := NewPCG32(42)
	for i := 0; i < 1000; i++ {
		if a.Uint32() != b.Uint32() {
			t.Fatalf("sequence diverged at step %d", i)
		}
	}
}

func TestDifferentSeedDifferentSequence(t *testing.T) {
	a := NewPCG32(1)
	b := NewPCG32(2)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint32() == b.Uint32() {
			same++
		}
	}
	if same == 100 {
		t.Fatalf("different seeds produced identical sequences")
	}
}

func TestIntNBounds(t *testing.T) {
	r := NewPCG32(7)
	for i := 0; i < 10000; i++ {
		v := r.IntN(52)
		if v < 0 || v >= 52 {
			t.Fatalf("IntN out of range: %d", v)
		}
	}
	if r.IntN(0) != -1 || r.IntN(-3) != -1 {
		t.Fatalf("IntN must return -1 for non-positive bounds")
	}
}

func TestFloat64Range(t *testing.T) {
	r := NewPCG32(9)
	for i := 0; i < 10000; i++ {
		f := r.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %v", f)
		}
	}
}

func TestPermIsPermutation(t *testing.T) {
	r := NewPCG32(11)
	p := r.Perm(52)
	if len(p) != 52 {
		t.Fatalf("perm length %d", len(p))
	}
	seen := make([]bool, 52)
	for _, v := range p {
		if v < 0 || v >= 52 || seen[v] {
			t.Fatalf("not a permutation: %v", p)
		}
		seen[v] = true
	}
}
