/*
Copyright © 2020 the GenFleet authors.
This file is part of GenFleet.

GenFleet is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GenFleet is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GenFleet.  If not, see <http://www.gnu.org/licenses/>.
*/

package genfleet

import "testing"

func TestWinsorize(t *testing.T) {
	// 200 values 1..200 with 1% tails: two values on each side move.
	vals := make([]float64, 200)
	for i := range vals {
		vals[i] = float64(i + 1)
	}
	r := Winsorize(vals, 0.01)
	if r.Altered != 4 {
		t.Errorf("want 4 altered but have %d", r.Altered)
	}
	if r.Lo != 3 || r.Hi != 198 {
		t.Errorf("want boundaries (3, 198) but have (%g, %g)", r.Lo, r.Hi)
	}
	for i, want := range map[int]float64{0: 3, 1: 3, 198: 198, 199: 198} {
		if vals[i] != want {
			t.Errorf("vals[%d]: want %g but have %g", i, want, vals[i])
		}
	}
	// Interior values are untouched.
	if vals[2] != 3 || vals[100] != 101 || vals[197] != 198 {
		t.Errorf("interior values changed: %g %g %g", vals[2], vals[100], vals[197])
	}
}

func TestWinsorizeUnordered(t *testing.T) {
	vals := []float64{50, 1000, 3, 7, 5, 6, 4, 0.001, 8, 9,
		10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	r := Winsorize(vals, 0.05) // n = 1
	if r.Altered != 2 {
		t.Errorf("want 2 altered but have %d", r.Altered)
	}
	if vals[1] != r.Hi {
		t.Errorf("largest value not clamped: have %g, boundary %g", vals[1], r.Hi)
	}
	if vals[7] != r.Lo {
		t.Errorf("smallest value not clamped: have %g, boundary %g", vals[7], r.Lo)
	}
}

func TestWinsorizeTinySample(t *testing.T) {
	vals := []float64{9, 7, 8}
	r := Winsorize(vals, 0.005)
	if r.Altered != 0 {
		t.Errorf("want 0 altered but have %d", r.Altered)
	}
	for i, want := range []float64{9, 7, 8} {
		if vals[i] != want {
			t.Errorf("vals[%d]: want %g but have %g", i, want, vals[i])
		}
	}
}
