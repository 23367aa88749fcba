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

func TestIsFuelPrimeMover(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		code string
		want bool
	}{
		{"ST", true},
		{"CC", true},
		{"CA", true}, // combined-cycle part, fuel-burning
		{"HY", false},
		{"WT", false},
		{"PS", false},
	}
	for _, test := range tests {
		if have := cfg.IsFuelPrimeMover(test.code); have != test.want {
			t.Errorf("IsFuelPrimeMover(%q): want %v but have %v", test.code, test.want, have)
		}
	}
}
