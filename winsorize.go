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

import (
	"gonum.org/v1/gonum/floats"
)

// WinsorizeResult reports the clamp boundaries applied by Winsorize.
type WinsorizeResult struct {
	// Lo and Hi are the boundary values the tails were clamped to.
	Lo, Hi float64
	// Altered is the total number of positions assigned, counting both
	// tails.
	Altered int
}

// Winsorize clamps, in place, the smallest and largest floor(len×frac)
// values of vals to the values at the corresponding percentile
// boundaries. Extreme physically implausible reports stop skewing the
// downstream peer averages while the row count is preserved. Returns
// the boundaries used; a fraction too small to select any value leaves
// vals unchanged.
func Winsorize(vals []float64, frac float64) WinsorizeResult {
	n := int(float64(len(vals)) * frac)
	if n == 0 || len(vals) == 0 {
		return WinsorizeResult{}
	}
	sorted := append([]float64(nil), vals...)
	inds := make([]int, len(sorted))
	floats.Argsort(sorted, inds)
	lo := sorted[n]
	hi := sorted[len(sorted)-1-n]
	for k := 0; k < n; k++ {
		vals[inds[k]] = lo
		vals[inds[len(inds)-1-k]] = hi
	}
	return WinsorizeResult{Lo: lo, Hi: hi, Altered: 2 * n}
}
