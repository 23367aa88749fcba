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

package eia

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/switch-model/genfleet"
)

// generationSheet is the page of the EIA-923 (and its EIA-906/920
// predecessor) workbook holding monthly generation and fuel
// consumption per plant, prime mover, and fuel.
const generationSheet = "Page 1 Generation and Fuel Data"

// statePlantCode is the fictional plant the form uses for state-level
// fuel increments; it has no physical generators.
const statePlantCode = 99999

// generationFile locates the generation-and-fuel workbook in a year's
// download directory. The published file names carry revision suffixes
// that change with each re-release, so the workbook is identified as
// the largest Excel file in the directory.
func generationFile(dir string, year int) (string, error) {
	yearDir := filepath.Join(dir, fmt.Sprintf("eia923_%d", year))
	matches, err := filepath.Glob(filepath.Join(yearDir, "*.xlsx"))
	if err != nil {
		return "", err
	}
	if xls, err := filepath.Glob(filepath.Join(yearDir, "*.xls")); err == nil {
		matches = append(matches, xls...)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("eia: no Excel workbook in %s", yearDir)
	}
	var best string
	var bestSize int64
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil {
			return "", err
		}
		if fi.Size() > bestSize {
			best, bestSize = m, fi.Size()
		}
	}
	return best, nil
}

// generationSkipRows returns the header row of the generation page;
// the 2011 redesign moved it up two rows.
func generationSkipRows(year int) int {
	if year >= 2011 {
		return 5
	}
	return 7
}

// generationRequired is the canonical schema of a generation row, not
// counting the monthly value columns.
var generationRequired = []string{
	genfleet.ColPlantCode, genfleet.ColPrimeMover, genfleet.ColEnergySource, genfleet.ColYear,
}

// monthlyFamilies are the generation page's wide monthly column
// groups.
var monthlyFamilies = []genfleet.Family{
	{Name: "Net Generation", Pattern: genfleet.PatNetGeneration},
	{Name: "Fuel Consumption", Pattern: genfleet.PatFuelMMBTU},
	{Name: "Electricity Consumed", Pattern: genfleet.PatConsumed},
}

// LoadGeneration reads a year of monthly generation and fuel
// consumption, drops the state-level increment rows, and aggregates to
// one row per plant, prime mover, and fuel. Monthly columns sum across
// the form's reporting rows; everything else takes a representative
// value.
func LoadGeneration(dir string, year int, renames map[string]string) (*genfleet.Table, error) {
	file, err := generationFile(dir, year)
	if err != nil {
		return nil, err
	}
	t, err := SheetTable(file, generationSheet, generationSkipRows(year))
	if err != nil {
		return nil, err
	}
	t, err = Normalize(t, renames, generationRequired...)
	if err != nil {
		return nil, fmt.Errorf("eia: generation page year %d: %v", year, err)
	}
	t = t.Filter(func(r genfleet.Row) bool {
		code, ok := r.Get(genfleet.ColPlantCode).Int()
		return ok && code != statePlantCode
	})

	var sum []string
	for m := 1; m <= 12; m++ {
		for _, fam := range monthlyFamilies {
			col := fmt.Sprintf(fam.Pattern, m)
			if t.HasColumn(col) {
				sum = append(sum, col)
			}
		}
	}
	out, err := t.Aggregate([]string{
		genfleet.ColPlantCode, genfleet.ColPrimeMover, genfleet.ColEnergySource,
	}, sum, nil)
	if err != nil {
		return nil, fmt.Errorf("eia: aggregating generation year %d: %v", year, err)
	}
	return out, nil
}
