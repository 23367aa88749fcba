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
	"fmt"
	"testing"
)

func TestCheckOverlap(t *testing.T) {
	projects := NewTable(ColPlantCode, ColPlantName, ColNameplate)
	projects.AppendRow(Int(1), String("Alpha"), Float(100))
	projects.AppendRow(Int(2), String("Beta"), Float(50))
	projects.AppendRow(Int(3), String("Gamma"), Float(25))

	cols := []string{ColPlantCode, ColPlantName}
	for m := 1; m <= 12; m++ {
		cols = append(cols, fmt.Sprintf(PatNetGeneration, m))
	}
	production := NewTable(cols...)
	appendProd := func(plant int64, name string, mwh float64) {
		vals := []Value{Int(plant), String(name)}
		for m := 1; m <= 12; m++ {
			vals = append(vals, Float(mwh))
		}
		production.AppendRow(vals...)
	}
	appendProd(1, "Alpha", 1000) // on both sides
	appendProd(4, "Delta", 500)  // no plant record

	extract, stats := CheckOverlap(projects, production, 2018, nil, "thermal")

	if stats.MissingProduction != 2 || stats.MissingProductionMW != 75 {
		t.Errorf("want 2 projects with 75 MW missing production but have %d with %g MW",
			stats.MissingProduction, stats.MissingProductionMW)
	}
	if stats.TotalMW != 175 {
		t.Errorf("want 175 MW total but have %g", stats.TotalMW)
	}
	if stats.MissingPlant != 1 || stats.MissingPlantMWh != 6000 {
		t.Errorf("want 1 production row with 6000 MWh missing plant data but have %d with %g MWh",
			stats.MissingPlant, stats.MissingPlantMWh)
	}
	if stats.TotalMWh != 18000 {
		t.Errorf("want 18000 MWh total but have %g", stats.TotalMWh)
	}

	if extract.Len() != 3 {
		t.Fatalf("want 3 extract rows but have %d", extract.Len())
	}
	for i := 0; i < extract.Len(); i++ {
		if y, _ := extract.Value(i, ColYear).Int(); y != 2018 {
			t.Errorf("row %d: want year 2018 but have %d", i, y)
		}
	}
	// Orphaned projects carry capacity with no generation; orphaned
	// production rows carry generation with no capacity.
	byPlant := make(map[int64]int)
	for i := 0; i < extract.Len(); i++ {
		pc, _ := extract.Value(i, ColPlantCode).Int()
		byPlant[pc] = i
	}
	if _, ok := byPlant[1]; ok {
		t.Error("plant 1 is on both sides and should not be extracted")
	}
	if mw, _ := extract.Value(byPlant[2], ColNameplate).Float(); mw != 50 {
		t.Errorf("want 50 MW for plant 2 but have %g", mw)
	}
	if !extract.Value(byPlant[2], colAnnualGeneration).IsMissing() {
		t.Error("project without production should have missing generation")
	}
	if mwh, _ := extract.Value(byPlant[4], colAnnualGeneration).Float(); mwh != 6000 {
		t.Errorf("want 6000 MWh for plant 4 but have %g", mwh)
	}
	if !extract.Value(byPlant[4], ColNameplate).IsMissing() {
		t.Error("production without plant data should have missing capacity")
	}
}
