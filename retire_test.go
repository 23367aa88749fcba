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

func retireRow(t *Table, plant int64, mw float64, extra ...Value) {
	t.AppendRow(append([]Value{Int(plant), String("ST"), String("CA"), Int(1980), Float(mw)}, extra...)...)
}

func TestReconcileRetirements(t *testing.T) {
	active := NewTable(ColEIAPlantCode, ColPrimeMover, ColState, ColOperatingYear, ColNameplate, ColRetirementYear)
	retireRow(active, 1, 100, Missing()) // partially retired
	retireRow(active, 2, 100, Missing()) // fully retired
	retireRow(active, 3, 100, Missing()) // over-retired
	retireRow(active, 4, 100, Int(2030)) // no retirement record

	retired := NewTable(ColEIAPlantCode, ColPrimeMover, ColState, ColOperatingYear, ColNameplate, ColRetiredCapacity)
	retireRow(retired, 1, 100, Float(40))
	retireRow(retired, 2, 100, Float(100))
	retireRow(retired, 3, 100, Float(140))

	o, stats, err := ReconcileRetirements(active, retired, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Matched != 3 || stats.Dropped != 1 || stats.Inconsistent != 1 {
		t.Errorf("want stats (3, 1, 1) but have (%d, %d, %d)",
			stats.Matched, stats.Dropped, stats.Inconsistent)
	}
	if stats.RetiredCapacityMW != 280 {
		t.Errorf("want 280 MW retired but have %g", stats.RetiredCapacityMW)
	}
	if o.Len() != 3 {
		t.Fatalf("want 3 rows but have %d", o.Len())
	}

	byPlant := make(map[int64]int)
	for i := 0; i < o.Len(); i++ {
		code, _ := o.Value(i, ColEIAPlantCode).Int()
		byPlant[code] = i
	}
	if _, ok := byPlant[2]; ok {
		t.Error("fully retired unit should be dropped")
	}

	if mw, _ := o.Value(byPlant[1], ColNameplate).Float(); mw != 60 {
		t.Errorf("partially retired unit: want 60 MW but have %g", mw)
	}
	if o.Value(byPlant[1], ColInconsistent).String() == "Y" {
		t.Error("partially retired unit should not be flagged inconsistent")
	}

	// Over-retired units keep their reported capacity and are flagged,
	// never silently corrected.
	if mw, _ := o.Value(byPlant[3], ColNameplate).Float(); mw != 100 {
		t.Errorf("over-retired unit: want 100 MW but have %g", mw)
	}
	if o.Value(byPlant[3], ColInconsistent).String() != "Y" {
		t.Error("over-retired unit should be flagged inconsistent")
	}

	// Maximum age derives from the planned retirement year.
	if age, _ := o.Value(byPlant[4], ColMaxAge).Int(); age != 50 {
		t.Errorf("want max age 50 but have %d", age)
	}
	if age, _ := o.Value(byPlant[1], ColMaxAge).Int(); age != 0 {
		t.Errorf("unit without a planned retirement: want max age 0 but have %d", age)
	}
}

func TestAggregateRetiredMultiUnit(t *testing.T) {
	// The active list aggregates a plant's units into one row with
	// summed capacity; the retired list reports the same units one row
	// each and must be collapsed the same way before netting. Plant 1
	// retired as two 50 MW units against a 100 MW aggregate; plant 2
	// retired as 20 MW and 30 MW units against a 50 MW aggregate;
	// plant 3 retired one of its two 50 MW units.
	active := NewTable(ColEIAPlantCode, ColPrimeMover, ColState, ColOperatingYear, ColNameplate)
	retireRow(active, 1, 100)
	retireRow(active, 2, 50)
	retireRow(active, 3, 100)

	retired := NewTable(ColEIAPlantCode, ColPrimeMover, ColState, ColOperatingYear, ColNameplate, ColRetiredCapacity)
	retireRow(retired, 1, 50, Float(50))
	retireRow(retired, 1, 50, Float(50))
	retireRow(retired, 2, 20, Float(20))
	retireRow(retired, 2, 30, Float(30))
	retireRow(retired, 3, 50, Float(50))

	retired, err := AggregateRetired(retired)
	if err != nil {
		t.Fatal(err)
	}
	if retired.Len() != 3 {
		t.Fatalf("want 3 aggregated retired rows but have %d", retired.Len())
	}

	o, stats, err := ReconcileRetirements(active, retired, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Matched != 2 || stats.Dropped != 2 {
		t.Errorf("want 2 matched and 2 dropped but have %d and %d",
			stats.Matched, stats.Dropped)
	}
	if stats.RetiredCapacityMW != 150 {
		t.Errorf("want 150 MW retired but have %g", stats.RetiredCapacityMW)
	}
	if o.Len() != 1 {
		t.Fatalf("want 1 surviving row but have %d", o.Len())
	}
	// Plant 3's retired record sums to 50 MW nameplate, not the active
	// aggregate's 100 MW, so the keys differ and its capacity stands.
	if pc, _ := o.Value(0, ColEIAPlantCode).Int(); pc != 3 {
		t.Errorf("want plant 3 to survive but have plant %d", pc)
	}
	if mw, _ := o.Value(0, ColNameplate).Float(); mw != 100 {
		t.Errorf("want 100 MW but have %g", mw)
	}
}

func TestReconcileRetirementsUpratedNoMatch(t *testing.T) {
	// The retired record's capacity differs from the active list's, so
	// it describes a different unit and must not net out.
	active := NewTable(ColEIAPlantCode, ColPrimeMover, ColState, ColOperatingYear, ColNameplate)
	retireRow(active, 1, 150)
	retired := NewTable(ColEIAPlantCode, ColPrimeMover, ColState, ColOperatingYear, ColNameplate, ColRetiredCapacity)
	retireRow(retired, 1, 100, Float(100))

	o, stats, err := ReconcileRetirements(active, retired, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Matched != 0 {
		t.Errorf("want 0 matched but have %d", stats.Matched)
	}
	if mw, _ := o.Value(0, ColNameplate).Float(); mw != 150 {
		t.Errorf("want 150 MW but have %g", mw)
	}
}
