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
	"math"
	"testing"
)

func monthlyValues(fs ...float64) []Value {
	o := make([]Value, len(fs))
	for i, f := range fs {
		if math.IsNaN(f) {
			o[i] = Missing()
		} else {
			o[i] = Float(f)
		}
	}
	return o
}

func TestBestMonthlyHeatRate(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name        string
		consumption []Value
		generation  []Value
		want        float64
		ok          bool
	}{
		{
			name:        "second smallest",
			consumption: monthlyValues(100, 90, 80, 120),
			generation:  monthlyValues(10, 10, 10, 10),
			want:        9, // ratios 10, 9, 8, 12; second smallest is 9
			ok:          true,
		},
		{
			name:        "zero generation months excluded before ranking",
			consumption: monthlyValues(100, 90, 5, 120),
			generation:  monthlyValues(10, 10, 0, 10),
			want:        10,
			ok:          true,
		},
		{
			name:        "negative generation months excluded",
			consumption: monthlyValues(100, 90, 5),
			generation:  monthlyValues(10, 10, -3),
			want:        10,
			ok:          true,
		},
		{
			name:        "missing months excluded",
			consumption: monthlyValues(100, nan, 90),
			generation:  monthlyValues(10, 10, 10),
			want:        10,
			ok:          true,
		},
		{
			name:        "fewer than two valid months",
			consumption: monthlyValues(100, nan),
			generation:  monthlyValues(10, 10),
			ok:          false,
		},
	}
	for _, test := range tests {
		have, ok := BestMonthlyHeatRate(test.consumption, test.generation)
		if ok != test.ok {
			t.Errorf("%s: want ok=%v but have %v", test.name, test.ok, ok)
			continue
		}
		if ok && have != test.want {
			t.Errorf("%s: want %v but have %v", test.name, test.want, have)
		}
	}
}

func TestPlausibleHeatRate(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		fuel string
		hr   float64
		want bool
	}{
		{"Coal", 8.607, true},
		{"Coal", 8.5, false}, // better than the best coal plant ever built
		{"Gas", 6.711, true},
		{"Gas", 6.5, false},
		{"Gas", 100.0, true},
		{"Gas", 100.1, false}, // order-of-magnitude reporting error
	}
	for _, test := range tests {
		if have := cfg.PlausibleHeatRate(test.fuel, test.hr); have != test.want {
			t.Errorf("PlausibleHeatRate(%s, %v): want %v but have %v",
				test.fuel, test.hr, test.want, have)
		}
	}
}

// measuredFixture builds an estimator population: four 2000-vintage gas
// combined cycles at 7.0 and one 1960 steam turbine at 11.0.
func measuredFixture(t *testing.T) *Estimator {
	t.Helper()
	m := NewTable(ColPrimeMover, ColEnergySource, ColOperatingYear, ColBestHeatRate)
	for i := 0; i < 4; i++ {
		m.AppendRow(String("CC"), String("Gas"), Int(2000), Float(7))
	}
	m.AppendRow(String("ST"), String("Coal"), Int(1960), Float(11))
	est, err := NewEstimator(DefaultConfig(), m)
	if err != nil {
		t.Fatal(err)
	}
	return est
}

func TestEstimatePeerAverage(t *testing.T) {
	est := measuredFixture(t)
	e, ok := est.Estimate("CC", "Gas", 2001)
	if !ok {
		t.Fatal("want an estimate but have none")
	}
	if e.HeatRate != 7 {
		t.Errorf("want 7 but have %v", e.HeatRate)
	}
	if e.Source != SourcePeerAverage {
		t.Errorf("want %v but have %v", SourcePeerAverage, e.Source)
	}
	if e.Window != 2 {
		t.Errorf("want window 2 but have %d", e.Window)
	}
}

func TestEstimateWindowExpands(t *testing.T) {
	est := measuredFixture(t)
	// A 1950 combined cycle has no peers within ±2 years; the
	// window must expand until it reaches the 2000 vintages.
	e, ok := est.Estimate("CC", "Gas", 1950)
	if !ok {
		t.Fatal("want an estimate but have none")
	}
	if e.Source != SourcePeerAverage {
		t.Errorf("want %v but have %v", SourcePeerAverage, e.Source)
	}
	if e.Window < 50 {
		t.Errorf("window should have expanded to at least 50 years but have %d", e.Window)
	}
	if e.Window > DefaultConfig().PeerWindowMax {
		t.Errorf("window exceeded cap: %d", e.Window)
	}
}

func TestEstimateTechnologyFallback(t *testing.T) {
	est := measuredFixture(t)
	// No oil-fired steam turbines exist; fall back to all steam
	// turbines.
	e, ok := est.Estimate("ST", "ResidualFuelOil", 1980)
	if !ok {
		t.Fatal("want an estimate but have none")
	}
	if e.Source != SourceTechnologyAverage {
		t.Errorf("want %v but have %v", SourceTechnologyAverage, e.Source)
	}
	if e.HeatRate != 11 {
		t.Errorf("want 11 but have %v", e.HeatRate)
	}
}

func TestEstimateNoTechnology(t *testing.T) {
	est := measuredFixture(t)
	if _, ok := est.Estimate("IC", "DistillateFuelOil", 1990); ok {
		t.Error("want no estimate for an unseen technology")
	}
}

func TestMonthlyBestRates(t *testing.T) {
	names := []string{ColEIAPlantCode, ColPrimeMover, ColEnergySource}
	row := []Value{Int(5), String("ST"), String("Coal")}
	for m := 1; m <= 12; m++ {
		names = append(names, monthCol(PatFuelMMBTU, m))
		row = append(row, Float(100))
	}
	for m := 1; m <= 12; m++ {
		names = append(names, monthCol(PatNetGeneration, m))
		row = append(row, Float(10))
	}
	tbl := NewTable(names...)
	tbl.AppendRow(row...)

	o, err := MonthlyBestRates(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if o.Len() != 1 {
		t.Fatalf("want 1 row but have %d", o.Len())
	}
	if hr, ok := o.Value(0, ColBestHeatRate).Float(); !ok || hr != 10 {
		t.Errorf("want 10 but have %v (ok=%v)", hr, ok)
	}
}

func TestAssignHeatRates(t *testing.T) {
	cfg := DefaultConfig()
	gens := NewTable(ColEIAPlantCode, ColPrimeMover, ColEnergySource,
		ColOperatingYear, ColOpStatus)
	// Five measured gas combined cycles.
	for i := 0; i < 5; i++ {
		gens.AppendRow(Int(int64(i)), String("CC"), String("Gas"), Int(2000), String(StatusOperable))
	}
	// One without a measured value, to be imputed.
	gens.AppendRow(Int(90), String("CC"), String("Gas"), Int(2002), String(StatusOperable))
	// A proposed unit.
	gens.AppendRow(Int(91), String("CC"), String("Gas"), Missing(), String(StatusProposed))
	// A wind unit passes through untouched.
	gens.AppendRow(Int(92), String("WT"), String("Wind"), Int(2010), String(StatusOperable))

	rates := NewTable(ColEIAPlantCode, ColPrimeMover, ColEnergySource, ColBestHeatRate)
	for i := 0; i < 5; i++ {
		rates.AppendRow(Int(int64(i)), String("CC"), String("Gas"), Float(7+float64(i)*0.1))
	}

	o, err := AssignHeatRates(gens, rates, cfg, 2018)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if have := o.Value(i, ColHeatRateSource).String(); have != "measured" {
			t.Errorf("row %d: want measured but have %q", i, have)
		}
	}
	if have := o.Value(5, ColHeatRateSource).String(); have != "peer-average" {
		t.Errorf("imputed row: want peer-average but have %q", have)
	}
	if hr, ok := o.Value(5, ColBestHeatRate).Float(); !ok || hr < 7 || hr > 7.4 {
		t.Errorf("imputed heat rate outside peer range: %v (ok=%v)", hr, ok)
	}
	if have := o.Value(6, ColHeatRateSource).String(); have != "peer-average" {
		t.Errorf("proposed row: want peer-average but have %q", have)
	}
	if !o.Value(7, ColBestHeatRate).IsMissing() {
		t.Errorf("wind row should have missing heat rate but have %v", o.Value(7, ColBestHeatRate))
	}
}
