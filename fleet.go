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
	"sort"

	"github.com/GaryBoone/GoStats/stats"
)

// plantKeys identifies one logical generating plant in the downstream
// planning schema.
var plantKeys = []string{ColEIAPlantCode, ColPrimeMover, ColEnergySource}

// WeightedPlantHeatRates collapses unit-level heat rates to one
// capacity-weighted value per (plant, technology, energy source),
// producing a single heat rate for plants whose units have different
// vintages. Units with missing heat rate or capacity do not contribute
// to the average. Returns the input with the Best Heat Rate column
// replaced by the plant-level value on every member row.
func WeightedPlantHeatRates(t *Table) (*Table, error) {
	if err := t.RequireColumns(append(plantKeys[:3:3], ColBestHeatRate, ColNameplate)...); err != nil {
		return nil, fmt.Errorf("genfleet: weighting plant heat rates: %v", err)
	}
	type acc struct{ num, den float64 }
	groups := make(map[string]*acc)
	for i := 0; i < t.Len(); i++ {
		hr, okHR := t.Value(i, ColBestHeatRate).Float()
		w, okW := t.Value(i, ColNameplate).Float()
		if !okHR || !okW {
			continue
		}
		k := t.key(i, plantKeys, false)
		a := groups[k]
		if a == nil {
			a = &acc{}
			groups[k] = a
		}
		a.num += hr * w
		a.den += w
	}
	o := t.Filter(func(Row) bool { return true })
	for i := 0; i < o.Len(); i++ {
		if a, ok := groups[o.key(i, plantKeys, false)]; ok && a.den > 0 {
			o.SetValue(i, ColBestHeatRate, Float(a.num/a.den))
		}
	}
	return o, nil
}

// ProposedSplit classifies proposed units against the existing set: a
// proposed unit whose (plant, technology, energy source) matches
// exactly one existing unit is an uprate of that unit; one with no
// match is a new project. More than one match is ambiguous and reported
// for review.
type ProposedSplit struct {
	New, Uprates *Table
	// Ambiguous lists proposed units matching more than one existing
	// unit.
	Ambiguous *Table
}

// ClassifyProposed splits the proposed units. Both tables must carry
// the plant key columns.
func ClassifyProposed(existing, proposed *Table) (*ProposedSplit, error) {
	if err := existing.RequireColumns(plantKeys...); err != nil {
		return nil, fmt.Errorf("genfleet: classifying proposed units: %v", err)
	}
	if err := proposed.RequireColumns(plantKeys...); err != nil {
		return nil, fmt.Errorf("genfleet: classifying proposed units: %v", err)
	}
	counts := make(map[string]int)
	for i := 0; i < existing.Len(); i++ {
		counts[existing.key(i, plantKeys, false)]++
	}
	s := &ProposedSplit{
		New:       proposed.Filter(func(r Row) bool { return counts[proposed.key(r.Index(), plantKeys, false)] == 0 }),
		Uprates:   proposed.Filter(func(r Row) bool { return counts[proposed.key(r.Index(), plantKeys, false)] == 1 }),
		Ambiguous: proposed.Filter(func(r Row) bool { return counts[proposed.key(r.Index(), plantKeys, false)] > 1 }),
	}
	return s, nil
}

// AddPlantFlags attaches the baseload, variable, and cogen flags the
// planning schema expects: baseload for Uranium, Coal, and Geothermal
// fuel; variable for hydro, photovoltaic, and wind technologies; cogen
// where the form declared it.
func AddPlantFlags(t *Table) *Table {
	o := t.Filter(func(Row) bool { return true })
	o.AddColumn("is_baseload", Missing())
	o.AddColumn("is_variable", Missing())
	o.AddColumn("is_cogen", Missing())
	boolVal := func(b bool) Value {
		if b {
			return String("t")
		}
		return String("f")
	}
	for i := 0; i < o.Len(); i++ {
		fuel := o.Value(i, ColEnergySource).String()
		pm := o.Value(i, ColPrimeMover).String()
		o.SetValue(i, "is_baseload", boolVal(fuel == "Uranium" || fuel == "Coal" || fuel == "Geothermal"))
		o.SetValue(i, "is_variable", boolVal(pm == "HY" || pm == "PV" || pm == "WT"))
		cogen := false
		if o.HasColumn("Cogen") {
			cogen = o.Value(i, "Cogen").String() == "Y"
		}
		o.SetValue(i, "is_cogen", boolVal(cogen))
	}
	return o
}

// databaseRenames maps staged column names to the planning-database
// schema.
var databaseRenames = map[string]string{
	ColEIAPlantCode:  "eia_plant_code",
	ColPlantName:     "name",
	ColPrimeMover:    "gen_tech",
	ColEnergySource:  "energy_source",
	ColBestHeatRate:  "full_load_heat_rate",
	ColOperatingYear: "build_year",
	ColNameplate:     "capacity_limit_mw",
	ColMaxAge:        "max_age",
}

// ShapeForDatabase drops projects the planning model cannot represent
// (Purchased_Steam), substitutes Gas for the catch-all Other fuel,
// renames the battery technology code, and renames columns to the
// downstream schema. The result loads without further statistical
// processing.
func ShapeForDatabase(t *Table) (*Table, error) {
	o := t.Filter(func(r Row) bool {
		return r.Get(ColEnergySource).String() != "Purchased_Steam"
	})
	for i := 0; i < o.Len(); i++ {
		if o.Value(i, ColEnergySource).String() == "Other" {
			o.SetValue(i, ColEnergySource, String("Gas"))
		}
		if o.Value(i, ColPrimeMover).String() == "BA" {
			o.SetValue(i, ColPrimeMover, String("Battery_Storage"))
		}
	}
	for old, new := range databaseRenames {
		if o.HasColumn(old) {
			if err := o.Rename(old, new); err != nil {
				return nil, err
			}
		}
	}
	return o, nil
}

// A TechnologySummary describes the heat-rate distribution of one
// technology and fuel combination across the fleet.
type TechnologySummary struct {
	PrimeMover, EnergySource string
	Count                    int
	Mean, StdDev, Min, Max   float64
}

// SummarizeHeatRates computes per-technology-and-fuel heat-rate
// distribution summaries for visual inspection of the imputation
// results, sorted by technology then fuel.
func SummarizeHeatRates(t *Table) ([]TechnologySummary, error) {
	if err := t.RequireColumns(ColPrimeMover, ColEnergySource, ColBestHeatRate); err != nil {
		return nil, fmt.Errorf("genfleet: summarizing heat rates: %v", err)
	}
	type key struct{ pm, fuel string }
	accum := make(map[key][]float64)
	for i := 0; i < t.Len(); i++ {
		hr, ok := t.Value(i, ColBestHeatRate).Float()
		if !ok {
			continue
		}
		k := key{pm: t.Value(i, ColPrimeMover).String(), fuel: t.Value(i, ColEnergySource).String()}
		accum[k] = append(accum[k], hr)
	}
	var out []TechnologySummary
	for k, xs := range accum {
		sum := TechnologySummary{
			PrimeMover:   k.pm,
			EnergySource: k.fuel,
			Count:        len(xs),
			Mean:         stats.StatsMean(xs),
			Min:          stats.StatsMin(xs),
			Max:          stats.StatsMax(xs),
		}
		if len(xs) > 1 {
			sum.StdDev = stats.StatsSampleStandardDeviation(xs)
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PrimeMover != out[j].PrimeMover {
			return out[i].PrimeMover < out[j].PrimeMover
		}
		return out[i].EnergySource < out[j].EnergySource
	})
	return out, nil
}

// SummaryTable converts technology summaries to a Table for the staged
// diagnostics output.
func SummaryTable(sums []TechnologySummary) *Table {
	t := NewTable(ColPrimeMover, ColEnergySource, "Count", "Mean Heat Rate",
		"Heat Rate Std Dev", "Min Heat Rate", "Max Heat Rate")
	for _, s := range sums {
		t.AppendRow(String(s.PrimeMover), String(s.EnergySource), Int(int64(s.Count)),
			Float(s.Mean), Float(s.StdDev), Float(s.Min), Float(s.Max))
	}
	return t
}
