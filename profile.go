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
	"time"
)

// hoursInMonth returns the number of hours in the given calendar month.
func hoursInMonth(year, month int) float64 {
	// Day 0 of the next month is the last day of this one.
	return float64(time.Date(year, time.Month(month+1), 0, 0, 0, 0, 0, time.UTC).Day() * 24)
}

// HydroProfiles derives monthly capacity factors for hydro plants.
// generation is the plant-aggregated EIA-923 hydro subset with monthly
// net-generation and electricity-consumed columns; projects is the
// EIA-860 hydro plant subset carrying nameplate capacity, county, and
// state. Electricity consumed is added back to net generation so that
// capacity factors for pumped-storage plants reflect only generation.
// Returns the wide table (one row per plant, 12 monthly columns); the
// narrow form is produced from it with HydroNarrow.
func HydroProfiles(generation, projects *Table, cfg *Config, year int) (*Table, error) {
	cols := []string{ColYear, ColPlantCode, ColPlantName, ColPrimeMover}
	for m := 1; m <= 12; m++ {
		cols = append(cols, fmt.Sprintf(PatNetGeneration, m))
	}
	// Electricity-consumed columns only exist for years where the
	// pumping data was reported.
	for m := 1; m <= 12; m++ {
		if c := fmt.Sprintf(PatConsumed, m); generation.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	wide, err := generation.Select(cols...)
	if err != nil {
		return nil, fmt.Errorf("genfleet: building hydro profiles: %v", err)
	}
	proj, err := projects.Select(ColPlantCode, ColPrimeMover, ColNameplate, ColCounty, ColState)
	if err != nil {
		return nil, fmt.Errorf("genfleet: building hydro profiles: %v", err)
	}
	wide, err = wide.Join(proj, []string{ColPlantCode, ColPrimeMover}, InnerJoin)
	if err != nil {
		return nil, err
	}
	for m := 1; m <= 12; m++ {
		genCol := fmt.Sprintf(PatNetGeneration, m)
		conCol := fmt.Sprintf(PatConsumed, m)
		cfCol := fmt.Sprintf(PatCapacityFac, m)
		wide.AddColumn(cfCol, Missing())
		for i := 0; i < wide.Len(); i++ {
			g, _ := wide.Value(i, genCol).Float() // missing treated as zero
			if wide.HasColumn(conCol) {
				if c, ok := wide.Value(i, conCol).Float(); ok {
					g += c
				}
			}
			wide.SetValue(i, genCol, Float(g))
			capMW, ok := wide.Value(i, ColNameplate).Float()
			if !ok || capMW <= 0 {
				continue
			}
			wide.SetValue(i, cfCol, Float(g/(hoursInMonth(year, m)*capMW)))
		}
	}
	return wide, nil
}

// hydroNarrowIDs are the identifying columns carried into the narrow
// hydro representation.
var hydroNarrowIDs = []string{ColYear, ColPlantCode, ColPlantName, ColState, ColCounty, ColPrimeMover, ColNameplate}

// HydroNarrow unpivots the wide hydro table into one row per
// plant-month. It is a deterministic transform of the wide form; the
// two always agree row-for-row.
func HydroNarrow(wide *Table) (*Table, error) {
	return wide.UnpivotMonths(hydroNarrowIDs, []Family{
		{Name: "Capacity Factor", Pattern: PatCapacityFac},
		{Name: "Net Electricity Generation (MWh)", Pattern: PatNetGeneration},
	})
}

// HeatRateProfiles derives the monthly heat-rate table for fuel-based
// plants. generation is the plant-aggregated EIA-923 fuel subset with
// monthly fuel-consumption (MMBTU) and net-generation columns, coal
// sub-codes already collapsed; projects is the matching EIA-860 fuel
// plant subset. Four metrics are produced per month: heat rate,
// capacity factor, net generation, and the fraction of the plant's
// total fuel consumption that this fuel row represents. The annual
// secondary-fuel share lands in the Fraction of Yearly Fuel Use column,
// and the representative Best Heat Rate column holds the second-lowest
// monthly value.
func HeatRateProfiles(generation, projects *Table, cfg *Config, year int) (*Table, error) {
	cols := []string{ColPlantCode, ColPlantName, ColPrimeMover, ColEnergySource, ColYear}
	for m := 1; m <= 12; m++ {
		cols = append(cols, fmt.Sprintf(PatFuelMMBTU, m))
	}
	for m := 1; m <= 12; m++ {
		cols = append(cols, fmt.Sprintf(PatNetGeneration, m))
	}
	wide, err := generation.Select(cols...)
	if err != nil {
		return nil, fmt.Errorf("genfleet: building heat rate profiles: %v", err)
	}
	proj, err := projects.Select(ColPlantCode, ColPrimeMover, ColEnergySource,
		ColEnergySource2, ColEnergySource3, ColState, ColCounty, ColNameplate)
	if err != nil {
		return nil, fmt.Errorf("genfleet: building heat rate profiles: %v", err)
	}
	wide, err = wide.Join(proj, []string{ColPlantCode, ColPrimeMover, ColEnergySource}, InnerJoin)
	if err != nil {
		return nil, err
	}

	// Total fuel consumption per plant and prime mover, across fuels.
	totals := make(map[string][12]float64)
	for i := 0; i < generation.Len(); i++ {
		k := generation.key(i, []string{ColPlantCode, ColPrimeMover}, false)
		t := totals[k]
		for m := 1; m <= 12; m++ {
			if f, ok := generation.Value(i, fmt.Sprintf(PatFuelMMBTU, m)).Float(); ok {
				t[m-1] += f
			}
		}
		totals[k] = t
	}

	for m := 1; m <= 12; m++ {
		wide.AddColumn(fmt.Sprintf(PatFuelFraction, m), Missing())
		wide.AddColumn(fmt.Sprintf(PatHeatRate, m), Missing())
		wide.AddColumn(fmt.Sprintf(PatCapacityFac, m), Missing())
	}
	wide.AddColumn(ColFuelFraction, Missing())
	wide.AddColumn(ColBestHeatRate, Missing())

	for i := 0; i < wide.Len(); i++ {
		t := totals[wide.key(i, []string{ColPlantCode, ColPrimeMover}, false)]
		var fuelSum, totalSum float64
		consumption := make([]Value, 12)
		netGen := make([]Value, 12)
		capMW, capOK := wide.Value(i, ColNameplate).Float()
		for m := 1; m <= 12; m++ {
			cons := wide.Value(i, fmt.Sprintf(PatFuelMMBTU, m))
			gen := wide.Value(i, fmt.Sprintf(PatNetGeneration, m))
			consumption[m-1], netGen[m-1] = cons, gen

			if c, ok := cons.Float(); ok {
				fuelSum += c
				if t[m-1] != 0 {
					wide.SetValue(i, fmt.Sprintf(PatFuelFraction, m), Float(c/t[m-1]))
				}
			}
			totalSum += t[m-1]

			g, okG := gen.Float()
			if okG {
				if c, okC := cons.Float(); okC && g != 0 {
					wide.SetValue(i, fmt.Sprintf(PatHeatRate, m), Float(c/g))
				}
				if capOK && capMW > 0 {
					wide.SetValue(i, fmt.Sprintf(PatCapacityFac, m), Float(g/(hoursInMonth(year, m)*capMW)))
				}
			}
		}
		if totalSum != 0 {
			wide.SetValue(i, ColFuelFraction, Float(fuelSum/totalSum))
		}
		if best, ok := BestMonthlyHeatRate(consumption, netGen); ok {
			wide.SetValue(i, ColBestHeatRate, Float(best))
		}
	}
	return wide, nil
}

// heatRateNarrowIDs are the identifying columns carried into the narrow
// heat-rate representation.
var heatRateNarrowIDs = []string{ColYear, ColPlantCode, ColPlantName, ColState, ColCounty,
	ColPrimeMover, ColEnergySource, ColEnergySource2, ColEnergySource3, ColNameplate}

// HeatRateNarrow unpivots the wide heat-rate table into one row per
// plant-fuel-month.
func HeatRateNarrow(wide *Table) (*Table, error) {
	return wide.UnpivotMonths(heatRateNarrowIDs, []Family{
		{Name: "Heat Rate", Pattern: PatHeatRate},
		{Name: "Capacity Factor", Pattern: PatCapacityFac},
		{Name: "Net Electricity Generation (MWh)", Pattern: PatNetGeneration},
		{Name: "Fraction of Total Fuel Consumption", Pattern: PatFuelFraction},
	})
}

// SplitNegativeHeatRates removes records whose heat rates are at or
// below zero in all twelve months of the year, returning the cleaned
// table and the removed records for the diagnostic extract. A missing
// month keeps the record: only a full year of consistent negative
// values indicates metering problems that no substitution can repair.
func SplitNegativeHeatRates(wide *Table) (clean, negative *Table) {
	allNegative := func(r Row) bool {
		for m := 1; m <= 12; m++ {
			hr, ok := r.Get(fmt.Sprintf(PatHeatRate, m)).Float()
			if !ok || hr > 0 {
				return false
			}
		}
		return true
	}
	clean = wide.Filter(func(r Row) bool { return !allNegative(r) })
	negative = wide.Filter(allNegative)
	return clean, negative
}

// MultiFuelRecords returns the heat-rate rows whose secondary-fuel
// annual consumption share falls strictly between the configured
// bounds. fuelRowCounts maps the (plant, prime mover) composite key —
// as produced by PlantFuelKey — to the number of distinct
// fuel-aggregation rows before coal collapsing; plants whose fuels are
// burned by physically distinct sub-units (more than one underlying
// row) are excluded, since that is a modeling artifact rather than
// genuine fuel switching.
func MultiFuelRecords(wide *Table, cfg *Config, fuelRowCounts map[string]int) *Table {
	return wide.Filter(func(r Row) bool {
		frac, ok := r.Get(ColFuelFraction).Float()
		if !ok {
			return false
		}
		if !(frac > cfg.MultiFuelLow && frac < cfg.MultiFuelHigh) {
			return false
		}
		if n, ok := fuelRowCounts[PlantFuelKey(r)]; ok && n > 1 {
			return false
		}
		return true
	})
}

// PlantFuelKey builds the (plant, prime mover) composite key used by
// MultiFuelRecords.
func PlantFuelKey(r Row) string {
	pc, _ := r.Get(ColPlantCode).Int()
	return fmt.Sprintf("%d|%s", pc, r.Get(ColPrimeMover).String())
}

// CountFuelRows tallies, per (plant, prime mover), the number of
// distinct fuel rows in the pre-coal-collapse project table.
func CountFuelRows(projects *Table) map[string]int {
	counts := make(map[string]int)
	for i := 0; i < projects.Len(); i++ {
		counts[PlantFuelKey(projects.Row(i))]++
	}
	return counts
}
