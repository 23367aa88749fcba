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

import "fmt"

// RemapCombinedCycle rewrites the prime-mover codes that denote
// combined-cycle sub-parts (gas turbine, steam turbine, shared shaft) to
// the single combined-cycle code, returning a new table. It must run
// before any aggregation so that a combined-cycle plant collapses to one
// logical unit.
func RemapCombinedCycle(t *Table, cfg *Config) *Table {
	o := t.Filter(func(Row) bool { return true }) // full copy
	for i := 0; i < o.Len(); i++ {
		pm := o.Value(i, ColPrimeMover)
		if !pm.IsMissing() && isIn(pm.String(), cfg.CombinedCycleParts) {
			o.SetValue(i, ColPrimeMover, String(cfg.CombinedCycleCode))
		}
	}
	return o
}

// AggregateUnits collapses generating-unit rows through the configured
// sequence of grouping-key sets. Each aggregation's output feeds the
// next: units sharing a plant and unit code merge first (gas and steam
// parts of one combined cycle, usually), then units sharing plant,
// technology, energy source, and vintage. Nameplate capacity is summed;
// every other column takes its maximum value within the group. keep
// lists the columns carried through, in output order.
func AggregateUnits(t *Table, cfg *Config, keep []string) (*Table, error) {
	o := t
	var err error
	for _, groupBy := range cfg.UnitAggregations {
		o, err = o.Aggregate(groupBy, cfg.SummedColumns, keep)
		if err != nil {
			return nil, err
		}
	}
	return o, nil
}

// AggregateByPlant re-aggregates unit-level rows to one row per (plant,
// prime mover, energy source), ignoring vintages. EIA-923 consumption
// and generation are reported per plant, so heat rates can only be
// derived at this level.
func AggregateByPlant(t *Table, cfg *Config, groupBy, keep []string) (*Table, error) {
	return t.Aggregate(groupBy, cfg.SummedColumns, keep)
}

// AggregateGeneration re-aggregates plant generation rows after a
// code remap (combined-cycle parts, coal sub-codes) merges previously
// distinct keys, summing the monthly value columns across the merged
// rows.
func AggregateGeneration(t *Table, cfg *Config) (*Table, error) {
	var sum []string
	for m := 1; m <= 12; m++ {
		for _, pat := range []string{PatNetGeneration, PatFuelMMBTU, PatConsumed} {
			if c := fmt.Sprintf(pat, m); t.HasColumn(c) {
				sum = append(sum, c)
			}
		}
	}
	return t.Aggregate([]string{ColPlantCode, ColPrimeMover, ColEnergySource}, sum, nil)
}

// NormalizeFuels rewrites raw energy-source codes in the named columns
// to their fuel categories, returning a new table.
func NormalizeFuels(t *Table, cfg *Config, cols ...string) *Table {
	o := t.Filter(func(Row) bool { return true })
	for _, c := range cols {
		if !o.HasColumn(c) {
			continue
		}
		for i := 0; i < o.Len(); i++ {
			v := o.Value(i, c)
			if !v.IsMissing() {
				o.SetValue(i, c, String(cfg.NormalizeFuel(v.String())))
			}
		}
	}
	return o
}

// CollapseCoal rewrites raw coal sub-codes in the named columns to the
// single COAL code, returning a new table. Consumption of different coal
// types at one plant is aggregated together afterwards.
func CollapseCoal(t *Table, cfg *Config, cols ...string) *Table {
	o := t.Filter(func(Row) bool { return true })
	for _, c := range cols {
		if !o.HasColumn(c) {
			continue
		}
		for i := 0; i < o.Len(); i++ {
			v := o.Value(i, c)
			if !v.IsMissing() && cfg.IsCoalCode(v.String()) {
				o.SetValue(i, c, String("COAL"))
			}
		}
	}
	return o
}
