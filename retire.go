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

	"github.com/sirupsen/logrus"
)

// retirementJoinKeys identifies a unit-aggregate across the active and
// retired lists. Nameplate capacity participates in the key because the
// cumulative retired list reports the capacity as of retirement; a
// capacity mismatch means the record describes a different (uprated)
// unit.
var retirementJoinKeys = []string{ColEIAPlantCode, ColPrimeMover, ColState, ColOperatingYear, ColNameplate}

// AggregateRetired collapses per-unit retired records to one row per
// plant, prime mover, state, and vintage, summing both the nameplate
// and retired capacities. The active list aggregates its units over the
// same keys, so netting compares matching totals instead of per-unit
// fragments: two retired 50 MW units net against one active 100 MW
// aggregate.
func AggregateRetired(t *Table) (*Table, error) {
	sum := []string{ColNameplate, ColRetiredCapacity}
	return t.Aggregate(retirementJoinKeys[:4:4], sum, nil)
}

// RetirementStats summarizes a reconciliation pass.
type RetirementStats struct {
	// Matched counts active units with a retired-capacity record.
	Matched int
	// Dropped counts units whose capacity was entirely retired.
	Dropped int
	// Inconsistent counts units where more capacity is marked retired
	// than exists; these are flagged for manual review, never
	// auto-corrected.
	Inconsistent      int
	RetiredCapacityMW float64
}

// ReconcileRetirements nets retired capacity out of the active unit
// list. The retired table must carry the retired capacity in the
// Retired Capacity (MW) column, aggregated by the same keys as the
// active list. Units netting to exactly zero are dropped; units netting
// negative keep their reported capacity and gain a truthy Inconsistent
// Retirement flag. The result also carries a maximum-age column derived
// from planned retirement years, zero where a downstream default
// applies.
func ReconcileRetirements(active, retired *Table, log logrus.FieldLogger) (*Table, *RetirementStats, error) {
	if err := active.RequireColumns(retirementJoinKeys...); err != nil {
		return nil, nil, fmt.Errorf("genfleet: reconciling retirements: %v", err)
	}
	if err := retired.RequireColumns(append(retirementJoinKeys[:4:4], ColRetiredCapacity)...); err != nil {
		return nil, nil, fmt.Errorf("genfleet: reconciling retirements: %v", err)
	}
	// The retired list reports nameplate capacity under the same column
	// name as the active list; key on it via a rename-free copy.
	joinRetired := retired
	if !retired.HasColumn(ColNameplate) {
		return nil, nil, fmt.Errorf("genfleet: reconciling retirements: retired list lacks %s", ColNameplate)
	}
	joined, err := active.Join(joinRetired, retirementJoinKeys, LeftJoin)
	if err != nil {
		return nil, nil, err
	}

	stats := &RetirementStats{}
	joined.AddColumn(ColInconsistent, Missing())
	drop := make([]bool, joined.Len())
	for i := 0; i < joined.Len(); i++ {
		retiredMW, ok := joined.Value(i, ColRetiredCapacity).Float()
		if !ok {
			continue
		}
		stats.Matched++
		stats.RetiredCapacityMW += retiredMW
		capMW, _ := joined.Value(i, ColNameplate).Float()
		net := capMW - retiredMW
		switch {
		case net == 0:
			stats.Dropped++
			drop[i] = true
		case net < 0:
			stats.Inconsistent++
			joined.SetValue(i, ColInconsistent, String("Y"))
		default:
			joined.SetValue(i, ColNameplate, Float(net))
		}
	}
	o := joined.Filter(func(r Row) bool { return !drop[r.Index()] })

	addMaxAge(o)

	if log != nil {
		log.WithFields(logrus.Fields{
			"matched":           stats.Matched,
			"dropped":           stats.Dropped,
			"inconsistent":      stats.Inconsistent,
			"retiredCapacityMW": stats.RetiredCapacityMW,
		}).Info("reconciled retired capacity")
	}
	return o, stats, nil
}

// addMaxAge converts a planned retirement year to a maximum operating
// age where the difference is positive; everything else gets zero, to
// be replaced by a technology-default value downstream.
func addMaxAge(t *Table) {
	t.AddColumn(ColMaxAge, Int(0))
	if !t.HasColumn(ColRetirementYear) {
		return
	}
	for i := 0; i < t.Len(); i++ {
		ry, okR := t.Value(i, ColRetirementYear).Int()
		oy, okO := t.Value(i, ColOperatingYear).Int()
		if okR && okO && ry > 0 && ry-oy > 0 {
			t.SetValue(i, ColMaxAge, Int(ry-oy))
		}
	}
}
