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

// colAnnualGeneration labels the summed annual generation in the
// incomplete-data extract.
const colAnnualGeneration = "Net Generation (Megawatthours)"

// OverlapStats summarizes the cross-check between the plant list of one
// generation type and its production data.
type OverlapStats struct {
	// MissingProduction counts project rows whose plant has no row in
	// the production table; MissingProductionMW is their capacity,
	// against TotalMW for all projects.
	MissingProduction   int
	MissingProductionMW float64
	TotalMW             float64
	// MissingPlant counts production rows whose plant has no row in the
	// project table; MissingPlantMWh is their annual generation,
	// against TotalMWh for all production rows.
	MissingPlant    int
	MissingPlantMWh float64
	TotalMWh        float64
}

// CheckOverlap cross-checks one generation type's EIA-860 project
// subset against its EIA-923 production subset, matching on plant code.
// Rows present on only one side are invisible to the inner-joined
// profile builders; the returned extract lists them with the capacity
// or generation that goes unused, one row per orphan, so the gap is
// inspectable rather than silent.
func CheckOverlap(projects, production *Table, year int, log logrus.FieldLogger, kind string) (*Table, *OverlapStats) {
	stats := &OverlapStats{}
	o := NewTable(ColYear, ColPlantCode, ColPlantName, ColNameplate, colAnnualGeneration)

	inProduction := make(map[string]bool)
	for i := 0; i < production.Len(); i++ {
		inProduction[production.key(i, []string{ColPlantCode}, false)] = true
	}
	inProjects := make(map[string]bool)
	for i := 0; i < projects.Len(); i++ {
		inProjects[projects.key(i, []string{ColPlantCode}, false)] = true
	}

	name := func(t *Table, i int) Value {
		if t.HasColumn(ColPlantName) {
			return t.Value(i, ColPlantName)
		}
		return Missing()
	}

	for i := 0; i < projects.Len(); i++ {
		mw, _ := projects.Value(i, ColNameplate).Float()
		stats.TotalMW += mw
		if inProduction[projects.key(i, []string{ColPlantCode}, false)] {
			continue
		}
		stats.MissingProduction++
		stats.MissingProductionMW += mw
		o.AppendRow(Int(int64(year)), projects.Value(i, ColPlantCode), name(projects, i),
			projects.Value(i, ColNameplate), Missing())
	}

	for i := 0; i < production.Len(); i++ {
		var mwh float64
		for m := 1; m <= 12; m++ {
			c := fmt.Sprintf(PatNetGeneration, m)
			if !production.HasColumn(c) {
				continue
			}
			if g, ok := production.Value(i, c).Float(); ok {
				mwh += g
			}
		}
		stats.TotalMWh += mwh
		if inProjects[production.key(i, []string{ColPlantCode}, false)] {
			continue
		}
		stats.MissingPlant++
		stats.MissingPlantMWh += mwh
		o.AppendRow(Int(int64(year)), production.Value(i, ColPlantCode), name(production, i),
			Missing(), Float(mwh))
	}

	if log != nil {
		log.WithFields(logrus.Fields{
			"type":                      kind,
			"projectsWithoutProduction": stats.MissingProduction,
			"capacityMW":                stats.MissingProductionMW,
			"totalCapacityMW":           stats.TotalMW,
			"productionWithoutPlant":    stats.MissingPlant,
			"generationMWh":             stats.MissingPlantMWh,
			"totalGenerationMWh":        stats.TotalMWh,
		}).Info("cross-checked plant and production coverage")
	}
	return o, stats
}
