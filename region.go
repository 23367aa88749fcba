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
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/switch-model/genfleet/geo"
)

// RegionStats summarizes a region-filter pass.
type RegionStats struct {
	// Tagged counts units accepted on an explicit region tag;
	// ByCounty counts units accepted through county membership.
	Tagged, ByCounty int
	// Dropped counts units whose county and state could not be resolved
	// to the region; DroppedCapacityMW is their total nameplate
	// capacity.
	Dropped           int
	DroppedCapacityMW float64
}

// FilterByRegion returns the units belonging to the target region. A
// unit whose region tag equals the region code is accepted outright; a
// unit with no region tag is accepted only if its (county, state) pair
// appears in the membership list. Units that resolve to neither are
// dropped silently, with their count and capacity logged.
func FilterByRegion(t *Table, region string, members *geo.Membership, log logrus.FieldLogger) (*Table, *RegionStats, error) {
	if err := t.RequireColumns(ColNercRegion, ColCounty, ColState); err != nil {
		return nil, nil, fmt.Errorf("genfleet: filtering by region: %v", err)
	}
	stats := &RegionStats{}
	o := t.Filter(func(r Row) bool {
		tag := r.Get(ColNercRegion)
		if !tag.IsMissing() {
			if strings.TrimSpace(tag.String()) == region {
				stats.Tagged++
				return true
			}
			// Tagged to another region.
			stats.Dropped++
			if mw, ok := r.Get(ColNameplate).Float(); ok {
				stats.DroppedCapacityMW += mw
			}
			return false
		}
		county := strings.Title(strings.ToLower(strings.TrimSpace(r.Get(ColCounty).String())))
		state := strings.TrimSpace(r.Get(ColState).String())
		if members.Contains(county, state) {
			stats.ByCounty++
			return true
		}
		stats.Dropped++
		if mw, ok := r.Get(ColNameplate).Float(); ok {
			stats.DroppedCapacityMW += mw
		}
		return false
	})
	if log != nil {
		log.WithFields(logrus.Fields{
			"region":            region,
			"tagged":            stats.Tagged,
			"byCounty":          stats.ByCounty,
			"dropped":           stats.Dropped,
			"droppedCapacityMW": stats.DroppedCapacityMW,
		}).Info("filtered generation projects by region")
	}
	return o, stats, nil
}
