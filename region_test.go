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
	"testing"

	"github.com/switch-model/genfleet/geo"
)

func TestFilterByRegion(t *testing.T) {
	members := &geo.Membership{
		Region: "WECC",
		Counties: map[geo.CountyState]struct{}{
			{County: "Alameda", State: "CA"}: {},
		},
	}

	tbl := NewTable(ColEIAPlantCode, ColNercRegion, ColCounty, ColState, ColNameplate)
	// Tagged to the target region.
	tbl.AppendRow(Int(1), String("WECC"), String("Alameda"), String("CA"), Float(100))
	// Tagged to another region; the county would match but the tag wins.
	tbl.AppendRow(Int(2), String("SERC"), String("Alameda"), String("CA"), Float(200))
	// Untagged, resolved through county membership; raw EIA county
	// spelling is upper case.
	tbl.AppendRow(Int(3), Missing(), String("ALAMEDA"), String("CA"), Float(50))
	// Untagged and outside the region.
	tbl.AppendRow(Int(4), Missing(), String("Harris"), String("TX"), Float(300))

	o, stats, err := FilterByRegion(tbl, "WECC", members, nil)
	if err != nil {
		t.Fatal(err)
	}
	if o.Len() != 2 {
		t.Fatalf("want 2 rows but have %d", o.Len())
	}
	if stats.Tagged != 1 {
		t.Errorf("want 1 tagged but have %d", stats.Tagged)
	}
	if stats.ByCounty != 1 {
		t.Errorf("want 1 by county but have %d", stats.ByCounty)
	}
	if stats.Dropped != 2 {
		t.Errorf("want 2 dropped but have %d", stats.Dropped)
	}
	if stats.DroppedCapacityMW != 500 {
		t.Errorf("want 500 MW dropped but have %g", stats.DroppedCapacityMW)
	}
	for i := 0; i < o.Len(); i++ {
		if code, _ := o.Value(i, ColEIAPlantCode).Int(); code != 1 && code != 3 {
			t.Errorf("unexpected plant %d in output", code)
		}
	}
}

func TestFilterByRegionMissingColumn(t *testing.T) {
	tbl := NewTable(ColEIAPlantCode, ColCounty, ColState)
	if _, _, err := FilterByRegion(tbl, "WECC", &geo.Membership{}, nil); err == nil {
		t.Error("want an error for a table without a region column")
	}
}
