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

package eia

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/switch-model/genfleet"
)

// retiredSheet is the position of the cumulative Retired tab in the
// EIA-860M monthly update workbook.
const retiredSheet = 2

// retiredRequired is the canonical schema of a retired-unit row.
var retiredRequired = []string{
	genfleet.ColPlantCode, genfleet.ColPrimeMover, genfleet.ColState,
	genfleet.ColOperatingYear, genfleet.ColNameplate, genfleet.ColRetirementYear,
}

func monthlyFile(dir, month string, year int) string {
	return filepath.Join(dir, fmt.Sprintf("eia860m_%d", year),
		fmt.Sprintf("%s_generator%d.xlsx", strings.ToLower(month), year))
}

// LoadRetired reads the cumulative retired-unit tab of the EIA-860M
// monthly update. The tab lists every retirement the agency knows of,
// not only the report month's, so one recent workbook reconciles the
// whole fleet.
func LoadRetired(dir, month string, year int, renames map[string]string) (*genfleet.Table, error) {
	t, err := SheetTableIndex(monthlyFile(dir, month, year), retiredSheet, 1)
	if err != nil {
		return nil, err
	}
	t, err = Normalize(t, renames, retiredRequired...)
	if err != nil {
		return nil, fmt.Errorf("eia: retired tab %s %d: %v", month, year, err)
	}
	// The reconciler nets this capacity out of the active fleet.
	t.AddColumn(genfleet.ColRetiredCapacity, genfleet.Missing())
	for i := 0; i < t.Len(); i++ {
		t.SetValue(i, genfleet.ColRetiredCapacity, t.Value(i, genfleet.ColNameplate))
	}
	return t, nil
}
