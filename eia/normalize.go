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
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/switch-model/genfleet"
)

// defaultRenames maps the column spellings the survey forms have used
// over the years onto the canonical schema. The forms rename columns
// between editions without notice; an edition introducing a spelling
// not listed here surfaces as a missing required column rather than as
// silently absent data.
var defaultRenames = map[string]string{
	// EIA-860 plant and generator sheets.
	"Plant Id":                genfleet.ColPlantCode,
	"PLNTCODE":                genfleet.ColPlantCode,
	"PLANT_CODE":              genfleet.ColPlantCode,
	"PLNTNAME":                genfleet.ColPlantName,
	"PLANT_NAME":              genfleet.ColPlantName,
	"Utility Id":              genfleet.ColUtilityID,
	"UTILCODE":                genfleet.ColUtilityID,
	"UTILITY_ID":              genfleet.ColUtilityID,
	"CNTYNAME":                genfleet.ColCounty,
	"COUNTY":                  genfleet.ColCounty,
	"STATE":                   genfleet.ColState,
	"Plant State":             genfleet.ColState,
	"NERC":                    genfleet.ColNercRegion,
	"Nerc Region":             genfleet.ColNercRegion,
	"PRIMEMOVER":              genfleet.ColPrimeMover,
	"Reported Prime Mover":    genfleet.ColPrimeMover,
	"ENERGY_SOURCE_1":         genfleet.ColEnergySource,
	"Energy Source 1":         genfleet.ColEnergySource,
	"Reported Fuel Type Code": genfleet.ColEnergySource,
	"Energy Source 2":         genfleet.ColEnergySource2,
	"Energy Source 3":         genfleet.ColEnergySource3,
	"NAMEPLATE":               genfleet.ColNameplate,
	"Nameplate Capacity(MW)":  genfleet.ColNameplate,
	"Operating Year":          genfleet.ColOperatingYear,
	"OPERATING_YEAR":          genfleet.ColOperatingYear,
	"INSVYEAR":                genfleet.ColOperatingYear,
	"Planned Retirement Year": genfleet.ColRetirementYear,
	"Planned Operation Year":  genfleet.ColOperatingYear,
	"Current Year":            genfleet.ColYear,
	"RETIREMENT_YEAR":         genfleet.ColRetirementYear,
	"Retirement Year":         genfleet.ColRetirementYear,
	"GENERATOR_ID":            genfleet.ColGeneratorID,
	"GENCODE":                 genfleet.ColGeneratorID,
	"Generator Id":            genfleet.ColGeneratorID,
	"UNITCODE":                genfleet.ColUnitCode,
	"Unit Id":                 genfleet.ColUnitCode,
	"STATUS":                  genfleet.ColStatus,
	"Operational Status Code": genfleet.ColStatus,
	"YEAR":                    genfleet.ColYear,

	// EIA-923 generation and fuel page.
	"NET GENERATION (megawatthours)": "Total Net Generation",
	"TOTAL FUEL CONSUMPTION MMBTUS":  "Total Fuel Consumption MMBtu",
}

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// The monthly value columns of the generation page have appeared as
// "Netgen January" style names since 2011 and as "NETGEN_JAN" style
// names before; both spellings map onto the canonical Month-numbered
// names the unpivot step expects.
func init() {
	for m, name := range monthNames {
		abbr := strings.ToUpper(name[:3])
		defaultRenames["Netgen "+name] = fmt.Sprintf(genfleet.PatNetGeneration, m+1)
		defaultRenames["NETGEN_"+abbr] = fmt.Sprintf(genfleet.PatNetGeneration, m+1)
		defaultRenames["Elec MMBtu "+name] = fmt.Sprintf(genfleet.PatFuelMMBTU, m+1)
		defaultRenames["ELEC_MMBTUS_"+abbr] = fmt.Sprintf(genfleet.PatFuelMMBTU, m+1)
	}
}

// LoadRenames reads column-rename overrides from a TOML file holding a
// single `[renames]` table of historical-name = canonical-name pairs,
// merged over the built-in table. Editions that rename a column again
// can be accommodated without a new release.
func LoadRenames(path string) (map[string]string, error) {
	var f struct {
		Renames map[string]string `toml:"renames"`
	}
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("eia: reading rename table %s: %v", path, err)
	}
	out := make(map[string]string, len(defaultRenames)+len(f.Renames))
	for k, v := range defaultRenames {
		out[k] = v
	}
	for k, v := range f.Renames {
		out[k] = v
	}
	return out, nil
}

// Normalize renames a form table's columns to the canonical schema and
// checks that the required columns survived. Extra renames may be nil,
// in which case only the built-in table applies.
func Normalize(t *genfleet.Table, renames map[string]string, required ...string) (*genfleet.Table, error) {
	apply := func(m map[string]string) error {
		for old, canon := range m {
			if t.HasColumn(old) && !t.HasColumn(canon) {
				if err := t.Rename(old, canon); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := apply(defaultRenames); err != nil {
		return nil, fmt.Errorf("eia: normalizing columns: %v", err)
	}
	if renames != nil {
		if err := apply(renames); err != nil {
			return nil, fmt.Errorf("eia: normalizing columns: %v", err)
		}
	}
	if err := t.RequireColumns(required...); err != nil {
		return nil, fmt.Errorf("eia: normalizing columns: %v", err)
	}
	return t, nil
}
