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

	"github.com/switch-model/genfleet"
)

// plantMergeKeys ties generator rows to their plant row. Plant Name is
// part of the key because a few plant codes were reused between
// utilities in the older form editions.
var plantMergeKeys = []string{
	genfleet.ColUtilityID, genfleet.ColPlantCode, genfleet.ColPlantName, genfleet.ColState,
}

// plantColumns are the plant-sheet attributes carried onto every
// generator row.
var plantColumns = []string{
	genfleet.ColCounty, genfleet.ColNercRegion,
}

func plantFile(dir string, year int) string {
	return filepath.Join(dir, fmt.Sprintf("eia860_%d", year), fmt.Sprintf("2___Plant_Y%d.xlsx", year))
}

func generatorFile(dir string, year int) string {
	return filepath.Join(dir, fmt.Sprintf("eia860_%d", year), fmt.Sprintf("3_1_Generator_Y%d.xlsx", year))
}

// generatorSkipRows returns the header row of the generator and plant
// sheets; the form moved its header down one row starting with the
// 2011 edition.
func generatorSkipRows(year int) int {
	if year >= 2011 {
		return 1
	}
	return 0
}

// LoadPlants reads the EIA-860 plant sheet for a year, reduced to the
// merge keys and location attributes.
func LoadPlants(dir string, year int, renames map[string]string) (*genfleet.Table, error) {
	t, err := SheetTableIndex(plantFile(dir, year), 0, generatorSkipRows(year))
	if err != nil {
		return nil, err
	}
	required := append(append([]string{}, plantMergeKeys...), plantColumns...)
	t, err = Normalize(t, renames, required...)
	if err != nil {
		return nil, fmt.Errorf("eia: plant sheet year %d: %v", year, err)
	}
	return t.Select(required...)
}

// Generators holds the three populations of the EIA-860 generator
// workbook for one reporting year, each merged with plant location
// attributes.
type Generators struct {
	Year int
	// Operable covers existing units, filtered to the accepted
	// status codes.
	Operable *genfleet.Table
	// Proposed covers units not yet in service, carried with
	// Operational Status set to Proposed.
	Proposed *genfleet.Table
}

// generatorRequired is the canonical schema of a merged generator row.
var generatorRequired = []string{
	genfleet.ColUtilityID, genfleet.ColPlantCode, genfleet.ColPlantName,
	genfleet.ColState, genfleet.ColGeneratorID, genfleet.ColPrimeMover,
	genfleet.ColEnergySource, genfleet.ColNameplate, genfleet.ColStatus,
	genfleet.ColOperatingYear,
}

// LoadGenerators reads the EIA-860 generator workbook for a year,
// merges plant attributes onto each row, filters existing units to the
// accepted status codes, and tags the proposed population.
func LoadGenerators(dir string, year int, cfg *genfleet.Config, renames map[string]string) (*Generators, error) {
	plants, err := LoadPlants(dir, year, renames)
	if err != nil {
		return nil, err
	}
	skip := generatorSkipRows(year)
	file := generatorFile(dir, year)

	operable, err := loadGeneratorSheet(file, 0, skip, plants, renames)
	if err != nil {
		return nil, fmt.Errorf("eia: generator sheet year %d: %v", year, err)
	}
	operable = filterAccepted(operable, cfg)
	setOpStatus(operable, genfleet.StatusOperable)

	proposed, err := loadGeneratorSheet(file, 1, skip, plants, renames)
	if err != nil {
		return nil, fmt.Errorf("eia: proposed sheet year %d: %v", year, err)
	}
	// Proposed units that have not started the regulatory approval
	// process are dropped on the same status list as existing ones.
	proposed = filterAccepted(proposed, cfg)
	setOpStatus(proposed, genfleet.StatusProposed)

	return &Generators{Year: year, Operable: operable, Proposed: proposed}, nil
}

func loadGeneratorSheet(file string, sheet, skip int, plants *genfleet.Table, renames map[string]string) (*genfleet.Table, error) {
	t, err := SheetTableIndex(file, sheet, skip)
	if err != nil {
		return nil, err
	}
	t, err = Normalize(t, renames, generatorRequired...)
	if err != nil {
		return nil, err
	}
	return t.Join(plants, plantMergeKeys, genfleet.LeftJoin)
}

func filterAccepted(t *genfleet.Table, cfg *genfleet.Config) *genfleet.Table {
	return t.Filter(func(r genfleet.Row) bool {
		return cfg.StatusAccepted(r.Get(genfleet.ColStatus).String())
	})
}

func setOpStatus(t *genfleet.Table, status string) {
	t.AddColumn(genfleet.ColOpStatus, genfleet.String(status))
}
