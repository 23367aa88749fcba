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

package genfleetutil

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/switch-model/genfleet"
	"github.com/switch-model/genfleet/eia"
	"github.com/switch-model/genfleet/geo"
)

// A Pipeline derives the generator-fleet outputs from the downloaded
// form data for one region.
type Pipeline struct {
	Store  *eia.Store
	Config *genfleet.Config
	Geo    geo.ResolverConfig

	// Region is the planning region the fleet is filtered to.
	Region string
	// OutDir receives the staged tab-separated outputs.
	OutDir string

	Log logrus.FieldLogger
}

// historic output files; each accumulates one block of rows per year.
const (
	fileHydroWide         = "historic_hydro_capacity_factors_WIDE.tab"
	fileHydroNarrow       = "historic_hydro_capacity_factors_NARROW.tab"
	fileHeatRateWide      = "historic_heat_rates_WIDE.tab"
	fileHeatRateNames     = "historic_heat_rates_NARROW.tab"
	fileNegativeRates     = "historic_heat_rates_negative.tab"
	fileIncompleteHydro   = "incomplete_data_hydro.tab"
	fileIncompleteThermal = "incomplete_data_thermal.tab"
	fileMultiFuel         = "historic_multi_fuel_plants.tab"
	fileProjects          = "existing_projects.tab"
	fileNewProjects       = "proposed_projects.tab"
	fileAmbiguous         = "proposed_projects_ambiguous.tab"
	fileSummary           = "heat_rate_distributions.tab"
	fileMembership        = "%s_counties.tab"
)

// members resolves or loads the cached county membership list for the
// pipeline's region.
func (p *Pipeline) members() (*geo.Membership, error) {
	cache := filepath.Join(p.OutDir, fmt.Sprintf(fileMembership, p.Region))
	return geo.MembershipForRegion(p.Geo, p.Region, cache)
}

// Historic derives the per-year hydro capacity-factor and fuel-based
// heat-rate profiles for every year in the configured range, appending
// each year's block to the staged historic outputs.
func (p *Pipeline) Historic(ctx context.Context) error {
	for year := p.Config.StartYear; year <= p.Config.EndYear; year++ {
		if err := p.historicYear(ctx, year); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) historicYear(ctx context.Context, year int) error {
	log := p.Log.WithFields(logrus.Fields{"year": year})
	log.Info("deriving historic profiles")

	generation, err := p.Store.Generation(ctx, year)
	if err != nil {
		return err
	}
	generation = genfleet.RemapCombinedCycle(generation, p.Config)
	generation, err = genfleet.AggregateGeneration(generation, p.Config)
	if err != nil {
		return err
	}
	projects, err := p.Store.Operable(ctx, year)
	if err != nil {
		return err
	}
	projects = genfleet.RemapCombinedCycle(projects, p.Config)
	projects, err = genfleet.AggregateByPlant(projects, p.Config,
		[]string{genfleet.ColPlantCode, genfleet.ColPrimeMover, genfleet.ColEnergySource}, nil)
	if err != nil {
		return err
	}

	// Hydro plants first: capacity factors need no fuel bookkeeping.
	hydroGen := generation.Filter(func(r genfleet.Row) bool {
		return r.Get(genfleet.ColPrimeMover).String() == "HY" ||
			r.Get(genfleet.ColPrimeMover).String() == "PS"
	})
	hydroProj := projects.Filter(func(r genfleet.Row) bool {
		return r.Get(genfleet.ColPrimeMover).String() == "HY" ||
			r.Get(genfleet.ColPrimeMover).String() == "PS"
	})
	incomplete, _ := genfleet.CheckOverlap(hydroProj, hydroGen, year, log, "hydro")
	if incomplete.Len() > 0 {
		if err := genfleet.AppendTSV(incomplete, filepath.Join(p.OutDir, fileIncompleteHydro)); err != nil {
			return err
		}
	}
	if hydroGen.Len() > 0 {
		hydroWide, err := genfleet.HydroProfiles(hydroGen, hydroProj, p.Config, year)
		if err != nil {
			return err
		}
		if err := genfleet.AppendTSV(hydroWide, filepath.Join(p.OutDir, fileHydroWide)); err != nil {
			return err
		}
		hydroNarrow, err := genfleet.HydroNarrow(hydroWide)
		if err != nil {
			return err
		}
		if err := genfleet.AppendTSV(hydroNarrow, filepath.Join(p.OutDir, fileHydroNarrow)); err != nil {
			return err
		}
	}

	// Fuel-based plants. The multi-fuel exclusion counts fuel rows per
	// plant in the project list before the coal sub-codes collapse: a
	// plant with several project rows under one prime mover burns its
	// fuels in physically distinct sub-units.
	fuelGen := generation.Filter(func(r genfleet.Row) bool {
		return p.Config.IsFuelPrimeMover(r.Get(genfleet.ColPrimeMover).String())
	})
	fuelGen = genfleet.CollapseCoal(fuelGen, p.Config, genfleet.ColEnergySource)
	fuelGen, err = genfleet.AggregateGeneration(fuelGen, p.Config)
	if err != nil {
		return err
	}
	fuelProj := projects.Filter(func(r genfleet.Row) bool {
		return p.Config.IsFuelPrimeMover(r.Get(genfleet.ColPrimeMover).String())
	})
	fuelRowCounts := genfleet.CountFuelRows(fuelProj)
	fuelProj = genfleet.CollapseCoal(fuelProj, p.Config,
		genfleet.ColEnergySource, genfleet.ColEnergySource2, genfleet.ColEnergySource3)

	incomplete, _ = genfleet.CheckOverlap(fuelProj, fuelGen, year, log, "thermal")
	if incomplete.Len() > 0 {
		if err := genfleet.AppendTSV(incomplete, filepath.Join(p.OutDir, fileIncompleteThermal)); err != nil {
			return err
		}
	}

	wide, err := genfleet.HeatRateProfiles(fuelGen, fuelProj, p.Config, year)
	if err != nil {
		return err
	}
	wide, negative := genfleet.SplitNegativeHeatRates(wide)
	if negative.Len() > 0 {
		log.WithFields(logrus.Fields{"rows": negative.Len()}).Info("plants with only non-positive heat rates")
		if err := genfleet.AppendTSV(negative, filepath.Join(p.OutDir, fileNegativeRates)); err != nil {
			return err
		}
	}
	multiFuel := genfleet.MultiFuelRecords(wide, p.Config, fuelRowCounts)
	if multiFuel.Len() > 0 {
		if err := genfleet.AppendTSV(multiFuel, filepath.Join(p.OutDir, fileMultiFuel)); err != nil {
			return err
		}
	}
	if err := genfleet.AppendTSV(wide, filepath.Join(p.OutDir, fileHeatRateWide)); err != nil {
		return err
	}
	narrow, err := genfleet.HeatRateNarrow(wide)
	if err != nil {
		return err
	}
	return genfleet.AppendTSV(narrow, filepath.Join(p.OutDir, fileHeatRateNames))
}

// Fleet assembles the current generator fleet for the region from the
// final form year: unit aggregation, region filtering, retirement
// reconciliation, heat-rate assignment, and database shaping.
func (p *Pipeline) Fleet(ctx context.Context) error {
	year := p.Config.EndYear
	log := p.Log.WithFields(logrus.Fields{"year": year, "region": p.Region})
	log.Info("assembling generator fleet")

	members, err := p.members()
	if err != nil {
		return err
	}

	operable, err := p.Store.Operable(ctx, year)
	if err != nil {
		return err
	}
	proposed, err := p.Store.Proposed(ctx, year)
	if err != nil {
		return err
	}
	units := operable.Append(proposed)
	units = genfleet.RemapCombinedCycle(units, p.Config)
	units = genfleet.CollapseCoal(units, p.Config,
		genfleet.ColEnergySource, genfleet.ColEnergySource2, genfleet.ColEnergySource3)
	units = genfleet.NormalizeFuels(units, p.Config,
		genfleet.ColEnergySource, genfleet.ColEnergySource2, genfleet.ColEnergySource3)
	if !units.HasColumn(genfleet.ColRetirementYear) {
		units.AddColumn(genfleet.ColRetirementYear, genfleet.Missing())
	}
	if !units.HasColumn(genfleet.ColUnitCode) {
		units.AddColumn(genfleet.ColUnitCode, genfleet.Missing())
	}
	units, err = genfleet.AggregateUnits(units, p.Config, nil)
	if err != nil {
		return err
	}
	if err := units.Rename(genfleet.ColPlantCode, genfleet.ColEIAPlantCode); err != nil {
		return err
	}

	units, _, err = genfleet.FilterByRegion(units, p.Region, members, log)
	if err != nil {
		return err
	}

	retired, err := p.Store.Retired(ctx, year)
	if err != nil {
		return err
	}
	retired = genfleet.RemapCombinedCycle(retired, p.Config)
	if err := retired.Rename(genfleet.ColPlantCode, genfleet.ColEIAPlantCode); err != nil {
		return err
	}
	retired, err = genfleet.AggregateRetired(retired)
	if err != nil {
		return err
	}
	units, _, err = genfleet.ReconcileRetirements(units, retired, log)
	if err != nil {
		return err
	}

	generation, err := p.Store.Generation(ctx, year)
	if err != nil {
		return err
	}
	generation = genfleet.RemapCombinedCycle(generation, p.Config)
	generation = genfleet.CollapseCoal(generation, p.Config, genfleet.ColEnergySource)
	generation = genfleet.NormalizeFuels(generation, p.Config, genfleet.ColEnergySource)
	generation, err = genfleet.AggregateGeneration(generation, p.Config)
	if err != nil {
		return err
	}
	if err := generation.Rename(genfleet.ColPlantCode, genfleet.ColEIAPlantCode); err != nil {
		return err
	}
	bestRates, err := genfleet.MonthlyBestRates(generation)
	if err != nil {
		return err
	}
	units, err = genfleet.AssignHeatRates(units, bestRates, p.Config, year)
	if err != nil {
		return err
	}
	units, err = genfleet.WeightedPlantHeatRates(units)
	if err != nil {
		return err
	}

	existing := units.Filter(func(r genfleet.Row) bool {
		return r.Get(genfleet.ColOpStatus).String() == genfleet.StatusOperable
	})
	proposedUnits := units.Filter(func(r genfleet.Row) bool {
		return r.Get(genfleet.ColOpStatus).String() == genfleet.StatusProposed
	})
	split, err := genfleet.ClassifyProposed(existing, proposedUnits)
	if err != nil {
		return err
	}
	if split.Ambiguous.Len() > 0 {
		log.WithFields(logrus.Fields{"rows": split.Ambiguous.Len()}).Warn("proposed units matching multiple existing units")
		if err := genfleet.WriteTSV(split.Ambiguous, filepath.Join(p.OutDir, fileAmbiguous)); err != nil {
			return err
		}
	}

	sums, err := genfleet.SummarizeHeatRates(units)
	if err != nil {
		return err
	}
	if err := genfleet.WriteTSV(genfleet.SummaryTable(sums), filepath.Join(p.OutDir, fileSummary)); err != nil {
		return err
	}

	shape := func(t *genfleet.Table, path string) error {
		t = genfleet.AddPlantFlags(t)
		t, err := genfleet.ShapeForDatabase(t)
		if err != nil {
			return err
		}
		return genfleet.WriteTSV(t, filepath.Join(p.OutDir, path))
	}
	if err := shape(existing, fileProjects); err != nil {
		return err
	}
	newAndUprates := split.New.Append(split.Uprates)
	return shape(newAndUprates, fileNewProjects)
}
