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

// Canonical column names, produced by the eia package's rename table.
// Every core transform assumes these names and fails loudly when one is
// absent.
const (
	ColPlantCode       = "Plant Code"
	ColEIAPlantCode    = "EIA Plant Code"
	ColPlantName       = "Plant Name"
	ColPrimeMover      = "Prime Mover"
	ColEnergySource    = "Energy Source"
	ColEnergySource2   = "Energy Source 2"
	ColEnergySource3   = "Energy Source 3"
	ColNameplate       = "Nameplate Capacity (MW)"
	ColOperatingYear   = "Operating Year"
	ColRetirementYear  = "Planned Retirement Year"
	ColRetiredCapacity = "Retired Capacity (MW)"
	ColCounty          = "County"
	ColState           = "State"
	ColNercRegion      = "Nerc Region"
	ColStatus          = "Status"
	ColOpStatus        = "Operational Status"
	ColGeneratorID     = "Generator Id"
	ColUnitCode        = "Unit Code"
	ColUtilityID       = "Utility Id"
	ColYear            = "Year"
	ColMonth           = "Month"
	ColBestHeatRate    = "Best Heat Rate"
	ColHeatRateSource  = "Heat Rate Source"
	ColHeatRateWindow  = "Heat Rate Window (years)"
	ColFuelFraction    = "Fraction of Yearly Fuel Use"
	ColMaxAge          = "Maximum Age (years)"
	ColInconsistent    = "Inconsistent Retirement"
)

// Operational status values assigned while parsing.
const (
	StatusOperable = "Operable"
	StatusProposed = "Proposed"
)

// Monthly wide-format column patterns.
const (
	PatNetGeneration = "Net Electricity Generation (MWh) Month %d"
	PatFuelMMBTU     = "Elec MMBTU Month %d"
	PatConsumed      = "Electricity Consumed (MWh) Month %d"
	PatHeatRate      = "Heat Rate Month %d"
	PatCapacityFac   = "Capacity Factor Month %d"
	PatFuelFraction  = "Fraction of Total Fuel Consumption Month %d"
)

// Config holds the fixed parameters of the derivation pipeline. It is
// built once, passed into each stage, and never modified, so that
// re-runs against different scenario or year parameters are reproducible
// and testable in isolation.
type Config struct {
	// StartYear and EndYear bound the annual form-years processed
	// (inclusive).
	StartYear, EndYear int

	// EndMonth is the month of the most recent EIA-860M filing, which
	// carries the cumulative retired-generator list.
	EndMonth string

	// FuelPrimeMovers are the prime-mover codes whose units burn fuel
	// and therefore have heat rates.
	FuelPrimeMovers []string

	// ThermalPrimeMovers are the aggregated thermal technology codes
	// used for heat-rate assignment.
	ThermalPrimeMovers []string

	// CombinedCycleParts are the raw codes denoting the gas-turbine,
	// steam-turbine, and shared-shaft components of one combined-cycle
	// unit; they are remapped to CombinedCycleCode before any
	// aggregation so a combined-cycle plant aggregates to one logical
	// unit rather than three.
	CombinedCycleParts []string
	CombinedCycleCode  string

	// CoalCodes are the raw coal sub-codes collapsed into one Coal
	// category.
	CoalCodes []string

	// AcceptedStatusCodes are regulatory status codes accepted during
	// parsing; anything else (plants not yet in permitting) is dropped.
	AcceptedStatusCodes []string

	// States lists the states of the target interconnection.
	States []string

	// FuelCategories maps raw EIA energy-source codes to normalized
	// fuel categories.
	FuelCategories map[string]string

	// UnitAggregations is the sequential list of grouping-key sets for
	// the unit aggregator; each aggregation's output feeds the next.
	UnitAggregations [][]string

	// SummedColumns are the numeric columns summed (rather than
	// max-reduced) during aggregation.
	SummedColumns []string

	// CoalMinHeatRate and FossilMinHeatRate are the plausibility floors
	// in MMBTU/MWh: a reported heat rate below the floor for its fuel is
	// assumed to be a reporting error and treated as missing. MaxHeatRate
	// is the common ceiling.
	CoalMinHeatRate   float64
	FossilMinHeatRate float64
	MaxHeatRate       float64

	// WinsorizeFraction is the tail fraction clamped on each side of the
	// measured heat-rate distribution.
	WinsorizeFraction float64

	// PeerWindow is the starting half-width, in years, of the vintage
	// window used for peer-group averaging; PeerWindowStep is added each
	// time the window holds fewer than MinPeers units, up to
	// PeerWindowMax (the full observed vintage range, 1925-2018).
	PeerWindow, PeerWindowStep, PeerWindowMax int
	MinPeers                                  int

	// MultiFuelLow and MultiFuelHigh bound the secondary-fuel annual
	// consumption share that flags a unit as multi-fuel; the comparison
	// is strict on both ends.
	MultiFuelLow, MultiFuelHigh float64

	// RegionAreaFraction is the minimum fraction of a county's area that
	// must fall within the region boundary for the county to be a
	// member.
	RegionAreaFraction float64
}

// DefaultConfig returns the parameters historically used by the dataset
// maintainers.
func DefaultConfig() *Config {
	return &Config{
		StartYear: 2004,
		EndYear:   2018,
		EndMonth:  "may",

		FuelPrimeMovers:    []string{"ST", "GT", "IC", "CA", "CT", "CS", "CC"},
		ThermalPrimeMovers: []string{"CC", "GT", "IC", "ST"},
		CombinedCycleParts: []string{"CA", "CT", "CS"},
		CombinedCycleCode:  "CC",
		CoalCodes:          []string{"ANT", "BIT", "LIG", "SGC", "SUB", "WC", "RC"},

		// Operating, standby, and proposed units that have at least
		// started the regulatory approval process.
		AcceptedStatusCodes: []string{"OP", "SB", "CO", "SC", "OA", "OZ", "TS", "L", "T", "U", "V"},

		States: []string{"WA", "OR", "CA", "AZ", "NV", "NM", "UT", "ID", "MT", "WY", "CO", "TX"},

		FuelCategories: map[string]string{
			"LFG":  "Bio_Gas",
			"OBG":  "Bio_Gas",
			"AB":   "Bio_Solid",
			"BLQ":  "Bio_Liquid",
			"NG":   "Gas",
			"OG":   "Gas",
			"PG":   "Gas",
			"DFO":  "DistillateFuelOil",
			"JF":   "ResidualFuelOil",
			"COAL": "Coal",
			"GEO":  "Geothermal",
			"NUC":  "Uranium",
			"PC":   "Coal",
			"SUN":  "Solar",
			"WDL":  "Bio_Liquid",
			"WDS":  "Bio_Solid",
			"MSW":  "Bio_Solid",
			"PUR":  "Purchased_Steam",
			"WH":   "Waste_Heat",
			"OTH":  "Other",
			"WAT":  "Water",
			"MWH":  "Electricity",
			"WND":  "Wind",
		},

		UnitAggregations: [][]string{
			{ColPlantCode, ColUnitCode},
			{ColPlantCode, ColPrimeMover, ColEnergySource, ColOperatingYear},
		},
		SummedColumns: []string{ColNameplate},

		CoalMinHeatRate:   8.607,
		FossilMinHeatRate: 6.711,
		MaxHeatRate:       100,

		WinsorizeFraction: 0.005,

		PeerWindow:     2,
		PeerWindowStep: 2,
		PeerWindowMax:  103,
		MinPeers:       4,

		MultiFuelLow:  0.05,
		MultiFuelHigh: 0.95,

		RegionAreaFraction: 0.5,
	}
}

// NormalizeFuel maps a raw energy-source code to its normalized fuel
// category; codes without a mapping pass through unchanged.
func (c *Config) NormalizeFuel(code string) string {
	if f, ok := c.FuelCategories[code]; ok {
		return f
	}
	return code
}

// IsFuelPrimeMover reports whether a prime-mover code denotes a
// fuel-burning technology, including the raw combined-cycle part codes.
func (c *Config) IsFuelPrimeMover(code string) bool {
	return isIn(code, c.FuelPrimeMovers)
}

// IsCoalCode reports whether code is one of the raw coal sub-codes.
func (c *Config) IsCoalCode(code string) bool {
	for _, cc := range c.CoalCodes {
		if code == cc {
			return true
		}
	}
	return false
}

// StatusAccepted reports whether a regulatory status code is one of
// the codes kept during staging.
func (c *Config) StatusAccepted(code string) bool {
	return isIn(code, c.AcceptedStatusCodes)
}

// isIn reports whether s is in list.
func isIn(s string, list []string) bool {
	for _, l := range list {
		if s == l {
			return true
		}
	}
	return false
}
