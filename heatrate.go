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
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// HeatRateSource records how a unit's full-load heat rate was obtained.
type HeatRateSource int

const (
	// SourceMeasured means the heat rate came from the unit's own
	// monthly fuel and generation reports.
	SourceMeasured HeatRateSource = iota
	// SourcePeerAverage means the heat rate is the average of units
	// with the same technology and fuel within a vintage window.
	SourcePeerAverage
	// SourceTechnologyAverage means no technology-and-fuel peers
	// existed in any window, so the average over all units of the same
	// technology was used.
	SourceTechnologyAverage
)

func (s HeatRateSource) String() string {
	switch s {
	case SourceMeasured:
		return "measured"
	case SourcePeerAverage:
		return "peer-average"
	case SourceTechnologyAverage:
		return "technology-average"
	}
	return "unknown"
}

// A HeatRateEstimate is one derived full-load heat rate.
type HeatRateEstimate struct {
	// HeatRate is in MMBTU/MWh.
	HeatRate float64
	Source   HeatRateSource
	// Window is the final vintage-window half-width, in years, used for
	// a peer-average estimate; zero otherwise.
	Window int
}

// BestMonthlyHeatRate derives a unit's representative heat rate from
// twelve monthly (fuel consumption MMBTU, net generation MWh)
// observations. Months with missing values, generation at or below
// zero, or a non-positive ratio are excluded before ranking; the
// second-smallest remaining ratio is returned, damping single-month
// measurement noise in very-low-consumption months. Fewer than two
// valid months yields no result.
func BestMonthlyHeatRate(consumption, generation []Value) (float64, bool) {
	var ratios []float64
	for m := range consumption {
		c, okC := consumption[m].Float()
		g, okG := generation[m].Float()
		if !okC || !okG || g <= 0 {
			continue
		}
		r := c / g
		if r <= 0 || math.IsInf(r, 0) || math.IsNaN(r) {
			continue
		}
		ratios = append(ratios, r)
	}
	if len(ratios) < 2 {
		return 0, false
	}
	sort.Float64s(ratios)
	return ratios[1], true
}

// MonthlyBestRates derives the (plant, prime mover, energy source,
// best heat rate) table from a year of monthly generation and fuel
// consumption reports. A row with fewer than two valid months gets a
// missing heat rate.
func MonthlyBestRates(generation *Table) (*Table, error) {
	if err := generation.RequireColumns(ColEIAPlantCode, ColPrimeMover, ColEnergySource); err != nil {
		return nil, fmt.Errorf("genfleet: deriving best heat rates: %v", err)
	}
	out := NewTable(ColEIAPlantCode, ColPrimeMover, ColEnergySource, ColBestHeatRate)
	for i := 0; i < generation.Len(); i++ {
		var cons, gen []Value
		for m := 1; m <= 12; m++ {
			cCol := fmt.Sprintf(PatFuelMMBTU, m)
			gCol := fmt.Sprintf(PatNetGeneration, m)
			if !generation.HasColumn(cCol) || !generation.HasColumn(gCol) {
				continue
			}
			cons = append(cons, generation.Value(i, cCol))
			gen = append(gen, generation.Value(i, gCol))
		}
		best := Missing()
		if hr, ok := BestMonthlyHeatRate(cons, gen); ok {
			best = Float(hr)
		}
		out.AppendRow(
			generation.Value(i, ColEIAPlantCode),
			generation.Value(i, ColPrimeMover),
			generation.Value(i, ColEnergySource),
			best,
		)
	}
	return out, nil
}

// PlausibleHeatRate reports whether hr falls inside the plausibility
// band for the given normalized fuel: coal units cannot beat the best
// historical coal heat rate, other thermal units the best fossil one,
// and anything above the ceiling is an order-of-magnitude reporting
// error. Values outside the band are treated as missing, not as data.
func (c *Config) PlausibleHeatRate(fuel string, hr float64) bool {
	if hr > c.MaxHeatRate {
		return false
	}
	if fuel == "Coal" {
		return hr >= c.CoalMinHeatRate
	}
	return hr >= c.FossilMinHeatRate
}

type peer struct {
	primeMover string
	fuel       string
	vintage    int
	heatRate   float64
}

// An Estimator imputes heat rates for units lacking a valid measured
// value, from the population of units that have one.
type Estimator struct {
	cfg   *Config
	peers []peer
}

// NewEstimator builds an Estimator from a table of thermal units
// carrying valid (already winsorized) measured heat rates.
func NewEstimator(cfg *Config, measured *Table) (*Estimator, error) {
	if err := measured.RequireColumns(ColPrimeMover, ColEnergySource, ColOperatingYear, ColBestHeatRate); err != nil {
		return nil, fmt.Errorf("genfleet: building heat rate estimator: %v", err)
	}
	e := &Estimator{cfg: cfg}
	for i := 0; i < measured.Len(); i++ {
		hr, ok := measured.Value(i, ColBestHeatRate).Float()
		if !ok {
			continue
		}
		vintage, ok := measured.Value(i, ColOperatingYear).Int()
		if !ok {
			continue
		}
		e.peers = append(e.peers, peer{
			primeMover: measured.Value(i, ColPrimeMover).String(),
			fuel:       measured.Value(i, ColEnergySource).String(),
			vintage:    int(vintage),
			heatRate:   hr,
		})
	}
	return e, nil
}

// windowRates returns the heat rates of units matching the technology
// and fuel with vintage in [vintage-window, vintage+window].
func (e *Estimator) windowRates(primeMover, fuel string, vintage, window int) []float64 {
	var rates []float64
	for _, p := range e.peers {
		if p.primeMover == primeMover && p.fuel == fuel &&
			p.vintage >= vintage-window && p.vintage <= vintage+window {
			rates = append(rates, p.heatRate)
		}
	}
	return rates
}

// Estimate computes a substitute heat rate for a unit of the given
// technology, normalized fuel, and vintage year. The vintage window
// expands monotonically until it holds at least MinPeers units or
// reaches PeerWindowMax; if no technology-and-fuel peer exists in any
// window, the unweighted average over all units of the technology is
// used. The search never narrows and always terminates. ok is false
// only when no unit of the technology exists anywhere in the dataset.
func (e *Estimator) Estimate(primeMover, fuel string, vintage int) (HeatRateEstimate, bool) {
	window := e.cfg.PeerWindow
	rates := e.windowRates(primeMover, fuel, vintage, window)
	for len(rates) < e.cfg.MinPeers && window < e.cfg.PeerWindowMax {
		window += e.cfg.PeerWindowStep
		rates = e.windowRates(primeMover, fuel, vintage, window)
	}
	if len(rates) > 0 {
		return HeatRateEstimate{
			HeatRate: stat.Mean(rates, nil),
			Source:   SourcePeerAverage,
			Window:   window,
		}, true
	}
	var techRates []float64
	for _, p := range e.peers {
		if p.primeMover == primeMover {
			techRates = append(techRates, p.heatRate)
		}
	}
	if len(techRates) == 0 {
		return HeatRateEstimate{}, false
	}
	return HeatRateEstimate{
		HeatRate: stat.Mean(techRates, nil),
		Source:   SourceTechnologyAverage,
	}, true
}

// EstimateProposed computes the heat rate for a not-yet-built unit,
// which has no vintage: the current-year peer average of matching
// technology and fuel is used.
func (e *Estimator) EstimateProposed(primeMover, fuel string, currentYear int) (HeatRateEstimate, bool) {
	return e.Estimate(primeMover, fuel, currentYear)
}

// AssignHeatRates attaches a best heat rate, its source, and the peer
// window used to every thermal unit in the generators table. generators
// is the region-filtered unit list for one year (existing and proposed);
// bestRates is the derived (plant, prime mover, energy source, best heat
// rate) table for the same year, with fuels already normalized.
//
// Existing thermal units join against their measured value; missing or
// implausible values are replaced through the expanding peer-window
// chain, and measured values are winsorized before averaging. Proposed
// thermal units get the current-year peer average. Non-thermal units
// pass through with a missing heat rate.
func AssignHeatRates(generators, bestRates *Table, cfg *Config, year int) (*Table, error) {
	if err := generators.RequireColumns(ColEIAPlantCode, ColPrimeMover, ColEnergySource,
		ColOperatingYear, ColOpStatus); err != nil {
		return nil, fmt.Errorf("genfleet: assigning heat rates: %v", err)
	}
	rates, err := bestRates.Select(ColEIAPlantCode, ColPrimeMover, ColEnergySource, ColBestHeatRate)
	if err != nil {
		return nil, fmt.Errorf("genfleet: assigning heat rates: %v", err)
	}

	joined, err := generators.Join(rates, []string{ColEIAPlantCode, ColPrimeMover, ColEnergySource}, LeftJoin)
	if err != nil {
		return nil, err
	}
	joined.AddColumn(ColHeatRateSource, Missing())
	joined.AddColumn(ColHeatRateWindow, Missing())

	isThermal := func(r Row) bool {
		pm := r.Get(ColPrimeMover)
		return !pm.IsMissing() && isIn(pm.String(), cfg.ThermalPrimeMovers)
	}

	// Partition existing thermal units into measured and to-be-imputed.
	var measuredRows, imputeRows []int
	for i := 0; i < joined.Len(); i++ {
		r := joined.Row(i)
		if !isThermal(r) {
			continue
		}
		if r.Get(ColOpStatus).String() != StatusOperable {
			continue
		}
		hr, ok := r.Get(ColBestHeatRate).Float()
		if ok && cfg.PlausibleHeatRate(r.Get(ColEnergySource).String(), hr) {
			measuredRows = append(measuredRows, i)
		} else {
			imputeRows = append(imputeRows, i)
		}
	}

	// Winsorize the measured distribution in place before it seeds the
	// peer averages.
	measured := make([]float64, len(measuredRows))
	for k, i := range measuredRows {
		measured[k], _ = joined.Value(i, ColBestHeatRate).Float()
	}
	Winsorize(measured, cfg.WinsorizeFraction)
	for k, i := range measuredRows {
		joined.SetValue(i, ColBestHeatRate, Float(measured[k]))
		joined.SetValue(i, ColHeatRateSource, String(SourceMeasured.String()))
	}

	measuredTable := NewTable(ColPrimeMover, ColEnergySource, ColOperatingYear, ColBestHeatRate)
	for _, i := range measuredRows {
		measuredTable.AppendRow(
			joined.Value(i, ColPrimeMover),
			joined.Value(i, ColEnergySource),
			joined.Value(i, ColOperatingYear),
			joined.Value(i, ColBestHeatRate),
		)
	}
	est, err := NewEstimator(cfg, measuredTable)
	if err != nil {
		return nil, err
	}

	applyEstimate := func(i int, e HeatRateEstimate) {
		joined.SetValue(i, ColBestHeatRate, Float(e.HeatRate))
		joined.SetValue(i, ColHeatRateSource, String(e.Source.String()))
		if e.Source == SourcePeerAverage {
			joined.SetValue(i, ColHeatRateWindow, Int(int64(e.Window)))
		}
	}

	for _, i := range imputeRows {
		vintage, ok := joined.Value(i, ColOperatingYear).Int()
		if !ok {
			vintage = int64(year)
		}
		e, ok := est.Estimate(joined.Value(i, ColPrimeMover).String(),
			joined.Value(i, ColEnergySource).String(), int(vintage))
		if !ok {
			// No unit of this technology anywhere; leave missing.
			joined.SetValue(i, ColBestHeatRate, Missing())
			continue
		}
		applyEstimate(i, e)
	}

	for i := 0; i < joined.Len(); i++ {
		r := joined.Row(i)
		if r.Get(ColOpStatus).String() != StatusProposed || !isThermal(r) {
			continue
		}
		e, ok := est.EstimateProposed(r.Get(ColPrimeMover).String(),
			r.Get(ColEnergySource).String(), year)
		if !ok {
			continue
		}
		applyEstimate(i, e)
	}

	return joined, nil
}
