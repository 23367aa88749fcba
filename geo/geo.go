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

// Package geo resolves which counties belong to an interconnection
// region, by intersecting county boundaries with the region boundary
// and caching the resulting membership list for reuse.
package geo

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/index/rtree"
)

// A CountyState identifies one county. Both fields are necessary: some
// county names exist in multiple states.
type CountyState struct {
	County, State string
}

// A Membership is the set of counties belonging to one region.
type Membership struct {
	Region   string
	Counties map[CountyState]struct{}
}

// Contains reports whether the county is a member of the region.
func (m *Membership) Contains(county, state string) bool {
	_, ok := m.Counties[CountyState{County: county, State: state}]
	return ok
}

// Load reads a previously resolved membership list from a tab-separated
// file with County and State columns.
func Load(path, region string) (*Membership, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = '\t'
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("geo: reading membership list %s: %v", path, err)
	}
	if len(rows) == 0 || len(rows[0]) < 2 || rows[0][0] != "County" || rows[0][1] != "State" {
		return nil, fmt.Errorf("geo: membership list %s: expected County and State columns", path)
	}
	m := &Membership{Region: region, Counties: make(map[CountyState]struct{})}
	for _, row := range rows[1:] {
		m.Counties[CountyState{County: row[0], State: row[1]}] = struct{}{}
	}
	return m, nil
}

// Save writes the membership list as a tab-separated file.
func (m *Membership) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := w.Write([]string{"County", "State"}); err != nil {
		return err
	}
	for cs := range m.Counties {
		if err := w.Write([]string{cs.County, cs.State}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// A ResolverConfig describes the geographic reference data used to
// compute region membership.
type ResolverConfig struct {
	// RegionShapefile holds interconnection-region boundaries;
	// RegionField is the attribute column carrying the region code.
	RegionShapefile string
	RegionField     string

	// CountyShapefile holds county boundaries. CountyNameField is the
	// county-name attribute column and CountyStateFIPSField the
	// two-digit state FIPS attribute column.
	CountyShapefile      string
	CountyNameField      string
	CountyStateFIPSField string

	// AreaFraction is the minimum fraction of a county's area that must
	// fall inside the region boundary for membership.
	AreaFraction float64
}

type county struct {
	geom.Polygonal
	name  string
	state string
}

// ResolveMembership computes the counties whose area is at least
// cfg.AreaFraction contained in the named region's boundary. Both
// shapefiles must be in the same spatial reference.
func ResolveMembership(cfg ResolverConfig, region string) (*Membership, error) {
	regionGeom, err := loadRegion(cfg, region)
	if err != nil {
		return nil, err
	}
	counties, err := loadCounties(cfg)
	if err != nil {
		return nil, err
	}
	m := &Membership{Region: region, Counties: make(map[CountyState]struct{})}
	for _, cI := range counties.SearchIntersect(regionGeom.Bounds()) {
		c := cI.(*county)
		area := c.Area()
		if area == 0 {
			continue
		}
		if c.Intersection(regionGeom).Area()/area >= cfg.AreaFraction {
			m.Counties[CountyState{County: c.name, State: c.state}] = struct{}{}
		}
	}
	return m, nil
}

func loadRegion(cfg ResolverConfig, region string) (geom.Polygonal, error) {
	d, err := shp.NewDecoder(cfg.RegionShapefile)
	if err != nil {
		return nil, fmt.Errorf("geo: opening region shapefile: %v", err)
	}
	defer d.Close()
	var polys []geom.Polygonal
	for {
		g, fields, more := d.DecodeRowFields(cfg.RegionField)
		if !more {
			break
		}
		name, ok := fields[cfg.RegionField]
		if !ok {
			return nil, fmt.Errorf("geo: region shapefile: missing attribute column %s", cfg.RegionField)
		}
		if strings.TrimSpace(name) != region {
			continue
		}
		p, ok := g.(geom.Polygonal)
		if !ok {
			return nil, fmt.Errorf("geo: region shapefile: region shapes need to be polygons")
		}
		polys = append(polys, p)
	}
	if err := d.Error(); err != nil {
		return nil, err
	}
	if len(polys) == 0 {
		return nil, fmt.Errorf("geo: region %s not found in %s", region, cfg.RegionShapefile)
	}
	// Regions may be split across several shapes; union them.
	u := polys[0]
	for _, p := range polys[1:] {
		u = u.Union(p)
	}
	return u, nil
}

func loadCounties(cfg ResolverConfig) (*rtree.Rtree, error) {
	d, err := shp.NewDecoder(cfg.CountyShapefile)
	if err != nil {
		return nil, fmt.Errorf("geo: opening county shapefile: %v", err)
	}
	defer d.Close()
	tree := rtree.NewTree(25, 50)
	for {
		g, fields, more := d.DecodeRowFields(cfg.CountyNameField, cfg.CountyStateFIPSField)
		if !more {
			break
		}
		p, ok := g.(geom.Polygonal)
		if !ok {
			return nil, fmt.Errorf("geo: county shapefile: county shapes need to be polygons")
		}
		name, ok := fields[cfg.CountyNameField]
		if !ok {
			return nil, fmt.Errorf("geo: county shapefile: missing attribute column %s", cfg.CountyNameField)
		}
		fips, ok := fields[cfg.CountyStateFIPSField]
		if !ok {
			return nil, fmt.Errorf("geo: county shapefile: missing attribute column %s", cfg.CountyStateFIPSField)
		}
		state, ok := stateByFIPS[strings.TrimSpace(fips)]
		if !ok {
			// Territories and outlying areas are not part of any
			// modeled interconnection.
			continue
		}
		tree.Insert(&county{Polygonal: p, name: strings.TrimSpace(name), state: state})
	}
	if err := d.Error(); err != nil {
		return nil, err
	}
	return tree, nil
}

// stateByFIPS maps two-digit state FIPS codes to postal abbreviations.
var stateByFIPS = map[string]string{
	"01": "AL", "02": "AK", "04": "AZ", "05": "AR", "06": "CA",
	"08": "CO", "09": "CT", "10": "DE", "11": "DC", "12": "FL",
	"13": "GA", "15": "HI", "16": "ID", "17": "IL", "18": "IN",
	"19": "IA", "20": "KS", "21": "KY", "22": "LA", "23": "ME",
	"24": "MD", "25": "MA", "26": "MI", "27": "MN", "28": "MS",
	"29": "MO", "30": "MT", "31": "NE", "32": "NV", "33": "NH",
	"34": "NJ", "35": "NM", "36": "NY", "37": "NC", "38": "ND",
	"39": "OH", "40": "OK", "41": "OR", "42": "PA", "44": "RI",
	"45": "SC", "46": "SD", "47": "TN", "48": "TX", "49": "UT",
	"50": "VT", "51": "VA", "53": "WA", "54": "WV", "55": "WI",
	"56": "WY",
}

// MembershipForRegion loads the cached membership list at cachePath if
// it exists, and otherwise resolves membership geographically and
// persists the result for reuse.
func MembershipForRegion(cfg ResolverConfig, region, cachePath string) (*Membership, error) {
	if _, err := os.Stat(cachePath); err == nil {
		return Load(cachePath, region)
	}
	m, err := ResolveMembership(cfg, region)
	if err != nil {
		return nil, err
	}
	if err := m.Save(cachePath); err != nil {
		return nil, err
	}
	return m, nil
}
