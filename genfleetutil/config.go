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
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"

	"github.com/switch-model/genfleet"
	"github.com/switch-model/genfleet/eia"
	"github.com/switch-model/genfleet/geo"
)

// FleetConfig builds the derivation parameters from the configuration,
// starting from the maintainers' historical defaults.
func FleetConfig(cfg *viper.Viper) (*genfleet.Config, error) {
	c := genfleet.DefaultConfig()
	c.StartYear = cast.ToInt(cfg.Get("StartYear"))
	c.EndYear = cast.ToInt(cfg.Get("EndYear"))
	c.EndMonth = cast.ToString(cfg.Get("Month"))
	if c.StartYear > c.EndYear {
		return nil, fmt.Errorf("genfleet: StartYear %d is after EndYear %d", c.StartYear, c.EndYear)
	}
	return c, nil
}

// GeoConfig builds the geography-resolution parameters from the
// configuration.
func GeoConfig(cfg *viper.Viper, c *genfleet.Config) geo.ResolverConfig {
	return geo.ResolverConfig{
		RegionShapefile:      os.ExpandEnv(cast.ToString(cfg.Get("Geo.RegionShapefile"))),
		RegionField:          cast.ToString(cfg.Get("Geo.RegionField")),
		CountyShapefile:      os.ExpandEnv(cast.ToString(cfg.Get("Geo.CountyShapefile"))),
		CountyNameField:      cast.ToString(cfg.Get("Geo.CountyNameField")),
		CountyStateFIPSField: cast.ToString(cfg.Get("Geo.CountyStateFIPSField")),
		AreaFraction:         c.RegionAreaFraction,
	}
}

// NewPipeline assembles the derivation pipeline from the
// configuration, creating the output directory if needed.
func NewPipeline(cfg *viper.Viper) (*Pipeline, error) {
	c, err := FleetConfig(cfg)
	if err != nil {
		return nil, err
	}
	var renames map[string]string
	if path := cfg.GetString("RenameFile"); path != "" {
		renames, err = eia.LoadRenames(os.ExpandEnv(path))
		if err != nil {
			return nil, err
		}
	}
	outDir := os.ExpandEnv(cfg.GetString("OutputDir"))
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return nil, err
	}
	store := &eia.Store{
		Dir:      os.ExpandEnv(cfg.GetString("DownloadDir")),
		CacheDir: os.ExpandEnv(cfg.GetString("CacheDir")),
		Month:    c.EndMonth,
		Config:   c,
		Renames:  renames,
	}
	return &Pipeline{
		Store:  store,
		Config: c,
		Geo:    GeoConfig(cfg, c),
		Region: cfg.GetString("Region"),
		OutDir: outDir,
		Log:    Log(),
	}, nil
}
