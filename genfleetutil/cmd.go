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

// Package genfleetutil wires the fleet-derivation pipeline to its
// command-line and configuration-file interface.
package genfleetutil

import (
	"context"
	"fmt"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/switch-model/genfleet"
	"github.com/switch-model/genfleet/eia"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to GenFleet.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "DownloadDir",
			usage: `
              DownloadDir is the directory the survey form archives are
              downloaded to and read from.`,
			defaultVal: "data",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "CacheDir",
			usage: `
              CacheDir holds the parsed form-year tables between runs.
              Delete it to force a re-parse after replacing a download.`,
			defaultVal: "cache",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir receives the staged tab-separated outputs.`,
			defaultVal: "outputs",
			flagsets:   []*pflag.FlagSet{deriveCmd.PersistentFlags()},
		},
		{
			name: "StartYear",
			usage: `
              StartYear is the first survey form year processed.`,
			defaultVal: 2004,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "EndYear",
			usage: `
              EndYear is the last survey form year processed; the
              generator fleet is assembled from this year's forms.`,
			defaultVal: 2018,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Month",
			usage: `
              Month is the monthly-update report month whose cumulative
              retired list reconciles the fleet.`,
			defaultVal: "may",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Region",
			usage: `
              Region is the planning region the fleet is filtered to.`,
			shorthand:  "r",
			defaultVal: "WECC",
			flagsets:   []*pflag.FlagSet{deriveCmd.PersistentFlags()},
		},
		{
			name: "RenameFile",
			usage: `
              RenameFile points to a TOML file of extra column renames
              for form editions that changed a header spelling.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Geo.RegionShapefile",
			usage: `
              Geo.RegionShapefile is the path to the shapefile holding the
              planning region boundaries.`,
			defaultVal: "shapefiles/regions.shp",
			flagsets:   []*pflag.FlagSet{deriveCmd.PersistentFlags()},
		},
		{
			name: "Geo.RegionField",
			usage: `
              Geo.RegionField is the attribute field naming each region in
              the region shapefile.`,
			defaultVal: "NAME",
			flagsets:   []*pflag.FlagSet{deriveCmd.PersistentFlags()},
		},
		{
			name: "Geo.CountyShapefile",
			usage: `
              Geo.CountyShapefile is the path to the county boundary
              shapefile.`,
			defaultVal: "shapefiles/counties.shp",
			flagsets:   []*pflag.FlagSet{deriveCmd.PersistentFlags()},
		},
		{
			name: "Geo.CountyNameField",
			usage: `
              Geo.CountyNameField is the attribute field holding the county
              name.`,
			defaultVal: "NAME",
			flagsets:   []*pflag.FlagSet{deriveCmd.PersistentFlags()},
		},
		{
			name: "Geo.CountyStateFIPSField",
			usage: `
              Geo.CountyStateFIPSField is the attribute field holding the
              two-digit state FIPS code.`,
			defaultVal: "STATEFP",
			flagsets:   []*pflag.FlagSet{deriveCmd.PersistentFlags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GENFLEET")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(downloadCmd)
	Root.AddCommand(deriveCmd)
	deriveCmd.AddCommand(historicCmd)
	deriveCmd.AddCommand(fleetCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("genfleet: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "genfleet",
	Short: "Derive a generator fleet from EIA survey forms.",
	Long: `GenFleet downloads the EIA-860, EIA-860M, and EIA-923 survey forms and
derives a region's generator fleet from them: aggregated generating
units with peer-estimated heat rates, retirement-reconciled capacities,
and historic hydro and heat-rate profiles.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GENFLEET_var' where 'var'
is the name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of GenFleet.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("GenFleet v%s\n", genfleet.Version)
	},
	DisableAutoGenTag: true,
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the survey form archives.",
	Long: `download fetches the EIA-860 and EIA-923 archives for every year in
[StartYear, EndYear] and the EndYear monthly update, unpacking them under
DownloadDir. Years already present are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := &eia.Downloader{
			Dir:   Cfg.GetString("DownloadDir"),
			Month: Cfg.GetString("Month"),
			Log:   Log(),
		}
		return d.FetchAll(Cfg.GetInt("StartYear"), Cfg.GetInt("EndYear"))
	},
	DisableAutoGenTag: true,
}

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive fleet outputs from the downloaded forms.",
	Long: `derive runs the derivation stages over the downloaded form data.
Use the subcommands specified below to choose a stage.`,
	DisableAutoGenTag: true,
}

var historicCmd = &cobra.Command{
	Use:   "historic",
	Short: "Build the historic hydro and heat-rate profiles.",
	Long: `historic derives per-year hydro capacity factors and fuel-based
monthly heat rates for every year in [StartYear, EndYear], appending each
year's block to the staged historic outputs in OutputDir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := NewPipeline(Cfg)
		if err != nil {
			return err
		}
		return p.Historic(context.Background())
	},
	DisableAutoGenTag: true,
}

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Assemble the current generator fleet.",
	Long: `fleet assembles the region's generator fleet from the EndYear forms:
unit aggregation, region filtering, retirement reconciliation, heat-rate
assignment, and database-shaped outputs in OutputDir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := NewPipeline(Cfg)
		if err != nil {
			return err
		}
		return p.Fleet(context.Background())
	},
	DisableAutoGenTag: true,
}

// Log returns the logger used by the commands.
func Log() logrus.FieldLogger {
	return logrus.StandardLogger()
}
