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
	"context"
	"encoding/gob"
	"fmt"
	"runtime"
	"sync"

	"github.com/ctessum/requestcache"

	"github.com/switch-model/genfleet"
)

func init() {
	gob.Register(&genfleet.Table{})
}

// Form identifies one survey form.
type Form string

const (
	Form860  Form = "eia860"
	Form860M Form = "eia860m"
	Form923  Form = "eia923"
)

// A Store reads parsed form tables through a disk-backed cache, so a
// form-year workbook is parsed once and read back as a gob on
// subsequent runs. Deleting the cache directory forces a re-parse.
type Store struct {
	// Dir is the download directory holding the per-form-year
	// subdirectories.
	Dir string
	// CacheDir holds the parsed-table gobs. If empty, tables are
	// kept in memory only.
	CacheDir string
	// Month is the EIA-860M report month to reconcile against.
	Month string

	Config  *genfleet.Config
	Renames map[string]string

	cacheOnce sync.Once
	cache     *requestcache.Cache
}

type storeRequest struct {
	form  Form
	year  int
	sheet string
}

func (s *Store) initCache() {
	s.cacheOnce.Do(func() {
		if s.CacheDir == "" {
			s.cache = requestcache.NewCache(s.load, runtime.GOMAXPROCS(-1),
				requestcache.Deduplicate(), requestcache.Memory(50))
		} else {
			s.cache = requestcache.NewCache(s.load, runtime.GOMAXPROCS(-1),
				requestcache.Deduplicate(), requestcache.Memory(50),
				requestcache.Disk(s.CacheDir, requestcache.MarshalGob, requestcache.UnmarshalGob))
		}
	})
}

func (s *Store) load(ctx context.Context, req interface{}) (interface{}, error) {
	r := req.(storeRequest)
	switch r.form {
	case Form860:
		g, err := LoadGenerators(s.Dir, r.year, s.Config, s.Renames)
		if err != nil {
			return nil, err
		}
		if r.sheet == "proposed" {
			return g.Proposed, nil
		}
		return g.Operable, nil
	case Form860M:
		return LoadRetired(s.Dir, s.Month, r.year, s.Renames)
	case Form923:
		return LoadGeneration(s.Dir, r.year, s.Renames)
	}
	return nil, fmt.Errorf("eia: unknown form %q", r.form)
}

func (s *Store) get(ctx context.Context, r storeRequest) (*genfleet.Table, error) {
	s.initCache()
	key := fmt.Sprintf("%s_%d", r.form, r.year)
	if r.sheet != "" {
		key += "_" + r.sheet
	}
	req := s.cache.NewRequest(ctx, r, key)
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	return result.(*genfleet.Table), nil
}

// Operable returns the existing-generator table for a form year.
func (s *Store) Operable(ctx context.Context, year int) (*genfleet.Table, error) {
	return s.get(ctx, storeRequest{form: Form860, year: year})
}

// Proposed returns the proposed-generator table for a form year.
func (s *Store) Proposed(ctx context.Context, year int) (*genfleet.Table, error) {
	return s.get(ctx, storeRequest{form: Form860, year: year, sheet: "proposed"})
}

// Retired returns the cumulative retired-unit table as of the
// configured report month of the given year.
func (s *Store) Retired(ctx context.Context, year int) (*genfleet.Table, error) {
	return s.get(ctx, storeRequest{form: Form860M, year: year})
}

// Generation returns the plant-level monthly generation and fuel
// consumption table for a form year.
func (s *Store) Generation(ctx context.Context, year int) (*genfleet.Table, error) {
	return s.get(ctx, storeRequest{form: Form923, year: year})
}
