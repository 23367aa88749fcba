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

// Package eia downloads and parses the EIA-860, EIA-860M, and EIA-923
// survey forms into tables for the derivation pipeline.
package eia

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/tealeg/xlsx"

	"github.com/switch-model/genfleet"
)

var (
	excelCacheOnce sync.Once
	excelCache     *requestcache.Cache
)

// openExcelFile loads a Microsoft Excel file from disk, utilizing
// a cache to avoid loading the same file more than once.
func openExcelFile(fileName string) (*xlsx.File, error) {
	excelCacheOnce.Do(func() {
		excelCache = requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
			filename := req.(string)
			f, err := xlsx.OpenFile(filename)
			if err != nil {
				return nil, fmt.Errorf("eia: opening xlsx file: %v", err)
			}
			return f, nil
		}, runtime.GOMAXPROCS(-1), requestcache.Memory(10))
	})
	r := excelCache.NewRequest(context.Background(), fileName, fileName)
	fI, err := r.Result()
	if err != nil {
		return nil, err
	}
	return fI.(*xlsx.File), nil
}

// cleanHeader collapses the line breaks and repeated spaces the survey
// forms use in their header rows.
func cleanHeader(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SheetTable reads the named sheet from an Excel file into a Table,
// treating row skipRows as the header. Columns with an empty header are
// dropped; repeated header names get a numeric suffix so each column
// stays addressable. Rows past the header are parsed cell-by-cell, with
// unparseable numeric text becoming missing values downstream.
func SheetTable(fileName, sheet string, skipRows int) (*genfleet.Table, error) {
	f, err := openExcelFile(fileName)
	if err != nil {
		return nil, err
	}
	s, ok := f.Sheet[sheet]
	if !ok {
		return nil, fmt.Errorf("eia: reading %s: no sheet %s", fileName, sheet)
	}
	return sheetTable(s, skipRows)
}

// SheetTableIndex is like SheetTable but addresses the sheet by
// position, for workbooks whose tab names changed between form years.
func SheetTableIndex(fileName string, sheet, skipRows int) (*genfleet.Table, error) {
	f, err := openExcelFile(fileName)
	if err != nil {
		return nil, err
	}
	if sheet < 0 || sheet >= len(f.Sheets) {
		return nil, fmt.Errorf("eia: reading %s: no sheet index %d", fileName, sheet)
	}
	return sheetTable(f.Sheets[sheet], skipRows)
}

func sheetTable(s *xlsx.Sheet, skipRows int) (*genfleet.Table, error) {
	if skipRows >= len(s.Rows) {
		return nil, fmt.Errorf("eia: sheet %s has %d rows, need header at row %d",
			s.Name, len(s.Rows), skipRows)
	}
	header := s.Rows[skipRows]
	var names []string
	var cols []int
	seen := make(map[string]int)
	for i, c := range header.Cells {
		name := cleanHeader(c.Value)
		if name == "" {
			continue
		}
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%s (%d)", name, n+1)
		}
		seen[cleanHeader(c.Value)]++
		names = append(names, name)
		cols = append(cols, i)
	}
	t := genfleet.NewTable(names...)
	for _, row := range s.Rows[skipRows+1:] {
		vals := make([]genfleet.Value, len(cols))
		empty := true
		for j, i := range cols {
			var cell string
			if i < len(row.Cells) {
				cell = strings.TrimSpace(row.Cells[i].Value)
			}
			vals[j] = genfleet.ParseValue(cell)
			if !vals[j].IsMissing() {
				empty = false
			}
		}
		if empty {
			continue
		}
		t.AppendRow(vals...)
	}
	return t, nil
}
