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
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// WriteTSV writes the table as a tab-separated UTF-8 file with a header
// row.
func WriteTSV(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("genfleet: writing %s: %v", path, err)
	}
	defer f.Close()
	return writeRows(t, f, true)
}

// AppendTSV appends the table's rows to a tab-separated file, writing
// the header only when the file does not yet exist. Historic multi-year
// outputs accumulate this way, one form-year at a time.
func AppendTSV(t *Table, path string) error {
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("genfleet: appending to %s: %v", path, err)
	}
	defer f.Close()
	return writeRows(t, f, writeHeader)
}

func writeRows(t *Table, w io.Writer, header bool) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if header {
		if err := cw.Write(t.Columns()); err != nil {
			return err
		}
	}
	row := make([]string, len(t.names))
	for i := 0; i < t.Len(); i++ {
		for j, name := range t.names {
			row[j] = t.Value(i, name).String()
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTSV reads a tab-separated file written by WriteTSV or AppendTSV
// back into a Table. Cells are parsed as integers, then floats, then
// strings; empty cells become missing.
func ReadTSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("genfleet: reading %s: %v", path, err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("genfleet: reading %s: %v", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("genfleet: reading %s: empty file", path)
	}
	t := NewTable(rows[0]...)
	for _, rec := range rows[1:] {
		vals := make([]Value, len(rows[0]))
		for j := range vals {
			if j < len(rec) {
				vals[j] = ParseValue(rec[j])
			} else {
				vals[j] = Missing()
			}
		}
		t.AppendRow(vals...)
	}
	return t, nil
}
