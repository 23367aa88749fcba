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

// Package genfleet cleans and reconciles US generator-fleet disclosure
// data (EIA-860 unit and plant inventories and EIA-923 monthly fuel and
// generation records) and derives per-plant heat rates and hydro output
// profiles for loading into a power-system planning database.
package genfleet

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strconv"
	"strings"
)

// A Value is one cell of a Table. It is either missing or holds a
// float, integer, or string. The zero Value is missing.
type Value struct {
	kind kind
	f    float64
	i    int64
	s    string
}

type kind int

const (
	kindMissing kind = iota
	kindFloat
	kindInt
	kindString
)

// Missing returns a missing Value.
func Missing() Value { return Value{} }

// Float returns a Value holding f.
func Float(f float64) Value { return Value{kind: kindFloat, f: f} }

// Int returns a Value holding i.
func Int(i int64) Value { return Value{kind: kindInt, i: i} }

// String returns a Value holding s.
func String(s string) Value { return Value{kind: kindString, s: s} }

// IsMissing reports whether v is missing.
func (v Value) IsMissing() bool { return v.kind == kindMissing }

// Float returns the value as a float64. String values are parsed; a
// string that cannot be parsed as a number is reported as not ok, the
// same as a missing value. This is how stray placeholder characters
// (" ", ".") in numeric survey columns become missing rather than fatal.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case kindFloat:
		return v.f, true
	case kindInt:
		return float64(v.i), true
	case kindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Int returns the value as an int64, truncating floats.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case kindInt:
		return v.i, true
	case kindFloat:
		return int64(v.f), true
	case kindString:
		f, ok := v.Float()
		if !ok {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

// String returns the text form of the value. Missing values are empty.
func (v Value) String() string {
	switch v.kind {
	case kindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case kindInt:
		return strconv.FormatInt(v.i, 10)
	case kindString:
		return v.s
	}
	return ""
}

// Equal reports whether two values are equal. Missing values are never
// equal to anything, including other missing values; this is what keeps
// rows with missing grouping-key fields from silently collapsing into
// one group.
func (v Value) Equal(w Value) bool {
	if v.kind == kindMissing || w.kind == kindMissing {
		return false
	}
	if v.kind == kindString || w.kind == kindString {
		if v.kind == w.kind {
			return v.s == w.s
		}
		return false
	}
	vf, _ := v.Float()
	wf, _ := w.Float()
	return vf == wf
}

// less orders values for max-representative aggregation: missing sorts
// before everything, numbers compare numerically, and strings compare
// lexically after any number.
func (v Value) less(w Value) bool {
	if v.kind == kindMissing {
		return w.kind != kindMissing
	}
	if w.kind == kindMissing {
		return false
	}
	vNum, vOK := numeric(v)
	wNum, wOK := numeric(w)
	switch {
	case vOK && wOK:
		return vNum < wNum
	case vOK:
		return true
	case wOK:
		return false
	}
	return v.s < w.s
}

func numeric(v Value) (float64, bool) {
	if v.kind == kindFloat || v.kind == kindInt {
		return v.Float()
	}
	return 0, false
}

// ParseValue converts a text cell to a Value, preferring integer then
// float representations. Empty cells and the placeholder characters used
// in EIA forms become missing.
func ParseValue(s string) Value {
	t := strings.TrimSpace(s)
	if t == "" || t == "." {
		return Missing()
	}
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return Float(f)
	}
	return String(s)
}

// A Table is an ordered collection of uniformly sized named columns.
// Every pipeline stage owns the Table it produces: operations return new
// Tables rather than editing rows in place, so that aggregating and then
// re-aggregating by a different key is safe.
type Table struct {
	names []string
	index map[string]int
	cols  [][]Value
}

// NewTable creates an empty table with the given column names.
func NewTable(names ...string) *Table {
	t := &Table{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
		cols:  make([][]Value, len(names)),
	}
	for i, n := range names {
		t.index[n] = i
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0])
}

// Columns returns the column names in order.
func (t *Table) Columns() []string { return append([]string(nil), t.names...) }

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AppendRow adds a row. The number of values must match the number of
// columns.
func (t *Table) AppendRow(vals ...Value) {
	if len(vals) != len(t.names) {
		panic(fmt.Sprintf("genfleet: appending row with %d values to table with %d columns", len(vals), len(t.names)))
	}
	for i, v := range vals {
		t.cols[i] = append(t.cols[i], v)
	}
}

// Value returns the cell at the given row and column. Referencing a
// column that does not exist panics; callers that cannot assume canonical
// column names must check with HasColumn or RequireColumns first.
func (t *Table) Value(row int, col string) Value {
	i, ok := t.index[col]
	if !ok {
		panic("genfleet: no column " + col)
	}
	return t.cols[i][row]
}

// SetValue replaces the cell at the given row and column.
func (t *Table) SetValue(row int, col string, v Value) {
	i, ok := t.index[col]
	if !ok {
		panic("genfleet: no column " + col)
	}
	t.cols[i][row] = v
}

// RequireColumns returns an error naming each listed column that is
// absent. Parsing code calls this after name normalization so that a
// stale rename table fails loudly instead of producing all-missing
// columns.
func (t *Table) RequireColumns(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("genfleet: required columns missing (stale rename table?): %s", strings.Join(missing, ", "))
	}
	return nil
}

// AddColumn appends a column filled with the given value.
func (t *Table) AddColumn(name string, fill Value) {
	col := make([]Value, t.Len())
	for i := range col {
		col[i] = fill
	}
	t.names = append(t.names, name)
	t.index[name] = len(t.names) - 1
	t.cols = append(t.cols, col)
}

// Rename changes a column name in place.
func (t *Table) Rename(old, new string) error {
	i, ok := t.index[old]
	if !ok {
		return fmt.Errorf("genfleet: renaming nonexistent column %q", old)
	}
	delete(t.index, old)
	t.names[i] = new
	t.index[new] = i
	return nil
}

// Select returns a new table containing copies of the named columns, in
// the given order.
func (t *Table) Select(cols ...string) (*Table, error) {
	if err := t.RequireColumns(cols...); err != nil {
		return nil, err
	}
	o := NewTable(cols...)
	for j, c := range cols {
		src := t.cols[t.index[c]]
		o.cols[j] = append([]Value(nil), src...)
	}
	return o, nil
}

// A Row is a read-only view of one table row.
type Row struct {
	t *Table
	i int
}

// Get returns the cell in the named column.
func (r Row) Get(col string) Value { return r.t.Value(r.i, col) }

// Index returns the row position within its table.
func (r Row) Index() int { return r.i }

// Row returns a view of row i.
func (t *Table) Row(i int) Row { return Row{t: t, i: i} }

// Filter returns a new table holding copies of the rows for which keep
// returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	o := NewTable(t.names...)
	for i := 0; i < t.Len(); i++ {
		if keep(Row{t: t, i: i}) {
			for j := range t.cols {
				o.cols[j] = append(o.cols[j], t.cols[j][i])
			}
		}
	}
	return o
}

// Append adds copies of other's rows to a copy of t. Columns of t that
// other lacks are filled with missing values; columns only in other are
// dropped. This mirrors how proposed-generator sheets, which carry fewer
// plant-level columns, are appended to the existing-generator set.
func (t *Table) Append(other *Table) *Table {
	o := NewTable(t.names...)
	for j := range t.cols {
		o.cols[j] = append([]Value(nil), t.cols[j]...)
	}
	for i := 0; i < other.Len(); i++ {
		for j, name := range o.names {
			if other.HasColumn(name) {
				o.cols[j] = append(o.cols[j], other.Value(i, name))
			} else {
				o.cols[j] = append(o.cols[j], Missing())
			}
		}
	}
	return o
}

// key builds a composite grouping key over the named columns. Missing
// cells get a row-unique token so that two rows with missing key fields
// never land in the same group.
func (t *Table) key(row int, cols []string, distinctMissing bool) string {
	var b bytes.Buffer
	for _, c := range cols {
		v := t.Value(row, c)
		if v.IsMissing() {
			if distinctMissing {
				fmt.Fprintf(&b, "\x00!%d", row)
			} else {
				b.WriteString("\x00?")
			}
		} else if f, ok := numeric(v); ok {
			fmt.Fprintf(&b, "\x00#%g", f)
		} else {
			b.WriteString("\x00s")
			b.WriteString(v.s)
		}
	}
	return b.String()
}

// joinKey is like key but reports rows whose key contains a missing
// cell; such rows can never match anything in a join.
func (t *Table) joinKey(row int, cols []string) (string, bool) {
	for _, c := range cols {
		if t.Value(row, c).IsMissing() {
			return "", false
		}
	}
	return t.key(row, cols, false), true
}

// JoinKind selects the join behavior for Join.
type JoinKind int

const (
	// InnerJoin keeps only rows with a match in the right table.
	InnerJoin JoinKind = iota
	// LeftJoin keeps all left rows, filling unmatched right columns
	// with missing values.
	LeftJoin
)

// Join combines t with right on equality of the named key columns,
// appending right's remaining columns to t's. Right columns whose names
// already exist in t are dropped. Rows with missing key cells never
// match. If a key occurs on multiple right rows, the first is used.
func (t *Table) Join(right *Table, on []string, how JoinKind) (*Table, error) {
	if err := t.RequireColumns(on...); err != nil {
		return nil, err
	}
	if err := right.RequireColumns(on...); err != nil {
		return nil, err
	}
	var rightCols []string
	for _, n := range right.names {
		if !t.HasColumn(n) {
			rightCols = append(rightCols, n)
		}
	}
	lookup := make(map[string]int, right.Len())
	for i := 0; i < right.Len(); i++ {
		k, ok := right.joinKey(i, on)
		if !ok {
			continue
		}
		if _, seen := lookup[k]; !seen {
			lookup[k] = i
		}
	}
	o := NewTable(append(t.Columns(), rightCols...)...)
	for i := 0; i < t.Len(); i++ {
		k, keyOK := t.joinKey(i, on)
		ri, matched := -1, false
		if keyOK {
			ri, matched = lookup[k]
		}
		if !matched && how == InnerJoin {
			continue
		}
		vals := make([]Value, 0, len(o.names))
		for _, n := range t.names {
			vals = append(vals, t.Value(i, n))
		}
		for _, n := range rightCols {
			if matched {
				vals = append(vals, right.Value(ri, n))
			} else {
				vals = append(vals, Missing())
			}
		}
		o.AppendRow(vals...)
	}
	return o, nil
}

// Aggregate groups rows by the named key columns and reduces every
// column of the result to one row per group: columns listed in sum are
// summed over non-missing values, and all others take the maximum value
// within the group. The output is a new table with columns in the order
// given by keep, which must include the grouping keys; a nil keep
// carries every column through. Grouping keys with missing cells form
// single-row groups.
func (t *Table) Aggregate(groupBy []string, sum []string, keep []string) (*Table, error) {
	if err := t.RequireColumns(groupBy...); err != nil {
		return nil, err
	}
	if keep == nil {
		keep = t.Columns()
	}
	if err := t.RequireColumns(keep...); err != nil {
		return nil, err
	}
	summed := make(map[string]bool, len(sum))
	for _, c := range sum {
		summed[c] = true
	}
	groups := make(map[string][]int)
	var order []string
	for i := 0; i < t.Len(); i++ {
		k := t.key(i, groupBy, true)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}
	o := NewTable(keep...)
	for _, k := range order {
		rows := groups[k]
		vals := make([]Value, len(keep))
		for j, c := range keep {
			if summed[c] {
				vals[j] = sumValues(t, c, rows)
			} else {
				vals[j] = maxValue(t, c, rows)
			}
		}
		o.AppendRow(vals...)
	}
	return o, nil
}

func sumValues(t *Table, col string, rows []int) Value {
	var total float64
	any := false
	for _, i := range rows {
		if f, ok := t.Value(i, col).Float(); ok {
			total += f
			any = true
		}
	}
	if !any {
		return Missing()
	}
	return Float(total)
}

func maxValue(t *Table, col string, rows []int) Value {
	best := Missing()
	for _, i := range rows {
		if v := t.Value(i, col); best.less(v) {
			best = v
		}
	}
	return best
}

// A Family names one wide monthly column family to be unpivoted: the
// narrow output column Name is filled from the wide columns
// fmt.Sprintf(Pattern, month).
type Family struct {
	Name    string
	Pattern string
}

// UnpivotMonths converts a wide table with 12-month column families to
// narrow format: one output row per (input row, month), with a leading
// Month column, the id columns, and one column per family. The narrow
// form is a deterministic unpivot of the wide form, never independently
// computed.
func (t *Table) UnpivotMonths(idCols []string, families []Family) (*Table, error) {
	if err := t.RequireColumns(idCols...); err != nil {
		return nil, err
	}
	names := append([]string{"Month"}, idCols...)
	for _, f := range families {
		names = append(names, f.Name)
	}
	for _, f := range families {
		for m := 1; m <= 12; m++ {
			if err := t.RequireColumns(fmt.Sprintf(f.Pattern, m)); err != nil {
				return nil, err
			}
		}
	}
	o := NewTable(names...)
	for m := 1; m <= 12; m++ {
		for i := 0; i < t.Len(); i++ {
			vals := make([]Value, 0, len(names))
			vals = append(vals, Int(int64(m)))
			for _, c := range idCols {
				vals = append(vals, t.Value(i, c))
			}
			for _, f := range families {
				vals = append(vals, t.Value(i, fmt.Sprintf(f.Pattern, m)))
			}
			o.AppendRow(vals...)
		}
	}
	return o, nil
}

// gobTable is the wire form of a Table for the disk cache.
type gobTable struct {
	Names []string
	Cells [][]string
	Miss  [][]bool
}

// GobEncode implements gob.GobEncoder so parsed form-year tables can be
// memoized to disk.
func (t *Table) GobEncode() ([]byte, error) {
	g := gobTable{Names: t.names, Cells: make([][]string, len(t.cols)), Miss: make([][]bool, len(t.cols))}
	for j, col := range t.cols {
		g.Cells[j] = make([]string, len(col))
		g.Miss[j] = make([]bool, len(col))
		for i, v := range col {
			g.Cells[j][i] = v.String()
			g.Miss[j][i] = v.IsMissing()
		}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (t *Table) GobDecode(b []byte) error {
	var g gobTable
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&g); err != nil {
		return err
	}
	*t = *NewTable(g.Names...)
	for j := range g.Cells {
		col := make([]Value, len(g.Cells[j]))
		for i, s := range g.Cells[j] {
			if g.Miss[j][i] {
				col[i] = Missing()
			} else {
				col[i] = ParseValue(s)
			}
		}
		t.cols[j] = col
	}
	return nil
}
