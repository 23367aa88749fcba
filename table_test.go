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
	"reflect"
	"testing"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{"", Missing()},
		{".", Missing()},
		{"42", Int(42)},
		{"42.5", Float(42.5)},
		{"Deer Creek", String("Deer Creek")},
		{" ", String(" ")},
	}
	for _, test := range tests {
		have := ParseValue(test.in)
		if !reflect.DeepEqual(test.want, have) {
			t.Errorf("ParseValue(%q): want %v but have %v", test.in, test.want, have)
		}
	}
}

func TestValueFloat(t *testing.T) {
	if _, ok := Missing().Float(); ok {
		t.Error("missing value should not convert to float")
	}
	if f, ok := Int(3).Float(); !ok || f != 3 {
		t.Errorf("want 3 but have %v (ok=%v)", f, ok)
	}
	if f, ok := String("6.25").Float(); !ok || f != 6.25 {
		t.Errorf("want 6.25 but have %v (ok=%v)", f, ok)
	}
	if _, ok := String("n/a").Float(); ok {
		t.Error("non-numeric string should not convert to float")
	}
}

func TestAggregateMissingKeysDistinct(t *testing.T) {
	// Two rows with missing unit codes must not merge with each other.
	tbl := NewTable("Plant Code", "Unit Code", "Nameplate Capacity (MW)")
	tbl.AppendRow(Int(1), Missing(), Float(10))
	tbl.AppendRow(Int(1), Missing(), Float(20))
	tbl.AppendRow(Int(1), String("A"), Float(5))
	tbl.AppendRow(Int(1), String("A"), Float(5))

	o, err := tbl.Aggregate([]string{"Plant Code", "Unit Code"},
		[]string{"Nameplate Capacity (MW)"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if o.Len() != 3 {
		t.Fatalf("want 3 groups but have %d", o.Len())
	}
	var total float64
	for i := 0; i < o.Len(); i++ {
		v, _ := o.Value(i, "Nameplate Capacity (MW)").Float()
		total += v
	}
	if total != 40 {
		t.Errorf("capacity not conserved: want 40 but have %v", total)
	}
}

func TestJoinMissingKeyNeverMatches(t *testing.T) {
	left := NewTable("Plant Code", "State")
	left.AppendRow(Int(1), String("CA"))
	left.AppendRow(Missing(), String("OR"))

	right := NewTable("Plant Code", "County")
	right.AppendRow(Int(1), String("Kern"))
	right.AppendRow(Missing(), String("Lane"))

	o, err := left.Join(right, []string{"Plant Code"}, LeftJoin)
	if err != nil {
		t.Fatal(err)
	}
	if o.Len() != 2 {
		t.Fatalf("want 2 rows but have %d", o.Len())
	}
	if have := o.Value(0, "County").String(); have != "Kern" {
		t.Errorf("want Kern but have %q", have)
	}
	if !o.Value(1, "County").IsMissing() {
		t.Errorf("missing key should not match: have %v", o.Value(1, "County"))
	}
}

func TestInnerJoinDropsUnmatched(t *testing.T) {
	left := NewTable("Plant Code", "State")
	left.AppendRow(Int(1), String("CA"))
	left.AppendRow(Int(2), String("WA"))

	right := NewTable("Plant Code", "County")
	right.AppendRow(Int(1), String("Kern"))

	o, err := left.Join(right, []string{"Plant Code"}, InnerJoin)
	if err != nil {
		t.Fatal(err)
	}
	if o.Len() != 1 {
		t.Fatalf("want 1 row but have %d", o.Len())
	}
}

func TestAppendUnionSchema(t *testing.T) {
	a := NewTable("Plant Code", "State")
	a.AppendRow(Int(1), String("CA"))
	b := NewTable("Plant Code", "County")
	b.AppendRow(Int(2), String("Lane"))

	o := a.Append(b)
	if o.Len() != 2 {
		t.Fatalf("want 2 rows but have %d", o.Len())
	}
	if !o.Value(0, "County").IsMissing() {
		t.Error("row from a should have missing County")
	}
	if !o.Value(1, "State").IsMissing() {
		t.Error("row from b should have missing State")
	}
	if have, _ := o.Value(1, "Plant Code").Int(); have != 2 {
		t.Errorf("want 2 but have %d", have)
	}
}

func TestRequireColumns(t *testing.T) {
	tbl := NewTable("Plant Code")
	if err := tbl.RequireColumns("Plant Code"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := tbl.RequireColumns("Nameplate Capacity (MW)"); err == nil {
		t.Error("want error for absent column but have nil")
	}
}

func TestSelectAndRename(t *testing.T) {
	tbl := NewTable("a", "b", "c")
	tbl.AppendRow(Int(1), Int(2), Int(3))
	o, err := tbl.Select("c", "a")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"c", "a"}; !reflect.DeepEqual(want, o.Columns()) {
		t.Errorf("want %v but have %v", want, o.Columns())
	}
	if err := o.Rename("c", "d"); err != nil {
		t.Fatal(err)
	}
	if have, _ := o.Value(0, "d").Int(); have != 3 {
		t.Errorf("want 3 but have %d", have)
	}
}

func TestUnpivotMonths(t *testing.T) {
	names := []string{"Plant Code"}
	vals := []Value{Int(7)}
	for m := 1; m <= 12; m++ {
		names = append(names, fmt.Sprintf(PatNetGeneration, m))
		vals = append(vals, Float(float64(m)))
	}
	tbl := NewTable(names...)
	tbl.AppendRow(vals...)

	o, err := tbl.UnpivotMonths([]string{"Plant Code"},
		[]Family{{Name: "Net Generation", Pattern: PatNetGeneration}})
	if err != nil {
		t.Fatal(err)
	}
	if o.Len() != 12 {
		t.Fatalf("want 12 rows but have %d", o.Len())
	}
	for i := 0; i < o.Len(); i++ {
		month, _ := o.Value(i, "Month").Int()
		g, _ := o.Value(i, "Net Generation").Float()
		if float64(month) != g {
			t.Errorf("month %d: want %d but have %v", month, month, g)
		}
	}
}

func TestGobRoundTrip(t *testing.T) {
	tbl := NewTable("Plant Code", "Plant Name", "Nameplate Capacity (MW)")
	tbl.AppendRow(Int(55), String("John Day"), Float(2160.5))
	tbl.AppendRow(Int(56), Missing(), Missing())

	b, err := tbl.GobEncode()
	if err != nil {
		t.Fatal(err)
	}
	var o Table
	if err := o.GobDecode(b); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tbl.Columns(), o.Columns()) {
		t.Errorf("want %v but have %v", tbl.Columns(), o.Columns())
	}
	for i := 0; i < tbl.Len(); i++ {
		for _, c := range tbl.Columns() {
			want, have := tbl.Value(i, c), o.Value(i, c)
			if want.IsMissing() != have.IsMissing() || (!want.IsMissing() && !want.Equal(have)) {
				t.Errorf("row %d %s: want %v but have %v", i, c, want, have)
			}
		}
	}
}
