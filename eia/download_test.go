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
	"path/filepath"
	"testing"
)

func TestFormURL(t *testing.T) {
	tests := []struct {
		form  Form
		month string
		year  int
		want  string
	}{
		{Form860, "", 2018,
			"https://www.eia.gov/electricity/data/eia860/xls/eia8602018.zip"},
		{Form860M, "May", 2019,
			"https://www.eia.gov/electricity/data/eia860m/xls/may_generator2019.xlsx"},
		{Form923, "", 2012,
			"https://www.eia.gov/electricity/data/eia923/xls/f923_2012.zip"},
		// Before 2008 the data was collected as forms EIA-906/920.
		{Form923, "", 2006,
			"https://www.eia.gov/electricity/data/eia923/archive/xls/f906920_2006.zip"},
	}
	for _, test := range tests {
		have, err := formURL(test.form, test.month, test.year)
		if err != nil {
			t.Fatal(err)
		}
		if have != test.want {
			t.Errorf("%s %d: want %s but have %s", test.form, test.year, test.want, have)
		}
	}
	if _, err := formURL(Form("eia999"), "", 2018); err == nil {
		t.Error("want an error for an unknown form")
	}
}

func TestFormDir(t *testing.T) {
	want := filepath.Join("data", "eia860_2018")
	if have := formDir("data", Form860, 2018); have != want {
		t.Errorf("want %s but have %s", want, have)
	}
}
