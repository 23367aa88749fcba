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

// Command genfleet derives a region's generator fleet from EIA survey
// forms.
package main

import (
	"fmt"
	"os"

	"github.com/switch-model/genfleet/genfleetutil"
)

func main() {
	if err := genfleetutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
