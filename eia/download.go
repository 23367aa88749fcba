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
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

const eiaBaseURL = "https://www.eia.gov/electricity/data"

// formURL builds the published archive address for one form year.
// The agency moved older editions under an archive/xls path and used a
// different file prefix for EIA-923 before 2008, when the data was
// collected as forms EIA-906 and EIA-920.
func formURL(form Form, month string, year int) (string, error) {
	switch form {
	case Form860:
		return fmt.Sprintf("%s/eia860/xls/eia860%d.zip", eiaBaseURL, year), nil
	case Form860M:
		return fmt.Sprintf("%s/eia860m/xls/%s_generator%d.xlsx",
			eiaBaseURL, strings.ToLower(month), year), nil
	case Form923:
		if year >= 2008 {
			return fmt.Sprintf("%s/eia923/xls/f923_%d.zip", eiaBaseURL, year), nil
		}
		return fmt.Sprintf("%s/eia923/archive/xls/f906920_%d.zip", eiaBaseURL, year), nil
	}
	return "", fmt.Errorf("eia: unknown form %q", form)
}

// formDir is the extraction directory for one form year under the
// download root.
func formDir(dir string, form Form, year int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%d", form, year))
}

// A Downloader fetches and unpacks the published form archives for a
// range of years, skipping years already present on disk. Completed
// downloads append to a tab-separated log so a partially fetched tree
// is distinguishable from a complete one.
type Downloader struct {
	// Dir is the root of the download tree.
	Dir string
	// Month is the EIA-860M report month to fetch.
	Month string

	Log logrus.FieldLogger
}

// Fetch downloads one form year unless its directory already exists.
func (d *Downloader) Fetch(form Form, year int) error {
	dest := formDir(d.Dir, form, year)
	if _, err := os.Stat(dest); err == nil {
		d.Log.WithFields(logrus.Fields{"form": form, "year": year}).Info("already downloaded")
		return nil
	}
	url, err := formURL(form, d.Month, year)
	if err != nil {
		return err
	}
	d.Log.WithFields(logrus.Fields{"form": form, "year": year, "url": url}).Info("downloading")

	var b []byte
	err = backoff.RetryNotify(
		func() error {
			resp, err := http.Get(url)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("eia: downloading %s: %s", url, resp.Status)
			}
			b, err = ioutil.ReadAll(resp.Body)
			return err
		},
		backoff.NewExponentialBackOff(),
		func(err error, delay time.Duration) {
			d.Log.WithFields(logrus.Fields{"url": url, "retry in": delay}).Warn(err)
		},
	)
	if err != nil {
		return fmt.Errorf("eia: downloading %s: %v", url, err)
	}

	if err := os.MkdirAll(dest, os.ModePerm); err != nil {
		return err
	}
	if filepath.Ext(url) == ".zip" {
		err = unZip(dest, b)
	} else {
		err = ioutil.WriteFile(filepath.Join(dest, filepath.Base(url)), b, 0644)
	}
	if err != nil {
		os.RemoveAll(dest)
		return fmt.Errorf("eia: unpacking %s: %v", url, err)
	}
	return d.logDownload(form, year, url, len(b))
}

// FetchAll downloads the forms the derivation needs: EIA-860 and
// EIA-923 for every year in [start, end], and the latest EIA-860M.
func (d *Downloader) FetchAll(start, end int) error {
	for year := start; year <= end; year++ {
		if err := d.Fetch(Form860, year); err != nil {
			return err
		}
		if err := d.Fetch(Form923, year); err != nil {
			return err
		}
	}
	return d.Fetch(Form860M, end)
}

// logDownload appends one record to the download log, creating it with
// a header line first.
func (d *Downloader) logDownload(form Form, year int, url string, size int) error {
	path := filepath.Join(d.Dir, "downloads.tab")
	_, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if os.IsNotExist(statErr) {
		if _, err := fmt.Fprintf(f, "Form\tYear\tURL\tBytes\tFetched\n"); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(f, "%s\t%d\t%s\t%d\t%s\n",
		form, year, url, size, time.Now().Format("2006-01-02 15:04:05"))
	return err
}

func unZip(dir string, b []byte) error {
	r, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return err
	}
	for _, zf := range r.File {
		saveLoc := filepath.Join(dir, zf.Name)
		if err := os.MkdirAll(filepath.Dir(saveLoc), os.ModePerm); err != nil {
			return err
		}
		if filepath.Ext(saveLoc) == "" {
			continue
		}
		dst, err := os.Create(saveLoc)
		if err != nil {
			return err
		}
		src, err := zf.Open()
		if err != nil {
			dst.Close()
			return err
		}
		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			src.Close()
			return err
		}
		dst.Close()
		src.Close()
	}
	return nil
}
