package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// LoadDashboard reads a TOML file at path and returns a populated Dashboard.
// A missing name defaults to the file's base name; every other missing field
// gets the package defaults.
func LoadDashboard(path string) (*Dashboard, error) {
	var dash Dashboard
	if _, err := toml.DecodeFile(path, &dash); err != nil {
		return nil, err
	}
	if dash.IntervalStr != "" {
		d, err := time.ParseDuration(dash.IntervalStr)
		if err != nil {
			return nil, fmt.Errorf("interval: %w", err)
		}
		dash.Interval = d
	}
	if dash.TimeoutStr != "" {
		d, err := time.ParseDuration(dash.TimeoutStr)
		if err != nil {
			return nil, fmt.Errorf("timeout: %w", err)
		}
		dash.Timeout = d
	}
	if dash.Name == "" {
		dash.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	dash.ApplyDefaults()
	return &dash, nil
}

// SaveDashboard writes a Dashboard to a TOML file at path.
// It serialises the durations into their string fields before encoding.
func SaveDashboard(dash *Dashboard, path string) error {
	dash.IntervalStr = dash.Interval.String()
	dash.TimeoutStr = ""
	if dash.Timeout > 0 && dash.Timeout != dash.Interval {
		dash.TimeoutStr = dash.Timeout.String()
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(dash)
}

// ListDashboards returns the sorted base names (without .toml extension) of
// all TOML files found in dir.
func ListDashboards(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".toml") {
			name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
