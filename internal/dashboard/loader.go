package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// LoadDashboard reads a TOML file at path and returns a populated Dashboard.
// It applies defaults for missing fields: the kind's interval, 60
// max_history, and the file's base name as the dashboard name.
func LoadDashboard(path string) (*Dashboard, error) {
	var dash Dashboard
	if _, err := toml.DecodeFile(path, &dash); err != nil {
		return nil, err
	}
	if dash.Name == "" {
		dash.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if dash.MaxHistory == 0 {
		dash.MaxHistory = 60
	}
	seen := make(map[Kind]bool)
	for i := range dash.Sources {
		src := &dash.Sources[i]
		if !src.Kind.Valid() {
			return nil, fmt.Errorf("dashboard %q: unknown source kind %q", dash.Name, src.Kind)
		}
		if seen[src.Kind] {
			return nil, fmt.Errorf("dashboard %q: source %q listed twice", dash.Name, src.Kind)
		}
		seen[src.Kind] = true
		if src.IntervalStr != "" {
			d, err := time.ParseDuration(src.IntervalStr)
			if err == nil && d > 0 {
				src.Interval = d
			}
		}
		if src.Interval == 0 {
			src.Interval = DefaultIntervals[src.Kind]
		}
	}
	return &dash, nil
}

// Resolve loads the named dashboard from dir, falling back to the built-in
// default when name is "default" and no such file exists.
func Resolve(dir, name string) (*Dashboard, error) {
	path := filepath.Join(dir, name+".toml")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && name == "default" {
			return DefaultDashboard(), nil
		}
		return nil, err
	}
	return LoadDashboard(path)
}

// SaveDashboard writes a Dashboard to a TOML file at path.
// It serialises each source Interval into IntervalStr before encoding.
func SaveDashboard(dash *Dashboard, path string) error {
	for i := range dash.Sources {
		dash.Sources[i].IntervalStr = dash.Sources[i].Interval.String()
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(dash)
}

// ListDashboards returns the base names (without .toml extension) of all TOML
// files found in dir.
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
	return names, nil
}
