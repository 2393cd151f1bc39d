package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/tonhe/sysglance/internal/config"
	"github.com/tonhe/sysglance/internal/dashboard"
)

func dashboardsCmd() {
	names := listDashboards()
	current := LoadOrDefaultConfig().Dashboard
	for _, name := range names {
		marker := " "
		if name == current {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, name)
	}
}

// listDashboards returns the dashboards on disk plus the built-in default.
func listDashboards() []string {
	var names []string
	if dir, err := config.GetDashboardsDir(); err == nil {
		found, err := dashboard.ListDashboards(dir)
		if err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		names = found
	}
	if !slices.Contains(names, "default") {
		names = append(names, "default")
	}
	slices.Sort(names)
	return names
}

func dashboardExists(name string) bool {
	return slices.Contains(listDashboards(), name)
}
