package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tonhe/iotmon/internal/config"
	"github.com/tonhe/iotmon/internal/dashboard"
)

func dashboardsCmd() {
	dir, err := config.GetDashboardsDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	names, err := dashboard.ListDashboards(dir)
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(names) == 0 {
		fmt.Printf("No dashboards in %s.\n", dir)
		return
	}

	for _, name := range names {
		d, err := dashboard.LoadDashboard(filepath.Join(dir, name+".toml"))
		if err != nil {
			fmt.Printf("%-20s  error=%v\n", name, err)
			continue
		}
		line := fmt.Sprintf("%-20s  endpoint=%s  interval=%s", d.Name, d.Endpoint, d.Interval)
		if d.Timeout != d.Interval {
			line += fmt.Sprintf("  timeout=%s", d.Timeout)
		}
		fmt.Println(line)
	}
}
