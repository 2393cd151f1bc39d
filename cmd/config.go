package cmd

import (
	"fmt"
	"os"

	"github.com/tonhe/sysglance/internal/config"
	"github.com/tonhe/sysglance/tui/styles"
)

func configCmd(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: sysglance config <path|theme|dashboard>")
		os.Exit(1)
	}

	switch args[0] {
	case "path":
		configPath()
	case "theme":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: sysglance config theme NAME")
			os.Exit(1)
		}
		configSetTheme(args[1])
	case "dashboard":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: sysglance config dashboard NAME")
			os.Exit(1)
		}
		configSetDashboard(args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: sysglance config <path|theme|dashboard>")
		os.Exit(1)
	}
}

func configPath() {
	path, err := config.GetConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(path)
}

func configSetTheme(name string) {
	if styles.GetThemeByName(name) == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown theme %q\n", name)
		fmt.Fprintln(os.Stderr, "Run 'sysglance themes' to see available themes.")
		os.Exit(1)
	}

	cfg := LoadOrDefaultConfig()
	cfg.Theme = name
	saveConfig(cfg)

	fmt.Printf("Default theme set to %q.\n", name)
}

func configSetDashboard(name string) {
	if !dashboardExists(name) {
		fmt.Fprintf(os.Stderr, "Error: unknown dashboard %q\n", name)
		fmt.Fprintln(os.Stderr, "Run 'sysglance dashboards' to see available dashboards.")
		os.Exit(1)
	}

	cfg := LoadOrDefaultConfig()
	cfg.Dashboard = name
	saveConfig(cfg)

	fmt.Printf("Default dashboard set to %q.\n", name)
}

func themesCmd() {
	for _, name := range styles.ListThemes() {
		fmt.Println(name)
	}
}

// LoadOrDefaultConfig loads the config from disk, falling back to defaults.
func LoadOrDefaultConfig() *config.Config {
	path, err := config.GetConfigPath()
	if err != nil {
		return config.DefaultConfig()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring config %s: %v\n", path, err)
		return config.DefaultConfig()
	}
	return cfg
}

// saveConfig writes the config to disk, creating directories as needed.
func saveConfig(cfg *config.Config) {
	if err := config.EnsureDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config directories: %v\n", err)
		os.Exit(1)
	}

	path, err := config.GetConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.SaveConfig(cfg, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}
}
