package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brokeragehq/backoffice/client"
)

// Build-time variables set via ldflags.
var (
	version   = "0.3.0"
	commit    = ""
	buildDate = ""
)

var (
	apiClient *client.Client
	flagURL   string
	flagKey   string
	flagFmt   string
)

const defaultURL = "http://localhost:8080"

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("backoffice version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("backoffice version %s-dev", version)
}

type configFile struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`

	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "backoffice",
		Short:   "Back-office CLI — brokerage administration and change auditing",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			var opts []client.Option
			if flagKey != "" {
				opts = append(opts, client.WithAPIKey(flagKey))
			}
			apiClient = client.New(flagURL, opts...)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "Back-office server URL (env: BACKOFFICE_URL)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "api-key", "", "API key (env: BACKOFFICE_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")

	userCmd := newUserCmd()
	userCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // talks to the database, not the API

	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newClientCmd())
	rootCmd.AddCommand(newAccountCmd())
	rootCmd.AddCommand(newInstrumentCmd())
	rootCmd.AddCommand(newOrderCmd())
	rootCmd.AddCommand(newTxCmd())
	rootCmd.AddCommand(newChangesCmd())
	rootCmd.AddCommand(userCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfig() {
	// Flag takes precedence, then env, then config file.
	if flagURL == defaultURL {
		if v := os.Getenv("BACKOFFICE_URL"); v != "" {
			flagURL = v
		}
	}
	if flagKey == "" {
		flagKey = os.Getenv("BACKOFFICE_API_KEY")
	}

	// Try config file for any remaining defaults.
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	cfgPath := filepath.Join(home, ".backoffice", "config.yaml")
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return
	}

	resolvedURL, resolvedKey := resolveProfile(&cfg)
	if flagURL == defaultURL && resolvedURL != "" {
		flagURL = resolvedURL
	}
	if flagKey == "" {
		flagKey = resolvedKey
	}
}

// resolveProfile picks the active profile when profiles are configured,
// falling back to the flat url/api_key fields.
func resolveProfile(cfg *configFile) (string, string) {
	if cfg.Profiles == nil {
		return cfg.URL, cfg.APIKey
	}

	name := cfg.ActiveProfile
	if name == "" {
		name = "default"
	}
	p, ok := cfg.Profiles[name]
	if !ok {
		return cfg.URL, cfg.APIKey
	}
	return p.URL, p.APIKey
}

func fatal(action string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", action, err)
	os.Exit(1)
}
