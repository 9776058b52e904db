package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brokeragehq/backoffice/client"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor()
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor() error {
	fmt.Println("\nBack-office Doctor")
	fmt.Println("==================")

	var results []checkResult

	// 1. Config file.
	cfgPath, cfgErr := doctorConfigPath()
	if cfgErr != nil {
		results = append(results, checkResult{
			Name: "Config file", Passed: false,
			Detail: cfgPath,
			Hint:   "Create ~/.backoffice/config.yaml or set BACKOFFICE_URL / BACKOFFICE_API_KEY",
		})
	} else {
		results = append(results, checkResult{
			Name: "Config file", Passed: true,
			Detail: fmt.Sprintf("found (%s)", cfgPath),
		})
	}

	// 2. Server URL and API key (already resolved by PersistentPreRun).
	results = append(results, checkResult{
		Name: "Server URL", Passed: flagURL != "", Detail: flagURL,
		Hint: "Set --url or BACKOFFICE_URL",
	})

	if flagKey == "" {
		results = append(results, checkResult{
			Name: "API key", Passed: false,
			Hint: "Set --api-key or BACKOFFICE_API_KEY",
		})
	} else {
		results = append(results, checkResult{
			Name: "API key", Passed: true, Detail: "configured",
		})
	}

	// 3. Server reachability and auth.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	health, err := apiClient.Health(ctx)
	if err != nil {
		results = append(results, checkResult{
			Name: "Server health", Passed: false,
			Detail: err.Error(),
			Hint:   "Is backofficed running at " + flagURL + "?",
		})
	} else {
		results = append(results, checkResult{
			Name: "Server health", Passed: true,
			Detail: fmt.Sprintf("version %s, database %s", health.Version, health.Database),
		})

		// Health is unauthenticated; an authenticated list proves the key.
		_, err = apiClient.Clients.List(ctx, &client.ClientListOptions{Limit: 1})
		if err != nil {
			results = append(results, checkResult{
				Name: "Authentication", Passed: false,
				Detail: err.Error(),
				Hint:   "Provision a key with: backoffice user add <name>",
			})
		} else {
			results = append(results, checkResult{Name: "Authentication", Passed: true})
		}
	}

	failed := 0
	for _, r := range results {
		mark := "ok"
		if !r.Passed {
			mark = "FAIL"
			failed++
		}
		fmt.Printf("  [%-4s] %-15s %s\n", mark, r.Name, r.Detail)
		if !r.Passed && r.Hint != "" {
			fmt.Printf("         hint: %s\n", r.Hint)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	fmt.Println("\nAll checks passed.")
	return nil
}

// doctorConfigPath reports whether the config file exists and parses.
func doctorConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(home, ".backoffice", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return path, err
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return path, err
	}
	return path, nil
}
