package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version    = "2.0.0"
	configPath string

	rootCmd = &cobra.Command{
		Use:   "fleetscope",
		Short: "Multi-cloud Kubernetes cluster inventory",
		Long: `FleetScope - Multi-cloud Kubernetes cluster inventory

FleetScope aggregates EKS, GKE and AKS clusters across all configured
accounts into one unified inventory, persists it as a queryable snapshot,
and provisions new clusters through a GitOps flow.`,
		Version: version,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/cloud_config.yaml", "Path to the cloud configuration file")
	rootCmd.SetVersionTemplate(`FleetScope {{.Version}} - Multi-cloud Kubernetes cluster inventory
`)
}
