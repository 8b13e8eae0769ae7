package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lyric-engineering/fleetscope/config"
	"github.com/lyric-engineering/fleetscope/provision"
	"github.com/lyric-engineering/fleetscope/telemetry"
)

var (
	provisionReq    provision.Request
	provisionDryRun bool
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create infrastructure configuration for a new cluster",
	Long: `Render a deployment manifest for a new cluster, commit it to the
infrastructure repository and post a chat notification. With --dry-run
the manifest is printed instead of committed.`,
	RunE: runProvision,
}

func init() {
	provisionCmd.Flags().StringVar(&provisionReq.ClusterName, "cluster-name", "", "Name of the cluster to provision (required)")
	provisionCmd.Flags().StringVar(&provisionReq.CustomerCategory, "customer", "", "Customer category for the cluster (required)")
	provisionCmd.Flags().StringVar(&provisionReq.CloudProvider, "provider", "", "Cloud provider (default aws)")
	provisionCmd.Flags().StringVar(&provisionReq.Region, "region", "", "Target region (default us-east-1)")
	provisionCmd.Flags().StringVar(&provisionReq.Environment, "environment", "", "Environment type, prod or notprod (default notprod)")
	provisionCmd.Flags().StringVar(&provisionReq.ComputePlan, "compute-plan", "", "Compute plan (default standard)")
	provisionCmd.Flags().BoolVar(&provisionDryRun, "dry-run", false, "Print the rendered manifest without committing it")
	rootCmd.AddCommand(provisionCmd)
}

func runProvision(cmd *cobra.Command, args []string) error {
	if provisionDryRun {
		provisionReq.ApplyDefaults()
		if err := provisionReq.Validate(); err != nil {
			return err
		}
		manifest, err := provision.RenderApplication(provisionReq)
		if err != nil {
			return fmt.Errorf("render manifest: %w", err)
		}
		_, err = os.Stdout.Write(manifest)
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	telemetry.SetGlobalLevel(cfg.Log.Level)

	provisioner, _, err := buildProvisioner(cfg)
	if err != nil {
		return err
	}
	if provisioner == nil {
		return fmt.Errorf("provisioning is not configured: set provision.github_repo")
	}
	if err := provisioner.Provision(cmd.Context(), provisionReq); err != nil {
		return err
	}

	fmt.Printf("Infrastructure configuration created for %s\n", provisionReq.ClusterName)
	return nil
}
