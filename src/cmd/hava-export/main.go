package main

import (
	"fmt"
	"os"

	"github.com/gh-nvat/hava-export/src/internal/runner"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command, parse args from CLI
func newRootCmd() *cobra.Command {
	opts := &runner.Options{}

	cmd := &cobra.Command{
		Use:   "hava-export",
		Short: "Sync a Hava source and export an environment view as a PNG",
		Long: `hava-export triggers a sync of a Hava data source, waits for the sync job to finish,
then exports a view of an environment as a PNG image and writes it to disk.
Inputs can also be given as GitHub Action inputs (INPUT_<NAME>) or HAVA_<NAME> environment variables.`,
		Version:       fmt.Sprintf("%s (built: %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.Flags().Changed("skip-export"))
		},
	}

	// Run mode
	cmd.Flags().StringVar(&opts.RunMode, "run-mode", runner.RunModeGitHub, "Run mode: github or local")

	// Pipeline inputs
	cmd.Flags().StringVar(&opts.SourceID, "source-id", "", "ID of the Hava source to sync (UUID)")
	cmd.Flags().StringVar(&opts.EnvironmentID, "environment-id", "",
		"ID of the Hava environment to export (UUID), required unless --skip-export")
	cmd.Flags().StringVar(&opts.ViewType, "view-type", "",
		"View to export: infrastructure, security or container, required unless --skip-export")
	cmd.Flags().StringVar(&opts.HavaToken, "hava-token", "", "Hava API token (prefer HAVA_TOKEN)")
	cmd.Flags().StringVar(&opts.ImagePath, "image-path", "",
		"Path of the PNG file to write, required unless --skip-export")
	cmd.Flags().BoolVar(&opts.SkipExport, "skip-export", false, "Only sync the source, do not export")

	// Common flags
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Optional YAML file tuning the API client and job polling")
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", "", "Optional dotenv file to load before resolving inputs")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Debug mode")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "./output",
		"Output directory for reports")
	cmd.Flags().BoolVar(&opts.EnableExportReport, "enable-export-report", false, "Enable export report (json file to output dir)")
	cmd.Flags().BoolVar(&opts.EnableExportPerformanceReport, "enable-export-performance-report", false, "Enable export performance report (json file to output dir)")

	// GitHub mode flags
	cmd.Flags().StringVar(&opts.GhRepo, "gh-repo", "",
		"GitHub repository (e.g., org/repo) to comment on [github mode]")
	cmd.Flags().IntVar(&opts.GhPrNumber, "gh-pr-number", 0,
		"GitHub PR number to comment on [github mode]")

	return cmd
}
