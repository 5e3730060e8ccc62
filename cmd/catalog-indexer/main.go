package main

import (
	"context"
	"os"

	"github.com/coursegraph/catalog-indexer/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is injected at build time
	Version = "dev"
	// Build is injected at build time
	Build = "unknown"
	// ProgramName is injected at build time
	ProgramName = "catalog-indexer"
)

func main() {
	runMain(os.Args, os.Exit)
}

func runMain(args []string, exit func(int)) {
	if err := Execute(Version, Build, ProgramName, args[1:]); err != nil {
		exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing
func Execute(version, build, programName string, args []string) error {
	rootCmd := &cobra.Command{
		Use:     programName,
		Short:   "Course catalog indexer",
		Long:    "Converts monthly plain-text course catalog dumps into a structured index of colleges, degree programs and courses",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithFlags(cmd.Flags(), version)
		},
	}

	rootCmd.SetVersionTemplate(`{{.Version}}
`)

	app.RegisterFlags(rootCmd.Flags())

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the course index built by a previous run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			college, _ := cmd.Flags().GetString("college")
			maxResults, _ := cmd.Flags().GetInt("max-results")
			return app.RunSearch(cmd.Flags(), args[0], college, maxResults)
		},
	}
	app.RegisterFlags(searchCmd.Flags())
	searchCmd.Flags().String("college", "", "Restrict hits to one college")
	searchCmd.Flags().Int("max-results", 0, "Maximum number of hits")
	rootCmd.AddCommand(searchCmd)

	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

func runWithFlags(flags *pflag.FlagSet, version string) error {
	return app.RunWithDeps(context.Background(), app.DefaultRunParams(), flags, version)
}
