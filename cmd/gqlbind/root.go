package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/gqlbind/binder"
	"github.com/syssam/gqlbind/config"
	"github.com/syssam/gqlbind/internal/logging"
	"github.com/syssam/gqlbind/scalar"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gqlbind",
		Short:         "Bind GraphQL schema types to validation models",
		Long:          `gqlbind resolves the models declared in a project file against GraphQL schema documents, validates values against them and generates Go structs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringP("config", "c", config.DefaultFilename, "Project file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newCheckCmd(),
		newDumpCmd(),
		newGenCmd(),
		newInitCmd(),
		newValidateCmd(),
		newWatchCmd(),
	)
	return cmd
}

func logger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logging.New(cmd.ErrOrStderr(), logging.Level(verbose))
}

func loadProject(cmd *cobra.Command) (*config.File, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// loadTable loads the project file and binds its models.
func loadTable(cmd *cobra.Command, opts ...binder.Option) (*config.File, *binder.Table, error) {
	f, err := loadProject(cmd)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]binder.Option{binder.WithLogger(logger(cmd))}, opts...)
	table, err := f.Build(scalar.Default, opts...)
	if err != nil {
		return nil, nil, err
	}
	return f, table, nil
}
