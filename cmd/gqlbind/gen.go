package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/gqlbind/gen"
)

func newGenCmd() *cobra.Command {
	var (
		out     string
		pkg     string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate Go structs for the bound models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, table, err := loadTable(cmd)
			if err != nil {
				return err
			}
			if out == "" {
				out = f.OutputDir()
			}
			if pkg == "" {
				pkg = f.Output.Package
			}
			g := gen.New(table, out,
				gen.WithPackage(pkg),
				gen.WithWorkers(workers),
				gen.WithLogger(logger(cmd)),
			)
			if err := g.Generate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generated %d models in %s\n", table.Len(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory (default from project file)")
	cmd.Flags().StringVarP(&pkg, "package", "p", "", "Package name (default from project file)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Files rendered concurrently (default GOMAXPROCS)")
	return cmd
}
