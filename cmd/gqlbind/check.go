package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Bind the project models and list them",
		Long:  `Binds every model declared in the project file and reports the first binding error, or the bound models and their field types.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, table, err := loadTable(cmd)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, m := range table.Models() {
				origin := "declared"
				if m.Implicit {
					origin = "implicit"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, m.GQLType, origin)
				for _, f := range m.Fields() {
					fmt.Fprintf(w, "  %s\t%s\t\n", f.Name, f.Type)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d models bound\n", table.Len())
			return nil
		},
	}
}
