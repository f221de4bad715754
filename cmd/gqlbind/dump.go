package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

func newDumpCmd() *cobra.Command {
	var (
		format string
		types  []string
		output string
	)
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the JSON Schema of the bound models",
		Long:  `Writes one JSON Schema document per bound model, keyed by GraphQL type name, as JSON, YAML or MessagePack.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, table, err := loadTable(cmd)
			if err != nil {
				return err
			}
			if len(types) == 0 {
				types = table.Names()
			}
			doc := make(map[string]any, len(types))
			for _, name := range types {
				m, ok := table.Lookup(name)
				if !ok {
					return fmt.Errorf("no model bound to %q", name)
				}
				doc[name] = m.JSONSchema()
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return encode(out, format, doc)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml or msgpack")
	cmd.Flags().StringSliceVarP(&types, "type", "t", nil, "GraphQL types to dump (default all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "msgpack":
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
