package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/syssam/gqlbind"
)

func newValidateCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "validate TYPE [FILE]",
		Short: "Validate a value against a bound model",
		Long:  `Reads a JSON or YAML object from FILE, or stdin when FILE is omitted or "-", validates it against the model bound to TYPE and prints the accepted values.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, err := loadTable(cmd)
			if err != nil {
				return err
			}
			input, err := readInput(cmd, args[1:])
			if err != nil {
				return err
			}
			values, err := table.Validate(args[0], input)
			var verr *gqlbind.ValidationError
			if errors.As(err, &verr) {
				for _, v := range verr.Violations {
					fmt.Fprintln(cmd.ErrOrStderr(), v)
				}
				return fmt.Errorf("%d validation errors for %s", len(verr.Violations), args[0])
			}
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), format, values)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml or msgpack")
	return cmd
}

// readInput decodes a JSON or YAML object. YAML is a superset of JSON, so a
// single decoder reads both.
func readInput(cmd *cobra.Command, args []string) (map[string]any, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var input map[string]any
	if err := yaml.NewDecoder(r).Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("decode input: %w", err)
	}
	return input, nil
}
