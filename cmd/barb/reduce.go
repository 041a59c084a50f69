package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/barb"
	"github.com/user/barb/reflecthost"
	"github.com/user/barb/syntax"
)

func newReduceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reduce <expression>",
		Short: "Fully reduce an expression and print its value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(configPath)
			if err != nil {
				return err
			}
			root, diags := syntax.Parse(args[0])
			if err := diagError(diags); err != nil {
				return err
			}

			host := reflecthost.New()
			roots, _, err := barb.Reduce(context.Background(), []barb.Node{*root}, settings.Env(), settings, host)
			if err != nil {
				return err
			}

			value, err := barb.ExtractResult(roots)
			if err != nil {
				return err
			}
			return printValue(cmd, value)
		},
	}
	return cmd
}

func diagError(diags []syntax.Diagnostic) error {
	var msgs []string
	for _, d := range diags {
		if d.Level == syntax.DiagError {
			msgs = append(msgs, fmt.Sprintf("[%d,%d): %s", d.Offset, d.Offset+d.Length, d.Message))
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("parse error: %s", strings.Join(msgs, "; "))
}

func printValue(cmd *cobra.Command, v any) error {
	out, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%v\n", v)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
