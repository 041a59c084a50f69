package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/barb"
	"github.com/user/barb/reflecthost"
	"github.com/user/barb/syntax"
)

func newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <expression>",
		Short: "Run a non-final pass and print the residual tree.",
		Long: `explain reduces as far as possible without requiring every
reference to resolve, then prints what's left — useful for seeing why an
expression didn't fully specialize (a binding that's only promised for
later, a host member the active namespaces can't see, and so on).`,
		Args: cobra.ExactArgs(1),
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
			roots, _, err := barb.ReduceNonFinal(context.Background(), []barb.Node{*root}, settings.Env(), settings, host)
			if err != nil {
				return err
			}

			for _, n := range roots {
				dumpNode(cmd.OutOrStdout(), n, 0)
			}
			return nil
		},
	}
	return cmd
}

func dumpNode(w interface{ Write([]byte) (int, error) }, n barb.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	marker := ""
	if n.Unresolved {
		marker = " (unresolved)"
	}

	switch n.Kind.String() {
	case "Obj":
		fmt.Fprintf(w, "%sObj%s = %#v\n", indent, marker, n.Value)
		return
	case "Unknown":
		fmt.Fprintf(w, "%sUnknown%s %q\n", indent, marker, n.Name)
		return
	}

	fmt.Fprintf(w, "%s%s%s [%d,%d)\n", indent, n.Kind, marker, n.Offset, n.Offset+n.Length)
	for _, item := range n.Items {
		dumpNode(w, item, depth+1)
	}
	for _, child := range []*barb.Node{n.Left, n.Right, n.Cond, n.Then, n.Else, n.Start, n.Step, n.End, n.BindValue, n.BindScope, n.Body} {
		if child != nil {
			dumpNode(w, *child, depth+1)
		}
	}
}
