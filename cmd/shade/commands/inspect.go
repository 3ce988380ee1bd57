package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/shade/internal/app"
	"go.trai.ch/shade/internal/ui/output"
	"go.trai.ch/shade/internal/ui/style"
)

func (c *CLI) newLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <file>",
		Short: "Print a source file with every include inlined",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := c.app.Link(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func (c *CLI) newBindingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bindings <file>",
		Short: "Print the binding names declared by a source file and its includes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := c.app.Bindings(args[0])
			if err != nil {
				return err
			}
			for _, name := range names {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls [dir]",
		Short: "List shader stages below a directory with their include trees",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.ListOptions{ConfigOptions: c.configOptions()}
			if len(args) == 1 {
				opts.Dir = args[0]
			}
			opts.Ignores, _ = cmd.Flags().GetStringSlice("ignore")

			entries, err := c.app.List(opts)
			if err != nil {
				return err
			}
			renderEntries(cmd, entries)
			return nil
		},
	}
	cmd.Flags().StringSlice("ignore", nil, "Skip files and directories matching these patterns")
	return cmd
}

func renderEntries(cmd *cobra.Command, entries []app.ShaderEntry) {
	w := cmd.OutOrStdout()
	r := output.NewRenderer(w)
	accent := style.Accent.Renderer(r)
	muted := style.Muted.Renderer(r)
	failure := style.Failure.Renderer(r)

	for _, e := range entries {
		if e.Err != nil {
			msg, _, _ := strings.Cut(e.Err.Error(), "\n")
			_, _ = fmt.Fprintf(w, "%s %s %s\n", failure.Render(style.Cross), e.Path, muted.Render(msg))
			continue
		}
		_, _ = fmt.Fprintf(w, "%s %s %s\n", accent.Render(style.Dot), e.Path, muted.Render(strings.ToLower(e.Kind.String())))
		for _, inc := range e.Includes {
			_, _ = fmt.Fprintf(w, "  %s %s\n", muted.Render(style.Arrow), inc)
		}
	}
}
