package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/shade/internal/ui/output"
	"go.trai.ch/shade/internal/ui/style"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Build every program once and report failures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.app.Check(cmd.Context(), c.configOptions())
			if res.Programs == 0 && err != nil {
				return err
			}

			r := output.NewRenderer(cmd.OutOrStdout())
			elapsed := res.Duration.Round(time.Millisecond)
			if res.Failed > 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), style.Failure.Renderer(r).Render(
					fmt.Sprintf("%s %d of %d programs failed", style.Cross, res.Failed, res.Programs)))
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), style.Success.Renderer(r).Render(
				fmt.Sprintf("%s %d programs compiled in %s", style.Check, res.Programs, elapsed)))
			return err
		},
	}
}
