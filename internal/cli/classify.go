package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teslashibe/eyeguard/pkg/distance"
)

func newClassifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <distance>",
		Short: "Classify an eye distance in pixels with the configured thresholds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := strconv.ParseFloat(args[0], 64)
			if err != nil || d < 0 {
				return fmt.Errorf("invalid distance %q: must be a non-negative number", args[0])
			}
			state := distance.Classify(d, a.cfg.Thresholds)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", state)
			return nil
		},
	}
}
