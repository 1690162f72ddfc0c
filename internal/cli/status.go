package cli

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/teslashibe/eyeguard/internal/config"
	"github.com/teslashibe/eyeguard/internal/httpc"
	"github.com/teslashibe/eyeguard/pkg/status"
)

func newStatusCommand(a *app) *cobra.Command {
	var (
		url    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the state reported by a running monitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base := url
			if base == "" {
				base = config.StatusURL(a.cfg.Port)
			}

			var p status.Payload
			if err := httpc.GetJSON(cmd.Context(), base+"/get-data", &p); err != nil {
				return fmt.Errorf("query %s: %w", base, err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				b, err := jsoniter.Marshal(p)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
				return nil
			}
			fmt.Fprintf(out, "state:    %s\ndistance: %s\n", formatState(p.State), formatDistance(p.Distance))
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "status server base URL (default http://localhost:<port>)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON payload")
	return cmd
}
