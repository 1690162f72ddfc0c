package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/teslashibe/eyeguard/internal/config"
	"github.com/teslashibe/eyeguard/pkg/hub"
	"github.com/teslashibe/eyeguard/pkg/reminder"
	"github.com/teslashibe/eyeguard/pkg/status"
)

func newWatchCommand(a *app) *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream state changes and reminders from a running monitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base := url
			if base == "" {
				base = config.StatusURL(a.cfg.Port)
			}
			return watch(cmd.Context(), wsURL(base), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "status server base URL (default http://localhost:<port>)")
	return cmd
}

// wsURL turns an http(s) base URL into the status websocket URL.
func wsURL(base string) string {
	base = strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/ws/status"
}

// watch prints events until ctx is cancelled or the server goes away.
// Only status changes are printed, not every frame.
func watch(ctx context.Context, url string, out io.Writer) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", url, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}()

	var last *status.Snapshot
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		var ev struct {
			Type hub.EventType       `json:"type"`
			Data jsoniter.RawMessage `json:"data"`
		}
		if err := jsoniter.Unmarshal(data, &ev); err != nil {
			continue
		}

		switch ev.Type {
		case hub.EventStatus:
			var snap status.Snapshot
			if err := jsoniter.Unmarshal(ev.Data, &snap); err != nil {
				continue
			}
			if last != nil && last.State == snap.State {
				last = &snap
				continue
			}
			last = &snap
			fmt.Fprintf(out, "state %s (%s)\n", formatState(snap.State), formatDistance(snap.Distance))

		case hub.EventReminder:
			var r reminder.Reminder
			if err := jsoniter.Unmarshal(ev.Data, &r); err != nil {
				continue
			}
			fmt.Fprintf(out, "%s reminder: %s\n", r.Kind, r.Message)
		}
	}
}
