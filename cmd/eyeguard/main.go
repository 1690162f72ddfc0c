// eyeguard watches the distance between your eyes on the webcam and reminds
// you to sit back when you get too close to the screen.
//
// Usage:
//
//	eyeguard run                 # camera loop + status server on :5000
//	eyeguard run --headless      # no preview window
//	eyeguard status              # query a running monitor
//	eyeguard watch               # stream state changes and reminders
//	eyeguard classify 380        # offline classification
package main

import "github.com/teslashibe/eyeguard/internal/cli"

func main() {
	cli.Execute()
}
