package commands

import (
	"os"

	"gocaching/lib/geocaching"
	"gocaching/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var trackablesLimit *int

func init() {
	trackablesLimit = trackablesCmd.Flags().Int("limit", 0, "The maximum number of trackables to list, 0 for all of them.")
	rootCmd.AddCommand(trackablesCmd)
}

var trackablesCmd = &cobra.Command{
	Use:   "trackables <waypoint> [--limit <n>]",
	Short: "Lists the trackables sitting in a cache.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		c, err := geocaching.New(newSession(ctx), args[0])
		if err != nil {
			serviceutil.Fatal("invalid waypoint", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Name", "Page"})

		for tr, err := range c.Trackables(ctx, *trackablesLimit) {
			if err != nil {
				serviceutil.Fatal("failed to fetch trackables", err)
			}
			name, err := tr.Name(ctx)
			if err != nil {
				serviceutil.Fatal("failed to load trackable", err)
			}
			t.AppendRow(table.Row{name, tr.URL()})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
