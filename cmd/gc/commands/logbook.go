package commands

import (
	"os"

	"gocaching/lib/geocaching"
	"gocaching/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var logbookLimit *int

func init() {
	logbookLimit = logbookCmd.Flags().Int("limit", 20, "The maximum number of entries to fetch, 0 for all of them.")
	rootCmd.AddCommand(logbookCmd)
}

var logbookCmd = &cobra.Command{
	Use:   "logbook <waypoint> [--limit <n>]",
	Short: "Prints the latest logbook entries of a cache.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		c, err := geocaching.New(newSession(ctx), args[0])
		if err != nil {
			serviceutil.Fatal("invalid waypoint", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Visited", "Type", "Author", "Text"})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Name: "Text", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		})

		for l, err := range c.Logbook(ctx, *logbookLimit) {
			if err != nil {
				serviceutil.Fatal("failed to fetch logbook", err)
			}
			t.AppendRow(table.Row{
				l.Visited.Format("2006-01-02"),
				string(l.Type),
				l.Author,
				l.Text,
			})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
