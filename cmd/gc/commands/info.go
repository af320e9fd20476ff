package commands

import (
	"fmt"
	"os"
	"strings"

	"gocaching/lib/geocaching"
	"gocaching/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var infoQuick *bool

func init() {
	infoQuick = infoCmd.Flags().Bool("quick", false, "Load from the map tile service instead of the detail page.")
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info <waypoint> [--quick]",
	Short: "Prints the attributes of a cache.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		c, err := geocaching.New(newSession(ctx), args[0])
		if err != nil {
			serviceutil.Fatal("invalid waypoint", err)
		}

		if *infoQuick {
			err = c.LoadQuick(ctx)
		} else {
			err = c.Load(ctx)
		}
		if err != nil {
			serviceutil.Fatal("failed to load cache", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Attribute", "Value"})

		appendRow := func(name string, value any, err error) {
			if err != nil {
				return
			}
			t.AppendRow(table.Row{name, value})
		}

		t.AppendRow(table.Row{"Waypoint", c.Waypoint()})

		name, err := c.Name(ctx)
		appendRow("Name", name, err)
		cacheType, err := c.Type(ctx)
		appendRow("Type", cacheType.String(), err)
		size, err := c.Size(ctx)
		appendRow("Size", size.String(), err)
		location, err := c.Location(ctx)
		appendRow("Location", location.String(), err)
		state, err := c.State(ctx)
		appendRow("Active", state, err)
		difficulty, err := c.Difficulty(ctx)
		appendRow("Difficulty", difficulty, err)
		terrain, err := c.Terrain(ctx)
		appendRow("Terrain", terrain, err)
		author, err := c.Author(ctx)
		appendRow("Author", author, err)
		hidden, err := c.Hidden(ctx)
		appendRow("Hidden", hidden.Format("2006-01-02"), err)
		favorites, err := c.Favorites(ctx)
		appendRow("Favorites", favorites, err)
		if pmOnly, err := c.PMOnly(); err == nil {
			appendRow("Premium only", pmOnly, nil)
		}

		if !*infoQuick {
			attributes, err := c.Attributes(ctx)
			if err == nil {
				var lines []string
				for name, applies := range attributes {
					lines = append(lines, fmt.Sprintf("%s: %v", name, applies))
				}
				appendRow("Attributes", strings.Join(lines, "\n"), nil)
			}
			summary, err := c.Summary(ctx)
			appendRow("Summary", summary, err)
			hint, err := c.Hint(ctx)
			appendRow("Hint", hint, err)
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
