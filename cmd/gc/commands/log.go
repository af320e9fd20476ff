package commands

import (
	"fmt"
	"strings"
	"time"

	"gocaching/lib/geocaching"
	"gocaching/lib/textutil"
	"gocaching/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var logType *string
var logDate *string

func init() {
	logType = logCmd.Flags().String("type", string(geocaching.LogTypeFoundIt), "The type of log to post.")
	logDate = logCmd.Flags().String("date", "", "The visit date, defaults to today.")
	rootCmd.AddCommand(logCmd)
}

var logCmd = &cobra.Command{
	Use:   "log <waypoint> <text> [--type <log type>] [--date <date>]",
	Short: "Posts a log entry to a cache.",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		c, err := geocaching.New(newSession(ctx), args[0])
		if err != nil {
			serviceutil.Fatal("invalid waypoint", err)
		}

		visited := time.Now()
		if *logDate != "" {
			visited, err = textutil.ParseDate(*logDate)
			if err != nil {
				serviceutil.Fatal("invalid date", err)
			}
		}
		entryType, err := geocaching.LogTypeFromLabel(*logType)
		if err != nil {
			serviceutil.Fatal("invalid log type", err)
		}

		err = c.PostLog(ctx, geocaching.Log{
			Type:    entryType,
			Text:    strings.Join(args[1:], " "),
			Visited: visited,
		})
		if err != nil {
			serviceutil.Fatal("failed to post log", err)
		}
		fmt.Println("log posted")
	},
}
