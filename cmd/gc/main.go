package main

import (
	"gocaching/cmd/gc/commands"
	"gocaching/lib/telemetry"
	"gocaching/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "gc")
	telemetry.InitSlog(true)
	commands.ExecuteContext(ctx)
}
