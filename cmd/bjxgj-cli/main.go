package main

import (
	"bjxgj-exporter/cmd/bjxgj-cli/commands"
	"bjxgj-exporter/lib/osutil"
	"bjxgj-exporter/lib/telemetry"
)

func main() {
	ctx := osutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "bjxgj-cli")
	commands.ExecuteContext(ctx)
}
