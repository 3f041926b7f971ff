package main

import (
	"os"

	"github.com/xgx-io/xgx-exec/cmd/xgxrun/cmd"
	"github.com/xgx-io/xgx-exec/xgxlog"
)

func main() {
	xgxlog.ConfigureRuntime()
	os.Exit(cmd.ExitCode(cmd.Execute()))
}
