package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	xgxexec "github.com/xgx-io/xgx-exec"
)

var outputFormats = []string{"table", "json", "yaml"}

func validOutput(format string) error {
	for _, f := range outputFormats {
		if f == format {
			return nil
		}
	}
	return xgxexec.Invalid("output", fmt.Sprintf("unknown format %q (want %s)", format, strings.Join(outputFormats, ", ")))
}

func renderReport(w io.Writer, format string, rep runReport) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	}

	table := tablewriter.NewWriter(w)
	table.Header("Command", "Status", "Exit", "Elapsed", "Limit", "Error")
	exit := "-"
	if rep.ExitCode >= 0 {
		exit = strconv.Itoa(rep.ExitCode)
	}
	if err := table.Append(
		rep.Command,
		rep.Status,
		exit,
		fmt.Sprintf("%.1fms", rep.ElapsedMS),
		fmt.Sprintf("%ds", rep.LimitS),
		rep.Error,
	); err != nil {
		return err
	}
	return table.Render()
}

// commandLine quotes arguments that contain spaces.
func commandLine(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			a = strconv.Quote(a)
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}
