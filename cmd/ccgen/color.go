package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ccgen/internal/buildpipeline"
)

func readColorMode(value string) (string, error) {
	switch v := strings.TrimSpace(strings.ToLower(value)); v {
	case "", "auto":
		return "auto", nil
	case "on", "off":
		return v, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func colorEnabled(cmd *cobra.Command, f *os.File) (bool, error) {
	flag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	mode, err := readColorMode(flag)
	if err != nil {
		return false, err
	}
	return mode == "on" || (mode == "auto" && isTerminal(f)), nil
}

var errorColor = color.New(color.FgRed, color.Bold)

// printError reports a command failure. Failed units were already reported
// through their diagnostics.
func printError(w io.Writer, err error) {
	if errors.Is(err, buildpipeline.ErrUnitsFailed) {
		return
	}
	fmt.Fprintf(w, "%s %v\n", errorColor.Sprint("error:"), err)
}
