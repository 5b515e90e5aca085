package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ccgen/internal/astio"
	"ccgen/internal/source"
)

var packCmd = &cobra.Command{
	Use:   "pack [flags] input.yaml",
	Short: "Convert a YAML AST document to the compact .astpack form",
	Args:  cobra.ExactArgs(1),
	RunE:  runPack,
}

func init() {
	packCmd.Flags().StringP("output", "o", "", "output path (default: input with .astpack extension)")
}

func runPack(cmd *cobra.Command, args []string) error {
	input := args[0]
	ext := strings.ToLower(filepath.Ext(input))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%s: pack expects a .yaml or .yml document", input)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".astpack"
	}
	data, err := packDocument(input)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", output, err)
	}
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "packed %s -> %s\n", input, output)
	}
	return nil
}

// packDocument validates input by building its tree, then re-encodes it.
// Positions are kept, so diagnostics still point into the YAML source.
func packDocument(input string) ([]byte, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, err
	}
	doc, err := astio.DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	fs := source.NewFileSet()
	if _, err := astio.Build(doc, fs.Add(input)); err != nil {
		var de *astio.DecodeError
		if errors.As(err, &de) {
			return nil, fmt.Errorf("%s: %s", fs.Format(de.Loc), de.Msg)
		}
		return nil, err
	}
	if doc.File == "" {
		doc.File = filepath.Base(input)
	}
	if doc.Module == "" {
		doc.Module = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	return astio.MarshalMsgpack(doc)
}
