package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/munchgen/munchgen"
	"github.com/munchgen/munchgen/pkg/entry"
	"github.com/spf13/cobra"
)

var (
	entriesFiles   []string
	entriesBuiltin string
	entriesFormat  string
	entriesList    bool
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Inspect entry sets",
	Long:  "Load and display an entry set, or list the builtin sets",
	RunE:  runEntries,
}

func init() {
	entriesCmd.Flags().StringArrayVar(&entriesFiles, "entries", nil, "Entry file (YAML or JSON); repeatable")
	entriesCmd.Flags().StringVar(&entriesBuiltin, "builtin", "", "Builtin entry set name")
	entriesCmd.Flags().StringVar(&entriesFormat, "format", "table", "Output format: table, json")
	entriesCmd.Flags().BoolVar(&entriesList, "builtins", false, "List the builtin entry set names")
}

func runEntries(cmd *cobra.Command, args []string) error {
	loader := entry.NewLoader()

	if entriesList {
		for _, name := range loader.Builtins() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}

	var entries []munchgen.Entry

	if entriesBuiltin != "" {
		builtin, err := loader.LoadBuiltin(entriesBuiltin)
		if err != nil {
			return err
		}
		entries = append(entries, builtin...)
	}
	for _, path := range entriesFiles {
		loaded, err := loader.LoadFile(path)
		if err != nil {
			return err
		}
		entries = append(entries, loaded...)
	}
	if entriesBuiltin == "" && len(entriesFiles) == 0 {
		return fmt.Errorf("nothing to show: pass --entries, --builtin, or --builtins")
	}

	switch entriesFormat {
	case "json":
		return outputEntriesJSON(cmd, entries)
	case "table":
		return outputEntriesTable(cmd, entries)
	default:
		return fmt.Errorf("unknown output format: %s", entriesFormat)
	}
}

func outputEntriesJSON(cmd *cobra.Command, entries []munchgen.Entry) error {
	type jsonEntry struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	out := make([]jsonEntry, len(entries))
	for i, e := range entries {
		out[i] = jsonEntry{Key: string(e.Key), Value: e.Value}
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func outputEntriesTable(cmd *cobra.Command, entries []munchgen.Entry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Key\tValue\n")
	fmt.Fprintf(w, "---\t-----\n")
	for _, e := range entries {
		fmt.Fprintf(w, "%q\t%s\n", string(e.Key), e.Value)
	}
	return nil
}
