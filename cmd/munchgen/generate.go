package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/munchgen/munchgen"
	"github.com/munchgen/munchgen/pkg/entry"
	"github.com/spf13/cobra"
)

var (
	genEntryFiles []string
	genBuiltin    string
	genStrategy   string
	genInput      string
	genFnName     string
	genReturnType string
	genIndex      bool
	genDoc        string
	genNoMustUse  bool
	genStub       bool
	genGuard      string
	genStubGuard  string
	genQuote      bool
	genOut        string
)

var generateCmd = &cobra.Command{
	Use:   "generate [key=value ...]",
	Short: "Generate a longest-match scanner",
	Long: `Generate Go source for a longest-match scanner.

Entries come from positional key=value arguments, --entries files
(YAML or JSON), or a --builtin set, in that loading order; a key
registered later overwrites an earlier payload. Values are Go
expressions spliced into the output verbatim unless --quote wraps them
into string literals.`,
	Example: `  munchgen generate --fn matchDigit --ret int one=1 two=2 three=3
  munchgen generate --builtin html-entities --ret string --fn matchEntity -o matcher.go
  munchgen generate --strategy flat --input cursor --entries tokens.yaml --fn matchToken --ret Token`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringArrayVar(&genEntryFiles, "entries", nil, "Entry file (YAML or JSON); repeatable")
	generateCmd.Flags().StringVar(&genBuiltin, "builtin", "", "Builtin entry set name (see 'munchgen entries --builtins')")
	generateCmd.Flags().StringVar(&genStrategy, "strategy", "tree", "Matching strategy: tree, flat")
	generateCmd.Flags().StringVar(&genInput, "input", "slice", "Input model: slice, cursor")
	generateCmd.Flags().StringVar(&genFnName, "fn", "matchBytes", "Name of the generated function")
	generateCmd.Flags().StringVar(&genReturnType, "ret", "string", "Declared match type, spliced verbatim")
	generateCmd.Flags().BoolVar(&genIndex, "index", false, "Flat slice model only: report residual input as an index")
	generateCmd.Flags().StringVar(&genDoc, "doc", "", "Documentation text to prepend to the function")
	generateCmd.Flags().BoolVar(&genNoMustUse, "no-must-use", false, "Drop the use-the-result advisory line")
	generateCmd.Flags().BoolVar(&genStub, "stub", false, "Also emit an always-no-match stub under build guards")
	generateCmd.Flags().StringVar(&genGuard, "guard", "", "Build constraint for the real function (with --stub)")
	generateCmd.Flags().StringVar(&genStubGuard, "stub-guard", "", "Build constraint for the stub (with --stub)")
	generateCmd.Flags().BoolVar(&genQuote, "quote", false, "Treat values as plain text and emit them as Go string literals")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Output file (default stdout)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	entries, err := collectEntries(args)
	if err != nil {
		return err
	}

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	var render func(io.Writer) error
	switch genStrategy {
	case "tree":
		if genIndex {
			return fmt.Errorf("--index applies only to --strategy flat")
		}
		render = munchgen.NewTree(genFnName, genReturnType, opts...).Extend(entries).Render
	case "flat":
		render = munchgen.NewFlat(genFnName, genReturnType, opts...).Extend(entries).Render
	default:
		return fmt.Errorf("unknown strategy %q (expected tree or flat)", genStrategy)
	}

	if genOut == "" {
		return render(cmd.OutOrStdout())
	}

	f, err := os.Create(genOut)
	if err != nil {
		return fmt.Errorf("creating %s: %w", genOut, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("rendering matcher: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", genOut, err)
	}

	if !quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), color.GreenString(
			"wrote %d-entry %s/%s matcher to %s", len(entries), genStrategy, genInput, genOut))
	}
	return nil
}

// collectEntries gathers entries from the builtin set, entry files, and
// key=value arguments, in that order, so arguments win on duplicates.
func collectEntries(args []string) ([]munchgen.Entry, error) {
	loader := entry.NewLoader()
	loader.QuoteValues = genQuote

	var entries []munchgen.Entry

	if genBuiltin != "" {
		builtin, err := loader.LoadBuiltin(genBuiltin)
		if err != nil {
			return nil, err
		}
		entries = append(entries, builtin...)
	}

	for _, path := range genEntryFiles {
		loaded, err := loader.LoadFile(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, loaded...)
	}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("argument %q is not key=value", arg)
		}
		if genQuote {
			value = strconv.Quote(value)
		}
		entries = append(entries, munchgen.Entry{Key: []byte(key), Value: value})
	}

	return entries, nil
}

func buildOptions() ([]munchgen.Option, error) {
	var opts []munchgen.Option

	switch genInput {
	case "slice":
	case "cursor":
		if genIndex {
			return nil, fmt.Errorf("--index applies only to --input slice")
		}
		opts = append(opts, munchgen.WithInput(munchgen.InputCursor))
	default:
		return nil, fmt.Errorf("unknown input model %q (expected slice or cursor)", genInput)
	}

	if genIndex {
		opts = append(opts, munchgen.WithReturnIndex())
	}
	if genDoc != "" {
		opts = append(opts, munchgen.WithDoc(genDoc))
	}
	if genNoMustUse {
		opts = append(opts, munchgen.WithoutMustUse())
	}
	if genStub {
		opts = append(opts, munchgen.WithStub())
		if genGuard != "" || genStubGuard != "" {
			if genGuard == "" || genStubGuard == "" {
				return nil, fmt.Errorf("--guard and --stub-guard must be set together")
			}
			opts = append(opts, munchgen.WithGuards(genGuard, genStubGuard))
		}
	} else if genGuard != "" || genStubGuard != "" {
		return nil, fmt.Errorf("--guard and --stub-guard require --stub")
	}

	return opts, nil
}
