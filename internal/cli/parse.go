package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/open-proxy-rules/pkg/ruledsl"
	"github.com/r9s-ai/open-proxy-rules/pkg/rulesetfile"
)

type parseOptions struct {
	line string
	file string
}

func newParseCmd() *cobra.Command {
	var opts parseOptions
	cmd := &cobra.Command{
		Use:   "parse [line]",
		Short: "Parse a proxy rule line or a ruleset document and print JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.line == "" && len(args) > 0 {
				opts.line = strings.Join(args, " ")
			}
			return runParseWithOptions(cmd, opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.line, "line", "l", "", "single proxy rule line")
	fs.StringVarP(&opts.file, "file", "f", "", "ruleset markdown file path")
	return cmd
}

func runParseWithOptions(cmd *cobra.Command, opts parseOptions) error {
	line := strings.TrimSpace(opts.line)
	file := strings.TrimSpace(opts.file)
	switch {
	case line != "" && file != "":
		return errors.New("--line and --file are mutually exclusive")
	case line != "":
		pr, err := ruledsl.ParseProxyRule(line)
		if err != nil {
			return fmt.Errorf("parse line: %w", err)
		}
		return printJSON(cmd, pr)
	case file != "":
		rs, err := rulesetfile.ValidateRulesetFile(file)
		if err != nil {
			return fmt.Errorf("parse file %s: %w", file, err)
		}
		return printJSON(cmd, rs)
	default:
		return errors.New("provide --line or --file")
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
