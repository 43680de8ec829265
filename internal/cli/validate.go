package cli

import (
	"fmt"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/r9s-ai/open-proxy-rules/pkg/config"
	"github.com/r9s-ai/open-proxy-rules/pkg/rulesetfile"
)

type validateOptions struct {
	cfgPath string
	dir     string
}

func newValidateCmd() *cobra.Command {
	opts := validateOptions{cfgPath: "opr.yaml"}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate every ruleset document in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateWithOptions(cmd, opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.cfgPath, "config", "c", "opr.yaml", "config yaml path")
	fs.StringVarP(&opts.dir, "dir", "d", "", "rulesets dir path (overrides config rulesets.dir)")
	return cmd
}

func runValidateWithOptions(cmd *cobra.Command, opts validateOptions) error {
	dir, err := resolveRulesetsDir(opts.cfgPath, opts.dir)
	if err != nil {
		return err
	}

	reg := rulesetfile.NewRegistry()
	res, err := reg.ReloadFromDir(dir)
	if err != nil {
		return fmt.Errorf("validate rulesets dir %s failed: %w", dir, err)
	}

	out := cmd.OutOrStdout()
	for _, name := range res.Loaded {
		fmt.Fprintf(out, "%s %s\n", statusTag("ok"), name)
	}
	for _, sk := range res.SkippedFiles {
		fmt.Fprintf(out, "%s %s: %s\n", statusTag("fail"), sk.Path, sk.Reason)
	}
	if len(res.SkippedFiles) > 0 {
		return fmt.Errorf("%d of %d ruleset files invalid", len(res.SkippedFiles), len(res.Loaded)+len(res.SkippedFiles))
	}
	fmt.Fprintf(out, "validate rulesets: OK (%d loaded)\n", len(res.Loaded))
	return nil
}

// statusTag renders an ok/fail marker, colored only on a terminal.
func statusTag(kind string) string {
	color := isatty.IsTerminal(stdoutFd())
	switch kind {
	case "ok":
		if color {
			return "\x1b[32mok\x1b[0m  "
		}
		return "ok  "
	default:
		if color {
			return "\x1b[31mfail\x1b[0m"
		}
		return "fail"
	}
}

func resolveRulesetsDir(cfgPath, dir string) (string, error) {
	if d := strings.TrimSpace(dir); d != "" {
		return d, nil
	}
	cfg, err := config.Load(strings.TrimSpace(cfgPath))
	if err != nil {
		return "", err
	}
	return cfg.Rulesets.Dir, nil
}
