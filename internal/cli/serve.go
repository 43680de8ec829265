package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/open-proxy-rules/internal/oprserver"
	"github.com/r9s-ai/open-proxy-rules/pkg/config"
)

func newServeCmd() *cobra.Command {
	cfgPath := "opr.yaml"
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ruleset HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return oprserver.Run(cfgPath)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "opr.yaml", "config yaml path")
	return cmd
}

func newReloadCmd() *cobra.Command {
	cfgPath := "opr.yaml"
	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Signal a running opr serve to reload its rulesets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendReloadSignal(cfgPath)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "opr.yaml", "config yaml path")
	return cmd
}

func sendReloadSignal(cfgPath string) error {
	cfg, err := config.Load(strings.TrimSpace(cfgPath))
	if err != nil {
		return err
	}
	pidFile := strings.TrimSpace(cfg.Server.PidFile)
	if pidFile == "" {
		return fmt.Errorf("server.pid_file not set in %s", cfgPath)
	}
	// #nosec G304 -- pid file path comes from trusted config.
	b, err := os.ReadFile(pidFile)
	if err != nil {
		return fmt.Errorf("read pid file %q: %w", pidFile, err)
	}
	pidStr := strings.TrimSpace(string(b))
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return fmt.Errorf("invalid pid in %q: %q", pidFile, pidStr)
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find process pid=%d: %w", pid, err)
	}
	if err := p.Signal(syscall.SIGHUP); err != nil {
		return fmt.Errorf("send SIGHUP pid=%d: %w", pid, err)
	}
	return nil
}
