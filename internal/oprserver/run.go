package oprserver

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/r9s-ai/open-proxy-rules/internal/logx"
	"github.com/r9s-ai/open-proxy-rules/pkg/config"
	"github.com/r9s-ai/open-proxy-rules/pkg/rulesetfile"
)

// Run starts the ruleset inspection API and blocks until the listener stops.
func Run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	accessLogger, accessClose, accessColor, err := openAccessLogger(cfg)
	if err != nil {
		return fmt.Errorf("init access log: %w", err)
	}
	if accessClose != nil {
		defer func() { _ = accessClose.Close() }()
	}

	pidCleanup, err := writePIDFile(cfg)
	if err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	if pidCleanup != nil {
		defer func() { _ = pidCleanup.Close() }()
	}

	reg := rulesetfile.NewRegistry()
	loadRes, err := reg.ReloadFromDir(cfg.Rulesets.Dir)
	if err != nil {
		return fmt.Errorf("load rulesets dir %q: %w", cfg.Rulesets.Dir, err)
	}
	logSkippedRulesets(cfg.Rulesets.Dir, loadRes.SkippedFiles, false)

	reloadMu := &sync.Mutex{}
	installReloadSignalHandler(cfg, reg, reloadMu)
	autoReloadClose, err := installRulesetsAutoReload(cfg, reg, reloadMu)
	if err != nil {
		return fmt.Errorf("init rulesets auto reload: %w", err)
	}
	if autoReloadClose != nil {
		defer func() { _ = autoReloadClose.Close() }()
	}

	accessFormat, err := logx.ResolveAccessLogFormat(cfg.Logging.AccessLogFormat, cfg.Logging.AccessLogFormatPreset)
	if err != nil {
		return fmt.Errorf("resolve access log format: %w", err)
	}
	accessFormatter, err := logx.CompileAccessLogFormat(accessFormat)
	if err != nil {
		return fmt.Errorf("compile access_log_format: %w", err)
	}

	engine := NewRouter(cfg, reg, accessLogger, accessColor, accessFormatter)

	log.Printf("open-proxy-rules listening on %s (rulesets=%d)", cfg.Server.Listen, len(loadRes.Loaded))
	if err := engine.Run(cfg.Server.Listen); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func openAccessLogger(cfg *config.Config) (*log.Logger, io.Closer, bool, error) {
	if cfg == nil || !cfg.Logging.AccessLog {
		return nil, nil, false, nil
	}

	path := strings.TrimSpace(cfg.Logging.AccessLogPath)
	if path == "" {
		color := isatty.IsTerminal(os.Stdout.Fd())
		return log.New(os.Stdout, "", log.LstdFlags), nil, color, nil
	}

	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, false, err
		}
	}
	// #nosec G304 -- access_log_path comes from trusted config.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, false, err
	}
	return log.New(f, "", log.LstdFlags), f, false, nil
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

func writePIDFile(cfg *config.Config) (io.Closer, error) {
	if cfg == nil {
		return nil, nil
	}
	path := strings.TrimSpace(cfg.Server.PidFile)
	if path == "" {
		return nil, nil
	}
	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}

	tmp := path + ".tmp"
	pid := strconv.Itoa(os.Getpid()) + "\n"
	// #nosec G304 -- pid_file comes from trusted config.
	if err := os.WriteFile(tmp, []byte(pid), 0o600); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}
	return closerFunc(func() error { return os.Remove(path) }), nil
}

func installReloadSignalHandler(cfg *config.Config, reg *rulesetfile.Registry, mu *sync.Mutex) {
	if cfg == nil || reg == nil || mu == nil {
		return
	}
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGHUP)
	go func() {
		for range ch {
			mu.Lock()
			changed, err := reloadRulesets(cfg, reg)
			mu.Unlock()
			if err != nil {
				log.Printf("reload failed (signal): %v", err)
				continue
			}
			log.Printf(
				"reload ok (signal): rulesets_dir=%q changed_rulesets=%s",
				cfg.Rulesets.Dir,
				rulesetNamesForLog(changed),
			)
		}
	}()
}

func logSkippedRulesets(dir string, skipped []rulesetfile.SkippedFile, fromReload bool) {
	if len(skipped) == 0 {
		return
	}
	origin := "startup"
	if fromReload {
		origin = "reload"
	}
	for _, s := range skipped {
		log.Printf("ruleset skipped (%s): dir=%q file=%q reason=%s", origin, dir, s.Path, s.Reason)
	}
}
