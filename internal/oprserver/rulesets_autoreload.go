package oprserver

import (
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/r9s-ai/open-proxy-rules/pkg/config"
	"github.com/r9s-ai/open-proxy-rules/pkg/rulesetfile"
)

// installRulesetsAutoReload watches the rulesets dir and reloads the registry
// after a debounce window. The returned closer stops the watcher.
func installRulesetsAutoReload(cfg *config.Config, reg *rulesetfile.Registry, mu *sync.Mutex) (io.Closer, error) {
	if cfg == nil || reg == nil || mu == nil {
		return nil, nil
	}
	if !cfg.Rulesets.AutoReload.Enabled {
		return nil, nil
	}

	dir := strings.TrimSpace(cfg.Rulesets.Dir)
	if dir == "" {
		return nil, nil
	}
	debounce := time.Duration(cfg.Rulesets.AutoReload.DebounceMs) * time.Millisecond

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addWatchRecursive(watcher, dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	triggerCh := make(chan struct{}, 1)

	go func() {
		defer close(doneCh)
		var (
			timer  *time.Timer
			timerC <-chan time.Time
		)
		resetTimer := func() {
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			timerC = timer.C
		}
		runReload := func() {
			mu.Lock()
			changed, err := reloadRulesets(cfg, reg)
			mu.Unlock()
			if err != nil {
				log.Printf("reload failed (rulesets auto): %v", err)
				return
			}
			log.Printf(
				"reload ok (rulesets auto): rulesets_dir=%q changed_rulesets=%s",
				cfg.Rulesets.Dir,
				rulesetNamesForLog(changed),
			)
		}

		for {
			select {
			case <-stopCh:
				if timer != nil {
					timer.Stop()
				}
				return
			case <-timerC:
				timerC = nil
				runReload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("rulesets auto-reload watcher error: %v", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&fsnotify.Create != 0 {
					if fi, statErr := os.Stat(evt.Name); statErr == nil && fi.IsDir() {
						if addErr := addWatchRecursive(watcher, evt.Name); addErr != nil {
							log.Printf("rulesets auto-reload add watch failed: path=%q err=%v", evt.Name, addErr)
						}
					}
				}
				if shouldTriggerRulesetReload(evt) {
					select {
					case triggerCh <- struct{}{}:
					default:
					}
				}
			case <-triggerCh:
				resetTimer()
			}
		}
	}()

	log.Printf(
		"rulesets auto-reload enabled: dir=%q debounce_ms=%d",
		dir,
		cfg.Rulesets.AutoReload.DebounceMs,
	)
	return closerFunc(func() error {
		close(stopCh)
		_ = watcher.Close()
		<-doneCh
		return nil
	}), nil
}

// reloadRulesets swaps the registry from the configured dir and reports
// which rulesets changed, by content checksum.
func reloadRulesets(cfg *config.Config, reg *rulesetfile.Registry) ([]string, error) {
	before := reg.Fingerprints()
	res, err := reg.ReloadFromDir(cfg.Rulesets.Dir)
	if err != nil {
		return nil, err
	}
	logSkippedRulesets(cfg.Rulesets.Dir, res.SkippedFiles, true)

	after := reg.Fingerprints()
	changed := make([]string, 0, len(after))
	for name, sum := range after {
		if before[name] != sum {
			changed = append(changed, name)
		}
	}
	for name := range before {
		if _, ok := after[name]; !ok {
			changed = append(changed, name)
		}
	}
	sort.Strings(changed)
	return changed, nil
}

func shouldTriggerRulesetReload(evt fsnotify.Event) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Chmod) == 0 {
		return false
	}
	base := filepath.Base(evt.Name)
	return !strings.HasPrefix(base, ".")
}

func addWatchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return watcher.Add(path)
	})
}

func rulesetNamesForLog(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ",")
}
