package rulesetfile

import (
	"sort"
	"sync"
)

// SkippedFile records one ruleset document that failed to load during a
// directory reload.
type SkippedFile struct {
	Path   string
	Reason string
}

// LoadResult summarizes one ReloadFromDir call.
type LoadResult struct {
	Loaded       []string
	SkippedFiles []SkippedFile
}

// Registry holds the current ruleset snapshot for long-running hosts.
// Reloads swap the snapshot atomically: readers never observe a partially
// loaded directory.
type Registry struct {
	mu       sync.RWMutex
	rulesets map[string]RulesetFile
}

func NewRegistry() *Registry {
	return &Registry{rulesets: map[string]RulesetFile{}}
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRegistry returns the process-wide registry instance.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// ReloadDefault reloads the process-wide registry from dir.
func ReloadDefault(dir string) error {
	_, err := DefaultRegistry().ReloadFromDir(dir)
	return err
}

// ReloadFromDir loads every .md ruleset document in dir and swaps the
// snapshot. Documents that fail to load are skipped with a reason and do not
// abort the reload; only an unreadable directory does.
func (r *Registry) ReloadFromDir(dir string) (LoadResult, error) {
	paths, err := listRulesetPaths(dir)
	if err != nil {
		return LoadResult{}, err
	}

	next := make(map[string]RulesetFile, len(paths))
	res := LoadResult{}
	for _, p := range paths {
		rs, err := ValidateRulesetFile(p)
		if err != nil {
			res.SkippedFiles = append(res.SkippedFiles, SkippedFile{Path: p, Reason: err.Error()})
			continue
		}
		next[rs.Name] = rs
		res.Loaded = append(res.Loaded, rs.Name)
	}
	sort.Strings(res.Loaded)

	r.mu.Lock()
	r.rulesets = next
	r.mu.Unlock()
	return res, nil
}

// GetRuleset returns the named ruleset from the current snapshot.
func (r *Registry) GetRuleset(name string) (RulesetFile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.rulesets[normalizeRulesetName(name)]
	return rs, ok
}

// ListRulesetNames returns the sorted names of the current snapshot.
func (r *Registry) ListRulesetNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.rulesets))
	for name := range r.rulesets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fingerprints returns name to content checksum for the current snapshot,
// used by reload paths to report which rulesets changed.
func (r *Registry) Fingerprints() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.rulesets))
	for name, rs := range r.rulesets {
		out[name] = rs.Checksum
	}
	return out
}
