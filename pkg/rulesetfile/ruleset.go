// Package rulesetfile loads proxy rule definitions from markdown ruleset
// documents. A ruleset document is prose plus fenced code blocks tagged
// "rules"; every non-comment line inside those blocks is one proxy rule in
// the pkg/ruledsl language. The package also provides a reloadable registry
// of parsed rulesets for long-running hosts.
package rulesetfile

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/r9s-ai/open-proxy-rules/pkg/mdsegment"
	"github.com/r9s-ai/open-proxy-rules/pkg/ruledsl"
)

// RulesLanguage is the fence tag marking a code block as rule definitions.
// Blocks with any other tag are documentation and ignored.
const RulesLanguage = "rules"

// RulesetFile is one loaded ruleset document.
type RulesetFile struct {
	// Name is the lowercased file base name without the .md extension.
	Name string `json:"name"`
	Path string `json:"path"`

	// Doc is the document prose with code blocks removed.
	Doc string `json:"doc"`

	// Rules holds every parsed rule line, in document order across blocks.
	Rules []ruledsl.ProxyRule `json:"rules"`

	// Checksum fingerprints the raw file content for change detection.
	Checksum string `json:"checksum"`
}

// ValidateRulesetFile loads and validates a single ruleset document. It
// segments the document, extracts fenced "rules" blocks, and parses every
// rule line; any failing line fails the whole file with its position.
func ValidateRulesetFile(path string) (RulesetFile, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return RulesetFile{}, fmt.Errorf("ruleset file path is empty")
	}
	if filepath.Ext(p) != ".md" {
		return RulesetFile{}, fmt.Errorf("ruleset file must have .md extension: %s", p)
	}
	// #nosec G304 -- path comes from an operator-specified rulesets dir.
	raw, err := os.ReadFile(p)
	if err != nil {
		return RulesetFile{}, fmt.Errorf("read ruleset file %q: %w", p, err)
	}

	rs, err := parseRulesetDocument(string(raw))
	if err != nil {
		return RulesetFile{}, fmt.Errorf("ruleset file %q: %w", p, err)
	}
	rs.Name = normalizeRulesetName(strings.TrimSuffix(filepath.Base(p), ".md"))
	rs.Path = p
	sum := sha256.Sum256(raw)
	rs.Checksum = hex.EncodeToString(sum[:])
	return rs, nil
}

// parseRulesetDocument segments the document and parses the rule blocks.
func parseRulesetDocument(content string) (RulesetFile, error) {
	blocks, err := mdsegment.Parse(content)
	if err != nil {
		return RulesetFile{}, err
	}
	doc, codes := mdsegment.IntoParts(blocks)

	var rules []ruledsl.ProxyRule
	for _, code := range codes {
		if !strings.EqualFold(strings.TrimSpace(code.Language), RulesLanguage) {
			continue
		}
		for i, line := range strings.Split(code.Body, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
			pr, err := ruledsl.ParseProxyRule(trimmed)
			if err != nil {
				return RulesetFile{}, fmt.Errorf("rules block line %d: %w", i+1, err)
			}
			rules = append(rules, pr)
		}
	}
	return RulesetFile{Doc: doc, Rules: rules}, nil
}

func normalizeRulesetName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateRulesetDir validates every .md file in dir and returns the sorted
// ruleset names. All file failures are reported together.
func ValidateRulesetDir(dir string) ([]string, error) {
	paths, err := listRulesetPaths(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(paths))
	var errs []error
	for _, p := range paths {
		rs, err := ValidateRulesetFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		names = append(names, rs.Name)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	sort.Strings(names)
	return names, nil
}

func listRulesetPaths(dir string) ([]string, error) {
	d := strings.TrimSpace(dir)
	if d == "" {
		return nil, fmt.Errorf("rulesets dir is empty")
	}
	entries, err := os.ReadDir(d)
	if err != nil {
		return nil, fmt.Errorf("read rulesets dir %q: %w", d, err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") || filepath.Ext(name) != ".md" {
			continue
		}
		paths = append(paths, filepath.Join(d, name))
	}
	sort.Strings(paths)
	return paths, nil
}
