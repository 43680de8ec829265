// Package ruledsl parses the single-line proxy rule language:
//
//	<source-uri> <target-uri> [rule-token]*
//
// A rule token has the form name://value, where value is classified by its
// leading delimiter: `template`, (inline), {value}, or a bare raw token.
// Template values support ${name} interpolation and single-character
// backslash escapes.
//
// # Public API surface (intended for reuse)
//
// The following identifiers are considered part of the reusable API and are
// expected to remain stable (source-compatible) within the same major version:
//
//   - Entry point:
//
//   - ParseProxyRule
//
//   - Sub-grammars (for callers building related tooling):
//
//   - ParseURI, ParseRule, ParseRuleValue, ParseTemplate
//
//   - Data model:
//
//   - URI, Rule, ProxyRule
//
//   - OpValue, OpValueKind
//
//   - TemplateString, TemplatePart
//
//   - Failure reporting:
//
//   - ParseIssue and the Err* sentinel kinds in issue.go
//
// # Host integration
//
// This package only depends on the Go stdlib. It performs no I/O: every entry
// point is a pure function from an input string to an owned result value.
// Hosts that load rule definitions from documents should pair it with
// pkg/mdsegment (fenced block extraction) or pkg/rulesetfile (file loading
// and registry).
package ruledsl
