package ruledsl

import (
	"strings"
	"unicode"
)

// ProxyRule is the parsed form of one rule line: source and target addresses
// plus the ordered tail of rule tokens. Duplicate rule names are legal and
// retained in input order.
type ProxyRule struct {
	Source URI    `json:"source"`
	Target URI    `json:"target"`
	Rules  []Rule `json:"rules,omitempty"`
}

// ParseProxyRule parses one line of the form:
//
//	<source-uri> <target-uri> [rule-token]*
//
// The first two whitespace-delimited tokens must be fully consumed by the URI
// grammar; every remaining token must parse as a rule. The call either fully
// succeeds or fails with no partial result.
func ParseProxyRule(line string) (ProxyRule, error) {
	source, rest, err := takeURIToken(line)
	if err != nil {
		return ProxyRule{}, err
	}
	target, rest, err := takeURIToken(rest)
	if err != nil {
		return ProxyRule{}, err
	}

	tail := strings.Fields(rest)
	var rules []Rule
	if len(tail) > 0 {
		rules = make([]Rule, 0, len(tail))
		for _, tok := range tail {
			r, err := ParseRule(tok)
			if err != nil {
				return ProxyRule{}, err
			}
			rules = append(rules, r)
		}
	}

	return ProxyRule{Source: source, Target: target, Rules: rules}, nil
}

// takeURIToken consumes the next whitespace-delimited token and parses it as
// a URI, requiring the URI grammar to leave nothing behind.
func takeURIToken(input string) (URI, string, error) {
	s := strings.TrimLeftFunc(input, unicode.IsSpace)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		end = len(s)
	}
	token := s[:end]
	if token == "" {
		return URI{}, "", parseIssue(ErrMalformedURI, token)
	}
	u, leftover := scanURI(token)
	if leftover != "" {
		return URI{}, "", parseIssue(ErrMalformedURI, token)
	}
	return u, s[end:], nil
}
