package ruledsl

import (
	"strings"
	"unicode"
)

// URI is the loosely-parsed address used on both sides of a proxy rule.
// Fields are raw substrings of the input; no percent-decoding or
// normalization is applied, and absent parts stay empty.
type URI struct {
	Scheme string `json:"scheme"`
	Host   string `json:"host"`
	Path   string `json:"path"`
	Query  string `json:"query"`
}

// ParseURI parses a whitespace-free token into a URI. It is total: every
// input yields a URI, with unmatched parts left empty.
//
// The steps are greedy and applied once each, in order:
//  1. scheme: an ASCII alphanumeric run immediately followed by "://".
//  2. host: everything up to the first '/'.
//  3. path: everything up to the first '?'.
//  4. query: the remaining non-whitespace run.
func ParseURI(token string) URI {
	u, _ := scanURI(token)
	return u
}

// scanURI returns the parsed URI and whatever input the grammar did not
// consume. ParseProxyRule requires the rest to be empty for source/target
// tokens.
func scanURI(s string) (URI, string) {
	var u URI
	rest := s

	i := 0
	for i < len(rest) && isAlphaNum(rest[i]) {
		i++
	}
	if i > 0 && strings.HasPrefix(rest[i:], "://") {
		u.Scheme = rest[:i]
		rest = rest[i+3:]
	}

	if j := strings.IndexByte(rest, '/'); j >= 0 {
		u.Host = rest[:j]
		rest = rest[j:]
	} else {
		u.Host = rest
		rest = ""
	}

	if j := strings.IndexByte(rest, '?'); j >= 0 {
		u.Path = rest[:j]
		rest = rest[j:]
	} else {
		u.Path = rest
		rest = ""
	}

	if j := strings.IndexFunc(rest, unicode.IsSpace); j >= 0 {
		u.Query = rest[:j]
		rest = rest[j:]
	} else {
		u.Query = rest
		rest = ""
	}

	return u, rest
}

func isAlphaNum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
