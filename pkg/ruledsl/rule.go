package ruledsl

import "strings"

// Rule is one parsed rule token: an alphanumeric name and its typed value.
type Rule struct {
	Name  string  `json:"name"`
	Value OpValue `json:"value"`
}

// ParseRule parses a token of the form name://value. The name is one or more
// ASCII alphanumeric characters ending exactly at the "://" separator; the
// remainder of the token is handed whole to ParseRuleValue.
//
// A missing separator or an empty/non-alphanumeric name fails with
// ErrMalformedRuleToken.
func ParseRule(token string) (Rule, error) {
	i := 0
	for i < len(token) && isAlphaNum(token[i]) {
		i++
	}
	if i == 0 || !strings.HasPrefix(token[i:], "://") {
		return Rule{}, parseIssue(ErrMalformedRuleToken, token)
	}

	value, err := ParseRuleValue(token[i+3:])
	if err != nil {
		return Rule{}, err
	}
	return Rule{Name: token[:i], Value: value}, nil
}
