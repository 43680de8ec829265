package ruledsl

import (
	"errors"
	"fmt"
)

// Sentinel parse failure kinds. Callers match them with errors.Is against the
// error returned by any entry point.
var (
	// ErrMalformedURI indicates a source/target token the URI grammar could
	// not consume in full.
	ErrMalformedURI = errors.New("malformed uri token")

	// ErrMalformedRuleToken indicates a rule token without a valid
	// alphanumeric name followed by the "://" separator.
	ErrMalformedRuleToken = errors.New("rule token missing name or '://' separator")

	// ErrMalformedValueDelimiter indicates a value token that opens with a
	// known delimiter but is not closed by the matching delimiter at the end
	// of the token.
	ErrMalformedValueDelimiter = errors.New("value delimiter opened without matching close")

	// ErrUnterminatedEscape indicates a template ending in a bare backslash.
	ErrUnterminatedEscape = errors.New("unterminated template escape")

	// ErrUnterminatedInterpolation indicates a "${" with no closing "}".
	ErrUnterminatedInterpolation = errors.New("unterminated template interpolation")

	// ErrUnbalancedTemplateParen indicates a template wrapped in "(" with no
	// trailing ")".
	ErrUnbalancedTemplateParen = errors.New("unbalanced template parenthesis")
)

// ParseIssue carries structured parse failure context: the failing sub-token
// and the failure kind. It wraps the sentinel kind so errors.Is keeps working
// across grammar layers.
type ParseIssue struct {
	Token string
	Err   error
}

func (e *ParseIssue) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	if e.Token == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Token)
}

func (e *ParseIssue) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func parseIssue(kind error, token string) error {
	if kind == nil {
		return nil
	}
	return &ParseIssue{Token: token, Err: kind}
}
