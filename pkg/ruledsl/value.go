package ruledsl

// OpValueKind names the four rule value forms by their source delimiter.
type OpValueKind string

const (
	// OpRaw is the fallback form: the bare token, no delimiters.
	OpRaw OpValueKind = "raw"
	// OpInline is a parenthesis-delimited literal: (text).
	OpInline OpValueKind = "inline"
	// OpValueRef is a brace-delimited literal: {text}.
	OpValueRef OpValueKind = "value"
	// OpTemplate is a backtick-delimited template string.
	OpTemplate OpValueKind = "template"
)

// OpValue is the typed payload of one rule token. Exactly one form is
// produced per token; Template is set only for OpTemplate.
type OpValue struct {
	Kind     OpValueKind     `json:"kind"`
	Text     string          `json:"text,omitempty"`
	Template *TemplateString `json:"template,omitempty"`
}

// valueMatcher classifies one delimiter pair. Matchers are tried in priority
// order; the first whose open delimiter sits at position 0 decides the token,
// and a decided token that is not properly closed is a hard failure rather
// than a fallback to OpRaw.
type valueMatcher struct {
	open  byte
	close byte
	// allowSpace permits interior whitespace. Template text carries literal
	// spaces; inline and value literals never do.
	allowSpace bool
	build      func(interior string) (OpValue, error)
}

var valueMatchers = []valueMatcher{
	{open: '`', close: '`', allowSpace: true, build: buildTemplateValue},
	{open: '(', close: ')', build: buildInlineValue},
	{open: '{', close: '}', build: buildValueRef},
}

func buildTemplateValue(interior string) (OpValue, error) {
	ts, err := ParseTemplate(interior)
	if err != nil {
		return OpValue{}, err
	}
	return OpValue{Kind: OpTemplate, Template: &ts}, nil
}

func buildInlineValue(interior string) (OpValue, error) {
	return OpValue{Kind: OpInline, Text: interior}, nil
}

func buildValueRef(interior string) (OpValue, error) {
	return OpValue{Kind: OpValueRef, Text: interior}, nil
}

// ParseRuleValue classifies one whitespace-free value token into an OpValue.
//
// A token opening with '`', '(' or '{' must end with the matching close
// delimiter and contain no whitespace and no earlier occurrence of the close
// delimiter; otherwise the whole parse fails with ErrMalformedValueDelimiter.
// Any other token is returned verbatim as OpRaw.
func ParseRuleValue(token string) (OpValue, error) {
	for _, m := range valueMatchers {
		if len(token) == 0 || token[0] != m.open {
			continue
		}
		interior, ok := delimitedInterior(token, m.close, m.allowSpace)
		if !ok {
			return OpValue{}, parseIssue(ErrMalformedValueDelimiter, token)
		}
		return m.build(interior)
	}
	return OpValue{Kind: OpRaw, Text: token}, nil
}

// delimitedInterior extracts token[1:len-1] when the close delimiter is the
// final byte and the interior contains no earlier close delimiter (and,
// unless allowed, no whitespace).
func delimitedInterior(token string, close byte, allowSpace bool) (string, bool) {
	if len(token) < 2 || token[len(token)-1] != close {
		return "", false
	}
	interior := token[1 : len(token)-1]
	for i := 0; i < len(interior); i++ {
		c := interior[i]
		if c == close {
			return "", false
		}
		if !allowSpace && (c == ' ' || c == '\t') {
			return "", false
		}
	}
	return interior, true
}
