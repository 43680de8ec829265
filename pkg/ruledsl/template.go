package ruledsl

import "strings"

// TemplatePart is one span of a template string: literal text, or a ${name}
// interpolation when Interp is true. Interp distinguishes an empty
// interpolation name from a literal span.
type TemplatePart struct {
	Text   string `json:"text"`
	Interp bool   `json:"interp,omitempty"`
}

// TemplateString is the ordered sequence of spans produced by ParseTemplate.
type TemplateString struct {
	Parts []TemplatePart `json:"parts"`
}

// Literal joins the literal spans of the template. With no interpolations it
// reconstructs the escape-expanded input.
func (t TemplateString) Literal() string {
	var b strings.Builder
	for _, p := range t.Parts {
		if !p.Interp {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// HasInterp reports whether any part is a ${name} interpolation.
func (t TemplateString) HasInterp() bool {
	for _, p := range t.Parts {
		if p.Interp {
			return true
		}
	}
	return false
}

func rawPart(s string) TemplatePart {
	return TemplatePart{Text: s}
}

func interpPart(name string) TemplatePart {
	return TemplatePart{Text: name, Interp: true}
}

// ParseTemplate tokenizes the interior of a backtick value into literal and
// ${name} interpolation spans.
//
// An optional single outer "(" is stripped together with its matching
// trailing ")"; a "(" prefix without the trailing ")" fails with
// ErrUnbalancedTemplateParen. Inside the template, "\x" emits the single
// character x as a literal span, "${name}" emits an interpolation span with
// the verbatim name (possibly empty), and anything else is consumed as a
// literal run up to the next "${".
func ParseTemplate(input string) (TemplateString, error) {
	s := input
	if strings.HasPrefix(s, "(") {
		if !strings.HasSuffix(s, ")") || len(s) < 2 {
			return TemplateString{}, parseIssue(ErrUnbalancedTemplateParen, input)
		}
		s = s[1 : len(s)-1]
	}

	parts := make([]TemplatePart, 0, 4)
	for len(s) > 0 {
		// Escape: a backslash guarding exactly one non-backslash character.
		if s[0] == '\\' && len(s) == 1 {
			return TemplateString{}, parseIssue(ErrUnterminatedEscape, input)
		}
		if s[0] == '\\' && s[1] != '\\' {
			parts = append(parts, rawPart(s[1:2]))
			s = s[2:]
			continue
		}

		// Interpolation: "${" then the verbatim name up to the next "}".
		if strings.HasPrefix(s, "${") {
			end := strings.IndexByte(s[2:], '}')
			if end < 0 {
				return TemplateString{}, parseIssue(ErrUnterminatedInterpolation, input)
			}
			parts = append(parts, interpPart(s[2:2+end]))
			s = s[2+end+1:]
			continue
		}

		// Literal run: stops at "${" only, so a later escape is re-scanned
		// on the next iteration when it follows an interpolation.
		next := strings.Index(s, "${")
		if next < 0 {
			parts = append(parts, rawPart(s))
			break
		}
		parts = append(parts, rawPart(s[:next]))
		s = s[next:]
	}

	return TemplateString{Parts: parts}, nil
}
