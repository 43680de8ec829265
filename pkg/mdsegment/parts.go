package mdsegment

import "strings"

// CodePair is one extracted code block: its language tag and raw body.
type CodePair struct {
	Language string `json:"language"`
	Body     string `json:"body"`
}

// IntoParts reduces a parsed block sequence into the joined prose text and
// the ordered code blocks. Each line appends its text (a blank line appends
// a bare newline) to the joined text; each code block contributes one
// CodePair and no prose.
func IntoParts(blocks []Block) (string, []CodePair) {
	var text strings.Builder
	codes := make([]CodePair, 0, 4)
	for _, b := range blocks {
		switch b.Kind {
		case KindLine:
			if len(b.Inlines) == 0 {
				text.WriteByte('\n')
				continue
			}
			text.WriteString(b.Inlines[0].Text)
			text.WriteByte('\n')
		case KindCodeblock:
			codes = append(codes, CodePair{Language: b.Language, Body: b.Body})
		}
	}
	return text.String(), codes
}
