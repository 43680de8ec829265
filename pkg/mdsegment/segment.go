// Package mdsegment splits a loosely markdown-formatted document into plain
// text lines and fenced code blocks. It performs no inline markdown parsing
// beyond line/codeblock disambiguation: emphasis, links and lists all pass
// through as plain text.
//
// The typical consumer extracts fenced block bodies and feeds their lines to
// pkg/ruledsl; pkg/rulesetfile packages that pairing for ruleset documents.
package mdsegment

import (
	"errors"
	"strings"
)

// fence is the literal code block delimiter.
const fence = "```"

// UnknownLanguage is the language tag recorded for a fence with no tag.
const UnknownLanguage = "__UNKNOWN__"

// ErrUnterminatedCodeFence indicates an opening fence with no closing fence.
var ErrUnterminatedCodeFence = errors.New("unterminated code fence")

// BlockKind discriminates the two block forms.
type BlockKind string

const (
	KindLine      BlockKind = "line"
	KindCodeblock BlockKind = "codeblock"
)

// Inline is one inline span within a line. Plain text is the only kind
// today; the struct form leaves room for more.
type Inline struct {
	Text string `json:"text"`
}

// Block is one segmented document element: a text line or a fenced code
// block. Inlines is set for KindLine (empty for a blank line); Language and
// Body are set for KindCodeblock.
type Block struct {
	Kind     BlockKind `json:"kind"`
	Inlines  []Inline  `json:"inlines,omitempty"`
	Language string    `json:"language,omitempty"`
	Body     string    `json:"body,omitempty"`
}

func lineBlock(text string) Block {
	if text == "" {
		return Block{Kind: KindLine}
	}
	return Block{Kind: KindLine, Inlines: []Inline{{Text: text}}}
}

func codeBlock(language, body string) Block {
	return Block{Kind: KindCodeblock, Language: language, Body: body}
}

// Parse segments a document into ordered line and code block records.
//
// A line is the longest run of characters up to (and consuming) the next
// newline that does not begin a fence; a fence occurring mid-line terminates
// the line and starts a code block. A code block runs from its opening fence
// through the matching closing fence; an opening fence with no closing fence
// fails the whole parse with ErrUnterminatedCodeFence.
func Parse(document string) ([]Block, error) {
	blocks := make([]Block, 0, 8)
	rest := document
	for len(rest) > 0 {
		if strings.HasPrefix(rest, fence) {
			blk, next, err := scanCodeBlock(rest)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, blk)
			rest = next
			continue
		}
		text, next := scanLine(rest)
		blocks = append(blocks, lineBlock(text))
		rest = next
	}
	return blocks, nil
}

// scanLine consumes up to the next newline or fence. The newline is consumed
// with the line; a fence is left for the caller.
func scanLine(s string) (text, rest string) {
	nl := strings.IndexByte(s, '\n')
	fn := strings.Index(s, fence)
	if fn >= 0 && (nl < 0 || fn < nl) {
		return s[:fn], s[fn:]
	}
	if nl < 0 {
		return s, ""
	}
	return s[:nl], s[nl+1:]
}

// scanCodeBlock consumes a fence, its language tag, the body, and the
// closing fence. The input must start with an opening fence.
func scanCodeBlock(s string) (Block, string, error) {
	after := s[len(fence):]

	lang, afterLang := scanLine(after)
	if lang == "" {
		lang = UnknownLanguage
	}
	// scanLine leaves an immediate closing fence unconsumed; an empty block
	// body is still terminated by it below.
	end := strings.Index(afterLang, fence)
	if end < 0 {
		return Block{}, "", ErrUnterminatedCodeFence
	}
	body := afterLang[:end]
	return codeBlock(lang, body), afterLang[end+len(fence):], nil
}
