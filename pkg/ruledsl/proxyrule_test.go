package ruledsl

import (
	"errors"
	"testing"
)

func TestParseProxyRule(t *testing.T) {
	pr, err := ParseProxyRule("http://a.com http://b.com header://{X-Foo} timeout://(30)")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if pr.Source != (URI{Scheme: "http", Host: "a.com"}) {
		t.Fatalf("source=%+v", pr.Source)
	}
	if pr.Target != (URI{Scheme: "http", Host: "b.com"}) {
		t.Fatalf("target=%+v", pr.Target)
	}
	if len(pr.Rules) != 2 {
		t.Fatalf("rules=%d want=2", len(pr.Rules))
	}
	if pr.Rules[0].Name != "header" || pr.Rules[0].Value.Kind != OpValueRef || pr.Rules[0].Value.Text != "X-Foo" {
		t.Fatalf("rules[0]=%+v", pr.Rules[0])
	}
	if pr.Rules[1].Name != "timeout" || pr.Rules[1].Value.Kind != OpInline || pr.Rules[1].Value.Text != "30" {
		t.Fatalf("rules[1]=%+v", pr.Rules[1])
	}
}

func TestParseProxyRule_EmptyTail(t *testing.T) {
	pr, err := ParseProxyRule("a b")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(pr.Rules) != 0 {
		t.Fatalf("rules=%d want=0", len(pr.Rules))
	}
	if pr.Source.Host != "a" || pr.Target.Host != "b" {
		t.Fatalf("source=%+v target=%+v", pr.Source, pr.Target)
	}
}

func TestParseProxyRule_WhitespaceHandling(t *testing.T) {
	pr, err := ParseProxyRule("  /src   /dst   cache://on  ")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if pr.Source.Path != "/src" || pr.Target.Path != "/dst" {
		t.Fatalf("source=%+v target=%+v", pr.Source, pr.Target)
	}
	if len(pr.Rules) != 1 || pr.Rules[0].Name != "cache" {
		t.Fatalf("rules=%+v", pr.Rules)
	}
	if pr.Rules[0].Value.Kind != OpRaw || pr.Rules[0].Value.Text != "on" {
		t.Fatalf("rules[0].Value=%+v", pr.Rules[0].Value)
	}
}

func TestParseProxyRule_DuplicateRuleNamesRetained(t *testing.T) {
	pr, err := ParseProxyRule("a b header://{X-A} header://{X-B}")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(pr.Rules) != 2 {
		t.Fatalf("rules=%d want=2", len(pr.Rules))
	}
	if pr.Rules[0].Value.Text != "X-A" || pr.Rules[1].Value.Text != "X-B" {
		t.Fatalf("duplicate rules not retained in order: %+v", pr.Rules)
	}
}

func TestParseProxyRule_Failures(t *testing.T) {
	t.Run("empty line", func(t *testing.T) {
		_, err := ParseProxyRule("")
		if !errors.Is(err, ErrMalformedURI) {
			t.Fatalf("err=%v want ErrMalformedURI", err)
		}
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := ParseProxyRule("http://a.com")
		if !errors.Is(err, ErrMalformedURI) {
			t.Fatalf("err=%v want ErrMalformedURI", err)
		}
	})

	t.Run("bad rule token fails whole line", func(t *testing.T) {
		_, err := ParseProxyRule("a b good://ok bad-token")
		if !errors.Is(err, ErrMalformedRuleToken) {
			t.Fatalf("err=%v want ErrMalformedRuleToken", err)
		}
	})

	t.Run("unclosed value fails whole line", func(t *testing.T) {
		_, err := ParseProxyRule("a b header://{X-Foo")
		if !errors.Is(err, ErrMalformedValueDelimiter) {
			t.Fatalf("err=%v want ErrMalformedValueDelimiter", err)
		}
		var issue *ParseIssue
		if !errors.As(err, &issue) || issue.Token != "{X-Foo" {
			t.Fatalf("expected offending token in issue, got %v", err)
		}
	})
}
