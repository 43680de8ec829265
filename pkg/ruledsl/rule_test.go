package ruledsl

import (
	"errors"
	"testing"
)

func TestParseRule(t *testing.T) {
	t.Run("brace value", func(t *testing.T) {
		r, err := ParseRule("header://{X-Foo}")
		if err != nil {
			t.Fatalf("err=%v", err)
		}
		if r.Name != "header" {
			t.Fatalf("name=%q", r.Name)
		}
		if r.Value.Kind != OpValueRef || r.Value.Text != "X-Foo" {
			t.Fatalf("unexpected value: %+v", r.Value)
		}
	})

	t.Run("template value with space", func(t *testing.T) {
		r, err := ParseRule("auth://`Bearer ${token}`")
		if err != nil {
			t.Fatalf("err=%v", err)
		}
		if r.Name != "auth" || r.Value.Kind != OpTemplate {
			t.Fatalf("unexpected rule: %+v", r)
		}
		want := []TemplatePart{
			{Text: "Bearer "},
			{Text: "token", Interp: true},
		}
		assertParts(t, r.Value.Template.Parts, want)
	})

	t.Run("empty value token is raw", func(t *testing.T) {
		r, err := ParseRule("flag://")
		if err != nil {
			t.Fatalf("err=%v", err)
		}
		if r.Value.Kind != OpRaw || r.Value.Text != "" {
			t.Fatalf("unexpected value: %+v", r.Value)
		}
	})

	t.Run("alphanumeric name with digits", func(t *testing.T) {
		r, err := ParseRule("retry2://(5)")
		if err != nil {
			t.Fatalf("err=%v", err)
		}
		if r.Name != "retry2" {
			t.Fatalf("name=%q", r.Name)
		}
	})
}

func TestParseRule_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{name: "missing separator", token: "header{X-Foo}"},
		{name: "empty name", token: "://{X-Foo}"},
		{name: "name stops before separator", token: "head-er://x"},
		{name: "empty token", token: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRule(tc.token)
			if !errors.Is(err, ErrMalformedRuleToken) {
				t.Fatalf("ParseRule(%q) err=%v want ErrMalformedRuleToken", tc.token, err)
			}
		})
	}
}

func TestParseRule_ValueErrorPropagates(t *testing.T) {
	_, err := ParseRule("header://{X-Foo")
	if !errors.Is(err, ErrMalformedValueDelimiter) {
		t.Fatalf("err=%v want ErrMalformedValueDelimiter", err)
	}
}
