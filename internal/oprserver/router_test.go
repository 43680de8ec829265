package oprserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/open-proxy-rules/pkg/config"
	"github.com/r9s-ai/open-proxy-rules/pkg/rulesetfile"
)

func newTestRouter(t *testing.T) (*gin.Engine, *rulesetfile.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	doc := "# edge\n\n```rules\nhttp://a.com http://b.com header://{X-Foo}\n```\n"
	if err := os.WriteFile(filepath.Join(dir, "edge.md"), []byte(doc), 0o600); err != nil {
		t.Fatalf("write ruleset: %v", err)
	}

	reg := rulesetfile.NewRegistry()
	if _, err := reg.ReloadFromDir(dir); err != nil {
		t.Fatalf("ReloadFromDir: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Logging.AccessLog = false
	return NewRouter(cfg, reg, nil, false, nil), reg
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("response not json: %v body=%q", err, w.Body.String())
	}
	return w, out
}

func TestRouter_Healthz(t *testing.T) {
	r, _ := newTestRouter(t)
	w, out := doJSON(t, r, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK || out["ok"] != true {
		t.Fatalf("code=%d out=%v", w.Code, out)
	}
}

func TestRouter_ListRulesets(t *testing.T) {
	r, _ := newTestRouter(t)
	w, out := doJSON(t, r, http.MethodGet, "/rulesets", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d", w.Code)
	}
	names, ok := out["rulesets"].([]any)
	if !ok || len(names) != 1 || names[0] != "edge" {
		t.Fatalf("rulesets=%v", out["rulesets"])
	}
}

func TestRouter_GetRuleset(t *testing.T) {
	r, _ := newTestRouter(t)

	t.Run("found", func(t *testing.T) {
		w, out := doJSON(t, r, http.MethodGet, "/rulesets/edge", "")
		if w.Code != http.StatusOK {
			t.Fatalf("code=%d body=%q", w.Code, w.Body.String())
		}
		if out["name"] != "edge" {
			t.Fatalf("name=%v", out["name"])
		}
		rules, ok := out["rules"].([]any)
		if !ok || len(rules) != 1 {
			t.Fatalf("rules=%v", out["rules"])
		}
	})

	t.Run("missing", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodGet, "/rulesets/absent", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("code=%d", w.Code)
		}
	})
}

func TestRouter_Parse(t *testing.T) {
	r, _ := newTestRouter(t)

	t.Run("ok", func(t *testing.T) {
		w, out := doJSON(t, r, http.MethodPost, "/parse", `{"line":"http://a.com http://b.com timeout://(30)"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("code=%d body=%q", w.Code, w.Body.String())
		}
		rule, ok := out["rule"].(map[string]any)
		if !ok {
			t.Fatalf("rule=%v", out["rule"])
		}
		source, _ := rule["source"].(map[string]any)
		if source["scheme"] != "http" || source["host"] != "a.com" {
			t.Fatalf("source=%v", source)
		}
	})

	t.Run("parse error carries kind", func(t *testing.T) {
		w, out := doJSON(t, r, http.MethodPost, "/parse", `{"line":"a b header://{X-Open"}`)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("code=%d body=%q", w.Code, w.Body.String())
		}
		if out["kind"] != "malformed_value_delimiter" {
			t.Fatalf("kind=%v", out["kind"])
		}
	})

	t.Run("empty line rejected", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/parse", `{"line":"  "}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("code=%d", w.Code)
		}
	})

	t.Run("bad body rejected", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/parse", `{`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("code=%d", w.Code)
		}
	})
}

func TestRouter_RequestIDHeader(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if strings.TrimSpace(w.Header().Get(requestIDHeaderKey)) == "" {
		t.Fatalf("expected generated request id header")
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeaderKey, "rid-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeaderKey); got != "rid-42" {
		t.Fatalf("request id not propagated: %q", got)
	}
}
