package oprserver

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/open-proxy-rules/internal/logx"
	"github.com/r9s-ai/open-proxy-rules/pkg/config"
	"github.com/r9s-ai/open-proxy-rules/pkg/mdsegment"
	"github.com/r9s-ai/open-proxy-rules/pkg/ruledsl"
	"github.com/r9s-ai/open-proxy-rules/pkg/rulesetfile"
)

const requestIDHeaderKey = "X-Opr-Request-Id"

func NewRouter(
	cfg *config.Config,
	reg *rulesetfile.Registry,
	accessLogger *log.Logger,
	accessLoggerColor bool,
	accessFormatter *logx.AccessLogFormatter,
) *gin.Engine {
	r := gin.New()
	r.Use(requestIDMiddleware(requestIDHeaderKey))
	if cfg.Logging.AccessLog {
		r.Use(requestLoggerWithColor(accessLogger, accessLoggerColor, accessFormatter))
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	r.GET("/rulesets", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"rulesets": reg.ListRulesetNames(),
		})
	})

	r.GET("/rulesets/:name", func(c *gin.Context) {
		name := c.Param("name")
		rs, ok := reg.GetRuleset(name)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "ruleset not found: " + name})
			return
		}
		c.Set(ctxKeyRuleset, rs.Name)
		c.Set(ctxKeyRules, len(rs.Rules))
		c.JSON(http.StatusOK, gin.H{
			"name":     rs.Name,
			"doc":      rs.Doc,
			"rules":    rs.Rules,
			"checksum": rs.Checksum,
		})
	})

	r.POST("/parse", func(c *gin.Context) {
		var req parseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		line := strings.TrimSpace(req.Line)
		if line == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "line is empty"})
			return
		}
		pr, err := ruledsl.ParseProxyRule(line)
		if err != nil {
			c.Set(ctxKeyOutcome, "parse_error")
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
				"kind":  issueKind(err),
			})
			return
		}
		c.Set(ctxKeyOutcome, "ok")
		c.JSON(http.StatusOK, gin.H{"rule": pr})
	})

	return r
}

type parseRequest struct {
	Line string `json:"line"`
}

// issueKind maps a parse failure to a stable machine-readable kind string.
func issueKind(err error) string {
	switch {
	case errors.Is(err, ruledsl.ErrMalformedURI):
		return "malformed_uri"
	case errors.Is(err, ruledsl.ErrMalformedRuleToken):
		return "malformed_rule_token"
	case errors.Is(err, ruledsl.ErrMalformedValueDelimiter):
		return "malformed_value_delimiter"
	case errors.Is(err, ruledsl.ErrUnterminatedEscape):
		return "unterminated_template_escape"
	case errors.Is(err, ruledsl.ErrUnterminatedInterpolation):
		return "unterminated_interpolation"
	case errors.Is(err, ruledsl.ErrUnbalancedTemplateParen):
		return "unbalanced_template_parenthesis"
	case errors.Is(err, mdsegment.ErrUnterminatedCodeFence):
		return "unterminated_code_fence"
	default:
		return "parse_error"
	}
}
