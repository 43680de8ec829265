package oprserver

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/r9s-ai/open-proxy-rules/internal/logx"
)

const (
	ctxKeyRequestID = "opr.request_id"
	ctxKeyRuleset   = "opr.ruleset"
	ctxKeyRules     = "opr.rules"
	ctxKeyOutcome   = "opr.outcome"
)

func requestIDMiddleware(headerKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(headerKey))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, rid)
		c.Writer.Header().Set(headerKey, rid)
		c.Next()
	}
}

var accessLogContextFields = map[string]string{
	ctxKeyRequestID: "request_id",
	ctxKeyRuleset:   "ruleset",
	ctxKeyRules:     "rules",
	ctxKeyOutcome:   "outcome",
}

func requestLoggerWithColor(l *log.Logger, color bool, accessFormatter *logx.AccessLogFormatter) gin.HandlerFunc {
	if l == nil {
		l = log.New(os.Stdout, "", log.LstdFlags)
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		fields := make(map[string]any, len(accessLogContextFields))
		for ctxKey, logKey := range accessLogContextFields {
			if v, ok := c.Get(ctxKey); ok {
				fields[logKey] = v
			}
		}

		if accessFormatter != nil {
			line := accessFormatter.Format(start, status, latency, c.ClientIP(), c.Request.Method, path, fields, color)
			if line != "" {
				l.Println(line)
			}
			return
		}
		l.Printf("%s | %s %s | %v | request_id=%v",
			logx.ColorizeStatusWith(status, color),
			c.Request.Method, path, latency, fields["request_id"])
	}
}
