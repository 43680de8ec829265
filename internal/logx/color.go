package logx

import "strconv"

const (
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiReset  = "\x1b[0m"
)

// ColorizeStatusWith renders an HTTP status code, wrapped in an ANSI color
// by class when color is enabled.
func ColorizeStatusWith(status int, color bool) string {
	s := strconv.Itoa(status)
	if !color {
		return s
	}
	switch {
	case status >= 200 && status < 300:
		return ansiGreen + s + ansiReset
	case status >= 400 && status < 500:
		return ansiYellow + s + ansiReset
	case status >= 500:
		return ansiRed + s + ansiReset
	default:
		return s
	}
}
