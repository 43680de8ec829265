package rulesetfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r9s-ai/open-proxy-rules/pkg/ruledsl"
)

const sampleRuleset = `# Edge routing

Routes for the edge tier.

` + "```rules" + `
# comments and blank lines are skipped

http://edge.example.com/v1 http://app.internal:8080/v1 header://{X-Edge} timeout://(30)
/legacy /v2 rewrite://on
` + "```" + `

Some trailing prose.

` + "```sh" + `
curl http://edge.example.com/v1
` + "```" + `
`

func writeRuleset(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestValidateRulesetFile(t *testing.T) {
	dir := t.TempDir()
	p := writeRuleset(t, dir, "edge.md", sampleRuleset)

	rs, err := ValidateRulesetFile(p)
	require.NoError(t, err)

	require.Equal(t, "edge", rs.Name)
	require.Equal(t, p, rs.Path)
	require.NotEmpty(t, rs.Checksum)

	require.Len(t, rs.Rules, 2)
	require.Equal(t, "edge.example.com", rs.Rules[0].Source.Host)
	require.Equal(t, "app.internal:8080", rs.Rules[0].Target.Host)
	require.Len(t, rs.Rules[0].Rules, 2)
	require.Equal(t, "header", rs.Rules[0].Rules[0].Name)
	require.Equal(t, ruledsl.OpValueRef, rs.Rules[0].Rules[0].Value.Kind)
	require.Equal(t, "/legacy", rs.Rules[1].Source.Path)

	// Non-rules blocks stay out of the rule list, prose stays out of blocks.
	require.Contains(t, rs.Doc, "Routes for the edge tier.")
	require.NotContains(t, rs.Doc, "curl http")
}

func TestValidateRulesetFile_Failures(t *testing.T) {
	dir := t.TempDir()

	t.Run("wrong extension", func(t *testing.T) {
		p := writeRuleset(t, dir, "edge.conf", sampleRuleset)
		_, err := ValidateRulesetFile(p)
		require.ErrorContains(t, err, ".md extension")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ValidateRulesetFile(filepath.Join(dir, "absent.md"))
		require.Error(t, err)
	})

	t.Run("bad rule line fails file", func(t *testing.T) {
		p := writeRuleset(t, dir, "bad.md", "```rules\na b header://{X-Open\n```\n")
		_, err := ValidateRulesetFile(p)
		require.ErrorIs(t, err, ruledsl.ErrMalformedValueDelimiter)
		require.ErrorContains(t, err, "line 1")
	})

	t.Run("unterminated fence fails file", func(t *testing.T) {
		p := writeRuleset(t, dir, "fence.md", "```rules\na b\n")
		_, err := ValidateRulesetFile(p)
		require.Error(t, err)
	})
}

func TestValidateRulesetDir(t *testing.T) {
	dir := t.TempDir()
	writeRuleset(t, dir, "zeta.md", "```rules\n/a /b\n```\n")
	writeRuleset(t, dir, "alpha.md", "```rules\n/c /d\n```\n")
	writeRuleset(t, dir, "notes.txt", "ignored")
	writeRuleset(t, dir, ".hidden.md", "ignored")

	names, err := ValidateRulesetDir(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "zeta"}, names)
}

func TestValidateRulesetDir_AggregatesErrors(t *testing.T) {
	dir := t.TempDir()
	writeRuleset(t, dir, "ok.md", "```rules\n/a /b\n```\n")
	writeRuleset(t, dir, "bad1.md", "```rules\na b nosep\n```\n")
	writeRuleset(t, dir, "bad2.md", "```rules\na b x://{open\n```\n")

	_, err := ValidateRulesetDir(dir)
	require.Error(t, err)
	require.True(t, errors.Is(err, ruledsl.ErrMalformedRuleToken))
	require.True(t, errors.Is(err, ruledsl.ErrMalformedValueDelimiter))
}
