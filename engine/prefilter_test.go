package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kolkov/reggie/engine"
)

func TestExtractLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want *engine.LiteralInfo
	}{
		{`error.*failed`, &engine.LiteralInfo{Required: []string{"error", "failed"}}},
		{`\Aapi/v1/\d+`, &engine.LiteralInfo{Prefix: "api/v1/"}},
		{`^abc`, &engine.LiteralInfo{Prefix: "abc"}},
		{`(?m)^abc`, &engine.LiteralInfo{Required: []string{"abc"}}},
		{`\d+done\Z`, &engine.LiteralInfo{Suffix: "done"}},
		{`ab?c`, &engine.LiteralInfo{Required: []string{"a", "c"}}},
		{`a+`, &engine.LiteralInfo{Required: []string{"a"}}},
		{`x(?:y|z)x`, &engine.LiteralInfo{Required: []string{"x"}}},
		{`(?#c)abc`, &engine.LiteralInfo{Required: []string{"abc"}}},
		{`foo|bar`, nil},
		{`(?i)abc`, nil},
		{`(?x)a b`, nil},
		{`\d+`, nil},
		{`a*`, nil},
		{``, nil},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.ExtractLiterals(build(t, tt.src)))
		})
	}
}

func TestCanReject(t *testing.T) {
	li := &engine.LiteralInfo{Prefix: "GET ", Suffix: "HTTP/1.1", Required: []string{"/api/"}}
	tests := []struct {
		input  string
		reject bool
	}{
		{"GET /api/users HTTP/1.1", false},
		{"POST /api/users HTTP/1.1", true},
		{"GET /api/users HTTP/2", true},
		{"GET /static HTTP/1.1", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.reject, li.CanReject(tt.input), tt.input)
	}
	assert.False(t, (&engine.LiteralInfo{}).CanReject(""))
}

// TestPrefilterKeepsResults checks that prefiltered matchers agree with
// the backend on matching and non-matching input.
func TestPrefilterKeepsResults(t *testing.T) {
	tests := []struct {
		src     string
		dialect engine.Dialect
		input   string
		want    []string
	}{
		{`id=(\d+);`, engine.RE2, "x id=42; y", []string{"id=42;", "42"}},
		{`id=(\d+);`, engine.RE2, "x id=42 y", nil},
		{`(?<=\$)\d+ USD`, engine.Backtrack, "costs $42 USD", []string{"42 USD"}},
		{`(?<=\$)\d+ USD`, engine.Backtrack, "costs $42 EUR", nil},
		{`^ab(c)`, engine.RE2, "abc", []string{"abc", "c"}},
		{`^ab(c)`, engine.RE2, "xabc", nil},
	}
	for _, tt := range tests {
		t.Run(tt.src+"/"+tt.input, func(t *testing.T) {
			m, err := engine.Compile(build(t, tt.src), engine.Options{Dialect: tt.dialect})
			require.NoError(t, err)

			got, err := m.FindStringSubmatch(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			ok, err := m.MatchString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want != nil, ok)
		})
	}
}

func TestPrefilterLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, err := engine.Compile(build(t, `^GET (\S+)`), engine.Options{Logger: zap.New(core)})
	require.NoError(t, err)

	entries := logs.FilterMessage("using literal prefilter").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "GET ", entries[0].ContextMap()["prefix"])
}
