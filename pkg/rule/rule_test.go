package rule_test

import (
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lintcfg/pkg/rule"
)

func TestParseSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   any
		want    rule.Severity
		wantErr bool
	}{
		{name: "off name", input: "off", want: rule.SeverityOff},
		{name: "warn name", input: "warn", want: rule.SeverityWarn},
		{name: "error name upper", input: "ERROR", want: rule.SeverityError},
		{name: "int zero", input: 0, want: rule.SeverityOff},
		{name: "uint64 one", input: uint64(1), want: rule.SeverityWarn},
		{name: "int64 two", input: int64(2), want: rule.SeverityError},
		{name: "float two", input: float64(2), want: rule.SeverityError},
		{name: "out of range", input: 3, wantErr: true},
		{name: "negative", input: int64(-1), wantErr: true},
		{name: "fractional", input: 1.5, wantErr: true},
		{name: "unknown name", input: "warning", wantErr: true},
		{name: "unsupported type", input: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := rule.ParseSeverity(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, rule.ErrInvalidSeverity)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("bare severity", func(t *testing.T) {
		t.Parallel()

		s, err := rule.Parse("warn")
		require.NoError(t, err)
		assert.Equal(t, rule.SeverityWarn, s.Severity())
		assert.False(t, s.HasOptions())
		assert.Empty(t, s.Options())
	})

	t.Run("severity with options", func(t *testing.T) {
		t.Parallel()

		s, err := rule.Parse([]any{"error", map[string]any{"case": "kebabCase"}})
		require.NoError(t, err)
		assert.Equal(t, rule.SeverityError, s.Severity())
		assert.Equal(t, []any{map[string]any{"case": "kebabCase"}}, s.Options())
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		_, err := rule.Parse([]any{})
		require.ErrorIs(t, err, rule.ErrInvalidSeverity)
	})

	t.Run("invalid severity in list", func(t *testing.T) {
		t.Parallel()

		_, err := rule.Parse([]any{"loud", "x"})
		require.ErrorIs(t, err, rule.ErrInvalidSeverity)
	})

	t.Run("must parse panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			rule.MustParse("loud")
		})
	})
}

func TestSpec_OptionsAreCopied(t *testing.T) {
	t.Parallel()

	opts := map[string]any{"allowList": map[string]any{"src": true}}
	s := rule.New(rule.SeverityError, opts)

	got := s.Options()
	got[0].(map[string]any)["allowList"] = nil

	assert.Equal(t, []any{opts}, s.Options())
}

func TestSpec_Value(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "off", rule.New(rule.SeverityOff).Value())
	assert.Equal(t,
		[]any{"warn", "always"},
		rule.New(rule.SeverityWarn, "always").Value(),
	)
}

func TestSpec_Equal(t *testing.T) {
	t.Parallel()

	a := rule.New(rule.SeverityError, map[string]any{"case": "kebabCase"})
	b := rule.New(rule.SeverityError, map[string]any{"case": "kebabCase"})
	c := rule.New(rule.SeverityError)
	d := rule.New(rule.SeverityWarn, map[string]any{"case": "kebabCase"})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestSpec_YAML(t *testing.T) {
	t.Parallel()

	input := `
no-void: 0
unicorn/switch-case-braces: [error, avoid]
jsdoc/require-hyphen-before-param-description: ["warn", "always"]
`

	var rules map[string]rule.Spec

	err := yaml.Unmarshal([]byte(input), &rules)
	require.NoError(t, err)

	require.Len(t, rules, 3)
	assert.Equal(t, rule.SeverityOff, rules["no-void"].Severity())
	assert.Equal(t, rule.SeverityError, rules["unicorn/switch-case-braces"].Severity())
	assert.Equal(t, []any{"avoid"}, rules["unicorn/switch-case-braces"].Options())
	assert.Equal(t, rule.SeverityWarn, rules["jsdoc/require-hyphen-before-param-description"].Severity())

	out, err := yaml.Marshal(rules)
	require.NoError(t, err)

	var again map[string]rule.Spec

	err = yaml.Unmarshal(out, &again)
	require.NoError(t, err)

	for key, spec := range rules {
		assert.True(t, spec.Equal(again[key]), key)
	}
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		key        string
		wantPlugin string
		wantName   string
	}{
		"core rule":         {key: "no-undef", wantName: "no-undef"},
		"plugin rule":       {key: "unicorn/filename-case", wantPlugin: "unicorn", wantName: "filename-case"},
		"scoped plugin":     {key: "@typescript-eslint/no-unused-vars", wantPlugin: "@typescript-eslint", wantName: "no-unused-vars"},
		"scoped sub plugin": {key: "@scope/plugin/rule", wantPlugin: "@scope/plugin", wantName: "rule"},
		"leading slash":     {key: "/odd", wantName: "/odd"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			plugin, ruleName := rule.ParseKey(tc.key)
			assert.Equal(t, tc.wantPlugin, plugin)
			assert.Equal(t, tc.wantName, ruleName)
			assert.Equal(t, tc.wantPlugin, rule.Key(tc.key).Plugin())
			assert.Equal(t, tc.wantName, rule.Key(tc.key).Name())
		})
	}
}
