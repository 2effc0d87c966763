package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lintcfg/pkg/compose"
	"github.com/macropower/lintcfg/pkg/layer"
	"github.com/macropower/lintcfg/pkg/rule"
)

func mustLayer(t *testing.T, id string, def layer.Definition) *layer.Layer {
	t.Helper()

	l, err := layer.New(id, "", def)
	require.NoError(t, err)

	return l
}

func TestCompose_Identity(t *testing.T) {
	t.Parallel()

	def := layer.Definition{
		Rules: map[string]rule.Spec{
			"semi":                rule.New(rule.SeverityError, "always"),
			"react/jsx-uses-vars": rule.New(rule.SeverityWarn),
		},
		Settings:      map[string]any{"react": map[string]any{"version": "18"}},
		Parser:        "@babel/eslint-parser",
		ParserOptions: map[string]any{"ecmaVersion": uint64(2022)},
		Env:           map[string]bool{"browser": true, "node": false},
		Plugins:       []string{"react"},
	}
	l := mustLayer(t, "a", def)

	got, err := compose.NewComposer().Compose([]*layer.Layer{l})
	require.NoError(t, err)

	assert.Equal(t, l.Rules(), got.Rules())
	assert.Equal(t, l.Settings(), got.Settings())
	assert.Equal(t, l.Parser(), got.Parser())
	assert.Equal(t, l.ParserOptions(), got.ParserOptions())
	assert.Equal(t, l.Env(), got.Env())
	assert.Equal(t, []string{"react"}, got.Plugins())
}

func TestCompose_Empty(t *testing.T) {
	t.Parallel()

	got, err := compose.NewComposer().Compose(nil)
	require.NoError(t, err)
	assert.Empty(t, got.Rules())
	assert.Empty(t, got.Parser())
	assert.Equal(t, rule.SeverityOff, got.SeverityOf("semi"))
}

func TestCompose_Rules(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		a, b        map[string]rule.Spec
		key         string
		wantSev     rule.Severity
		wantOptions []any
	}{
		"bare severity discards options": {
			a:           map[string]rule.Spec{"quotes": rule.New(rule.SeverityWarn, "double")},
			b:           map[string]rule.Spec{"quotes": rule.New(rule.SeverityError)},
			key:         "quotes",
			wantSev:     rule.SeverityError,
			wantOptions: []any{},
		},
		"options replaced wholesale": {
			a: map[string]rule.Spec{
				"max-len": rule.New(rule.SeverityWarn, map[string]any{"code": uint64(80), "tabWidth": uint64(4)}),
			},
			b: map[string]rule.Spec{
				"max-len": rule.New(rule.SeverityWarn, map[string]any{"code": uint64(120)}),
			},
			key:         "max-len",
			wantSev:     rule.SeverityWarn,
			wantOptions: []any{map[string]any{"code": uint64(120)}},
		},
		"untouched key inherited": {
			a:           map[string]rule.Spec{"eqeqeq": rule.New(rule.SeverityError, "smart")},
			b:           map[string]rule.Spec{"semi": rule.New(rule.SeverityOff)},
			key:         "eqeqeq",
			wantSev:     rule.SeverityError,
			wantOptions: []any{"smart"},
		},
		"turned off": {
			a:           map[string]rule.Spec{"no-console": rule.New(rule.SeverityError)},
			b:           map[string]rule.Spec{"no-console": rule.New(rule.SeverityOff)},
			key:         "no-console",
			wantSev:     rule.SeverityOff,
			wantOptions: []any{},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a := mustLayer(t, "a", layer.Definition{Rules: tc.a})
			b := mustLayer(t, "b", layer.Definition{Rules: tc.b})

			got, err := compose.NewComposer().Compose([]*layer.Layer{a, b})
			require.NoError(t, err)
			assert.Equal(t, tc.wantSev, got.SeverityOf(tc.key))
			assert.Equal(t, tc.wantOptions, got.OptionsOf(tc.key))
		})
	}
}

func TestCompose_EnvMonotonic(t *testing.T) {
	t.Parallel()

	a := mustLayer(t, "a", layer.Definition{Env: map[string]bool{"browser": true, "node": false}})
	b := mustLayer(t, "b", layer.Definition{Env: map[string]bool{"browser": false, "es6": true}})

	got, err := compose.NewComposer().Compose([]*layer.Layer{a, b})
	require.NoError(t, err)

	assert.True(t, got.IsEnvEnabled("browser"))
	assert.True(t, got.IsEnvEnabled("es6"))
	assert.False(t, got.IsEnvEnabled("node"))
	assert.False(t, got.IsEnvEnabled("jest"))
}

func TestCompose_Parser(t *testing.T) {
	t.Parallel()

	a := mustLayer(t, "a", layer.Definition{
		Parser:        "@typescript-eslint/parser",
		ParserOptions: map[string]any{"parser": "espree", "sourceType": "module"},
	})
	b := mustLayer(t, "b", layer.Definition{
		ParserOptions: map[string]any{"parser": "@babel/eslint-parser"},
	})
	c := mustLayer(t, "c", layer.Definition{Parser: "  "})

	got, err := compose.NewComposer().Compose([]*layer.Layer{a, b, c})
	require.NoError(t, err)

	assert.Equal(t, "@typescript-eslint/parser", got.Parser())
	assert.Equal(t, map[string]any{
		"parser":     "@babel/eslint-parser",
		"sourceType": "module",
	}, got.ParserOptions())
}

func TestCompose_Settings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		a, b map[string]any
		want map[string]any
	}{
		"top-level keys replaced": {
			a:    map[string]any{"react": map[string]any{"version": "17", "pragma": "h"}, "x": "a"},
			b:    map[string]any{"react": map[string]any{"version": "18"}},
			want: map[string]any{"react": map[string]any{"version": "18"}, "x": "a"},
		},
		"ignore lists concatenated": {
			a:    map[string]any{"ignore": []any{"foo"}},
			b:    map[string]any{"ignore": []any{"bar"}},
			want: map[string]any{"ignore": []any{"foo", "bar"}},
		},
		"suffix is case-insensitive": {
			a:    map[string]any{"import/IGNORE": []any{"node_modules"}},
			b:    map[string]any{"import/IGNORE": []any{`\.coffee$`}},
			want: map[string]any{"import/IGNORE": []any{"node_modules", `\.coffee$`}},
		},
		"nested additive lists": {
			a: map[string]any{"svelte": map[string]any{
				"ignoreWarnings": []any{"a11y-no-onchange"},
				"kit":            map[string]any{"files": "src"},
			}},
			b: map[string]any{"svelte": map[string]any{
				"ignoreWarnings": []any{"a11y-autofocus"},
			}},
			want: map[string]any{"svelte": map[string]any{
				"ignoreWarnings": []any{"a11y-no-onchange", "a11y-autofocus"},
			}},
		},
		"nested additive list dropped when absent later": {
			a: map[string]any{"svelte": map[string]any{"ignoreWarnings": []any{"a"}}},
			b: map[string]any{"svelte": map[string]any{"compileOptions": map[string]any{"dev": true}}},
			want: map[string]any{"svelte": map[string]any{
				"compileOptions": map[string]any{"dev": true},
			}},
		},
		"nested additive list only in later map": {
			a: map[string]any{"svelte": map[string]any{"kit": true}},
			b: map[string]any{"svelte": map[string]any{"ignoreWarnings": []any{"a"}}},
			want: map[string]any{"svelte": map[string]any{
				"ignoreWarnings": []any{"a"},
			}},
		},
		"scalar earlier value is prepended": {
			a:    map[string]any{"ignorePatterns": "dist"},
			b:    map[string]any{"ignorePatterns": []any{"build"}},
			want: map[string]any{"ignorePatterns": []any{"dist", "build"}},
		},
		"scalar with additive suffix is replaced": {
			a:    map[string]any{"noIgnore": []any{"x"}},
			b:    map[string]any{"noIgnore": true},
			want: map[string]any{"noIgnore": true},
		},
		"non-additive lists replaced": {
			a:    map[string]any{"extensions": []any{".js"}},
			b:    map[string]any{"extensions": []any{".ts"}},
			want: map[string]any{"extensions": []any{".ts"}},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a := mustLayer(t, "a", layer.Definition{Settings: tc.a})
			b := mustLayer(t, "b", layer.Definition{Settings: tc.b})

			got, err := compose.NewComposer().Compose([]*layer.Layer{a, b})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Settings())
		})
	}
}

func TestCompose_CustomSuffixes(t *testing.T) {
	t.Parallel()

	a := mustLayer(t, "a", layer.Definition{Settings: map[string]any{
		"ignore":    []any{"a"},
		"allowList": []any{"x"},
	}})
	b := mustLayer(t, "b", layer.Definition{Settings: map[string]any{
		"ignore":    []any{"b"},
		"allowList": []any{"y"},
	}})

	got, err := compose.NewComposer(compose.WithAdditiveSuffixes("List")).Compose([]*layer.Layer{a, b})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"ignore":    []any{"b"},
		"allowList": []any{"x", "y"},
	}, got.Settings())
}

func TestCompose_LinterOptions(t *testing.T) {
	t.Parallel()

	a := mustLayer(t, "a", layer.Definition{LinterOptions: map[string]any{
		"reportUnusedDisableDirectives": "warn",
		"noInlineConfig":                true,
	}})
	b := mustLayer(t, "b", layer.Definition{LinterOptions: map[string]any{
		"reportUnusedDisableDirectives": "error",
	}})

	got, err := compose.NewComposer().Compose([]*layer.Layer{a, b})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"reportUnusedDisableDirectives": "error",
		"noInlineConfig":                true,
	}, got.LinterOptions())
}

func TestCompose_Plugins(t *testing.T) {
	t.Parallel()

	a := mustLayer(t, "a", layer.Definition{Plugins: []string{"eslint-plugin-react", "@typescript-eslint"}})
	b := mustLayer(t, "b", layer.Definition{
		Plugins: []string{"react", "svelte3"},
		Rules: map[string]rule.Spec{
			"react/prop-types":                   rule.New(rule.SeverityOff),
			"@typescript-eslint/no-explicit-any": rule.New(rule.SeverityWarn),
		},
	})

	got, err := compose.NewComposer().Compose([]*layer.Layer{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"react", "@typescript-eslint", "svelte3"}, got.Plugins())
}

func TestCompose_UndeclaredPluginRule(t *testing.T) {
	t.Parallel()

	base := mustLayer(t, "base", layer.Definition{
		Rules: map[string]rule.Spec{"vue/no-v-html": rule.New(rule.SeverityError)},
	})
	root := mustLayer(t, "root", layer.Definition{
		Plugins: []string{"react"},
		Rules: map[string]rule.Spec{
			"react/prop-types":      rule.New(rule.SeverityOff),
			"jest/no-focused-tests": rule.New(rule.SeverityWarn),
			"vue/no-v-html":         rule.New(rule.SeverityWarn),
		},
	})

	got, err := compose.NewComposer().Compose([]*layer.Layer{base, root})
	assert.Nil(t, got)

	var ruleErr *compose.UndeclaredPluginRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "jest/no-focused-tests", ruleErr.Rule)
	assert.Equal(t, "jest", ruleErr.Plugin)
	assert.Equal(t, "root", ruleErr.Layer)

	assert.Equal(t,
		`root: rule "jest/no-focused-tests": plugin "jest" is not declared`+"\n"+
			`root: rule "vue/no-v-html": plugin "vue" is not declared`,
		err.Error())
}

func TestCompose_PluginDeclaredAfterRule(t *testing.T) {
	t.Parallel()

	a := mustLayer(t, "a", layer.Definition{
		Rules: map[string]rule.Spec{"react/jsx-key": rule.New(rule.SeverityError)},
	})
	b := mustLayer(t, "b", layer.Definition{Plugins: []string{"react"}})

	got, err := compose.NewComposer().Compose([]*layer.Layer{a, b})
	require.NoError(t, err)
	assert.Equal(t, rule.SeverityError, got.SeverityOf("react/jsx-key"))
}

func TestCompose_DoesNotModifyInputs(t *testing.T) {
	t.Parallel()

	a := mustLayer(t, "a", layer.Definition{Settings: map[string]any{
		"svelte": map[string]any{"ignoreWarnings": []any{"x"}},
		"ignore": []any{"a"},
	}})
	b := mustLayer(t, "b", layer.Definition{Settings: map[string]any{
		"svelte": map[string]any{"ignoreWarnings": []any{"y"}},
		"ignore": []any{"b"},
	}})

	c := compose.NewComposer()

	first, err := c.Compose([]*layer.Layer{a, b})
	require.NoError(t, err)

	second, err := c.Compose([]*layer.Layer{a, b})
	require.NoError(t, err)

	assert.Equal(t, first.Settings(), second.Settings())
	assert.Equal(t, map[string]any{
		"svelte": map[string]any{"ignoreWarnings": []any{"x"}},
		"ignore": []any{"a"},
	}, a.Settings())

	settings := first.Settings()
	settings["ignore"] = nil

	v, ok := first.SettingValue("ignore")
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, v)
}
