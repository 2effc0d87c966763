package glob_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lintcfg/pkg/glob"
)

func TestPathMatcher_Test(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{name: "base name match", pattern: "*.svelte", path: "src/routes/App.svelte", want: true},
		{name: "base name mismatch", pattern: "*.svelte", path: "src/routes/App.ts", want: false},
		{name: "double star any depth", pattern: "**/*.ts", path: "src/lib/a.ts", want: true},
		{name: "double star zero depth", pattern: "**/*.ts", path: "a.ts", want: true},
		{name: "brace list", pattern: "**/*.{ts,svelte}", path: "src/App.svelte", want: true},
		{name: "brace list mismatch", pattern: "**/*.{ts,svelte}", path: "src/App.js", want: false},
		{name: "anchored directory", pattern: "src/*.ts", path: "src/a.ts", want: true},
		{name: "anchored directory too deep", pattern: "src/*.ts", path: "src/lib/a.ts", want: false},
		{name: "leading dot slash", pattern: "./src/*.ts", path: "src/a.ts", want: true},
		{name: "negation prefix ignored", pattern: "!**/*.gen.ts", path: "a.gen.ts", want: true},
		{name: "windows separators", pattern: "src/**/*.ts", path: `src\lib\a.ts`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := glob.DefaultMatcher.Test(tt.pattern, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathMatcher_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := glob.DefaultMatcher.Test("src/[a-", "src/a")
	require.ErrorIs(t, err, glob.ErrInvalidPattern)

	_, err = glob.DefaultMatcher.Test("!", "src/a")
	require.ErrorIs(t, err, glob.ErrInvalidPattern)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, glob.Validate("**/*.{ts,svelte}"))
	require.NoError(t, glob.Validate("!**/*.gen.ts"))
	require.ErrorIs(t, glob.Validate("src/[a-"), glob.ErrInvalidPattern)
	require.ErrorIs(t, glob.Validate("  "), glob.ErrInvalidPattern)
}

func TestPatternSet_Match(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		patterns []string
		path     string
		want     bool
	}{
		"positive match": {
			patterns: []string{"**/*.ts", "!**/*.gen.ts"},
			path:     "a.ts",
			want:     true,
		},
		"later negation vetoes": {
			patterns: []string{"**/*.ts", "!**/*.gen.ts"},
			path:     "a.gen.ts",
			want:     false,
		},
		"any positive pattern matches": {
			patterns: []string{"*.js", "*.ts"},
			path:     "lib/a.ts",
			want:     true,
		},
		"negation before positive has no effect": {
			patterns: []string{"!**/*.gen.ts", "**/*.ts"},
			path:     "a.gen.ts",
			want:     true,
		},
		"re-included after negation": {
			patterns: []string{"**/*.ts", "!gen/**", "gen/keep.ts"},
			path:     "gen/keep.ts",
			want:     true,
		},
		"only negations never match": {
			patterns: []string{"!**/*.gen.ts"},
			path:     "a.ts",
			want:     false,
		},
		"empty set never matches": {
			path: "a.ts",
			want: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := glob.NewPatternSet(nil, tc.patterns...).Match(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPatternSet_Errors(t *testing.T) {
	t.Parallel()

	set := glob.NewPatternSet(nil, "**/*.ts", "src/[a-")

	err := set.Validate()
	require.Error(t, err)

	var patternErr *glob.PatternError
	require.ErrorAs(t, err, &patternErr)
	assert.Equal(t, 1, patternErr.Index)
	assert.Equal(t, "src/[a-", patternErr.Pattern)
	require.ErrorIs(t, err, glob.ErrInvalidPattern)

	_, err = set.Match("src/a.js")
	require.ErrorAs(t, err, &patternErr)
	assert.Equal(t, 1, patternErr.Index)
}

func TestPatternSet_ErrorsIndependentOfPath(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		patterns []string
		path     string
		index    int
	}{
		"invalid after matching positive": {
			patterns: []string{"*.ts", "src/[bad"},
			path:     "a.ts",
			index:    1,
		},
		"invalid after non-matching positive": {
			patterns: []string{"*.ts", "src/[bad"},
			path:     "a.js",
			index:    1,
		},
		"invalid negation after non-matching positive": {
			patterns: []string{"*.js", "![z-"},
			path:     "a.ts",
			index:    1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := glob.NewPatternSet(nil, tc.patterns...).Match(tc.path)

			var patternErr *glob.PatternError
			require.ErrorAs(t, err, &patternErr)
			assert.Equal(t, tc.index, patternErr.Index)
			require.ErrorIs(t, err, glob.ErrInvalidPattern)
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "src/a.ts", glob.Normalize("./src/a.ts"))
	assert.Equal(t, "src/a.ts", glob.Normalize(`src\lib\..\a.ts`))
	assert.Equal(t, "a.ts", glob.Normalize("a.ts"))
}
