package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/fang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lintcfg/internal/cli"
	"github.com/macropower/lintcfg/pkg/config"
	"github.com/macropower/lintcfg/pkg/resolve"
	"github.com/macropower/lintcfg/pkg/yaml"
)

const projectConfig = `apiVersion: lintcfg.jacobcolvin.com/v1beta1
kind: Config
extends:
  - eslint:recommended
env:
  browser: true
rules:
  semi: [error, always]
overrides:
  - files: ["*.test.js"]
    env:
      jest: true
    rules:
      no-undef: "off"
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := cli.NewRootCmd()
	cmd.SetArgs(append(args, "--plugin-dir", filepath.Join(t.TempDir(), "plugins")))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(t.Context())

	return out.String(), err
}

func writeProject(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileNames[0]), []byte(content), 0o600))

	return dir
}

func TestPrintConfig(t *testing.T) {
	dir := writeProject(t, projectConfig)

	tcs := map[string]struct {
		env       map[string]any
		file      string
		wantUndef any
	}{
		"source file": {
			file:      "src/app.js",
			wantUndef: "error",
			env:       map[string]any{"browser": true},
		},
		"test file": {
			file:      "src/app.test.js",
			wantUndef: "off",
			env:       map[string]any{"browser": true, "jest": true},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, "print-config", filepath.Join(dir, tc.file))
			require.NoError(t, err)

			var got struct {
				Env   map[string]any `json:"env"`
				Rules map[string]any `json:"rules"`
			}
			require.NoError(t, yaml.Unmarshal([]byte(out), &got))

			assert.Equal(t, tc.wantUndef, got.Rules["no-undef"])
			assert.Equal(t, []any{"error", "always"}, got.Rules["semi"])
			assert.Equal(t, tc.env, got.Env)
		})
	}
}

func TestPrintConfig_ExplicitConfig(t *testing.T) {
	dir := writeProject(t, projectConfig)
	other := filepath.Join(t.TempDir(), "ci.yaml")
	require.NoError(t, os.WriteFile(other, []byte("rules:\n  eqeqeq: warn\n"), 0o600))

	out, err := execute(t, "print-config", filepath.Join(dir, "app.js"), "--config", other)
	require.NoError(t, err)
	assert.Contains(t, out, "eqeqeq: warn")
	assert.NotContains(t, out, "semi")
}

func TestPrintConfig_Errors(t *testing.T) {
	tcs := map[string]struct {
		config string
		args   []string
		err    error
	}{
		"unknown preset": {
			config: "extends: [plugin:react/recommended]\n",
		},
		"unknown plugin in strict mode": {
			config: "plugins: [react]\nrules:\n  react/jsx-key: error\n",
			args:   []string{"--strict"},
			err:    &resolve.UnknownPluginError{},
		},
		"no config": {
			err: config.ErrNotFound,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			if tc.config != "" {
				dir = writeProject(t, tc.config)
			}

			args := append([]string{"print-config", filepath.Join(dir, "app.js")}, tc.args...)

			_, err := execute(t, args...)
			require.Error(t, err)

			switch target := tc.err.(type) {
			case nil:
			case *resolve.UnknownPluginError:
				require.ErrorAs(t, err, &target)
			default:
				require.ErrorIs(t, err, target)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	dir := writeProject(t, projectConfig)
	path := filepath.Join(dir, config.FileNames[0])

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Equal(t, path+": ok\n", out)

	bad := writeProject(t, "overrides:\n  - files: [\"[\"]\n")

	_, err = execute(t, "validate", filepath.Join(bad, config.FileNames[0]))
	require.Error(t, err)
}

func TestSchema(t *testing.T) {
	out, err := execute(t, "schema", "Config")
	require.NoError(t, err)
	assert.Contains(t, out, `"$schema"`)

	_, err = execute(t, "schema", "Deployment")
	require.Error(t, err)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", config.FileNames[0])

	_, err := execute(t, "init", path)
	require.NoError(t, err)
	require.FileExists(t, path)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err  error
		want []string
	}{
		"plain error": {
			err:  errors.New("boom"),
			want: []string{"boom"},
		},
		"usage error": {
			err:  errors.New("unknown flag: --nope"),
			want: []string{"unknown flag: --nope", "--help"},
		},
		"unknown plugin": {
			err:  fmt.Errorf("resolve app.js: %w", &resolve.UnknownPluginError{Plugin: "react", Err: errors.New("not found")}),
			want: []string{"react", "--plugin-dir"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			cli.ErrorHandler(&buf, fang.Styles{}, tc.err)

			for _, want := range tc.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}
