package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lintcfg/api/v1beta1"
	"github.com/macropower/lintcfg/api/v1beta1/configs"
	"github.com/macropower/lintcfg/pkg/config"
	"github.com/macropower/lintcfg/pkg/yaml"
)

func TestNewLoaderFromFile(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		setupFile func(t *testing.T) string
		wantErr   bool
	}{
		"valid file": {
			setupFile: func(t *testing.T) string {
				t.Helper()

				return createTempFile(t, "rules:\n  semi: error\n")
			},
		},
		"non-existent file": {
			setupFile: func(t *testing.T) string {
				t.Helper()

				return "/non/existent/file.yaml"
			},
			wantErr: true,
		},
		"directory instead of file": {
			setupFile: func(t *testing.T) string {
				t.Helper()

				return t.TempDir()
			},
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := config.NewLoaderFromFile(tc.setupFile(t), configs.New, configs.DefaultValidator)
			if tc.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	input := `apiVersion: lintcfg.jacobcolvin.com/v1beta1
kind: Config
parser: espree
env:
  node: true
`

	cl := config.NewLoaderFromBytes([]byte(input), configs.New, configs.DefaultValidator)

	cfg, err := cl.ValidateAndLoad()
	require.NoError(t, err)
	assert.Equal(t, v1beta1.APIVersion, cfg.GetAPIVersion())
	assert.Equal(t, configs.KindConfig, cfg.GetKind())
	assert.Equal(t, "espree", cfg.Parser)
	assert.Equal(t, map[string]bool{"node": true}, cfg.Env)
}

func TestLoader_Empty(t *testing.T) {
	t.Parallel()

	cfg, err := config.NewLoaderFromBytes(nil, configs.New, configs.DefaultValidator).ValidateAndLoad()
	require.NoError(t, err)
	assert.Equal(t, configs.KindConfig, cfg.GetKind())
}

func TestLoader_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		errMsg   string
		wantLine int
	}{
		"valid config": {
			input: "rules:\n  semi: [error, always]\n",
		},
		"invalid yaml": {
			input:  "rules:\n  semi: [error\n",
			errMsg: "lintcfg.yaml",
		},
		"invalid severity": {
			input:    "env:\n  node: true\nrules:\n  semi: loud\n",
			errMsg:   "lintcfg.yaml",
			wantLine: 4,
		},
		"unknown field": {
			input:  "parser: espree\nrulez: {}\n",
			errMsg: "rulez",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cl := config.NewLoaderFromBytes([]byte(tc.input), configs.New, configs.DefaultValidator,
				config.WithFilename("lintcfg.yaml"))

			err := cl.Validate()
			if tc.errMsg == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorContains(t, err, tc.errMsg)

			var yamlErr *yaml.Error
			require.ErrorAs(t, err, &yamlErr)

			if tc.wantLine > 0 {
				line, _ := yamlErr.Position()
				assert.Equal(t, tc.wantLine, line)
			}
		})
	}
}

func TestLoader_WithoutValidator(t *testing.T) {
	t.Parallel()

	cl := config.NewLoaderFromBytes([]byte("unknown: field\n"), configs.New, configs.DefaultValidator,
		config.WithValidator(nil))

	require.NoError(t, cl.Validate())
}

func createTempFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lintcfg.yaml")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	return path
}
