package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lintcfg/api/v1beta1/configs"
	"github.com/macropower/lintcfg/pkg/config"
)

func TestFileLoader_LoadDocument(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		content    string
		err        error
		kind       string
		wantLayers int
	}{
		"config": {
			content:    "extends: ./base.yaml\nrules:\n  semi: warn\n",
			kind:       configs.KindConfig,
			wantLayers: 1,
		},
		"empty": {
			content:    "",
			kind:       configs.KindConfig,
			wantLayers: 1,
		},
		"config list": {
			content: `kind: ConfigList
configs:
  - rules:
      semi: warn
  - files: ["*.ts"]
    parser: typescript
`,
			kind:       configs.KindConfigList,
			wantLayers: 2,
		},
		"unknown kind": {
			content: "kind: Policy\n",
			err:     config.ErrUnsupportedKind,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := createTempFile(t, tc.content)

			doc, err := config.NewFileLoader().LoadDocument(t.Context(), path)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.kind, doc.Kind)
			assert.Equal(t, path, doc.Path)
			assert.Equal(t, filepath.Dir(path), doc.Dir())
			require.Len(t, doc.Layers, tc.wantLayers)

			for _, l := range doc.Layers {
				assert.Equal(t, filepath.Dir(path), l.Dir())
			}
		})
	}
}

func TestFileLoader_LoadLayer(t *testing.T) {
	t.Parallel()

	path := createTempFile(t, "parser: espree\n")

	l, err := config.NewFileLoader().LoadLayer(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, path, l.ID())
	assert.Equal(t, "espree", l.Parser())

	listPath := createTempFile(t, "kind: ConfigList\nconfigs: []\n")

	_, err = config.NewFileLoader().LoadLayer(t.Context(), listPath)
	require.ErrorIs(t, err, config.ErrUnsupportedKind)
}

func TestFileLoader_Cancelled(t *testing.T) {
	t.Parallel()

	path := createTempFile(t, "parser: espree\n")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := config.NewFileLoader().LoadDocument(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "lintcfg.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{}\n"), 0o600))

	sub := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(sub, 0o700))

	got, err := config.Find(filepath.Join(sub, "index.js"))
	require.NoError(t, err)
	assert.Equal(t, cfgPath, got)
}
