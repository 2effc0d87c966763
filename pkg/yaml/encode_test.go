package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lintcfg/pkg/yaml"
)

func TestMarshal(t *testing.T) {
	t.Parallel()

	b, err := yaml.Marshal(map[string]any{
		"plugins": []string{"react"},
	})
	require.NoError(t, err)
	assert.Equal(t, "plugins:\n  - react\n", string(b))
}
