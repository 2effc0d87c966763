package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/lintcfg/pkg/version"
)

func TestGetVersion(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, version.GetVersion())
	assert.NotEmpty(t, version.Revision)
	assert.Len(t, version.Attrs(), 4)
}
