package version

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	stdout = &out

	cmd := New()
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "build-ferry "), out.String())
}
