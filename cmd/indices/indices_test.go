package indices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/foodchain-go/internal/conf"
)

func TestCommand(t *testing.T) {
	settings := &conf.Settings{}
	cmd := Command(settings)

	assert.Equal(t, "indices", cmd.Use)
	for _, flag := range []string{"zones", "survey", "traits", "output"} {
		require.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %s", flag)
	}

	// The command computes F1 through F5; F6 needs external services and
	// the help says so.
	assert.Contains(t, cmd.Long, "F6")
	assert.Contains(t, cmd.Long, "external")
}
