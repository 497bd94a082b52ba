package timezone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNowPinnedLocation(t *testing.T) {
	require.Equal(t, "Asia/Shanghai", Location.String())
	require.Equal(t, Location, Now().Location())
}
