package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetLocation(t *testing.T) {
	previous := Location
	defer func() { Location = previous }()

	err := SetLocation("America/Los_Angeles")
	require.NoError(t, err)
	require.Equal(t, "America/Los_Angeles", Now().Location().String())

	err = SetLocation("Not/AZone")
	require.Error(t, err)
	require.Equal(t, "America/Los_Angeles", Location.String())
}

func TestNowIsCurrent(t *testing.T) {
	require.WithinDuration(t, time.Now(), Now(), time.Second)
}
