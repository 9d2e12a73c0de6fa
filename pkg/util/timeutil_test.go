package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartOfDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2026-10-19 20:30 UTC is already 2026-10-20 in Tokyo.
	ts := time.Date(2026, 10, 19, 20, 30, 0, 0, time.UTC)

	require.True(t, StartOfDay(ts, time.UTC).Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
	require.True(t, StartOfDay(ts, tokyo).Equal(time.Date(2026, 10, 20, 0, 0, 0, 0, tokyo)))
}

func TestFromUnix(t *testing.T) {
	ts := FromUnix(1792400400, time.UTC)
	require.Equal(t, time.UTC, ts.Location())
	require.Equal(t, int64(1792400400), ts.Unix())
}
