package wacz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbanos/wacz"
)

func TestTimestampToISO(t *testing.T) {
	t.Parallel()

	iso, err := wacz.TimestampToISO("20200101123456")

	require.NoError(t, err)
	assert.Equal(t, "2020-01-01T12:34:56Z", iso)
}

func TestTimestampToISO_Invalid(t *testing.T) {
	t.Parallel()

	_, err := wacz.TimestampToISO("not-a-timestamp")

	require.Error(t, err)
	assert.Equal(t, wacz.EINVALID, wacz.ErrorCode(err))
}

func TestISOToTimestamp(t *testing.T) {
	t.Parallel()

	t.Run("second precision", func(t *testing.T) {
		t.Parallel()

		ts, err := wacz.ISOToTimestamp("2020-01-01T12:34:56Z")

		require.NoError(t, err)
		assert.Equal(t, "20200101123456", ts)
	})

	t.Run("fractional seconds are truncated", func(t *testing.T) {
		t.Parallel()

		ts, err := wacz.ISOToTimestamp("2020-01-01T12:34:56.789Z")

		require.NoError(t, err)
		assert.Equal(t, "20200101123456", ts)
	})

	t.Run("offset dates are normalized to UTC", func(t *testing.T) {
		t.Parallel()

		ts, err := wacz.ISOToTimestamp("2020-01-01T14:34:56+02:00")

		require.NoError(t, err)
		assert.Equal(t, "20200101123456", ts)
	})

	t.Run("invalid date", func(t *testing.T) {
		t.Parallel()

		_, err := wacz.ISOToTimestamp("20200101123456")

		require.Error(t, err)
		assert.Equal(t, wacz.EINVALID, wacz.ErrorCode(err))
	})
}

func TestTimestampRoundTrip(t *testing.T) {
	t.Parallel()

	for _, ts := range []string{"20200101000000", "19991231235959", "20260830120000"} {
		iso, err := wacz.TimestampToISO(ts)
		require.NoError(t, err)

		back, err := wacz.ISOToTimestamp(iso)
		require.NoError(t, err)
		assert.Equal(t, ts, back)
	}
}
