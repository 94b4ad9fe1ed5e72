package wacz_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbanos/wacz"
)

func TestHashStream(t *testing.T) {
	t.Parallel()

	t.Run("sha256 of known input", func(t *testing.T) {
		t.Parallel()

		n, digest, err := wacz.HashStream("sha256", strings.NewReader("abc"))

		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.Equal(t, "sha256:ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", digest)
	})

	t.Run("same bytes hash the same", func(t *testing.T) {
		t.Parallel()

		for _, alg := range []string{"sha256", "sha512", "md5", "xxh64"} {
			_, first, err := wacz.HashStream(alg, strings.NewReader("determinism"))
			require.NoError(t, err)
			_, second, err := wacz.HashStream(alg, strings.NewReader("determinism"))
			require.NoError(t, err)

			assert.Equal(t, first, second)
			assert.True(t, strings.HasPrefix(first, alg+":"), "digest %q should carry the %s prefix", first, alg)
		}
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		t.Parallel()

		_, _, err := wacz.HashStream("crc32", strings.NewReader("abc"))

		require.Error(t, err)
		assert.Equal(t, wacz.EINVALID, wacz.ErrorCode(err))
	})
}
