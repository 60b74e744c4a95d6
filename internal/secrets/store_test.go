package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	box, err := LoadOrCreate(filepath.Join(t.TempDir(), "k", "secret.key"))
	require.NoError(t, err)

	sealed, err := box.Seal([]byte("hunter2"))
	require.NoError(t, err)
	require.NotContains(t, string(sealed), "hunter2")

	plain, err := box.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, "hunter2", string(plain))
}

func TestLoadOrCreateReusesKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.key")
	first, err := LoadOrCreate(path)
	require.NoError(t, err)
	sealed, err := first.Seal([]byte("pw"))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadOrCreate(path)
	require.NoError(t, err)
	plain, err := second.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, "pw", string(plain))
}

func TestOpenRejectsTampering(t *testing.T) {
	box, err := NewBox(make([]byte, 32))
	require.NoError(t, err)
	sealed, err := box.Seal([]byte("pw"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = box.Open(sealed)
	require.Error(t, err)

	_, err = box.Open([]byte("x"))
	require.Error(t, err)
}

func TestNewBoxKeyLength(t *testing.T) {
	_, err := NewBox([]byte("short"))
	require.Error(t, err)
}
