package nodeid

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func v1Filename(t *testing.T) (string, string) {
	t.Helper()
	u, err := uuid.NewUUID() // version 1
	require.NoError(t, err)
	want := strings.ToLower(u.String()[24:]) // node field is the last 12 hex chars
	return u.String() + ".png", want
}

func TestFromFilenameV1(t *testing.T) {
	name, want := v1Filename(t)
	node, ok := FromFilename(name)
	require.True(t, ok)
	require.Equal(t, want, node)
	require.True(t, Valid(node))
}

func TestFromFilenameStripsExtensionCaseInsensitively(t *testing.T) {
	name, want := v1Filename(t)
	upper := strings.TrimSuffix(name, ".png") + ".PNG"
	node, ok := FromFilename(upper)
	require.True(t, ok)
	require.Equal(t, want, node)
}

func TestFromFilenameRejectsNonV1(t *testing.T) {
	_, ok := FromFilename(uuid.NewString() + ".png") // version 4
	require.False(t, ok)
}

func TestFromFilenameRejectsNonUUID(t *testing.T) {
	for _, name := range []string{"screenshot.png", "not-a-uuid", "", "a.png"} {
		_, ok := FromFilename(name)
		require.False(t, ok, "filename %q", name)
	}
}

func TestValid(t *testing.T) {
	require.True(t, Valid("0123456789ab"))
	require.True(t, Valid("ABCDEF012345"))
	require.False(t, Valid("0123456789"))
	require.False(t, Valid("0123456789abcd"))
	require.False(t, Valid("0123456789zz"))
}

func TestEqual(t *testing.T) {
	require.True(t, Equal("AABBCCDDEEFF", "aabbccddeeff"))
	require.False(t, Equal("aabbccddeeff", "aabbccddee00"))
}
