package client

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPubCommandPostsText(t *testing.T) {
	var gotPath, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte("ok: true\nts: 1.000000\n"))
	}))
	defer srv.Close()

	cmd := NewPubCommand(func() string { return srv.URL })
	cmd.SetArgs([]string{"hello world"})
	require.NoError(t, cmd.Execute())
	require.Equal(t, "/pub", gotPath)
	require.Equal(t, "text/plain", gotType)
	require.Equal(t, "hello world", gotBody)
}

func TestPubCommandExplicitStamp(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("ok: true\nts: 5.000000\n"))
	}))
	defer srv.Close()

	cmd := NewPubCommand(func() string { return srv.URL })
	cmd.SetArgs([]string{"--ts", "5.000000", "text"})
	require.NoError(t, cmd.Execute())
	require.Equal(t, "/pub/5.000000", gotPath)
}

func TestPubCommandSurfacesConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"event ts already exists"}`, http.StatusConflict)
	}))
	defer srv.Close()

	cmd := NewPubCommand(func() string { return srv.URL })
	cmd.SetArgs([]string{"--ts", "5.000000", "text"})
	require.Error(t, cmd.Execute())
}

func TestPNGListCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/png", r.URL.Path)
		_, _ = w.Write([]byte("aabbccddeeff 1.000000 /png/a.png\n"))
	}))
	defer srv.Close()

	cmd := NewPNGCommand(func() string { return srv.URL })
	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())
}
