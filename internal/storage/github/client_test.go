package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mannepanne/hultberg-admin/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{APIBase: srv.URL, Repo: "owner/site", Token: "test-token"})
}

func TestClient_Read(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/repos/owner/site/contents/public/updates/data/hello.json", r.URL.Path)
		assert.Equal(t, "token test-token", r.Header.Get("Authorization"))

		// GitHub wraps base64 content with newlines.
		encoded := base64.StdEncoding.EncodeToString([]byte(`{"slug":"hello"}`))
		json.NewEncoder(w).Encode(map[string]string{
			"content":  encoded[:10] + "\n" + encoded[10:],
			"sha":      "abc123",
			"encoding": "base64",
		})
	})

	file, err := c.Read(context.Background(), "public/updates/data/hello.json")
	require.NoError(t, err)
	assert.Equal(t, "abc123", file.Revision)
	assert.Equal(t, `{"slug":"hello"}`, string(file.Content))
}

func TestClient_Read_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Read(context.Background(), "missing.json")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestClient_Write_RoundtripUTF8(t *testing.T) {
	content := []byte("title: café ☕")

	var stored string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			var req struct {
				Message string `json:"message"`
				Content string `json:"content"`
				SHA     string `json:"sha"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Save update: hello", req.Message)
			assert.Empty(t, req.SHA)
			stored = req.Content
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]string{"content": stored, "sha": "rev1"})
		}
	})

	ctx := context.Background()
	require.NoError(t, c.Write(ctx, "hello.json", content, "", "Save update: hello"))

	file, err := c.Read(ctx, "hello.json")
	require.NoError(t, err)
	assert.Equal(t, content, file.Content)
}

func TestClient_Write_IncludesRevision(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SHA string `json:"sha"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "oldsha", req.SHA)
		w.WriteHeader(http.StatusOK)
	})

	err := c.Write(context.Background(), "hello.json", []byte("{}"), "oldsha", "update")
	require.NoError(t, err)
}

func TestClient_Write_Conflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	err := c.Write(context.Background(), "hello.json", []byte("{}"), "stale", "update")
	require.ErrorIs(t, err, model.ErrConflict)
}

func TestClient_Write_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream broke"))
	})

	err := c.Write(context.Background(), "hello.json", []byte("{}"), "", "update")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream broke")
}

func TestClient_List_FilesOnly(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/site/contents/public/updates/data", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]string{
			{"name": "hello.json", "path": "public/updates/data/hello.json", "sha": "s1", "type": "file"},
			{"name": "images", "path": "public/updates/data/images", "sha": "s2", "type": "dir"},
			{"name": "index.json", "path": "public/updates/data/index.json", "sha": "s3", "type": "file"},
		})
	})

	entries, err := c.List(context.Background(), "public/updates/data")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "hello.json", entries[0].Name)
	assert.Equal(t, "index.json", entries[1].Name)
}

func TestClient_Delete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		var req struct {
			Message string `json:"message"`
			SHA     string `json:"sha"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "rev9", req.SHA)
		w.WriteHeader(http.StatusOK)
	})

	err := c.Delete(context.Background(), "hello.json", "rev9", "Delete update: hello")
	require.NoError(t, err)
}
