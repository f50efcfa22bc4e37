package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitesh-dev/gymmora-sub000/internal/config"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

func newFakeS3(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func newTestStorage(t *testing.T, endpoint string) FileStorage {
	t.Helper()
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        endpoint,
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test-secret",
		BucketName:      "exports",
	})
	require.NoError(t, err)
	return fs
}

func TestS3Storage_PutAndDelete(t *testing.T) {
	srv, requests := newFakeS3(t)
	fs := newTestStorage(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, fs.PutObject(ctx, "exports/u1/p1.json", "application/json", []byte(`{"name":"Push"}`)))
	require.NoError(t, fs.DeleteObject(ctx, "exports/u1/p1.json"))

	got := requests()
	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/exports/exports/u1/p1.json", got[0].path)
	assert.Contains(t, got[0].body, `{"name":"Push"}`)
	assert.Equal(t, http.MethodDelete, got[1].method)
}

func TestS3Storage_PresignedDownloadURL(t *testing.T) {
	fs := newTestStorage(t, "http://minio.local:9000")

	raw, err := fs.GeneratePresignedDownloadURL(context.Background(), "exports/u1/p1.json", 5*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "minio.local:9000", u.Host)
	assert.Equal(t, "/exports/exports/u1/p1.json", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))

	raw, err = fs.GeneratePresignedDownloadURL(context.Background(), "k", 0)
	require.NoError(t, err)
	u, err = url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
}
