package storage

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	method string
	path   string
}

func newFakeS3(t *testing.T) (*s3.Client, func() []recordedCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		calls = append(calls, recordedCall{method: r.Method, path: r.URL.Path})
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(srv.URL),
		UsePathStyle:     true,
		Credentials:      aws.AnonymousCredentials{},
		RetryMaxAttempts: 1,
	})
	return client, func() []recordedCall {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedCall(nil), calls...)
	}
}

func TestS3HostUploadAndDestroy(t *testing.T) {
	client, calls := newFakeS3(t)
	host := NewS3Host(client, S3Options{
		Bucket:        "gallery",
		Region:        "us-east-1",
		PublicBaseURL: "https://cdn.example.com/",
		Thumbnails:    true,
	})

	data := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t))
	asset, err := host.Upload(context.Background(), data)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(asset.MediaID, "uploads/"))
	assert.True(t, strings.HasSuffix(asset.MediaID, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+asset.MediaID, asset.URL)

	puts := calls()
	require.Len(t, puts, 2)
	assert.Equal(t, recordedCall{http.MethodPut, "/gallery/" + asset.MediaID}, puts[0])
	assert.Equal(t, recordedCall{http.MethodPut, "/gallery/" + asset.MediaID + thumbSuffix}, puts[1])

	require.NoError(t, host.Destroy(context.Background(), asset.MediaID))
	all := calls()
	require.Len(t, all, 4)
	assert.Equal(t, recordedCall{http.MethodDelete, "/gallery/" + asset.MediaID}, all[2])
	assert.Equal(t, recordedCall{http.MethodDelete, "/gallery/" + asset.MediaID + thumbSuffix}, all[3])
}

func TestS3HostRejectsMalformedPayload(t *testing.T) {
	client, calls := newFakeS3(t)
	host := NewS3Host(client, S3Options{Bucket: "gallery", Region: "eu-west-1"})

	_, err := host.Upload(context.Background(), "data:image/png;base64")
	assert.ErrorIs(t, err, ErrMalformedPayload)
	assert.Empty(t, calls())
}

func TestS3HostDefaultURL(t *testing.T) {
	host := &S3Host{opts: S3Options{Bucket: "gallery", Region: "eu-west-1"}}
	assert.Equal(t, "https://gallery.s3.eu-west-1.amazonaws.com/uploads/a%20b.png", host.publicURL("uploads/a b.png"))
}
