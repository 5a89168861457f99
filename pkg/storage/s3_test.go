package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/questx-lab/tileset/config"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		b, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = b
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		b, ok := f.objects[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(b)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func Test_s3Storage_UploadDownload(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	stg, err := NewS3Storage(config.S3Configs{
		Endpoint:       srv.URL,
		PublicEndpoint: "https://cdn.example.com",
		AccessKey:      "access",
		SecretKey:      "secret",
		Region:         "us-east-1",
		SSLDisabled:    true,
	})
	require.NoError(t, err)

	ctx := context.Background()
	resp, err := stg.Upload(ctx, &UploadObject{
		Bucket:   "tilesets",
		Prefix:   "tsx",
		FileName: "forest.tsx",
		Mime:     "application/xml",
		Data:     []byte("<tileset/>"),
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(resp.FileName, "tsx/"))
	require.True(t, strings.HasSuffix(resp.FileName, "-forest.tsx"))
	require.Equal(t, "https://cdn.example.com/tilesets/"+resp.FileName, resp.Url)

	b, err := stg.Download(ctx, "tilesets", resp.FileName)
	require.NoError(t, err)
	require.Equal(t, "<tileset/>", string(b))
}
