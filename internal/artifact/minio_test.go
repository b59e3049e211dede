package artifact

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "studies/joão-3-16/Estudo - João 3:16.pdf", Key("João 3:16", "Estudo - João 3:16.pdf"))
	assert.Equal(t, "studies/1jo-1-9/a.md", Key(" 1 Jo 1:9 ", "a.md"))
	assert.Equal(t, Key("Jo 3:16", "a.md"), Key("Jo 3.16", "a.md"))
	assert.Equal(t, "studies/a-b/file.md", Key(" a/b ", "/tmp/out/file.md"))
}

// Needs a reachable MinIO, e.g. `docker run -p 9000:9000 minio/minio server /data`.
func TestMinioStore(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set")
	}
	ctx := context.Background()
	s, err := NewMinioStore(ctx, Options{
		Endpoint:   endpoint,
		AccessKey:  os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey:  os.Getenv("MINIO_SECRET_KEY"),
		Bucket:     "exegesis-test",
		LinkExpiry: time.Hour,
	})
	require.NoError(t, err)

	key := Key("Jo 3:16", uuid.NewString()+".md")
	obj, err := s.Publish(ctx, key, []byte("# Estudo"), "text/markdown")
	require.NoError(t, err)
	assert.Equal(t, int64(8), obj.Size)
	assert.NotEmpty(t, obj.URL)
	defer s.Remove(ctx, key)

	data, ct, err := s.Fetch(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "# Estudo", string(data))
	assert.Equal(t, "text/markdown", ct)
}
