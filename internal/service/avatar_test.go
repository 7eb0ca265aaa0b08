package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quickchat/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listBucketsXML = `<?xml version="1.0" encoding="UTF-8"?>
<ListAllMyBucketsResult>
	<Owner><ID>quickchat</ID><DisplayName>quickchat</DisplayName></Owner>
	<Buckets><Bucket><Name>avatars</Name></Bucket></Buckets>
</ListAllMyBucketsResult>`

const accessDeniedXML = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`

// storageStub отвечает за S3-совместимый endpoint в тестах
func storageStub(t *testing.T, handler http.HandlerFunc) *config.Config {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &config.Config{
		S3Endpoint:        srv.URL,
		S3Region:          "us-east-1",
		S3AccessKeyID:     "test-key",
		S3SecretAccessKey: "test-secret",
		S3BucketName:      "avatars",
	}
}

func TestHealthCheckOK(t *testing.T) {
	cfg := storageStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(listBucketsXML))
	})

	svc, err := NewAvatarService(cfg)
	require.NoError(t, err)

	assert.NoError(t, svc.HealthCheck(context.Background()))
}

func TestHealthCheckReportsStorageFailure(t *testing.T) {
	cfg := storageStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(accessDeniedXML))
	})

	svc, err := NewAvatarService(cfg)
	require.NoError(t, err)

	assert.Error(t, svc.HealthCheck(context.Background()))
}

func TestUploadAvatarKey(t *testing.T) {
	var uploadedPath string
	cfg := storageStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			uploadedPath = r.URL.Path
		}
		w.WriteHeader(http.StatusOK)
	})

	svc, err := NewAvatarService(cfg)
	require.NoError(t, err)

	meta, err := svc.UploadAvatar(context.Background(), strings.NewReader("png-bytes"), "me.png", "image/png", 7)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(meta.S3Key, "avatars/7/"))
	assert.True(t, strings.HasSuffix(meta.S3Key, "/me.png"))
	assert.Equal(t, "avatars", meta.S3Bucket)
	assert.Equal(t, uint(7), meta.UserID)
	// Path-style запрос: /<bucket>/<key>
	assert.Equal(t, "/avatars/"+meta.S3Key, uploadedPath)
}
