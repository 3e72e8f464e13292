package tabular_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"permit-sync/core/storage/mocks"
	"permit-sync/core/tabular"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStager_Stage(t *testing.T) {
	ctx := context.Background()

	t.Run("LocalPath", func(t *testing.T) {
		path := writeFile(t, "permits.csv", []byte(permitsCSV))
		s := &tabular.Stager{}

		staged, err := s.Stage(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, path, staged.Path)

		require.NoError(t, staged.Cleanup())
		_, err = os.Stat(path)
		assert.NoError(t, err, "local sources are never removed")
	})

	t.Run("LocalMissing", func(t *testing.T) {
		s := &tabular.Stager{}
		_, err := s.Stage(ctx, filepath.Join(t.TempDir(), "nope.csv"))
		assert.ErrorIs(t, err, tabular.ErrFileNotFound)
	})

	t.Run("HTTP", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/permits.csv" {
				http.NotFound(w, r)
				return
			}
			_, _ = io.WriteString(w, permitsCSV)
		}))
		defer srv.Close()

		s := &tabular.Stager{HTTP: srv.Client(), Dir: t.TempDir()}

		staged, err := s.Stage(ctx, srv.URL+"/permits.csv")
		require.NoError(t, err)
		content, err := os.ReadFile(staged.Path)
		require.NoError(t, err)
		assert.Equal(t, permitsCSV, string(content))

		require.NoError(t, staged.Cleanup())
		_, err = os.Stat(staged.Path)
		assert.True(t, errors.Is(err, os.ErrNotExist))

		_, err = s.Stage(ctx, srv.URL+"/missing.csv")
		assert.ErrorIs(t, err, tabular.ErrFileNotFound)
	})

	t.Run("Object", func(t *testing.T) {
		store := new(mocks.Client)
		store.On("GetObject", mock.Anything, "exports", "permits.csv", minio.GetObjectOptions{}).
			Return(io.NopCloser(strings.NewReader(permitsCSV)), nil)

		s := &tabular.Stager{Store: store, Bucket: "permits", Dir: t.TempDir()}

		staged, err := s.Stage(ctx, "s3://exports/permits.csv")
		require.NoError(t, err)
		defer staged.Cleanup()

		ds, err := tabular.Load(staged.Path, tabular.Options{})
		require.NoError(t, err)
		assert.Equal(t, 2, ds.Len())
		store.AssertExpectations(t)
	})

	t.Run("ObjectNotFound", func(t *testing.T) {
		store := new(mocks.Client)
		store.On("GetObject", mock.Anything, "permits", "missing.csv", minio.GetObjectOptions{}).
			Return(nil, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound})

		s := &tabular.Stager{Store: store, Bucket: "permits"}

		_, err := s.Stage(ctx, "s3:///missing.csv")
		assert.ErrorIs(t, err, tabular.ErrFileNotFound)
	})

	t.Run("ObjectWithoutStore", func(t *testing.T) {
		s := &tabular.Stager{}
		_, err := s.Stage(ctx, "s3://exports/permits.csv")
		assert.Error(t, err)
	})
}

func TestStager_Save(t *testing.T) {
	ctx := context.Background()
	ds, err := tabular.LoadReader(strings.NewReader(permitsCSV), "inline", tabular.Options{})
	require.NoError(t, err)

	t.Run("LocalPath", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "out.csv")
		s := &tabular.Stager{}

		staged, err := s.Save(ctx, out, ds, tabular.Options{})
		require.NoError(t, err)
		assert.Equal(t, out, staged.Path)
		assert.FileExists(t, out)
	})

	t.Run("Object", func(t *testing.T) {
		store := new(mocks.Client)
		store.On("PutObject", mock.Anything, "exports", "permits_ordered.csv", mock.Anything, int64(len(permitsCSV)), mock.AnythingOfType("minio.PutObjectOptions")).
			Return(minio.UploadInfo{Bucket: "exports", Key: "permits_ordered.csv"}, nil)

		s := &tabular.Stager{Store: store, Dir: t.TempDir()}

		staged, err := s.Save(ctx, "s3://exports/permits_ordered.csv", ds, tabular.Options{})
		require.NoError(t, err)
		assert.FileExists(t, staged.Path)
		require.NoError(t, staged.Cleanup())
		store.AssertExpectations(t)
	})
}
