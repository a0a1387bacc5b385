package imagestore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/errors"
)

func TestLocalStore_SaveAndDelete(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "images")
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "a.jpg", "image/jpeg", strings.NewReader("jpeg-bytes")))

	data, err := os.ReadFile(filepath.Join(dir, "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary upload files are cleaned up")

	require.NoError(t, store.Delete(context.Background(), "a.jpg"))
	_, err = os.Stat(filepath.Join(dir, "a.jpg"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(context.Background(), "a.jpg"), "deleting a missing image is a no-op")
}

func TestLocalStore_RejectsUnsafeNames(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../evil.jpg", "sub/a.jpg", `sub\a.jpg`} {
		err := store.Save(context.Background(), name, "image/png", strings.NewReader("x"))
		require.Error(t, err, name)
		assert.True(t, errors.IsCategory(err, errors.CategoryValidation), name)
	}
}

func TestLocalStore_CanceledContext(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, store.Save(ctx, "a.png", "image/png", strings.NewReader("x")), context.Canceled)
}

type fakeS3 struct {
	puts    map[string]string
	types   map[string]string
	deleted []string
	err     error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{puts: map[string]string{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.puts[key] = string(body)
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_KeysUsePrefix(t *testing.T) {
	t.Parallel()

	client := newFakeS3()
	store := newS3Store(client, "closet", "images/")

	require.NoError(t, store.Save(context.Background(), "b.png", "image/png", strings.NewReader("png")))
	assert.Equal(t, "png", client.puts["closet/images/b.png"])
	assert.Equal(t, "image/png", client.types["closet/images/b.png"])

	require.NoError(t, store.Delete(context.Background(), "b.png"))
	assert.Equal(t, []string{"closet/images/b.png"}, client.deleted)

	assert.Equal(t, "c.jpg", newS3Store(client, "closet", "").key("c.jpg"))
}

func TestS3Store_ErrorsAreStorageCategory(t *testing.T) {
	t.Parallel()

	client := newFakeS3()
	client.err = errors.NewStd("access denied")
	store := newS3Store(client, "closet", "images")

	err := store.Save(context.Background(), "b.png", "image/png", strings.NewReader("png"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryStorage))

	err = store.Delete(context.Background(), "b.png")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryStorage))
}

func TestNew_SelectsBackend(t *testing.T) {
	t.Parallel()

	store, err := New(context.Background(), conf.StorageSettings{Type: "local", LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), conf.StorageSettings{Type: "s3"})
	require.Error(t, err, "s3 without a bucket is rejected")
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))

	_, err = New(context.Background(), conf.StorageSettings{Type: "ftp"})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}
