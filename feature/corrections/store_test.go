package corrections

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"location-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestObjectStore_EnsureBucket(t *testing.T) {
	t.Run("AlreadyExists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "corrections").Return(true, nil)

		store := NewObjectStore(client, "corrections", "corrections.json")
		require.NoError(t, store.EnsureBucket(context.Background()))

		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "corrections").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "corrections", mock.Anything).Return(nil)

		store := NewObjectStore(client, "corrections", "corrections.json")
		require.NoError(t, store.EnsureBucket(context.Background()))
		client.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "corrections").Return(false, errors.New("unreachable"))

		store := NewObjectStore(client, "corrections", "corrections.json")
		err := store.EnsureBucket(context.Background())

		var persistence *PersistenceError
		require.True(t, errors.As(err, &persistence))
	})
}

func TestObjectStore_Load(t *testing.T) {
	t.Run("Existing", func(t *testing.T) {
		body := `{"current": {"USW-5-zipcode": {"value": "98101"}}, "version": 1730000000000}`
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "corrections", "corrections.json", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte(body))), nil)

		store := NewObjectStore(client, "corrections", "corrections.json")
		doc, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(1730000000000), doc.Version)
		assert.Len(t, doc.Current, 1)
	})

	t.Run("NeverWritten", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "corrections", "corrections.json", mock.Anything).
			Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

		store := NewObjectStore(client, "corrections", "corrections.json")
		doc, err := store.Load(context.Background())
		require.NoError(t, err, "a store that was never written yields an empty document")
		assert.Empty(t, doc.Current)
		assert.Zero(t, doc.Version)
	})

	t.Run("EmptyBody", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "corrections", "corrections.json", mock.Anything).
			Return(io.NopCloser(bytes.NewReader(nil)), nil)

		store := NewObjectStore(client, "corrections", "corrections.json")
		doc, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, doc.Current)
	})

	t.Run("CorruptBody", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "corrections", "corrections.json", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte("not json"))), nil)

		store := NewObjectStore(client, "corrections", "corrections.json")
		_, err := store.Load(context.Background())

		var persistence *PersistenceError
		require.True(t, errors.As(err, &persistence))
	})
}

func TestObjectStore_Save(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "corrections", "corrections.json", mock.Anything, mock.Anything,
		mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "application/json"
		}),
	).Return(minio.UploadInfo{}, nil)

	store := NewObjectStore(client, "corrections", "corrections.json")
	err := store.Save(context.Background(), &Document{
		Current: map[string]any{"USW-5-zipcode": "98101"},
		Version: 1730000000000,
	})
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestMemoryStore_DeepCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Document{
		Current: map[string]any{"k": "v"},
		Version: 1,
	}))

	first, err := store.Load(ctx)
	require.NoError(t, err)
	first.Current["k"] = "mutated"

	second, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v", second.Current["k"])
}
