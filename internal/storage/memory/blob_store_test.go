package memory

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStorePutObjectCopiesData(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	payload := []byte("[]")
	uri, err := store.PutObject(context.Background(), "oja/general-2014.json", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, "memory://oja/general-2014.json", uri)

	payload[0] = '{'
	obj, ok := store.Get("oja/general-2014.json")
	require.True(t, ok)
	assert.Equal(t, "[]", string(obj.Data))
	assert.Equal(t, "application/json", obj.ContentType)

	obj.Data[0] = 'x'
	again, _ := store.Get("oja/general-2014.json")
	assert.Equal(t, "[]", string(again.Data), "Get hands out copies")
}

func TestBlobStoreOverwritesAndLists(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	ctx := context.Background()
	for _, p := range []string{"general-2020.json", "general-2014.json", "general-2020.json"} {
		_, err := store.PutObject(ctx, p, "application/json", bytes.NewReader([]byte(p)))
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"general-2014.json", "general-2020.json"}, store.Paths())

	_, ok := store.Get("missing.json")
	assert.False(t, ok)

	_, err := store.PutObject(ctx, " ", "", bytes.NewReader(nil))
	require.Error(t, err)
}
