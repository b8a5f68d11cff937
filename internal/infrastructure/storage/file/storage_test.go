package file

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/cart"
)

func TestStorage_LoadMissing(t *testing.T) {
	storage := NewStorage(afero.NewMemMapFs(), "/home/ana/.storefront")

	_, err := storage.Load(context.Background(), cart.StorageKey)
	assert.ErrorIs(t, err, cart.ErrNotFound)
}

func TestStorage_SaveAndLoad(t *testing.T) {
	fsys := afero.NewMemMapFs()
	storage := NewStorage(fsys, "/home/ana/.storefront")
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, cart.StorageKey, []byte(`[1]`)))
	require.NoError(t, storage.Save(ctx, cart.StorageKey, []byte(`[]`)))

	data, err := storage.Load(ctx, cart.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	entries, err := afero.ReadDir(fsys, "/home/ana/.storefront")
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "cart.json", entries[0].Name())
}

func TestStorage_ReadOnlyFilesystem(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/data/cart.json", []byte(`[]`), 0o600))
	storage := NewStorage(afero.NewReadOnlyFs(base), "/data")
	ctx := context.Background()

	data, err := storage.Load(ctx, cart.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	assert.Error(t, storage.Save(ctx, cart.StorageKey, []byte(`[1]`)))
}

func TestStorage_BacksCartStore(t *testing.T) {
	storage := NewStorage(afero.NewMemMapFs(), "/carts")
	ctx := context.Background()

	store := cart.NewStore(ctx, storage, nil, nil)
	require.NoError(t, store.AddItem(ctx, cart.Product{ID: "p1", Name: "Widget"}))
	require.NoError(t, store.UpdateQuantity(ctx, "p1", 4))

	reloaded := cart.NewStore(ctx, storage, nil, nil)
	assert.Equal(t, 4, reloaded.Count())
}
