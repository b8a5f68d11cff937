package cart

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	added []LineItem
}

func (r *recordingNotifier) ItemAdded(item LineItem) {
	r.added = append(r.added, item)
}

type failingStorage struct {
	loadErr error
	saveErr error
}

func (f failingStorage) Load(context.Context, string) ([]byte, error) {
	return nil, f.loadErr
}

func (f failingStorage) Save(context.Context, string, []byte) error {
	return f.saveErr
}

func widget() Product {
	return Product{ID: "p1", Name: "Widget", Price: decimal.RequireFromString("9.99"), Image: "x.png"}
}

func gadget() Product {
	return Product{ID: "p2", Name: "Gadget", Price: decimal.RequireFromString("24.50"), Image: "y.png"}
}

// assertSameItems compares lines by value; decimals may differ in scale after
// a JSON round trip ("24.50" is stored as "24.5").
func assertSameItems(t *testing.T, want, got []LineItem) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Image, got[i].Image)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.True(t, want[i].Price.Equal(got[i].Price), "price %s != %s", want[i].Price, got[i].Price)
	}
}

func setupStore(t *testing.T) (*Store, *MemoryStorage, *recordingNotifier) {
	t.Helper()
	storage := NewMemoryStorage()
	notifier := &recordingNotifier{}
	return NewStore(context.Background(), storage, notifier, nil), storage, notifier
}

func TestAddItem_NewProduct(t *testing.T) {
	store, _, notifier := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, widget()))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.True(t, decimal.RequireFromString("9.99").Equal(store.Total()))
	require.Len(t, notifier.added, 1)
	assert.Equal(t, "Widget", notifier.added[0].Name)
}

func TestAddItem_ExistingProductIncrements(t *testing.T) {
	store, _, notifier := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, widget()))
	require.NoError(t, store.AddItem(ctx, widget()))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, store.Count())
	assert.True(t, decimal.RequireFromString("19.98").Equal(store.Total()))
	require.Len(t, notifier.added, 2)
	assert.Equal(t, 2, notifier.added[1].Quantity)
}

func TestAddItem_MissingFieldsAccepted(t *testing.T) {
	store, _, _ := setupStore(t)

	require.NoError(t, store.AddItem(context.Background(), Product{ID: "bare"}))

	item, ok := store.Item("bare")
	require.True(t, ok)
	assert.Empty(t, item.Name)
	assert.True(t, store.Total().IsZero())
}

func TestRemoveItem(t *testing.T) {
	store, _, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.AddItem(ctx, widget()))
	require.NoError(t, store.AddItem(ctx, gadget()))

	require.NoError(t, store.RemoveItem(ctx, "p1"))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ID)
	assert.True(t, decimal.RequireFromString("24.50").Equal(store.Total()))
}

func TestRemoveItem_UnknownIDIsNoop(t *testing.T) {
	store, _, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.AddItem(ctx, widget()))
	before := store.Items()

	require.NoError(t, store.RemoveItem(ctx, "missing"))
	require.NoError(t, store.RemoveItem(ctx, "missing"))

	assert.Equal(t, before, store.Items())
}

func TestUpdateQuantity(t *testing.T) {
	store, _, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.AddItem(ctx, widget()))

	require.NoError(t, store.UpdateQuantity(ctx, "p1", 5))

	item, ok := store.Item("p1")
	require.True(t, ok)
	assert.Equal(t, 5, item.Quantity)
	assert.True(t, decimal.RequireFromString("49.95").Equal(store.Total()))
}

func TestUpdateQuantity_NonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -1, -40} {
		t.Run(fmt.Sprint(q), func(t *testing.T) {
			store, storage, _ := setupStore(t)
			ctx := context.Background()
			require.NoError(t, store.AddItem(ctx, widget()))

			require.NoError(t, store.UpdateQuantity(ctx, "p1", q))

			_, ok := store.Item("p1")
			assert.False(t, ok)
			assert.True(t, store.Total().IsZero())

			data, err := storage.Load(ctx, StorageKey)
			require.NoError(t, err)
			assert.JSONEq(t, `[]`, string(data))
		})
	}
}

func TestUpdateQuantity_UnknownIDIsNoop(t *testing.T) {
	store, _, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.AddItem(ctx, widget()))

	require.NoError(t, store.UpdateQuantity(ctx, "missing", 3))

	assert.Len(t, store.Items(), 1)
	assert.Equal(t, 1, store.Count())
}

func TestClear(t *testing.T) {
	store, storage, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.AddItem(ctx, widget()))
	require.NoError(t, store.AddItem(ctx, gadget()))

	require.NoError(t, store.Clear(ctx))

	assert.Empty(t, store.Items())
	assert.True(t, store.Total().IsZero())
	data, err := storage.Load(ctx, StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestItems_ReturnsSnapshot(t *testing.T) {
	store, _, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.AddItem(ctx, widget()))

	items := store.Items()
	items[0].Quantity = 99

	item, _ := store.Item("p1")
	assert.Equal(t, 1, item.Quantity)
}

func TestPersistence_RoundTrip(t *testing.T) {
	store, storage, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.AddItem(ctx, widget()))
	require.NoError(t, store.AddItem(ctx, gadget()))
	require.NoError(t, store.UpdateQuantity(ctx, "p2", 3))

	reloaded := NewStore(ctx, storage, nil, nil)

	assertSameItems(t, store.Items(), reloaded.Items())
	assert.True(t, store.Total().Equal(reloaded.Total()))
	assert.True(t, decimal.RequireFromString("83.49").Equal(reloaded.Total()))
}

func TestRehydrate_MalformedStorageYieldsEmptyCart(t *testing.T) {
	cases := map[string]string{
		"truncated":  `[{"id":"p1","na`,
		"object":     `{"items":[]}`,
		"wrong type": `[{"id":"p1","quantity":"many"}]`,
		"garbage":    `not json at all`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			storage := NewMemoryStorage()
			require.NoError(t, storage.Save(context.Background(), StorageKey, []byte(raw)))

			store := NewStore(context.Background(), storage, nil, nil)

			assert.Empty(t, store.Items())
			assert.True(t, store.Total().IsZero())
		})
	}
}

func TestRehydrate_NullYieldsEmptyCart(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save(context.Background(), StorageKey, []byte(`null`)))

	store := NewStore(context.Background(), storage, nil, nil)

	assert.NotNil(t, store.Items())
	assert.Empty(t, store.Items())
}

func TestRehydrate_ReadErrorYieldsEmptyCart(t *testing.T) {
	store := NewStore(context.Background(), failingStorage{loadErr: errors.New("disk on fire")}, nil, nil)

	assert.Empty(t, store.Items())
}

func TestRehydrate_NormalizesStoredLines(t *testing.T) {
	storage := NewMemoryStorage()
	raw := `[
		{"id":"p1","name":"Widget","price":9.99,"image":"x.png","quantity":1},
		{"id":"p2","name":"Gadget","price":"24.50","image":"y.png","quantity":0},
		{"id":"p1","name":"Widget","price":9.99,"image":"x.png","quantity":2}
	]`
	require.NoError(t, storage.Save(context.Background(), StorageKey, []byte(raw)))

	store := NewStore(context.Background(), storage, nil, nil)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.True(t, decimal.RequireFromString("29.97").Equal(store.Total()))
}

func TestSaveError_StateStillApplied(t *testing.T) {
	boom := errors.New("quota exceeded")
	store := NewStore(context.Background(), failingStorage{loadErr: ErrNotFound, saveErr: boom}, nil, nil)

	err := store.AddItem(context.Background(), widget())

	require.ErrorIs(t, err, boom)
	assert.Len(t, store.Items(), 1)
}

// TestTotal_MatchesRecomputationAfterRandomOperations drives the store with a
// seeded random sequence and checks the invariants after every step.
func TestTotal_MatchesRecomputationAfterRandomOperations(t *testing.T) {
	products := []Product{
		widget(),
		gadget(),
		{ID: "p3", Name: "Doohickey", Price: decimal.RequireFromString("0.10")},
		{ID: "p4", Name: "Gizmo", Price: decimal.RequireFromString("120.00")},
	}

	rng := rand.New(rand.NewSource(42))
	store, storage, _ := setupStore(t)
	ctx := context.Background()

	for step := 0; step < 500; step++ {
		p := products[rng.Intn(len(products))]
		before, existed := store.Item(p.ID)
		distinctBefore := len(store.Items())

		switch rng.Intn(4) {
		case 0:
			require.NoError(t, store.AddItem(ctx, p))
			after, ok := store.Item(p.ID)
			require.True(t, ok)
			if existed {
				assert.Equal(t, before.Quantity+1, after.Quantity)
				assert.Len(t, store.Items(), distinctBefore)
			} else {
				assert.Equal(t, 1, after.Quantity)
			}
		case 1:
			require.NoError(t, store.RemoveItem(ctx, p.ID))
			_, ok := store.Item(p.ID)
			assert.False(t, ok)
		case 2:
			q := rng.Intn(7) - 2
			require.NoError(t, store.UpdateQuantity(ctx, p.ID, q))
			after, ok := store.Item(p.ID)
			switch {
			case !existed:
				assert.False(t, ok)
			case q <= 0:
				assert.False(t, ok)
			default:
				assert.Equal(t, q, after.Quantity)
			}
		case 3:
			if rng.Intn(10) == 0 {
				require.NoError(t, store.Clear(ctx))
			}
		}

		expected := decimal.Zero
		ids := make(map[string]bool)
		for _, item := range store.Items() {
			assert.Positive(t, item.Quantity)
			assert.False(t, ids[item.ID], "duplicate line for %s", item.ID)
			ids[item.ID] = true
			expected = expected.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		require.True(t, expected.Equal(store.Total()), "step %d: total %s, want %s", step, store.Total(), expected)

		reloaded := NewStore(ctx, storage, nil, nil)
		require.True(t, reloaded.Total().Equal(store.Total()))
	}
}
