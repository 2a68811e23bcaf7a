package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "lokapasar/pkg/errors"
)

type memoryCache struct {
	mu    sync.Mutex
	carts map[string][]Item
	fail  bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{carts: make(map[string][]Item)}
}

func (m *memoryCache) Save(ctx context.Context, owner string, items []Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("cache unavailable")
	}
	m.carts[owner] = items
	return nil
}

func (m *memoryCache) Load(ctx context.Context, owner string) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errors.New("cache unavailable")
	}
	return m.carts[owner], nil
}

func testItem(productID, vendorID string) Item {
	return Item{
		ProductID:      productID,
		Name:           "Nasi Lemak Bungkus",
		UnitPriceCents: 500,
		Currency:       "MYR",
		VendorID:       vendorID,
		CommunityID:    "c1",
	}
}

func TestAddAndSubtotal(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "buyer-1", newMemoryCache())

	require.NoError(t, s.Add(ctx, testItem("p1", "v1"), 2))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, int64(1000), s.SubtotalCents())
	assert.Equal(t, "MYR", s.Currency())
	assert.Equal(t, "v1", s.VendorID())
	assert.Equal(t, "c1", s.CommunityID())
}

func TestAddRejectsCrossVendor(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "buyer-1", newMemoryCache())

	require.NoError(t, s.Add(ctx, testItem("p1", "v1"), 2))

	err := s.Add(ctx, testItem("p2", "v2"), 1)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, "CART_CONFLICT"))

	// Cart unchanged: still one line from the first vendor.
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "v1", items[0].VendorID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddRejectsCrossCurrency(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "buyer-1", newMemoryCache())

	require.NoError(t, s.Add(ctx, testItem("p1", "v1"), 1))

	other := testItem("p2", "v1")
	other.Currency = "SGD"
	err := s.Add(ctx, other, 1)
	assert.True(t, apperrors.Is(err, "CART_CONFLICT"))
	assert.Len(t, s.Items(), 1)
}

func TestSingleVendorProperty(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "buyer-1", newMemoryCache())

	vendors := []string{"v1", "v2", "v1", "v3", "v1", "v2"}
	for i, v := range vendors {
		s.Add(ctx, testItem("p"+string(rune('a'+i)), v), 1)
	}

	// Only the first accepted vendor's items survive.
	for _, item := range s.Items() {
		assert.Equal(t, "v1", item.VendorID)
	}
}

func TestAddExistingLineIncrementsAndClamps(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "buyer-1", newMemoryCache())

	require.NoError(t, s.Add(ctx, testItem("p1", "v1"), 800))
	require.NoError(t, s.Add(ctx, testItem("p1", "v1"), 800))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 999, items[0].Quantity)
}

func TestUpdateQuantityClamp(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "buyer-1", newMemoryCache())
	require.NoError(t, s.Add(ctx, testItem("p1", "v1"), 5))

	cases := []struct {
		in   int
		want int
	}{
		{0, 1},
		{-10, 1},
		{1, 1},
		{500, 500},
		{999, 999},
		{1000, 999},
	}

	for _, tc := range cases {
		s.UpdateQuantity(ctx, "p1", tc.in)
		items := s.Items()
		require.Len(t, items, 1, "quantity %d must not remove the line", tc.in)
		assert.Equal(t, tc.want, items[0].Quantity)
	}
}

func TestUpdateQuantityUnknownProductNoop(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "buyer-1", newMemoryCache())
	require.NoError(t, s.Add(ctx, testItem("p1", "v1"), 5))

	s.UpdateQuantity(ctx, "missing", 7)
	assert.Equal(t, 5, s.Count())
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "buyer-1", newMemoryCache())
	require.NoError(t, s.Add(ctx, testItem("p1", "v1"), 1))
	require.NoError(t, s.Add(ctx, testItem("p2", "v1"), 3))

	s.Remove(ctx, "p1")
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)

	// Removing something absent is a no-op.
	s.Remove(ctx, "p1")
	assert.Len(t, s.Items(), 1)
}

func TestClearThenAddNewVendor(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "buyer-1", newMemoryCache())
	require.NoError(t, s.Add(ctx, testItem("p1", "v1"), 1))

	s.Clear(ctx)
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, "", s.VendorID())

	require.NoError(t, s.Add(ctx, testItem("p2", "v2"), 1))
	assert.Equal(t, "v2", s.VendorID())
}

func TestCountMatchesQuantitySumAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "buyer-1", newMemoryCache())

	check := func() {
		sum := 0
		for _, item := range s.Items() {
			sum += item.Quantity
		}
		assert.Equal(t, sum, s.Count())
	}

	s.Add(ctx, testItem("p1", "v1"), 2)
	check()
	s.Add(ctx, testItem("p2", "v1"), 7)
	check()
	s.UpdateQuantity(ctx, "p1", 400)
	check()
	s.Remove(ctx, "p2")
	check()
	s.Clear(ctx)
	check()
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()

	s := New(ctx, "buyer-1", cache)
	require.NoError(t, s.Add(ctx, testItem("p1", "v1"), 2))
	require.NoError(t, s.Add(ctx, testItem("p2", "v1"), 5))

	// A new store for the same owner sees the same lines in order.
	reloaded := New(ctx, "buyer-1", cache)
	assert.Equal(t, s.Items(), reloaded.Items())
}

func TestCacheFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	cache.fail = true

	s := New(ctx, "buyer-1", cache)
	require.NoError(t, s.Add(ctx, testItem("p1", "v1"), 2))

	// In-memory state stays authoritative even though persistence failed.
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, int64(1000), s.SubtotalCents())
}

func TestNilCache(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "buyer-1", nil)
	require.NoError(t, s.Add(ctx, testItem("p1", "v1"), 1))
	assert.Equal(t, 1, s.Count())
}
