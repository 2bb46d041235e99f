package guestcart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStorage is an in-memory Storage with a configurable row quota.
type memStorage struct {
	lists map[string][]Item
	quota int
}

func newMemStorage(quota int) *memStorage {
	return &memStorage{lists: make(map[string][]Item), quota: quota}
}

func (m *memStorage) Load(guestID string) ([]Item, error) {
	return append([]Item(nil), m.lists[guestID]...), nil
}

func (m *memStorage) Save(guestID string, items []Item) error {
	if m.quota > 0 && len(items) > m.quota {
		return ErrStoreFull
	}
	m.lists[guestID] = append([]Item(nil), items...)
	return nil
}

func (m *memStorage) Clear(guestID string) error {
	delete(m.lists, guestID)
	return nil
}

func TestSaveThenGetRoundTrip(t *testing.T) {
	s := New(newMemStorage(0))

	_, err := s.Add("g1", 7, 3)
	require.NoError(t, err)
	_, err = s.Add("g1", 9, 1)
	require.NoError(t, err)

	items, err := s.Get("g1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, uint(7), items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestGetDiscardsInvalidListWhole(t *testing.T) {
	storage := newMemStorage(0)
	storage.lists["g1"] = []Item{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 120}, // out of range
		{ProductID: 3, Quantity: 1},
	}
	s := New(storage)

	items, err := s.Get("g1")
	require.NoError(t, err)
	assert.Empty(t, items, "fail-closed: whole list discarded, not filtered")
	assert.Empty(t, storage.lists["g1"], "backing store cleared")
}

func TestGetDiscardsOversizedList(t *testing.T) {
	storage := newMemStorage(0)
	for i := 1; i <= MaxEntries+1; i++ {
		storage.lists["g1"] = append(storage.lists["g1"], Item{ProductID: uint(i), Quantity: 1})
	}
	s := New(storage)

	items, err := s.Get("g1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddMergesBySummingQuantities(t *testing.T) {
	s := New(newMemStorage(0))

	_, err := s.Add("g1", 5, 4)
	require.NoError(t, err)
	items, err := s.Add("g1", 5, 4)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 8, items[0].Quantity)
}

func TestAddQuantityBoundary(t *testing.T) {
	s := New(newMemStorage(0))

	_, err := s.Add("g1", 5, 98)
	require.NoError(t, err)

	items, err := s.Add("g1", 5, 1)
	require.NoError(t, err, "sum of exactly 99 is allowed")
	assert.Equal(t, 99, items[0].Quantity)

	_, err = s.Add("g1", 5, 1)
	assert.Error(t, err, "sum of 100 is rejected")

	items, err = s.Get("g1")
	require.NoError(t, err)
	assert.Equal(t, 99, items[0].Quantity, "rejected add leaves the list unchanged")
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	s := New(newMemStorage(0))

	_, err := s.Add("g1", 5, 2)
	require.NoError(t, err)
	items, err := s.SetQuantity("g1", 5, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCountSumsQuantities(t *testing.T) {
	s := New(newMemStorage(0))

	s.Add("g1", 1, 2)
	s.Add("g1", 2, 5)

	n, err := s.Count("g1")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestClear(t *testing.T) {
	s := New(newMemStorage(0))

	s.Add("g1", 1, 2)
	require.NoError(t, s.Clear("g1"))

	items, err := s.Get("g1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOverflowKeepsMostRecentEntries(t *testing.T) {
	storage := newMemStorage(12)
	s := New(storage)

	var err error
	for i := 1; i <= 12; i++ {
		_, err = s.Add("g1", uint(i), 1)
		require.NoError(t, err)
	}

	// The 13th entry exceeds the quota; persist falls back to the most
	// recent 10 rather than failing the caller.
	items, err := s.Add("g1", 13, 1)
	require.NoError(t, err)
	require.Len(t, items, overflowKeep)
	assert.Equal(t, uint(13), items[len(items)-1].ProductID)
	assert.Equal(t, uint(4), items[0].ProductID)
}

func TestOverflowDropsSilentlyWhenRetryFails(t *testing.T) {
	storage := newMemStorage(5)
	s := New(storage)

	for i := 1; i <= 5; i++ {
		_, err := s.Add("g1", uint(i), 1)
		require.NoError(t, err)
	}

	// Quota below overflowKeep: both saves fail, the write is dropped,
	// the caller sees no error and the previous list survives.
	items, err := s.Add("g1", 6, 1)
	require.NoError(t, err)
	assert.Len(t, items, 5)
}
