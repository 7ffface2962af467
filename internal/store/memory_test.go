package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyCovers(t *testing.T) {
	tests := []struct {
		name     string
		key      Key
		other    Key
		expected bool
	}{
		{name: "given same key should cover", key: Tables(), other: Tables(), expected: true},
		{name: "given child key should cover", key: Tables(), other: AvailableTables(), expected: true},
		{name: "given orders should cover table active order", key: Orders(), other: TableActiveOrder(3), expected: true},
		{name: "given sibling key should not cover", key: TableActiveOrder(1), other: TableActiveOrder(12), expected: false},
		{name: "given parent should not be covered by child", key: AvailableTables(), other: Tables(), expected: false},
		{name: "given payments should cover revenue range", key: Revenue(), other: RevenueBetween("2024-10-01", "2024-10-19"), expected: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.key.Covers(test.other))
		})
	}
}

func seed(t *testing.T, s Store, keys ...Key) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, s.Set(context.Background(), k, k.String()))
	}
}

func present(t *testing.T, s Store, keys ...Key) []Key {
	t.Helper()
	found := []Key{}
	for _, k := range keys {
		var v string
		ok, err := s.Get(context.Background(), k, &v)
		require.NoError(t, err)
		if ok {
			found = append(found, k)
		}
	}
	return found
}

func TestInvalidationHooks(t *testing.T) {
	all := []Key{
		Tables(),
		AvailableTables(),
		MenuItemsByCategory(),
		OrdersWithStatus(""),
		OrderByID(10),
		TableActiveOrder(1),
		TableActiveOrder(2),
		AllPayments(),
		RevenueBetween("2024-10-19", "2024-10-19"),
	}

	tests := []struct {
		name      string
		hook      func(context.Context, Store) error
		remaining []Key
	}{
		{
			name: "given order created should drop orders tables and active order of table",
			hook: func(c context.Context, s Store) error { return OrderCreated(c, s, 1) },
			remaining: []Key{
				MenuItemsByCategory(),
				AllPayments(),
				RevenueBetween("2024-10-19", "2024-10-19"),
			},
		},
		{
			name: "given order items updated should keep tables",
			hook: func(c context.Context, s Store) error { return OrderItemsUpdated(c, s, 10, 1) },
			remaining: []Key{
				Tables(),
				AvailableTables(),
				MenuItemsByCategory(),
				AllPayments(),
				RevenueBetween("2024-10-19", "2024-10-19"),
			},
		},
		{
			name: "given payment created should drop payments orders tables and revenue",
			hook: func(c context.Context, s Store) error { return PaymentCreated(c, s) },
			remaining: []Key{
				MenuItemsByCategory(),
			},
		},
		{
			name: "given table status updated should only drop tables",
			hook: func(c context.Context, s Store) error { return TableStatusUpdated(c, s) },
			remaining: []Key{
				MenuItemsByCategory(),
				OrdersWithStatus(""),
				OrderByID(10),
				TableActiveOrder(1),
				TableActiveOrder(2),
				AllPayments(),
				RevenueBetween("2024-10-19", "2024-10-19"),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := NewMemoryStore(0)
			seed(t, s, all...)

			require.NoError(t, test.hook(context.Background(), s))

			assert.ElementsMatch(t, test.remaining, present(t, s, all...))
		})
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	now := time.Date(2024, 10, 19, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }
	seed(t, s, Tables())

	assert.Equal(t, []Key{Tables()}, present(t, s, Tables()))

	now = now.Add(time.Minute)
	assert.Empty(t, present(t, s, Tables()))
	assert.Equal(t, 0, s.Len())
}

func TestFetch(t *testing.T) {
	c := context.Background()
	s := NewMemoryStore(0)
	calls := 0
	fetch := func(context.Context) ([]string, error) {
		calls++
		return []string{"Bàn 1", "Bàn 2"}, nil
	}

	first, err := Fetch(c, s, Tables(), fetch)
	require.NoError(t, err)
	second, err := Fetch(c, s, Tables(), fetch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	require.NoError(t, TableStatusUpdated(c, s))
	_, err = Fetch(c, s, Tables(), fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	c := context.Background()
	s := NewMemoryStore(0)
	expectedErr := errors.New("backend down")

	_, err := Fetch(c, s, Tables(), func(context.Context) ([]string, error) { return nil, expectedErr })

	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, s.Len())
}
