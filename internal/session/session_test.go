package session

import (
	"context"
	"testing"
	"time"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() State {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return State{
		Prepayments: []calculations.Prepayment{
			{Date: day, Amount: decimal.RequireFromString("10000.50")},
		},
		Scenarios: calculations.ScenarioSet{Scenarios: []calculations.Scenario{{
			Name: "base",
			Series: []calculations.ScenarioPoint{
				{Date: day, EndBalance: decimal.RequireFromString("750000.25")},
			},
		}}},
	}
}

func newSQLiteStore(t *testing.T, ttl time.Duration) *SQLStore {
	t.Helper()
	store, err := NewSQLStore("sqlite3", ":memory:", ttl)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore(time.Hour) },
		"sqlite": func(t *testing.T) Store { return newSQLiteStore(t, time.Hour) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			id := NewID()

			_, err := store.Load(ctx, id)
			assert.ErrorIs(t, err, ErrNotFound)

			empty, err := LoadOrEmpty(ctx, store, id)
			require.NoError(t, err)
			assert.Empty(t, empty.Prepayments)

			want := sampleState()
			require.NoError(t, store.Save(ctx, id, want))

			got, err := store.Load(ctx, id)
			require.NoError(t, err)
			require.Len(t, got.Prepayments, 1)
			assert.True(t, got.Prepayments[0].Date.Equal(want.Prepayments[0].Date))
			assert.True(t, got.Prepayments[0].Amount.Equal(want.Prepayments[0].Amount))
			require.Equal(t, []string{"base"}, got.Scenarios.Names())
			assert.True(t, got.Scenarios.Scenarios[0].Series[0].EndBalance.Equal(decimal.RequireFromString("750000.25")))

			got.Prepayments = nil
			require.NoError(t, store.Save(ctx, id, got))
			again, err := store.Load(ctx, id)
			require.NoError(t, err)
			assert.Empty(t, again.Prepayments)
			assert.Equal(t, 1, again.Scenarios.Len())

			require.NoError(t, store.Delete(ctx, id))
			_, err = store.Load(ctx, id)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryStoreDoesNotShareSlices(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	state := sampleState()
	require.NoError(t, store.Save(ctx, "a", state))

	state.Prepayments[0].Amount = decimal.NewFromInt(1)

	got, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "10000.5", got.Prepayments[0].Amount.String())
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "a", sampleState()))
	assert.Equal(t, 1, store.Len())

	now = now.Add(2 * time.Minute)
	_, err := store.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestSQLStoreExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := newSQLiteStore(t, time.Minute)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "a", sampleState()))
	require.NoError(t, store.Save(ctx, "b", sampleState()))

	now = now.Add(2 * time.Minute)
	_, err := store.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)
}

func TestNewSQLStoreUnknownDriver(t *testing.T) {
	_, err := NewSQLStore("mysql", "dsn", time.Hour)
	assert.Error(t, err)
}

func TestDialectRebind(t *testing.T) {
	query := `UPDATE t SET a = ? WHERE id = ? AND b > ?`
	assert.Equal(t, query, dialects["sqlite3"].rebind(query))
	assert.Equal(t, `UPDATE t SET a = $1 WHERE id = $2 AND b > $3`, dialects["postgres"].rebind(query))
}

func TestRedisStoreUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	store := NewRedisStoreFromClient(client, time.Hour)
	defer store.Close()

	_, err := store.Load(context.Background(), "a")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "mortgage:session:a", redisKey("a"))
}

func TestIDs(t *testing.T) {
	id := NewID()
	assert.True(t, ValidID(id))
	assert.NotEqual(t, id, NewID())
	assert.False(t, ValidID("not-a-uuid"))
}
