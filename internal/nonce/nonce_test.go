package nonce

import (
	"context"
	"errors"
	"testing"
	"time"

	"equipment-logbook/internal/config"
	"equipment-logbook/internal/storage"
)

func testStores(t *testing.T) map[string]NonceStoreInterface {
	t.Helper()
	provider, err := storage.NewProvider(context.Background(), &config.Storage{
		Driver: config.DriverSQLite,
		SQLite: &config.SQLiteStorage{Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	t.Cleanup(func() { provider.Close() })

	sqlStore, err := NewStore(SQL, provider, 0)
	if err != nil {
		t.Fatalf("NewStore(sql): %v", err)
	}
	memStore, err := NewStore(Memory, nil, 0)
	if err != nil {
		t.Fatalf("NewStore(memory): %v", err)
	}
	return map[string]NonceStoreInterface{"memory": memStore, "sql": sqlStore}
}

func TestStore_ConsumeOnce(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			n, err := New(ctx, store, time.Minute)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if !store.Exists(ctx, n) {
				t.Fatal("fresh nonce should exist")
			}
			ok, err := store.Consume(ctx, n)
			if err != nil || !ok {
				t.Fatalf("first Consume: %v %v", ok, err)
			}
			if store.Exists(ctx, n) {
				t.Fatal("consumed nonce should not exist")
			}
			_, err = store.Consume(ctx, n)
			var missing *NonceMissingError
			if !errors.As(err, &missing) {
				t.Fatalf("second Consume: expected NonceMissingError, got %v", err)
			}
		})
	}
}

func TestStore_Expiry(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Put(ctx, "short-"+name, time.Millisecond); err != nil {
				t.Fatalf("Put: %v", err)
			}
			time.Sleep(5 * time.Millisecond)
			if store.Exists(ctx, "short-"+name) {
				t.Fatal("expired nonce should not exist")
			}
			if err := store.ExpireNonces(ctx); err != nil {
				t.Fatalf("ExpireNonces: %v", err)
			}
			if ok, _ := store.Consume(ctx, "short-"+name); ok {
				t.Fatal("expired nonce must not be consumable")
			}
		})
	}
}

func TestMemoryStore_RejectsNonPositiveTTL(t *testing.T) {
	if err := NewMemoryStore().Put(context.Background(), "x", 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func TestNewStore_Unknown(t *testing.T) {
	if _, err := NewStore("redis", nil, 0); err == nil {
		t.Fatal("expected error for unknown store type")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return clock }
	defer m.Close()

	if err := m.Put(ctx, "a", time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := m.Put(ctx, "b", time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := m.Put(ctx, "c", 0); err == nil {
		t.Fatal("zero ttl must be rejected")
	}

	clock = clock.Add(2 * time.Minute)
	if m.Exists(ctx, "a") {
		t.Error("expired session still exists")
	}
	var expired *NonceExpiredError
	if _, err := m.Consume(ctx, "a"); !errors.As(err, &expired) {
		t.Errorf("expected NonceExpiredError, got %v", err)
	}

	m.Put(ctx, "d", time.Second)
	clock = clock.Add(time.Minute)
	if err := m.ExpireNonces(ctx); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 1 || !m.Exists(ctx, "b") {
		t.Errorf("expected only b to remain, have %d", m.Len())
	}
}
