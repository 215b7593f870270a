package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func newTestStore(t *testing.T) (*RedisStore, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	t.Cleanup(func() { db.Close() })
	return NewRedisStoreFromClient(db, RedisConfig{TTL: time.Hour}), mock
}

func TestRedisStore_Get_Hit(t *testing.T) {
	store, mock := newTestStore(t)

	key := DeriveKey("Hello", "en", "hi")
	mock.ExpectGet(key).SetVal("नमस्ते")

	val, ok := store.Get(context.Background(), "Hello", "en", "hi")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if val != "नमस्ते" {
		t.Errorf("Get() = %q, want %q", val, "नमस्ते")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRedisStore_Get_Miss(t *testing.T) {
	store, mock := newTestStore(t)

	key := DeriveKey("Hello", "en", "hi")
	mock.ExpectGet(key).RedisNil()

	val, ok := store.Get(context.Background(), "Hello", "en", "hi")
	if ok {
		t.Error("expected cache miss")
	}
	if val != "" {
		t.Errorf("expected empty value, got %q", val)
	}
}

func TestRedisStore_Get_BackendErrorIsMiss(t *testing.T) {
	store, mock := newTestStore(t)

	key := DeriveKey("Hello", "en", "hi")
	mock.ExpectGet(key).SetErr(errors.New("connection refused"))

	if _, ok := store.Get(context.Background(), "Hello", "en", "hi"); ok {
		t.Error("backend failure should degrade to a miss")
	}
}

func TestRedisStore_Set(t *testing.T) {
	store, mock := newTestStore(t)

	key := DeriveKey("Hello", "en", "hi")
	mock.ExpectSet(key, "नमस्ते", time.Hour).SetVal("OK")

	if !store.Set(context.Background(), "Hello", "en", "hi", "नमस्ते") {
		t.Error("Set should report success")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRedisStore_Set_BackendErrorReportsFailure(t *testing.T) {
	store, mock := newTestStore(t)

	key := DeriveKey("Hello", "en", "hi")
	mock.ExpectSet(key, "नमस्ते", time.Hour).SetErr(errors.New("connection refused"))

	if store.Set(context.Background(), "Hello", "en", "hi", "नमस्ते") {
		t.Error("Set should report failure when the backend errors")
	}
}

func TestRedisStore_Clear(t *testing.T) {
	store, mock := newTestStore(t)

	keys := []string{"trans:en:hi:aaaa", "trans:en:hi:bbbb"}
	mock.ExpectScan(0, KeyPrefix+"*", clearScanCount).SetVal(keys, 0)
	mock.ExpectDel(keys...).SetVal(int64(len(keys)))

	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRedisStore_Connected(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectPing().SetVal("PONG")
	if !store.Connected(context.Background()) {
		t.Error("Connected should report true when ping succeeds")
	}
}

func TestRedisStore_Stats(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectInfo("memory").SetVal("# Memory\r\nused_memory_human:1.05M\r\n")

	stats := store.Stats(context.Background())
	if !stats.Connected {
		t.Error("Stats should report connected when INFO succeeds")
	}
	if stats.MemoryUsage != "1.05M" {
		t.Errorf("MemoryUsage = %q, want %q", stats.MemoryUsage, "1.05M")
	}
}

func TestRedisStore_DisabledStore(t *testing.T) {
	store := NewRedisStore(RedisConfig{URL: "not-a-url"})

	if _, ok := store.Get(context.Background(), "Hello", "en", "hi"); ok {
		t.Error("disabled store should miss")
	}
	if store.Set(context.Background(), "Hello", "en", "hi", "नमस्ते") {
		t.Error("disabled store should report Set failure")
	}
	if store.Connected(context.Background()) {
		t.Error("disabled store should report disconnected")
	}
	if err := store.Clear(context.Background()); err != nil {
		t.Errorf("disabled store Clear should be a no-op, got %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("disabled store Close should be a no-op, got %v", err)
	}
}

func TestRedisStore_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	store, mock := newTestStore(t)

	key := DeriveKey("Hello", "en", "hi")
	for i := 0; i < 3; i++ {
		mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		store.Get(ctx, "Hello", "en", "hi")
	}

	// The breaker is open now; further calls miss without touching the
	// backend, so no new expectations are needed.
	if _, ok := store.Get(ctx, "Hello", "en", "hi"); ok {
		t.Error("open breaker should degrade to a miss")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
