package auth

import (
	"path/filepath"
	"testing"

	"github.com/pitchlabs/pitchroom/internal/config"
)

func testGateConfig() config.GateConfig {
	return config.GateConfig{Password: "ripple2026", StorageKey: "ripple-agent-auth"}
}

func TestGateAuthenticate(t *testing.T) {
	g := NewGate(testGateConfig(), NewMemoryStore())

	ok, err := g.Authenticate("wrong")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}

	authed, err := g.IsAuthenticated()
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if authed {
		t.Fatal("failed attempt must not persist the flag")
	}

	ok, err = g.Authenticate("ripple2026")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	authed, err = g.IsAuthenticated()
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !authed {
		t.Fatal("flag not persisted after success")
	}
}

func TestGateClear(t *testing.T) {
	g := NewGate(testGateConfig(), NewMemoryStore())

	if _, err := g.Authenticate("ripple2026"); err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if err := g.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	authed, err := g.IsAuthenticated()
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if authed {
		t.Fatal("flag survived Clear")
	}
}

func TestGateVerifyDoesNotPersist(t *testing.T) {
	store := NewMemoryStore()
	g := NewGate(testGateConfig(), store)

	if !g.Verify("ripple2026") {
		t.Fatal("correct password rejected")
	}
	if g.Verify("nope") {
		t.Fatal("wrong password accepted")
	}

	if _, ok, _ := store.Get("ripple-agent-auth"); ok {
		t.Fatal("Verify must not touch the store")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "auth.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("create store failed: %v", err)
	}

	if _, ok, err := store.Get("missing"); err != nil || ok {
		t.Fatalf("empty store get = ok=%v err=%v", ok, err)
	}

	if err := store.Set("key", "true"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// A second store over the same file sees the persisted value.
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	value, ok, err := reopened.Get("key")
	if err != nil || !ok || value != "true" {
		t.Fatalf("reopened get = %q ok=%v err=%v", value, ok, err)
	}

	if err := reopened.Delete("key"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := store.Get("key"); ok {
		t.Fatal("delete not persisted")
	}
}

func TestGateOverFileStore(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "auth.json"))
	if err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	g := NewGate(testGateConfig(), store)

	if ok, err := g.Authenticate("ripple2026"); err != nil || !ok {
		t.Fatalf("authenticate = %v err=%v", ok, err)
	}
	if authed, err := g.IsAuthenticated(); err != nil || !authed {
		t.Fatalf("authenticated = %v err=%v", authed, err)
	}
}
