// Package auth implements the shared-password soft gate. One plaintext
// password, one "authenticated" flag in a pluggable store. Explicitly not a
// security boundary: it keeps casual visitors out of a client presentation,
// nothing more.
package auth

import "github.com/pitchlabs/pitchroom/internal/config"

// Gate is the session capability object for the password gate.
type Gate struct {
	cfg   config.GateConfig
	store Store
}

// NewGate binds the gate to its persistence.
func NewGate(cfg config.GateConfig, store Store) *Gate {
	return &Gate{cfg: cfg, store: store}
}

// Authenticate checks the password and, on a match, records the
// authenticated flag. Returns whether the attempt succeeded.
func (g *Gate) Authenticate(password string) (bool, error) {
	if password != g.cfg.Password {
		return false, nil
	}
	if err := g.store.Set(g.cfg.StorageKey, "true"); err != nil {
		return false, err
	}
	return true, nil
}

// IsAuthenticated reports whether the stored flag is present.
func (g *Gate) IsAuthenticated() (bool, error) {
	value, ok, err := g.store.Get(g.cfg.StorageKey)
	if err != nil {
		return false, err
	}
	return ok && value == "true", nil
}

// Clear logs the session out.
func (g *Gate) Clear() error {
	return g.store.Delete(g.cfg.StorageKey)
}

// Verify checks the password without touching the store; the HTTP handler
// uses it since the flag lives client-side.
func (g *Gate) Verify(password string) bool {
	return password == g.cfg.Password
}
