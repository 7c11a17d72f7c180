package persona

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type rosterFile struct {
	Personas []Persona `toml:"personas"`
}

// LoadFile reads a TOML roster override. Deployments for other brands swap
// the roster without rebuilding; absent fields fall back to zero values.
func LoadFile(path string) ([]Persona, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona roster: %w", err)
	}

	var file rosterFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse persona roster %s: %w", path, err)
	}
	if len(file.Personas) == 0 {
		return nil, fmt.Errorf("persona roster %s defines no personas", path)
	}

	seen := make(map[int]bool, len(file.Personas))
	for _, p := range file.Personas {
		if p.Name == "" {
			return nil, fmt.Errorf("persona roster %s: persona %d has no name", path, p.ID)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("persona roster %s: duplicate persona id %d", path, p.ID)
		}
		seen[p.ID] = true
	}

	return file.Personas, nil
}
