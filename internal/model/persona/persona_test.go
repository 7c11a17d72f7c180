package persona

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFirstName(t *testing.T) {
	if got := (Persona{Name: "Derek Kowalski"}).FirstName(); got != "Derek" {
		t.Fatalf("FirstName = %q", got)
	}
	if got := (Persona{Name: "Cher"}).FirstName(); got != "Cher" {
		t.Fatalf("single-word name FirstName = %q", got)
	}
}

func TestSeedRoster(t *testing.T) {
	roster := Seed()
	if len(roster) != 3 {
		t.Fatalf("seed roster size = %d", len(roster))
	}

	seen := map[int]bool{}
	for _, p := range roster {
		if p.Name == "" || p.Backstory == "" || len(p.Traits) == 0 {
			t.Fatalf("persona %d incomplete: %+v", p.ID, p)
		}
		if seen[p.ID] {
			t.Fatalf("duplicate persona id %d", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestMemoryStoreLookups(t *testing.T) {
	store := NewMemoryStore(Seed())

	p, ok := store.FindByID(2)
	if !ok || p.Name != "Marcus Reeves" {
		t.Fatalf("FindByID(2) = %+v ok=%v", p, ok)
	}
	if _, ok := store.FindByID(99); ok {
		t.Fatal("unknown id found")
	}

	p, ok = store.FindByFirstName("jasmine")
	if !ok || p.ID != 3 {
		t.Fatalf("FindByFirstName(jasmine) = %+v ok=%v", p, ok)
	}
	if _, ok := store.FindByFirstName("nobody"); ok {
		t.Fatal("unknown first name found")
	}
}

func TestMemoryStoreListIsCopy(t *testing.T) {
	store := NewMemoryStore(Seed())

	list := store.List()
	list[0].Name = "tampered"

	if fresh := store.List(); fresh[0].Name == "tampered" {
		t.Fatal("List exposed internal state")
	}
}

const rosterTOML = `
[[personas]]
id = 1
name = "Ada Lovelace"
occupation = "Engineer"
short_title = "Builder"
color = "#112233"
traits = ["precise", "curious"]

[[personas]]
id = 2
name = "Grace Hopper"
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.toml")
	if err := os.WriteFile(path, []byte(rosterTOML), 0o600); err != nil {
		t.Fatalf("write roster: %v", err)
	}

	roster, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("roster size = %d", len(roster))
	}
	if roster[0].Name != "Ada Lovelace" || roster[0].ShortTitle != "Builder" {
		t.Fatalf("roster[0] = %+v", roster[0])
	}
	if len(roster[0].Traits) != 2 {
		t.Fatalf("traits = %v", roster[0].Traits)
	}
}

func TestLoadFileRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.toml")
	content := "[[personas]]\nid = 1\nname = \"A\"\n\n[[personas]]\nid = 1\nname = \"B\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write roster: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestLoadFileRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.toml")
	if err := os.WriteFile(path, []byte("# empty\n"), 0o600); err != nil {
		t.Fatalf("write roster: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for empty roster")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
