// Command chat is the terminal client: the strategic-advisor chat by
// default, or the focus-group chat with -group.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/pitchlabs/pitchroom/internal/auth"
	"github.com/pitchlabs/pitchroom/internal/client"
	"github.com/pitchlabs/pitchroom/internal/config"
	"github.com/pitchlabs/pitchroom/internal/model/persona"
	"github.com/pitchlabs/pitchroom/internal/service/group"
	"github.com/pitchlabs/pitchroom/internal/tui"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "chat API base URL")
	groupMode := flag.Bool("group", false, "open the focus-group chat instead of the advisor")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if cfg.Features.PasswordGate {
		if err := unlock(cfg, *serverURL); err != nil {
			log.Fatalf("password gate: %v", err)
		}
	}

	var m *tui.Model
	if *groupMode {
		responder := group.NewClient(cfg.FocusGroup, nil)
		store := persona.NewMemoryStore(loadRoster(responder))
		m = tui.NewGroup(store, responder)
	} else {
		agent := client.NewAgent(*serverURL, nil)
		m = tui.NewAdvisor(agent)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Printf("terminal client error: %v", err)
		os.Exit(1)
	}
}

// unlock enforces the password gate before any chat surface opens. A flag
// persisted from an earlier session passes silently; otherwise the prompt
// runs the password past the API server and a success is persisted for the
// next start.
func unlock(cfg *config.Config, serverURL string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	store, err := auth.NewFileStore(filepath.Join(home, ".pitchroom", "auth.json"))
	if err != nil {
		return err
	}
	gate := auth.NewGate(cfg.Gate, store)

	authed, err := gate.IsAuthenticated()
	if err != nil {
		return err
	}
	if authed {
		return nil
	}

	gateClient := client.NewGateClient(serverURL, nil)
	prompt := tui.NewGate(func(ctx context.Context, password string) (bool, error) {
		ok, err := gateClient.Verify(ctx, password)
		if err != nil || !ok {
			return ok, err
		}
		if _, err := gate.Authenticate(password); err != nil {
			log.Printf("warning: could not persist the gate flag: %v", err)
		}
		return true, nil
	})

	final, err := tea.NewProgram(prompt).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(*tui.GateModel); !ok || !m.Unlocked() {
		return errors.New("password required")
	}
	return nil
}

// loadRoster prefers the focus-group service's live roster, then a
// PERSONAS_FILE override, then the compiled-in seed.
func loadRoster(svc *group.Client) []persona.Persona {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if roster, err := svc.FetchPersonas(ctx); err != nil {
		log.Printf("warning: could not fetch the audience roster, falling back to local: %v", err)
	} else if len(roster) > 0 {
		return roster
	}

	path := strings.TrimSpace(os.Getenv("PERSONAS_FILE"))
	if path == "" {
		return persona.Seed()
	}
	roster, err := persona.LoadFile(path)
	if err != nil {
		log.Fatalf("failed to load persona roster from %s: %v", path, err)
	}
	return roster
}
