package commstore

import (
	"context"
	"errors"
	"testing"

	"github.com/haivivi/botcomm/pkg/comm"
)

func newBadgerStore(t *testing.T) Store {
	t.Helper()
	s, err := NewBadger(BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// stores returns every Store implementation under test.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"badger": newBadgerStore(t),
		"memory": NewMemory(),
	}
}

func TestConfigRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cfg := comm.NewCommConfig("pub-1")
			cfg.PromptSuffix = "answer briefly"
			cfg.VoiceLanguage = comm.LangEnGB

			if err := s.SaveConfig(ctx, cfg); err != nil {
				t.Fatalf("SaveConfig: %v", err)
			}
			got, err := s.LoadConfig(ctx, "pub-1")
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if got.ID != cfg.ID || got.PublicID != cfg.PublicID {
				t.Fatalf("identity fields lost: got %+v", got)
			}
			if got.PromptSuffix != cfg.PromptSuffix || got.VoiceLanguage != cfg.VoiceLanguage {
				t.Fatalf("fields lost in round trip: got %+v", got)
			}
			if !got.CreatedAt.Equal(cfg.CreatedAt) {
				t.Fatalf("CreatedAt = %v, want %v", got.CreatedAt, cfg.CreatedAt)
			}
		})
	}
}

func TestLoadConfigNotFound(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.LoadConfig(context.Background(), "ghost"); !errors.Is(err, comm.ErrNotFound) {
				t.Fatalf("LoadConfig err = %v, want comm.ErrNotFound", err)
			}
		})
	}
}

func TestSaveConfigOverwrites(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cfg := comm.NewCommConfig("pub-2")
			if err := s.SaveConfig(ctx, cfg); err != nil {
				t.Fatalf("SaveConfig: %v", err)
			}

			cfg.LLMModel = "mistral"
			if err := s.SaveConfig(ctx, cfg); err != nil {
				t.Fatalf("SaveConfig: %v", err)
			}
			got, err := s.LoadConfig(ctx, "pub-2")
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if got.LLMModel != "mistral" {
				t.Fatalf("LLMModel = %q, want %q", got.LLMModel, "mistral")
			}
		})
	}
}

func TestHistoryAppendOrder(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			const commID = "c1"

			// An unseen communication has empty history, not an error.
			got, err := s.LoadHistory(ctx, commID)
			if err != nil {
				t.Fatalf("LoadHistory: %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("fresh history has %d messages", len(got))
			}

			turn1 := []comm.ChatMessage{
				{CommID: commID, Role: comm.RoleUser, Text: "q1"},
				{CommID: commID, Role: comm.RoleAssistant, Text: "a1", Model: "llama3"},
			}
			turn2 := []comm.ChatMessage{
				{CommID: commID, Role: comm.RoleUser, Text: "q2"},
				{CommID: commID, Role: comm.RoleAssistant, Text: "a2", Model: "llama3"},
			}
			if err := s.AppendMessages(ctx, turn1); err != nil {
				t.Fatalf("AppendMessages: %v", err)
			}
			if err := s.AppendMessages(ctx, turn2); err != nil {
				t.Fatalf("AppendMessages: %v", err)
			}

			got, err = s.LoadHistory(ctx, commID)
			if err != nil {
				t.Fatalf("LoadHistory: %v", err)
			}
			want := []string{"q1", "a1", "q2", "a2"}
			if len(got) != len(want) {
				t.Fatalf("history has %d messages, want %d", len(got), len(want))
			}
			for i, text := range want {
				if got[i].Text != text {
					t.Fatalf("history[%d].Text = %q, want %q", i, got[i].Text, text)
				}
			}
			if got[1].Model != "llama3" {
				t.Fatalf("assistant model lost: %+v", got[1])
			}
		})
	}
}

func TestHistoryIsolatedPerCommunication(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s.AppendMessages(ctx, []comm.ChatMessage{{CommID: "a", Role: comm.RoleUser, Text: "for a"}})
			s.AppendMessages(ctx, []comm.ChatMessage{{CommID: "b", Role: comm.RoleUser, Text: "for b"}})

			got, err := s.LoadHistory(ctx, "a")
			if err != nil {
				t.Fatalf("LoadHistory: %v", err)
			}
			if len(got) != 1 || got[0].Text != "for a" {
				t.Fatalf("history for a = %+v", got)
			}
		})
	}
}

func TestAppendEmptyTurn(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.AppendMessages(context.Background(), nil); err != nil {
				t.Fatalf("AppendMessages(nil) = %v, want nil", err)
			}
		})
	}
}

func TestConfigsLists(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ids := []string{"list-1", "list-2", "list-3"}
			for _, id := range ids {
				if err := s.SaveConfig(ctx, comm.NewCommConfig(id)); err != nil {
					t.Fatalf("SaveConfig %s: %v", id, err)
				}
			}

			cfgs, err := s.Configs(ctx)
			if err != nil {
				t.Fatalf("Configs: %v", err)
			}
			if len(cfgs) != len(ids) {
				t.Fatalf("Configs returned %d entries, want %d", len(cfgs), len(ids))
			}
			seen := make(map[string]bool)
			for _, cfg := range cfgs {
				seen[cfg.PublicID] = true
			}
			for _, id := range ids {
				if !seen[id] {
					t.Fatalf("Configs missing %q", id)
				}
			}
		})
	}
}

func TestBadgerOnDiskRequiresDir(t *testing.T) {
	if _, err := NewBadger(BadgerOptions{}); err == nil {
		t.Fatalf("NewBadger accepted empty Dir in on-disk mode")
	}
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewBadger(BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	cfg := comm.NewCommConfig("durable")
	if err := s.SaveConfig(ctx, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = NewBadger(BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.LoadConfig(ctx, "durable")
	if err != nil {
		t.Fatalf("LoadConfig after reopen: %v", err)
	}
	if got.ID != cfg.ID {
		t.Fatalf("config id = %q, want %q", got.ID, cfg.ID)
	}
}
