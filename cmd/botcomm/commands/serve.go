package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/botcomm/pkg/comm"
	"github.com/haivivi/botcomm/pkg/llm"
	"github.com/haivivi/botcomm/pkg/speech"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the communication hub server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Speech.APIKey == "" {
		return fmt.Errorf("speech.api_key is required to serve")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	sp, err := speech.NewGenAI(ctx, speech.GenAIOptions{
		APIKey:          cfg.Speech.APIKey,
		TranscribeModel: cfg.Speech.TranscribeModel,
		SynthesizeModel: cfg.Speech.SynthesizeModel,
		MIMEType:        cfg.Speech.MIMEType,
	})
	if err != nil {
		return err
	}
	completer := llm.New(llm.Options{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
	})

	hub := comm.NewHub(comm.HubConfig{
		Store:       store,
		Transcriber: comm.TranscribeFunc(sp.Transcribe),
		Synthesizer: comm.SynthesizeFunc(func(ctx context.Context, text string, lang comm.VoiceLanguage, gender comm.VoiceGender) ([]byte, error) {
			return sp.Synthesize(ctx, text, string(lang), string(gender))
		}),
		Completer: comm.CompleteFunc(func(ctx context.Context, history []comm.ChatMessage, model, suffix string) (string, error) {
			msgs := make([]llm.Message, 0, len(history))
			for _, m := range history {
				msgs = append(msgs, llm.Message{Role: string(m.Role), Content: m.Text})
			}
			return completer.Complete(ctx, msgs, model, suffix)
		}),
	})

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: hub.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("botcomm: listening", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("botcomm: shutting down")
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
