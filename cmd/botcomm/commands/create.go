package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/botcomm/pkg/comm"
)

var createFlags struct {
	publicID     string
	skin         string
	model        string
	language     string
	gender       string
	promptSuffix string
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a communication configuration",
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createFlags.publicID, "public-id", "", "public id (default: random)")
	createCmd.Flags().StringVar(&createFlags.skin, "skin", "", "display skin: fullbot, simple, faceonly")
	createCmd.Flags().StringVar(&createFlags.model, "model", "", "llm model id")
	createCmd.Flags().StringVar(&createFlags.language, "language", "", "voice language code, e.g. en-US")
	createCmd.Flags().StringVar(&createFlags.gender, "gender", "", "voice gender: MALE, FEMALE, NEUTRAL")
	createCmd.Flags().StringVar(&createFlags.promptSuffix, "prompt-suffix", "", "fixed prompt suffix applied to user turns")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	c := comm.NewCommConfig(createFlags.publicID)
	if createFlags.skin != "" {
		c.Skin = comm.Skin(createFlags.skin)
	}
	if createFlags.model != "" {
		c.LLMModel = createFlags.model
	}
	if createFlags.language != "" {
		c.VoiceLanguage = comm.VoiceLanguage(createFlags.language)
	}
	if createFlags.gender != "" {
		c.VoiceGender = comm.VoiceGender(createFlags.gender)
	}
	c.PromptSuffix = createFlags.promptSuffix

	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := store.LoadConfig(ctx, c.PublicID); err == nil {
		return fmt.Errorf("communication %q already exists", c.PublicID)
	}
	if err := store.SaveConfig(ctx, c); err != nil {
		return err
	}

	fmt.Printf("created communication %s (id %s)\n", c.PublicID, c.ID)
	return nil
}
