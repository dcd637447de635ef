package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/pidgix/internal"
	"codeberg.org/snonux/pidgix/internal/history"
	"codeberg.org/snonux/pidgix/internal/translation"
)

// Runner executes the commands once flags and config are resolved
type Runner interface {
	Translate(cmd *cobra.Command, args []string) error
	Speak(cmd *cobra.Command, args []string) error
	HistoryList(cmd *cobra.Command, args []string) error
	HistoryShow(cmd *cobra.Command, args []string) error
	HistoryClear(cmd *cobra.Command, args []string) error
	HistoryExport(cmd *cobra.Command, args []string) error
	HistoryArchive(cmd *cobra.Command, args []string) error
	Tone(cmd *cobra.Command, args []string) error
	Models(cmd *cobra.Command, args []string) error
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, runner Runner) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pidgix [text]",
		Short: "English to Nigerian Pidgin translator",
		Long: `pidgix translates between English and Nigerian Pidgin using Gemini
models, falling back through a list of model tiers when one fails.

Examples:
  pidgix "I will be there in ten minutes"      # English to Pidgin
  pidgix --tone respectful "Good morning sir"  # Formal Pidgin
  pidgix -d to-english "How you dey?"          # Pidgin to English
  pidgix --speak "I go soon land"              # Translate and speak
  pidgix --copy "See you tomorrow"             # Translate and copy
  pidgix history show <id> --speak             # Replay a past entry
  pidgix --batch texts.txt                     # One text per line`,
		Args:          cobra.ArbitraryArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runner.Translate,
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "translate [text]",
			Short: "Translate text (reads stdin when no text is given)",
			RunE:  runner.Translate,
		},
		&cobra.Command{
			Use:   "speak <text>",
			Short: "Speak text without translating it",
			Args:  cobra.MinimumNArgs(1),
			RunE:  runner.Speak,
		},
		createHistoryCommand(flags, runner),
		&cobra.Command{
			Use:       "tone [street|respectful]",
			Short:     "Show or set the persisted tone",
			Args:      cobra.MaximumNArgs(1),
			ValidArgs: []string{string(translation.ToneStreet), string(translation.ToneRespectful)},
			RunE:      runner.Tone,
		},
		&cobra.Command{
			Use:   "models",
			Short: "List available Gemini models and the configured tiers",
			Args:  cobra.NoArgs,
			RunE:  runner.Models,
		},
	)

	return rootCmd
}

func createHistoryCommand(flags *Flags, runner Runner) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage translation history",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List past translations, newest first",
		Args:  cobra.NoArgs,
		RunE:  runner.HistoryList,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export history as an Anki import CSV",
		Args:  cobra.NoArgs,
		RunE:  runner.HistoryExport,
	}
	exportCmd.Flags().StringVar(&flags.AnkiOutput, "anki-output", flags.AnkiOutput, "Anki CSV output path")
	exportCmd.Flags().StringVar(&flags.AudioDir, "audio-dir", "", "Directory searched for speech files (default is the output directory)")

	historyCmd.AddCommand(
		listCmd,
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show one past translation (add --speak to replay it)",
			Args:  cobra.ExactArgs(1),
			RunE:  runner.HistoryShow,
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every history entry",
			Args:  cobra.NoArgs,
			RunE:  runner.HistoryClear,
		},
		exportCmd,
		&cobra.Command{
			Use:   "archive",
			Short: "Move the history database aside with a timestamp",
			Args:  cobra.NoArgs,
			RunE:  runner.HistoryArchive,
		},
	)

	return historyCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	home, _ := os.UserHomeDir()
	defaultOutputDir := filepath.Join(home, ".local", "state", "pidgix", "audio")

	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.pidgix.yaml)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Show detailed errors and debug logging")
	pf.BoolVar(&flags.JSON, "json", false, "Print results as JSON")
	pf.StringVar(&flags.HistoryPath, "history", history.DefaultPath(), "History database path")
	pf.StringVarP(&flags.OutputDir, "output", "o", defaultOutputDir, "Directory for generated speech files")

	// Translation flags
	pf.StringVarP(&flags.Tone, "tone", "t", "", "Tone: street or respectful (default is the persisted tone)")
	pf.StringVarP(&flags.Direction, "direction", "d", flags.Direction, "Direction: to-pidgin or to-english")
	pf.StringSliceVar(&flags.Models, "models", nil, "Model tiers in fallback order (prefix openai: for OpenAI models)")
	pf.Float64Var(&flags.Temperature, "temperature", flags.Temperature, "Sampling temperature for translation")
	pf.BoolVar(&flags.CircuitBreaker, "circuit-breaker", false, "Skip tiers that keep failing")
	pf.StringVar(&flags.BatchFile, "batch", "", "Translate texts from file (one per line)")
	pf.BoolVarP(&flags.Copy, "copy", "c", false, "Copy the translation to the clipboard")

	// Speech flags
	pf.BoolVarP(&flags.Speak, "speak", "s", false, "Speak the translation")
	pf.BoolVar(&flags.NoPlay, "no-play", false, "Write the speech file without playing it")
	pf.BoolVar(&flags.NoSave, "no-save", false, "Speak directly with espeak-ng without writing a file")
	pf.StringVar(&flags.SpeechModel, "speech-model", flags.SpeechModel, "Gemini speech model")
	pf.StringVar(&flags.SpeechVoice, "speech-voice", flags.SpeechVoice, "Gemini prebuilt voice")

	bindFlagsToViper(pf)
}

func bindFlagsToViper(pf *pflag.FlagSet) {
	viper.BindPFlag("translation.models", pf.Lookup("models"))
	viper.BindPFlag("translation.temperature", pf.Lookup("temperature"))
	viper.BindPFlag("translation.circuit_breaker", pf.Lookup("circuit-breaker"))
	viper.BindPFlag("speech.model", pf.Lookup("speech-model"))
	viper.BindPFlag("speech.voice", pf.Lookup("speech-voice"))
	viper.BindPFlag("history.path", pf.Lookup("history"))
	viper.BindPFlag("output.directory", pf.Lookup("output"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// A missing .env file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".pidgix" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pidgix")
	}

	viper.SetDefault("translation.models", translation.DefaultModels)

	// Environment variables
	viper.SetEnvPrefix("PIDGIX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, name := range []string{"GEMINI_API_KEY", "API_KEY"} {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}

	return viper.GetString("gemini.api_key")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("openai.api_key")
}

// GetModels returns the configured model tiers in fallback order. Entries
// may hold comma separated lists, as PIDGIX_TRANSLATION_MODELS does.
func GetModels() []string {
	var models []string
	for _, entry := range viper.GetStringSlice("translation.models") {
		for _, m := range strings.Split(entry, ",") {
			if m = strings.TrimSpace(m); m != "" {
				models = append(models, m)
			}
		}
	}
	if len(models) == 0 {
		return translation.DefaultModels
	}
	return models
}

// NewLogger builds the zap logger. Verbose mode logs everything in a human
// readable form, otherwise only warnings and errors are written as JSON.
func NewLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
