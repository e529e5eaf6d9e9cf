package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// InitConfig initializes viper configuration. Variables from a .env file in
// the working directory are loaded into the environment first, without
// overriding variables that are already set.
func InitConfig(cfgFile string) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".vocabdrill" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vocabdrill")
	}

	setDefaults()

	// VOCABDRILL_DB_PATH overrides db.path and so on.
	viper.SetEnvPrefix("VOCABDRILL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	viper.SetDefault("db.path", defaultDataPath("vocab.db"))
	viper.SetDefault("audio.cache_dir", defaultDataPath("audio"))
	viper.SetDefault("audio.format", "mp3")
	viper.SetDefault("audio.openai_model", "gpt-4o-mini-tts")
	viper.SetDefault("audio.openai_voice", "alloy")
	viper.SetDefault("audio.openai_speed", 1.0)
	viper.SetDefault("audio.gemini_model", "gemini-2.5-flash-preview-tts")
	viper.SetDefault("audio.gemini_voice", "Kore")
	viper.SetDefault("language.target", "en")
	viper.SetDefault("language.native", "vi")
}

// defaultDataPath places name under ~/.local/state/vocabdrill.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".vocabdrill", name)
	}
	return filepath.Join(home, ".local", "state", "vocabdrill", name)
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("audio.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("audio.gemini_key")
}

// NewLogger creates a slog logger writing to w. format is "text" or
// "json"; level is one of debug, info, warn and error.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

// SetupLogging installs the configured logger as the slog default.
func SetupLogging(w io.Writer) error {
	logger, err := NewLogger(w, viper.GetString("log.level"), viper.GetString("log.format"))
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
