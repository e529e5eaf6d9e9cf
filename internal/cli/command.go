package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/vocabdrill/internal"
	"codeberg.org/snonux/vocabdrill/internal/archive"
	"codeberg.org/snonux/vocabdrill/internal/drill"
	"codeberg.org/snonux/vocabdrill/internal/gui"
	"codeberg.org/snonux/vocabdrill/internal/models"
	"codeberg.org/snonux/vocabdrill/internal/processor"
	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	app := &App{flags: flags}

	rootCmd := &cobra.Command{
		Use:   "vocabdrill",
		Short: "Vocabulary listening drills",
		Long: `vocabdrill keeps a personal vocabulary collection and reads it aloud.

Entries are filtered by category, topic, difficulty and mastery, then
played back part by part: word, pronunciation, meaning and examples.

Examples:
  vocabdrill seed                              # Load the sample vocabulary
  vocabdrill list --difficulty hard            # Show the hard words
  vocabdrill play --category Food --mastery not-mastered
  vocabdrill play --interactive                # Full screen drill
  vocabdrill gui --topic Travel                # Drill in a desktop window
  vocabdrill import words.xlsx                 # Import a spreadsheet
  vocabdrill export deck.apkg --audio          # Anki package with audio`,
		Version:      internal.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return SetupLogging(cmd.ErrOrStderr())
		},
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newListCommand(app),
		newPlayCommand(app),
		newGUICommand(app),
		newImportCommand(app),
		newExportCommand(app),
		newReviewCommand(app),
		newCategoriesCommand(app),
		newTopicsCommand(app),
		newStatsCommand(app),
		newSeedCommand(app),
		newModelsCommand(),
		newArchiveCommand(),
	)
	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.vocabdrill.yaml)")
	pf.StringVar(&flags.DBPath, "db", "", "SQLite database (default is ~/.local/state/vocabdrill/vocab.db)")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")
	pf.StringVar(&flags.AudioProvider, "audio-provider", flags.AudioProvider, "Speech provider: espeak, openai, gemini or none")

	viper.BindPFlag("db.path", pf.Lookup("db"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.format", pf.Lookup("log-format"))
	viper.BindPFlag("audio.provider", pf.Lookup("audio-provider"))
}

func addFilterFlags(cmd *cobra.Command, flags *Flags) {
	f := cmd.Flags()
	f.StringSliceVarP(&flags.Categories, "category", "c", nil, "Only entries in these categories (name or id)")
	f.StringSliceVarP(&flags.Topics, "topic", "t", nil, "Only entries with these topics")
	f.StringSliceVarP(&flags.Difficulties, "difficulty", "d", nil, "Only entries of these difficulties: easy, medium, hard")
	f.StringSliceVarP(&flags.Mastery, "mastery", "m", nil, "Mastery status: all, mastered, not-mastered")
	f.StringVarP(&flags.Search, "search", "s", "", "Case-insensitive search in word and meaning")
	f.BoolVar(&flags.SearchPronunciation, "search-pronunciation", false, "Also search pronunciations")
	f.StringVar(&flags.Sort, "sort", flags.Sort, "Sort by word, dateAdded, reviewCount or difficulty")
	f.StringVar(&flags.Order, "order", flags.Order, "Sort direction: asc or desc")
}

func newListCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries matching the filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closeSession(s)

			entries, err := s.List(cmd.Context(), app.filterRaw())
			if err != nil {
				return err
			}
			names, err := s.CategoryNames(cmd.Context())
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), entries, names, app.flags.ShowIDs)
			return nil
		},
	}
	addFilterFlags(cmd, app.flags)
	cmd.Flags().BoolVar(&app.flags.ShowIDs, "ids", false, "Show entry ids")
	return cmd
}

func newPlayCommand(app *App) *cobra.Command {
	flags := app.flags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Read the matching entries aloud",
		Long: `Read the matching entries aloud, one part after another.

Without a working speech provider each part is shown for one part
pause instead. With --interactive a full screen drill starts:
space pauses, n and p skip, m marks the current word mastered.`,
		Args:   cobra.NoArgs,
		PreRun: bindPlaybackFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := playbackConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := app.open(ctx, true)
			if err != nil {
				return err
			}
			defer closeSession(s)

			entries, err := s.List(ctx, app.filterRaw())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entries match the filter.")
				return nil
			}

			if flags.Interactive {
				return interrupted(drill.Run(ctx, s.Processor, entries, cfg))
			}

			progress := newProgressPrinter(cmd.OutOrStdout())
			final, err := s.Play(ctx, entries, cfg, progress.update)
			if err != nil {
				return interrupted(err)
			}
			if final.Completed {
				progress.printf("Done: %s played.\n", plural(len(entries), "entry"))
			}
			return nil
		},
	}
	addFilterFlags(cmd, flags)
	addPlaybackFlags(cmd, flags)
	cmd.Flags().BoolVarP(&flags.Interactive, "interactive", "i", false, "Start the full screen drill")
	return cmd
}

func newGUICommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gui",
		Short: "Open the drill in a desktop window",
		Long: `Open a desktop window that reads the matching entries aloud.

The window shows the entry being read and highlights the current part.
Space pauses, the arrow keys skip, m marks the word mastered and
h lists every shortcut.`,
		Args:   cobra.NoArgs,
		PreRun: bindPlaybackFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := playbackConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := app.open(ctx, true)
			if err != nil {
				return err
			}
			defer closeSession(s)

			entries, err := s.List(ctx, app.filterRaw())
			if err != nil {
				return err
			}
			return interrupted(gui.Run(ctx, s.Processor, entries, cfg))
		},
	}
	addFilterFlags(cmd, app.flags)
	addPlaybackFlags(cmd, app.flags)
	return cmd
}

func addPlaybackFlags(cmd *cobra.Command, flags *Flags) {
	f := cmd.Flags()
	f.StringSliceVar(&flags.Parts, "parts", flags.Parts, "Parts to read: word, pronunciation, meaning, examples, example-translation")
	f.Float64Var(&flags.PartPause, "part-pause", flags.PartPause, "Seconds between parts (0.5 to 5)")
	f.Float64Var(&flags.WordPause, "word-pause", flags.WordPause, "Seconds between entries (0.5 to 5)")
	f.Float64Var(&flags.Rate, "rate", flags.Rate, "Speech rate, 1.0 is normal speed")
	f.String("target-lang", "en", "Language of the words")
	f.String("native-lang", "vi", "Language of meanings and translations")
}

// bindPlaybackFlags binds the playback flags of the command being run.
// Binding happens here rather than at construction because several
// commands share the keys and viper keeps only the last binding.
func bindPlaybackFlags(cmd *cobra.Command, args []string) {
	f := cmd.Flags()
	viper.BindPFlag("playback.parts", f.Lookup("parts"))
	viper.BindPFlag("playback.part_pause", f.Lookup("part-pause"))
	viper.BindPFlag("playback.word_pause", f.Lookup("word-pause"))
	viper.BindPFlag("playback.rate", f.Lookup("rate"))
	viper.BindPFlag("language.target", f.Lookup("target-lang"))
	viper.BindPFlag("language.native", f.Lookup("native-lang"))
}

// interrupted treats Ctrl-C during playback as a normal end.
func interrupted(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newImportCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import entries from a text, CSV or Excel file",
		Long: `Import entries from a file. The format follows the extension:

  .xlsx/.xlsm  columns A-H: word, meaning, pronunciation, category,
               topic, difficulty, example, translation
  .csv         same columns as the spreadsheet
  other        one entry per line:
               word [pronunciation] = meaning | example | translation
               "@category Name" applies to the following lines,
               "@topic" and "@difficulty" work alike, # starts a comment.

Entries whose word and meaning are already stored are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []processor.Option
			if app.flags.Enrich {
				opt, err := enrichment()
				if err != nil {
					return fmt.Errorf("--enrich: %w", err)
				}
				extra = append(extra, opt)
			}

			s, err := app.open(cmd.Context(), false, extra...)
			if err != nil {
				return err
			}
			defer closeSession(s)

			summary, err := s.Import(cmd.Context(), args[0], app.sheetConfig())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %s, skipped %s.\n",
				plural(summary.Imported, "entry"), plural(summary.Duplicates, "duplicate"))
			for _, msg := range summary.Errors {
				fmt.Fprintf(out, "  skipped %s\n", msg)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&app.flags.SheetName, "sheet", "", "Sheet to read (default is the first)")
	cmd.Flags().IntVar(&app.flags.StartRow, "start-row", app.flags.StartRow, "First data row of a spreadsheet or CSV file")
	cmd.Flags().BoolVar(&app.flags.Enrich, "enrich", false, "Look up missing pronunciations and example translations with OpenAI")
	return cmd
}

func newExportCommand(app *App) *cobra.Command {
	flags := app.flags
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export matching entries for Anki (.apkg or .csv)",
		Long: `Export matching entries for Anki. The file extension selects the
format: .apkg builds a deck package, anything else a CSV import file.
Without a file the package is named after the deck.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := internal.SanitizeFilename(flags.DeckName) + ".apkg"
			if len(args) > 0 {
				path = args[0]
			}

			s, err := app.open(cmd.Context(), flags.WithAudio)
			if err != nil {
				return err
			}
			defer closeSession(s)

			n, err := s.Export(cmd.Context(), app.filterRaw(), app.exportOptions(path))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", plural(n, "card"), path)
			return nil
		},
	}
	addFilterFlags(cmd, flags)
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for APKG export")
	cmd.Flags().BoolVar(&flags.WithAudio, "audio", false, "Include word audio (APKG only)")
	cmd.Flags().BoolVar(&flags.NoHeaders, "no-headers", false, "Omit the CSV header row")
	return cmd
}

func newReviewCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review <id|word>...",
		Short: "Mark entries as mastered",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closeSession(s)

			mastered := !app.flags.NotMastered
			for _, ref := range args {
				e, err := s.Review(cmd.Context(), ref, mastered)
				if err != nil {
					return fmt.Errorf("%s: %w", ref, err)
				}
				state := "mastered"
				if !e.Mastered {
					state = "not mastered"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", e.Word, state, plural(e.ReviewCount, "review"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&app.flags.NotMastered, "not-mastered", false, "Mark as not mastered instead")
	return cmd
}

func newCategoriesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show the category tree with entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closeSession(s)

			roots, err := s.Categories(cmd.Context())
			if err != nil {
				return err
			}
			printCategoryTree(cmd.OutOrStdout(), roots)
			return nil
		},
	}
}

func newTopicsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "Show topics with entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closeSession(s)

			topics, err := s.Topics(cmd.Context())
			if err != nil {
				return err
			}
			printTopics(cmd.OutOrStdout(), topics)
			return nil
		},
	}
}

func newStatsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show collection statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closeSession(s)

			stats, err := s.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries:  %d\n", stats.Total)
			fmt.Fprintf(out, "Mastered: %d\n", stats.Mastered)
			for _, d := range vocab.Difficulties() {
				fmt.Fprintf(out, "%-9s %d\n", d.String()+":", stats.ByDifficulty[d])
			}
			return nil
		},
	}
}

func newSeedCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample vocabulary into an empty collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closeSession(s)

			n, err := s.Seed(cmd.Context())
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Collection is not empty, nothing seeded.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s.\n", plural(n, "entry"))
			return nil
		},
	}
}

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the OpenAI speech and chat models available to your API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lister, err := models.NewLister(GetOpenAIKey())
			if err != nil {
				return err
			}
			catalog, err := lister.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			catalog.Print(cmd.OutOrStdout())
			return nil
		},
	}
}

func newArchiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Move the audio cache into a timestamped archive directory",
		Long: `Move the audio cache into a timestamped archive directory next to it.
Audio is synthesized again on the next playback, for example after
switching voices.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			archived, err := archive.Dir(audioConfig().CacheDir, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Audio cache archived to: %s\n", archived)
			return nil
		},
	}
}
