package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestCreateRootCommand(t *testing.T) {
	t.Cleanup(viper.Reset)
	cmd := CreateRootCommand(NewFlags())

	if cmd.Use != "vocabdrill" {
		t.Errorf("Expected Use to be 'vocabdrill', got %s", cmd.Use)
	}

	for _, name := range []string{"config", "db", "log-level", "log-format", "audio-provider"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag %s to exist", name)
		}
	}

	subcommands := map[string][]string{
		"list":       {"category", "topic", "difficulty", "mastery", "search", "search-pronunciation", "sort", "order", "ids"},
		"play":       {"category", "parts", "part-pause", "word-pause", "rate", "target-lang", "native-lang", "interactive"},
		"gui":        {"category", "mastery", "parts", "part-pause", "word-pause", "rate", "target-lang", "native-lang"},
		"import":     {"sheet", "start-row", "enrich"},
		"export":     {"category", "deck-name", "audio", "no-headers"},
		"review":     {"not-mastered"},
		"categories": nil,
		"topics":     nil,
		"stats":      nil,
		"seed":       nil,
		"models":     nil,
		"archive":    nil,
	}
	for name, flagNames := range subcommands {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			if err != nil || sub.Name() != name {
				t.Fatalf("subcommand %s not found: %v", name, err)
			}
			for _, fn := range flagNames {
				var flag *pflag.Flag = sub.Flags().Lookup(fn)
				if flag == nil {
					t.Errorf("Expected flag %s on %s", fn, name)
				}
			}
		})
	}
}

// run executes the root command against a fresh database in dir.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := CreateRootCommand(NewFlags())
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--db", db, "--audio-provider", "none"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func seeded(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "vocab.db")
	out, err := run(t, db, "seed")
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if !strings.Contains(out, "Seeded") {
		t.Fatalf("unexpected seed output %q", out)
	}
	return db
}

func TestSeedCommandTwice(t *testing.T) {
	db := seeded(t)

	out, err := run(t, db, "seed")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "nothing seeded") {
		t.Errorf("second seed output = %q", out)
	}
}

func TestListCommand(t *testing.T) {
	db := seeded(t)

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
		wantErr bool
	}{
		{
			name: "all",
			args: []string{"list"},
			want: []string{"Word", "Meaning", "apple"},
		},
		{
			name:    "search",
			args:    []string{"list", "--search", "apple"},
			want:    []string{"apple", "1 entry"},
			notWant: []string{"journey"},
		},
		{
			name: "no match",
			args: []string{"list", "--search", "zzzz-no-such-word"},
			want: []string{"No entries match the filter."},
		},
		{
			name: "sorted by difficulty descending",
			args: []string{"list", "--sort", "difficulty", "--order", "desc", "--search", "u"},
			want: []string{"ubiquitous"},
		},
		{
			name:    "bad sort field",
			args:    []string{"list", "--sort", "meaning"},
			wantErr: true,
		},
		{
			name:    "bad difficulty",
			args:    []string{"list", "--difficulty", "extreme"},
			wantErr: true,
		},
		{
			name:    "unknown category",
			args:    []string{"list", "--category", "Nope"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, db, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestReviewCommand(t *testing.T) {
	db := seeded(t)

	out, err := run(t, db, "review", "apple")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "apple: mastered (1 review)") {
		t.Errorf("review output = %q", out)
	}

	out, err = run(t, db, "list", "--mastery", "mastered")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "apple") {
		t.Errorf("mastered list should contain apple:\n%s", out)
	}

	out, err = run(t, db, "review", "--not-mastered", "apple")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "apple: not mastered (2 reviews)") {
		t.Errorf("review output = %q", out)
	}

	if _, err := run(t, db, "review", "no-such-word"); err == nil {
		t.Error("expected error for unknown word")
	}
}

func TestCategoriesTopicsStats(t *testing.T) {
	db := seeded(t)

	out, err := run(t, db, "categories")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "(") {
		t.Errorf("categories output has no counts:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	indented := false
	for _, l := range lines {
		if strings.HasPrefix(l, "  ") {
			indented = true
		}
	}
	if !indented {
		t.Errorf("expected nested categories:\n%s", out)
	}

	out, err = run(t, db, "topics")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) == "" || strings.Contains(out, "No topics.") {
		t.Errorf("topics output = %q", out)
	}

	out, err = run(t, db, "stats")
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{"Entries:", "Mastered: 0", "easy:", "medium:", "hard:"} {
		if !strings.Contains(out, w) {
			t.Errorf("stats output missing %q:\n%s", w, out)
		}
	}
}

func TestEmptyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")

	for args, want := range map[string]string{
		"list":       "No entries match the filter.",
		"categories": "No categories.",
		"topics":     "No topics.",
		"play":       "No entries match the filter.",
	} {
		out, err := run(t, db, args)
		if err != nil {
			t.Fatalf("%s: %v", args, err)
		}
		if !strings.Contains(out, want) {
			t.Errorf("%s output = %q, want %q", args, out, want)
		}
	}
}

func TestImportExportCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "vocab.db")
	input := filepath.Join(dir, "words.txt")
	content := `@category Travel
@difficulty hard
passport [ˈpæspɔːt] = hộ chiếu | Show your passport. | Xuất trình hộ chiếu.
ticket = vé
broken line without meaning
`
	if err := os.WriteFile(input, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, db, "import", input)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Imported 2 entries, skipped 0 duplicates.") {
		t.Errorf("import output = %q", out)
	}
	if !strings.Contains(out, "skipped line 5") {
		t.Errorf("import output should report the bad line: %q", out)
	}

	out, err = run(t, db, "import", input)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Imported 0 entries, skipped 2 duplicates.") {
		t.Errorf("second import output = %q", out)
	}

	csvPath := filepath.Join(dir, "deck.csv")
	out, err = run(t, db, "export", csvPath, "--category", "Travel")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Exported 2 cards") {
		t.Errorf("export output = %q", out)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{"Word,Pronunciation", "passport", "hộ chiếu", "travel"} {
		if !strings.Contains(string(data), w) {
			t.Errorf("csv missing %q:\n%s", w, data)
		}
	}

	apkgPath := filepath.Join(dir, "deck.apkg")
	if _, err := run(t, db, "export", apkgPath, "--deck-name", "Trip"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(apkgPath); err != nil {
		t.Errorf("apkg not written: %v", err)
	}

	t.Chdir(dir)
	out, err = run(t, db, "export", "--deck-name", "Summer Trip")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Summer_Trip.apkg") {
		t.Errorf("export output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "Summer_Trip.apkg")); err != nil {
		t.Errorf("default apkg not written: %v", err)
	}
}

func TestPlayCommandSilent(t *testing.T) {
	db := seeded(t)

	out, err := run(t, db, "play", "--search", "apple", "--parts", "word,meaning",
		"--part-pause", "0.5", "--word-pause", "0.5")
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{"[1/1] word", "apple", "[1/1] meaning", "Done: 1 entry played."} {
		if !strings.Contains(out, w) {
			t.Errorf("play output missing %q:\n%s", w, out)
		}
	}
}

func TestPlayCommandRejectsBadConfig(t *testing.T) {
	db := seeded(t)

	tests := [][]string{
		{"play", "--part-pause", "0.1"},
		{"play", "--word-pause", "9"},
		{"play", "--parts", "word,smell"},
		{"gui", "--part-pause", "0.1"},
		{"gui", "--parts", "word,smell"},
	}
	for _, args := range tests {
		if _, err := run(t, db, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestRootCommandBadLogLevel(t *testing.T) {
	db := filepath.Join(t.TempDir(), "vocab.db")
	if _, err := run(t, db, "--log-level", "loud", "stats"); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestArchiveCommand(t *testing.T) {
	dir := t.TempDir()
	cache := filepath.Join(dir, "audio")
	if err := os.MkdirAll(cache, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cache, "apple.mp3"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VOCABDRILL_AUDIO_CACHE_DIR", cache)

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetEnvPrefix("VOCABDRILL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	cmd := CreateRootCommand(NewFlags())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"archive"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), filepath.Join(dir, "archive", "audio-")) {
		t.Errorf("archive output = %q", out.String())
	}
	if _, err := os.Stat(cache); !os.IsNotExist(err) {
		t.Error("audio cache still in place")
	}
}

func TestImportEnrichRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	dir := t.TempDir()
	input := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(input, []byte("apple = quả táo\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, filepath.Join(dir, "vocab.db"), "import", "--enrich", input)
	if err == nil || !strings.Contains(err.Error(), "--enrich") {
		t.Errorf("expected --enrich key error, got %v", err)
	}
}

func TestModelsRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := run(t, filepath.Join(t.TempDir(), "vocab.db"), "models"); err == nil {
		t.Error("expected error without API key")
	}
}
