package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile   string
	DBPath    string
	LogLevel  string
	LogFormat string

	// Filter flags (list, play, export)
	Categories          []string
	Topics              []string
	Difficulties        []string
	Mastery             []string
	Search              string
	SearchPronunciation bool
	Sort                string
	Order               string
	ShowIDs             bool

	// Playback flags
	Parts         []string
	PartPause     float64 // seconds
	WordPause     float64 // seconds
	Rate          float64
	AudioProvider string
	Interactive   bool

	// Import flags
	SheetName string
	StartRow  int
	Enrich    bool

	// Export flags
	DeckName  string
	WithAudio bool
	NoHeaders bool

	// Review flags
	NotMastered bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:      "warn",
		LogFormat:     "text",
		Sort:          "word",
		Order:         "asc",
		Parts:         []string{"word", "pronunciation", "meaning", "examples", "example-translation"},
		PartPause:     1.0,
		WordPause:     2.0,
		Rate:          1.0,
		AudioProvider: "espeak",
		StartRow:      2,
		DeckName:      "vocabdrill",
	}
}
