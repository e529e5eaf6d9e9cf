package anki

import (
	"archive/zip"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
)

// Anki separates note fields with the unit separator.
const fieldSeparator = "\x1f"

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	deckName   string
	clock      clockwork.Clock
	deckID     int64
	modelID    int64
	cards      []Card
	mediaFiles map[string]int // media name inside the package -> archive entry number
}

// NewAPKGGenerator creates a new APKG generator
func NewAPKGGenerator(deckName string) *APKGGenerator {
	return newAPKGGenerator(deckName, clockwork.NewRealClock())
}

func newAPKGGenerator(deckName string, clock clockwork.Clock) *APKGGenerator {
	// Anki ids are millisecond timestamps.
	now := clock.Now().UnixMilli()
	return &APKGGenerator{
		deckName:   deckName,
		clock:      clock,
		deckID:     now,
		modelID:    now + 1,
		mediaFiles: make(map[string]int),
	}
}

// AddCard adds a card to the generator
func (g *APKGGenerator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GenerateAPKG creates an .apkg file
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	tempDir, err := os.MkdirTemp("", "vocabdrill_apkg_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// Media first: the notes reference the names assigned here.
	if err := g.copyMediaFiles(tempDir); err != nil {
		return fmt.Errorf("failed to copy media files: %w", err)
	}
	if err := g.createMediaMapping(tempDir); err != nil {
		return fmt.Errorf("failed to create media mapping: %w", err)
	}
	if err := g.createDatabase(filepath.Join(tempDir, "collection.anki2")); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	if err := g.createZipPackage(tempDir, outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	return nil
}

func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, query := range collectionSchema {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	if err := g.insertCollection(tx); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	if err := g.insertNotesAndCards(tx); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}
	return tx.Commit()
}

var collectionSchema = []string{
	`CREATE TABLE col (
		id integer PRIMARY KEY, crt integer NOT NULL, mod integer NOT NULL,
		scm integer NOT NULL, ver integer NOT NULL, dty integer NOT NULL,
		usn integer NOT NULL, ls integer NOT NULL, conf text NOT NULL,
		models text NOT NULL, decks text NOT NULL, dconf text NOT NULL,
		tags text NOT NULL
	)`,
	`CREATE TABLE notes (
		id integer PRIMARY KEY, guid text NOT NULL, mid integer NOT NULL,
		mod integer NOT NULL, usn integer NOT NULL, tags text NOT NULL,
		flds text NOT NULL, sfld text NOT NULL, csum integer NOT NULL,
		flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE cards (
		id integer PRIMARY KEY, nid integer NOT NULL, did integer NOT NULL,
		ord integer NOT NULL, mod integer NOT NULL, usn integer NOT NULL,
		type integer NOT NULL, queue integer NOT NULL, due integer NOT NULL,
		ivl integer NOT NULL, factor integer NOT NULL, reps integer NOT NULL,
		lapses integer NOT NULL, left integer NOT NULL, odue integer NOT NULL,
		odid integer NOT NULL, flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE revlog (
		id integer PRIMARY KEY, cid integer NOT NULL, usn integer NOT NULL,
		ease integer NOT NULL, ivl integer NOT NULL, lastIvl integer NOT NULL,
		factor integer NOT NULL, time integer NOT NULL, type integer NOT NULL
	)`,
	`CREATE TABLE graves (usn integer NOT NULL, oid integer NOT NULL, type integer NOT NULL)`,
	`CREATE INDEX ix_notes_csum ON notes (csum)`,
	`CREATE INDEX ix_notes_usn ON notes (usn)`,
	`CREATE INDEX ix_cards_usn ON cards (usn)`,
	`CREATE INDEX ix_cards_nid ON cards (nid)`,
	`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
	`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
	`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
}

type colRow struct {
	ID     int64  `db:"id"`
	Crt    int64  `db:"crt"`
	Mod    int64  `db:"mod"`
	Scm    int64  `db:"scm"`
	Ver    int    `db:"ver"`
	Conf   string `db:"conf"`
	Models string `db:"models"`
	Decks  string `db:"decks"`
	DConf  string `db:"dconf"`
}

func (g *APKGGenerator) insertCollection(tx *sqlx.Tx) error {
	now := g.clock.Now().Unix()

	deck := func(id int64, name, desc string) map[string]any {
		// The arrays are [day, count] for today's stats.
		return map[string]any{
			"id": id, "name": name, "desc": desc, "mod": now,
			"collapsed": false, "browserCollapsed": false, "dyn": 0, "conf": 1, "usn": 0,
			"newToday": []int{0, 0}, "revToday": []int{0, 0},
			"lrnToday": []int{0, 0}, "timeToday": []int{0, 0},
			"extendNew": 10, "extendRev": 50,
		}
	}
	decks := map[string]any{"1": deck(1, "Default", "")}
	decks[strconv.FormatInt(g.deckID, 10)] = deck(g.deckID, g.deckName, "Vocabulary exported by vocabdrill")
	models := map[string]any{
		strconv.FormatInt(g.modelID, 10): g.noteType(now),
	}
	conf := map[string]any{
		"nextPos": 1, "estTimes": true, "activeDecks": []int64{1},
		"sortType": "noteFld", "sortBackwards": false, "addToCur": true,
		"curDeck": 1, "newSpread": 0, "dueCounts": true, "collapseTime": 1200,
		"timeLim": 0, "schedVer": 1, "dayLearnFirst": false,
		"curModel": strconv.FormatInt(g.modelID, 10),
	}
	dconf := map[string]any{
		"1": map[string]any{
			"id": 1, "name": "Default", "dyn": 0, "usn": 0, "mod": now,
			"timer": 0, "maxTaken": 60, "autoplay": true, "replayq": true,
			"new": map[string]any{
				"delays": []int{1, 10}, "ints": []int{1, 4, 7}, "initialFactor": 2500,
				"perDay": 20, "order": 1, "bury": true, "separate": true,
			},
			"lapse": map[string]any{
				"delays": []int{10}, "mult": 0, "minInt": 1, "leechFails": 8, "leechAction": 0,
			},
			"rev": map[string]any{
				"perDay": 100, "ease4": 1.3, "fuzz": 0.05, "maxIvl": 36500,
				"ivlFct": 1, "bury": true, "minSpace": 1,
			},
		},
	}

	row := colRow{ID: 1, Crt: now, Mod: now * 1000, Scm: now * 1000, Ver: 11}
	for _, f := range []struct {
		dst *string
		v   any
	}{{&row.Conf, conf}, {&row.Models, models}, {&row.Decks, decks}, {&row.DConf, dconf}} {
		data, err := json.Marshal(f.v)
		if err != nil {
			return err
		}
		*f.dst = string(data)
	}

	_, err := tx.NamedExec(`INSERT INTO col VALUES
		(:id, :crt, :mod, :scm, :ver, 0, 0, 0, :conf, :models, :decks, :dconf, '{}')`, row)
	return err
}

// noteFields are the fields of the exported note type, in order.
var noteFields = []string{"Word", "Pronunciation", "Meaning", "Example", "Translation", "Audio"}

func (g *APKGGenerator) noteType(now int64) map[string]any {
	flds := make([]map[string]any, len(noteFields))
	for i, name := range noteFields {
		size := 20
		if i >= 3 {
			size = 16
		}
		flds[i] = map[string]any{
			"name": name, "ord": i, "sticky": false, "rtl": false,
			"font": "Arial", "size": size, "media": []string{},
		}
	}

	return map[string]any{
		"id":    g.modelID,
		"name":  "vocabdrill Vocabulary (Basic + Reverse)",
		"type":  0,
		"mod":   now,
		"usn":   -1,
		"sortf": 0,
		"did":   g.deckID,
		// Forward cards need Word, reverse cards need Meaning.
		"req":  [][]any{{0, "all", []int{0}}, {1, "all", []int{2}}},
		"vers": []int{},
		"tags": []string{},
		"flds": flds,
		"tmpls": []map[string]any{
			{"name": "Recognize", "ord": 0, "qfmt": frontTemplate, "afmt": backTemplate, "did": nil, "bqfmt": "", "bafmt": ""},
			{"name": "Recall", "ord": 1, "qfmt": reverseFrontTemplate, "afmt": reverseBackTemplate, "did": nil, "bqfmt": "", "bafmt": ""},
		},
		"css":       cardCSS,
		"latexPre":  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}",
		"latexPost": "\\end{document}",
	}
}

const frontTemplate = `<div class="front">
<div class="word">{{Word}}</div>
{{#Pronunciation}}<div class="pronunciation">{{Pronunciation}}</div>{{/Pronunciation}}
{{Audio}}
</div>`

const backTemplate = `{{FrontSide}}

<hr id="answer">

<div class="back">
<div class="meaning">{{Meaning}}</div>
{{#Example}}<div class="example">{{Example}}</div>{{/Example}}
{{#Translation}}<div class="translation">{{Translation}}</div>{{/Translation}}
</div>`

const reverseFrontTemplate = `<div class="front">
<div class="meaning">{{Meaning}}</div>
</div>`

const reverseBackTemplate = `{{FrontSide}}

<hr id="answer">

<div class="back">
<div class="word">{{Word}}</div>
{{#Pronunciation}}<div class="pronunciation">{{Pronunciation}}</div>{{/Pronunciation}}
{{Audio}}
{{#Example}}<div class="example">{{Example}}</div>{{/Example}}
</div>`

const cardCSS = `.card {
  font-family: Arial, sans-serif;
  font-size: 20px;
  text-align: center;
  color: #333;
  background-color: white;
}

.front, .back {
  padding: 20px;
}

.word {
  font-size: 32px;
  font-weight: bold;
  color: #2c3e50;
  margin: 20px 0;
}

.meaning {
  font-size: 28px;
  font-weight: bold;
  color: #c0392b;
  margin: 20px 0;
}

.pronunciation, .translation {
  color: #7f8c8d;
}

.example {
  font-size: 16px;
  font-style: italic;
  margin-top: 20px;
}

hr#answer {
  margin: 30px 0;
  border: 0;
  border-top: 1px solid #ecf0f1;
}`

type noteRow struct {
	ID   int64  `db:"id"`
	GUID string `db:"guid"`
	Mid  int64  `db:"mid"`
	Mod  int64  `db:"mod"`
	Tags string `db:"tags"`
	Flds string `db:"flds"`
	Sfld string `db:"sfld"`
	Csum int64  `db:"csum"`
}

type cardRow struct {
	ID  int64 `db:"id"`
	Nid int64 `db:"nid"`
	Did int64 `db:"did"`
	Ord int   `db:"ord"`
	Mod int64 `db:"mod"`
	Due int64 `db:"due"`
}

const (
	insertNote = `INSERT INTO notes VALUES
		(:id, :guid, :mid, :mod, -1, :tags, :flds, :sfld, :csum, 0, '')`
	// New cards: type and queue 0, due is the position in the new queue.
	insertCard = `INSERT INTO cards VALUES
		(:id, :nid, :did, :ord, :mod, -1, 0, 0, :due, 0, 0, 0, 0, 0, 0, 0, 0, '')`
)

func (g *APKGGenerator) insertNotesAndCards(tx *sqlx.Tx) error {
	now := g.clock.Now()

	for i, card := range g.cards {
		// Leave room for two cards per note.
		noteID := now.UnixMilli() + int64(i*3)

		audioField := ""
		if name := mediaName(card.AudioFile); name != "" {
			if _, ok := g.mediaFiles[name]; ok {
				audioField = fmt.Sprintf("[sound:%s]", name)
			}
		}

		guid := card.ID
		if guid == "" {
			guid = fmt.Sprintf("vd_%d_%s", now.Unix(), card.Word)
		}

		tags := ""
		if len(card.Tags) > 0 {
			tags = " " + strings.Join(card.Tags, " ") + " "
		}

		note := noteRow{
			ID:   noteID,
			GUID: guid,
			Mid:  g.modelID,
			Mod:  now.Unix(),
			Tags: tags,
			Flds: strings.Join([]string{
				card.Word, card.Pronunciation, card.Meaning,
				card.Example, card.Translation, audioField,
			}, fieldSeparator),
			Sfld: card.Word,
			Csum: fieldChecksum(card.Word),
		}
		if _, err := tx.NamedExec(insertNote, note); err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}

		for ord := range 2 {
			c := cardRow{
				ID:  noteID + 1 + int64(ord),
				Nid: noteID,
				Did: g.deckID,
				Ord: ord,
				Mod: now.Unix(),
				Due: noteID + int64(ord),
			}
			if _, err := tx.NamedExec(insertCard, c); err != nil {
				return fmt.Errorf("failed to insert card %d of %q: %w", ord, card.Word, err)
			}
		}
	}
	return nil
}

// fieldChecksum is Anki's duplicate check value: the first 8 hex digits
// of the SHA1 of the sort field.
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(field))
	v, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return v
}

// mediaName is the name a media file gets inside the package.
func mediaName(path string) string {
	if path == "" || !fileExists(path) {
		return ""
	}
	return filepath.Base(path)
}

// copyMediaFiles copies media files into tempDir under numeric names.
func (g *APKGGenerator) copyMediaFiles(tempDir string) error {
	for _, card := range g.cards {
		name := mediaName(card.AudioFile)
		if name == "" {
			continue
		}
		if _, exists := g.mediaFiles[name]; exists {
			continue
		}
		n := len(g.mediaFiles)
		if err := copyFile(card.AudioFile, filepath.Join(tempDir, strconv.Itoa(n))); err != nil {
			return fmt.Errorf("failed to copy audio file %s: %w", card.AudioFile, err)
		}
		g.mediaFiles[name] = n
	}
	return nil
}

// createMediaMapping writes the number -> filename map Anki expects.
func (g *APKGGenerator) createMediaMapping(tempDir string) error {
	mapping := make(map[string]string, len(g.mediaFiles))
	for filename, num := range g.mediaFiles {
		mapping[strconv.Itoa(num)] = filename
	}

	data, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(tempDir, "media"), data, 0644)
}

func (g *APKGGenerator) createZipPackage(tempDir, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)

	err = filepath.Walk(tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		relPath, err := filepath.Rel(tempDir, path)
		if err != nil {
			return err
		}
		writer, err := archive.Create(relPath)
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(writer, file)
		return err
	})
	if err != nil {
		archive.Close()
		return err
	}
	return archive.Close()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}
	return dstFile.Close()
}
