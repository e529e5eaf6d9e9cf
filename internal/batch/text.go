package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

// Draft is an entry read from a file. Category is a name; resolving it to
// an id is up to the caller.
type Draft struct {
	Line     int
	Category string
	Entry    vocab.Entry
}

// Result collects the drafts of one file and the rows that were skipped.
type Result struct {
	Drafts []Draft
	Errors []string
}

func (r *Result) skip(line int, format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...)))
}

// ReadTextFile reads entries from a plain text file.
func ReadTextFile(filename string) (*Result, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()
	return ParseText(f)
}

// ParseText reads entries in the plain text format from r.
func ParseText(r io.Reader) (*Result, error) {
	result := &Result{}
	state := struct {
		category, topic string
		difficulty      vocab.Difficulty
	}{difficulty: vocab.DifficultyMedium}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "@"):
			key, value, _ := strings.Cut(line[1:], " ")
			value = strings.TrimSpace(value)
			switch strings.ToLower(key) {
			case "category":
				state.category = value
			case "topic":
				state.topic = value
			case "difficulty":
				d, err := vocab.ParseDifficulty(value)
				if err != nil {
					result.skip(lineNo, "%v", err)
					continue
				}
				state.difficulty = d
			default:
				result.skip(lineNo, "unknown directive @%s", key)
			}
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			result.skip(lineNo, "%v", err)
			continue
		}
		entry.Topic = state.topic
		entry.Difficulty = state.difficulty
		result.Drafts = append(result.Drafts, Draft{Line: lineNo, Category: state.category, Entry: entry})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch input: %w", err)
	}
	return result, nil
}

// parseLine splits "word [pron] = meaning | example | translation".
func parseLine(line string) (vocab.Entry, error) {
	head, tail, ok := strings.Cut(line, "=")
	if !ok {
		return vocab.Entry{}, fmt.Errorf("missing '=' between word and meaning")
	}

	word, pron := splitPronunciation(strings.TrimSpace(head))
	if word == "" {
		return vocab.Entry{}, fmt.Errorf("missing word")
	}

	fields := strings.Split(tail, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	meaning := fields[0]
	if meaning == "" {
		return vocab.Entry{}, fmt.Errorf("missing meaning for %q", word)
	}

	e := vocab.Entry{Word: word, Pronunciation: pron, Meaning: meaning}
	if len(fields) > 1 && fields[1] != "" {
		ex := vocab.Example{Sentence: fields[1]}
		if len(fields) > 2 {
			ex.Translation = fields[2]
		}
		e.Examples = []vocab.Example{ex}
	}
	return e, nil
}

// splitPronunciation separates a trailing [..] or /../ pronunciation from
// the word.
func splitPronunciation(s string) (word, pron string) {
	if i := strings.Index(s, "["); i >= 0 && strings.HasSuffix(s, "]") {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1 : len(s)-1])
	}
	if i := strings.Index(s, "/"); i > 0 && strings.HasSuffix(s, "/") && i < len(s)-1 {
		return strings.TrimSpace(s[:i]), s[i:]
	}
	return s, ""
}
