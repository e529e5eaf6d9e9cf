package store

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

type seedEntry struct {
	word, pron, meaning string
	category, topic     string
	difficulty          vocab.Difficulty
	sentence, trans     string
}

var seedCategories = []vocab.Category{
	{Name: "Everyday", Description: "Words used every day", Color: "#4caf50", Icon: "home"},
	{Name: "Food", Description: "Eating and cooking", Color: "#ff9800", Icon: "restaurant", ParentID: "Everyday"},
	{Name: "Animals", Description: "Pets and wild animals", Color: "#795548", Icon: "pets"},
	{Name: "Work", Description: "Office and career", Color: "#3f51b5", Icon: "work"},
	{Name: "Travel", Description: "Getting around", Color: "#009688", Icon: "flight"},
}

var seedTopics = []string{"Nouns", "Verbs", "Adjectives"}

var seedEntries = []seedEntry{
	{"apple", "/ˈæp.əl/", "quả táo", "Food", "Nouns", vocab.DifficultyEasy,
		"I eat an apple every morning.", "Tôi ăn một quả táo mỗi sáng."},
	{"bread", "/bred/", "bánh mì", "Food", "Nouns", vocab.DifficultyEasy,
		"She buys fresh bread.", "Cô ấy mua bánh mì tươi."},
	{"delicious", "/dɪˈlɪʃ.əs/", "ngon", "Food", "Adjectives", vocab.DifficultyMedium,
		"This soup is delicious.", "Món súp này ngon."},
	{"cat", "/kæt/", "con mèo", "Animals", "Nouns", vocab.DifficultyEasy,
		"The cat sleeps on the sofa.", "Con mèo ngủ trên ghế sofa."},
	{"dog", "/dɒɡ/", "con chó", "Animals", "Nouns", vocab.DifficultyEasy,
		"My dog likes to run.", "Con chó của tôi thích chạy."},
	{"elephant", "/ˈel.ɪ.fənt/", "con voi", "Animals", "Nouns", vocab.DifficultyMedium,
		"An elephant never forgets.", "Con voi không bao giờ quên."},
	{"meeting", "/ˈmiː.tɪŋ/", "cuộc họp", "Work", "Nouns", vocab.DifficultyMedium,
		"The meeting starts at nine.", "Cuộc họp bắt đầu lúc chín giờ."},
	{"negotiate", "/nəˈɡəʊ.ʃi.eɪt/", "đàm phán", "Work", "Verbs", vocab.DifficultyHard,
		"We need to negotiate the price.", "Chúng ta cần đàm phán giá cả."},
	{"deadline", "/ˈded.laɪn/", "hạn chót", "Work", "Nouns", vocab.DifficultyMedium,
		"The deadline is tomorrow.", "Hạn chót là ngày mai."},
	{"journey", "/ˈdʒɜː.ni/", "chuyến đi", "Travel", "Nouns", vocab.DifficultyMedium,
		"The journey took three hours.", "Chuyến đi mất ba tiếng."},
	{"explore", "/ɪkˈsplɔːr/", "khám phá", "Travel", "Verbs", vocab.DifficultyMedium,
		"They explore the old city.", "Họ khám phá thành phố cổ."},
	{"itinerary", "/aɪˈtɪn.ər.ər.i/", "lịch trình", "Travel", "Nouns", vocab.DifficultyHard,
		"Our itinerary includes two museums.", "Lịch trình của chúng tôi có hai bảo tàng."},
	{"water", "/ˈwɔː.tər/", "nước", "Everyday", "Nouns", vocab.DifficultyEasy,
		"Drink more water.", "Hãy uống nhiều nước hơn."},
	{"run", "/rʌn/", "chạy", "Everyday", "Verbs", vocab.DifficultyEasy,
		"I run in the park.", "Tôi chạy trong công viên."},
	{"ubiquitous", "/juːˈbɪk.wɪ.təs/", "phổ biến khắp nơi", "Everyday", "Adjectives", vocab.DifficultyHard,
		"Phones are ubiquitous today.", "Điện thoại ngày nay phổ biến khắp nơi."},
}

// Seed fills an empty database with a small sample collection. It returns
// the number of entries inserted, zero when the database already had
// entries.
func (s *Store) Seed(ctx context.Context) (int, error) {
	st, err := s.Stats(ctx)
	if err != nil {
		return 0, err
	}
	if st.Total > 0 {
		s.logger.Info("database not empty, skipping seed", "entries", st.Total)
		return 0, nil
	}

	ids := make(map[string]string)
	for _, c := range seedCategories {
		if parent, ok := ids[c.ParentID]; ok {
			c.ParentID = parent
		}
		existing, err := s.EnsureCategory(ctx, c.Name)
		if err != nil {
			return 0, err
		}
		existing.Description, existing.Color, existing.Icon, existing.ParentID =
			c.Description, c.Color, c.Icon, c.ParentID
		if err := s.UpdateCategory(ctx, existing); err != nil {
			return 0, err
		}
		ids[c.Name] = existing.ID
	}
	for _, name := range seedTopics {
		if err := s.EnsureTopic(ctx, name); err != nil {
			return 0, err
		}
	}

	// Spread creation times so date sorting has something to work with.
	base := s.clock.Now().Add(-time.Duration(len(seedEntries)) * 24 * time.Hour)
	for i, se := range seedEntries {
		e := vocab.Entry{
			Word:          se.word,
			Pronunciation: se.pron,
			Meaning:       se.meaning,
			CategoryID:    ids[se.category],
			Topic:         se.topic,
			Difficulty:    se.difficulty,
			Examples:      []vocab.Example{{Sentence: se.sentence, Translation: se.trans}},
			CreatedAt:     base.Add(time.Duration(i) * 24 * time.Hour),
		}
		if err := s.CreateEntry(ctx, &e); err != nil {
			return i, fmt.Errorf("seed %q: %w", se.word, err)
		}
	}

	s.logger.Info("seeded sample vocabulary", "entries", len(seedEntries))
	return len(seedEntries), nil
}
