package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

type categoryRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Color       string         `db:"color"`
	Icon        string         `db:"icon"`
	ParentID    sql.NullString `db:"parent_id"`
	WordCount   int            `db:"word_count"`
}

func (r categoryRow) category() vocab.Category {
	return vocab.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Icon:        r.Icon,
		ParentID:    r.ParentID.String,
		WordCount:   r.WordCount,
	}
}

type topicRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Color       string `db:"color"`
	Icon        string `db:"icon"`
	WordCount   int    `db:"word_count"`
}

func (r topicRow) topic() vocab.Topic {
	return vocab.Topic{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Icon:        r.Icon,
		WordCount:   r.WordCount,
	}
}

// CreateCategory inserts c, assigning an id when it has none.
func (s *Store) CreateCategory(ctx context.Context, c *vocab.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return vocab.NewValidationError("name", "required")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	insert := builder().Insert("categories").
		Columns("id", "name", "description", "color", "icon", "parent_id", "created_at").
		Values(c.ID, c.Name, c.Description, c.Color, c.Icon, nullString(c.ParentID), s.clock.Now())
	if _, err := exec(ctx, s.db, insert); err != nil {
		return fmt.Errorf("failed to create category %q: %w", c.Name, err)
	}
	return nil
}

// UpdateCategory overwrites the stored category with c.
func (s *Store) UpdateCategory(ctx context.Context, c vocab.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return vocab.NewValidationError("name", "required")
	}
	if c.ParentID != "" {
		// Reject a parent change that would close a loop.
		all, err := s.Categories(ctx)
		if err != nil {
			return err
		}
		for i := range all {
			if all[i].ID == c.ID {
				all[i].ParentID = c.ParentID
			}
		}
		if _, err := vocab.BuildCategoryTree(all); err != nil {
			return err
		}
	}

	update := builder().Update("categories").
		Set("name", c.Name).
		Set("description", c.Description).
		Set("color", c.Color).
		Set("icon", c.Icon).
		Set("parent_id", nullString(c.ParentID)).
		Where(sq.Eq{"id": c.ID})
	res, err := exec(ctx, s.db, update)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return mustAffect(res, "category", c.ID)
}

// DeleteCategory removes a category. Its entries and child categories are
// detached, not deleted.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := exec(ctx, s.db, builder().Delete("categories").Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return mustAffect(res, "category", id)
}

// Categories returns all categories ordered by name, with word counts.
func (s *Store) Categories(ctx context.Context) ([]vocab.Category, error) {
	query, args, err := builder().
		Select("c.id", "c.name", "c.description", "c.color", "c.icon", "c.parent_id",
			"COUNT(e.id) AS word_count").
		From("categories c").
		LeftJoin("entries e ON e.category_id = c.id").
		GroupBy("c.id").
		OrderBy("c.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []categoryRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	out := make([]vocab.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.category())
	}
	return out, nil
}

// CategoryByName finds a category case-insensitively.
func (s *Store) CategoryByName(ctx context.Context, name string) (vocab.Category, error) {
	query, args, err := builder().
		Select("id", "name", "description", "color", "icon", "parent_id", "0 AS word_count").
		From("categories").
		Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).
		ToSql()
	if err != nil {
		return vocab.Category{}, fmt.Errorf("build query: %w", err)
	}
	var row categoryRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		return vocab.Category{}, notFound(err, "category", name)
	}
	return row.category(), nil
}

// EnsureCategory returns the category called name, creating it if missing.
func (s *Store) EnsureCategory(ctx context.Context, name string) (vocab.Category, error) {
	c, err := s.CategoryByName(ctx, name)
	if err == nil || !errors.Is(err, vocab.ErrNotFound) {
		return c, err
	}
	c = vocab.Category{Name: strings.TrimSpace(name)}
	if err := s.CreateCategory(ctx, &c); err != nil {
		return vocab.Category{}, err
	}
	s.logger.Info("created category", "name", c.Name, "id", c.ID)
	return c, nil
}

// CreateTopic inserts t, assigning an id when it has none.
func (s *Store) CreateTopic(ctx context.Context, t *vocab.Topic) error {
	if strings.TrimSpace(t.Name) == "" {
		return vocab.NewValidationError("name", "required")
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	insert := builder().Insert("topics").
		Columns("id", "name", "description", "color", "icon", "created_at").
		Values(t.ID, t.Name, t.Description, t.Color, t.Icon, s.clock.Now())
	if _, err := exec(ctx, s.db, insert); err != nil {
		return fmt.Errorf("failed to create topic %q: %w", t.Name, err)
	}
	return nil
}

// DeleteTopic removes a topic. Entries keep their topic label.
func (s *Store) DeleteTopic(ctx context.Context, id string) error {
	res, err := exec(ctx, s.db, builder().Delete("topics").Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	return mustAffect(res, "topic", id)
}

// Topics returns all topics ordered by name, with word counts.
func (s *Store) Topics(ctx context.Context) ([]vocab.Topic, error) {
	query, args, err := builder().
		Select("t.id", "t.name", "t.description", "t.color", "t.icon", "COUNT(e.id) AS word_count").
		From("topics t").
		LeftJoin("entries e ON e.topic = t.name").
		GroupBy("t.id").
		OrderBy("t.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []topicRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	out := make([]vocab.Topic, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.topic())
	}
	return out, nil
}

// EnsureTopic creates the topic called name unless it exists.
func (s *Store) EnsureTopic(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM topics WHERE name = ?", name); err != nil {
		return fmt.Errorf("failed to look up topic: %w", err)
	}
	if n > 0 {
		return nil
	}
	return s.CreateTopic(ctx, &vocab.Topic{Name: name})
}
