package dataset

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/strokeguard-backend/internal/platform/logger"
)

var ErrInvalidAttribute = errors.New("invalid attribute")

// StatRow counts positive and negative outcomes for one value of an attribute.
type StatRow struct {
	Label    string
	Positive int64
	Negative int64
}

// Store is a read-only view over the loaded dataset. Safe for concurrent use.
type Store struct {
	db      *gorm.DB
	log     *logger.Logger
	columns []column
	outcome string
	rows    int
}

func (s *Store) OutcomeColumn() string { return s.outcome }
func (s *Store) Rows() int { return s.rows }

// Columns lists every column in file order, the outcome included.
func (s *Store) Columns() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.name
	}
	return out
}

// FeatureColumns lists the columns a submission may carry: every column but the outcome.
func (s *Store) FeatureColumns() []string {
	out := make([]string, 0, len(s.columns))
	for _, c := range s.columns {
		if c.name != s.outcome {
			out = append(out, c.name)
		}
	}
	return out
}

func (s *Store) lookup(name string) (column, bool) {
	for _, c := range s.columns {
		if c.name == name {
			return c, true
		}
	}
	return column{}, false
}

// CrossTab groups the dataset by attribute and counts outcome == 1 (positive) and
// outcome == 0 (negative) per group. Rows with no value for the attribute are skipped and
// groups come back ordered by value.
func (s *Store) CrossTab(ctx context.Context, attribute string) ([]StatRow, error) {
	col, ok := s.lookup(attribute)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAttribute, attribute)
	}
	attr := quoteIdent(col.name)
	out := quoteIdent(s.outcome)
	q := "SELECT " + attr + ", " +
		"SUM(CASE WHEN " + out + " = 1 THEN 1 ELSE 0 END), " +
		"SUM(CASE WHEN " + out + " = 0 THEN 1 ELSE 0 END) " +
		"FROM " + tableName + " WHERE " + attr + " IS NOT NULL " +
		"GROUP BY " + attr + " ORDER BY " + attr

	rows, err := s.db.WithContext(ctx).Raw(q).Rows()
	if err != nil {
		return nil, fmt.Errorf("%w: group by %q: %v", ErrInvalidAttribute, attribute, err)
	}
	defer rows.Close()

	var stats []StatRow
	for rows.Next() {
		var (
			key      interface{}
			pos, neg int64
		)
		if err := rows.Scan(&key, &pos, &neg); err != nil {
			return nil, fmt.Errorf("%w: scan %q: %v", ErrInvalidAttribute, attribute, err)
		}
		stats = append(stats, StatRow{Label: formatLabel(key), Positive: pos, Negative: neg})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAttribute, attribute, err)
	}
	return stats, nil
}

func formatLabel(v interface{}) string {
	switch t := v.(type) {
	case float64:
		// REAL values keep a fractional part: 67 reads back as "67.0".
		out := strconv.FormatFloat(t, 'f', -1, 64)
		if !strings.ContainsAny(out, ".eE") && !math.IsInf(t, 0) && !math.IsNaN(t) {
			out += ".0"
		}
		return out
	case int64:
		return strconv.FormatInt(t, 10)
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// Choices returns the distinct values of every text column except the outcome, in the order
// they first appear in the file.
func (s *Store) Choices(ctx context.Context) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, c := range s.columns {
		if c.typ != columnText || c.name == s.outcome {
			continue
		}
		id := quoteIdent(c.name)
		var values []string
		q := "SELECT " + id + " FROM " + tableName + " WHERE " + id + " IS NOT NULL GROUP BY " + id + " ORDER BY MIN(rowid)"
		if err := s.db.WithContext(ctx).Raw(q).Scan(&values).Error; err != nil {
			return nil, fmt.Errorf("distinct values of %q: %w", c.name, err)
		}
		out[c.name] = values
	}
	return out, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
