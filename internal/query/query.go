// Package query implements the paginated, filtered list reads and the
// dashboard aggregates. Page numbers are 1-based and are not clamped here:
// callers turn a missing or non-positive page into 1 before calling.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-backoffice/internal/store"
	"gorm.io/gorm"
)

// PageSize is the fixed number of rows per page for every entity.
const PageSize = 10

// Offset returns the row offset of a 1-based page.
func Offset(page int) int {
	return (page - 1) * PageSize
}

// TotalPages is ceil(count / PageSize); 0 when nothing matched.
func TotalPages(count int64) int {
	return int((count + PageSize - 1) / PageSize)
}

// Service runs read queries over an injected handle.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchPattern builds the case-insensitive substring pattern for q.
// LIKE wildcards in q match literally.
func searchPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}

// search OR-combines a case-insensitive substring match across columns.
// An empty query matches every row.
func search(db *gorm.DB, q string, columns ...string) *gorm.DB {
	if q == "" {
		return db
	}
	pattern := searchPattern(q)
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		clauses[i] = "LOWER(" + c + `) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func (s *Service) count(ctx context.Context, base func(*gorm.DB) *gorm.DB, q string, columns []string) (int64, error) {
	var n int64
	err := search(base(s.db.WithContext(ctx)), q, columns...).Count(&n).Error
	if err != nil {
		return 0, wrap("count", err)
	}
	return n, nil
}

func (s *Service) pages(ctx context.Context, base func(*gorm.DB) *gorm.DB, q string, columns []string) (int, error) {
	n, err := s.count(ctx, base, q, columns)
	if err != nil {
		return 0, err
	}
	return TotalPages(n), nil
}

func wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return fmt.Errorf("query %s: %w: %v", op, store.ErrDatabase, err)
}
