package trivia

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type questionRow struct {
	bun.BaseModel `bun:"table:trivia_questions,alias:q"`

	ID          int64    `bun:"id,pk,autoincrement"`
	Question    string   `bun:"question"`
	Answer      string   `bun:"answer"`
	Explanation string   `bun:"explanation"`
	Distractors []string `bun:"distractors,array"`
}

// PostgresSource feeds the bank from a trivia_questions table.
type PostgresSource struct {
	db *bun.DB
}

var _ Source = (*PostgresSource)(nil)

func NewPostgresSource(dsn string) *PostgresSource {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &PostgresSource{db: bun.NewDB(sqldb, pgdialect.New())}
}

func (s *PostgresSource) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresSource) Fetch(ctx context.Context) ([]Record, error) {
	var rows []questionRow
	if err := s.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("fetch trivia questions: %w", err)
	}

	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, Record{
			Question:    r.Question,
			Answer:      r.Answer,
			Explanation: r.Explanation,
			Distractors: r.Distractors,
		})
	}
	return out, nil
}

func (s *PostgresSource) Close() error {
	return s.db.Close()
}
