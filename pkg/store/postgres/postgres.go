// Package postgres stores tables and the fetch time in a postgres database.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/openf1-analysis/log"
	"github.com/mpapenbr/openf1-analysis/pkg/model"
)

type (
	Store struct {
		pool *pgxpool.Pool
		now  func() time.Time
		log  *log.Logger
	}
	Option func(s *Store)
)

// StoredTable is a table as read back from the database.
type StoredTable struct {
	ID       uuid.UUID
	Category string
	Name     string
	Columns  []string
	Rows     [][]string
	StoredAt time.Time
}

func (t *StoredTable) Header() []string    { return t.Columns }
func (t *StoredTable) Records() [][]string { return t.Rows }

var ErrNotFound = errors.New("table not found")

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

func New(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{
		pool: pool,
		now:  time.Now,
		log:  log.Default().Named("store.postgres"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store inserts the table or replaces the one with the same category
// and name.
func (s *Store) Store(ctx context.Context, table model.Table, category, name string) error {
	header := table.Header()
	records := table.Records()
	if records == nil {
		records = [][]string{}
	}
	_, err := s.pool.Exec(ctx, `
insert into stored_table (id, category, name, header, records, row_count, stored_at)
values ($1, $2, $3, $4, $5, $6, $7)
on conflict (category, name) do update set
  header = excluded.header,
  records = excluded.records,
  row_count = excluded.row_count,
  stored_at = excluded.stored_at`,
		uuid.New(), category, name, header, records, len(records), s.now())
	if err != nil {
		return fmt.Errorf("store %s/%s: %w", category, name, err)
	}
	s.log.Info("Stored table",
		log.String("category", category),
		log.String("name", name),
		log.Int("rows", len(records)))
	return nil
}

func (s *Store) Load(ctx context.Context, category, name string) (*StoredTable, error) {
	ret := StoredTable{}
	err := s.pool.QueryRow(ctx, `
select id, category, name, header, records, stored_at
from stored_table where category=$1 and name=$2`, category, name).
		Scan(&ret.ID, &ret.Category, &ret.Name, &ret.Columns, &ret.Rows, &ret.StoredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, category, name)
	}
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// Names returns the names of all tables of a category.
func (s *Store) Names(ctx context.Context, category string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`select name from stored_table where category=$1 order by name`, category)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// ReadLastFetchTime returns the persisted time or now if there is none.
func (s *Store) ReadLastFetchTime(ctx context.Context) (time.Time, error) {
	var t time.Time
	err := s.pool.QueryRow(ctx, `select last_fetch from fetch_state where id=1`).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.now(), nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func (s *Store) RecordFetchTime(ctx context.Context, t time.Time) error {
	_, err := s.pool.Exec(ctx, `
insert into fetch_state (id, last_fetch) values (1, $1)
on conflict (id) do update set last_fetch = excluded.last_fetch`, t)
	return err
}
