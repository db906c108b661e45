// Package file stores tables as CSV files below a base directory.
package file

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mpapenbr/openf1-analysis/log"
	"github.com/mpapenbr/openf1-analysis/pkg/model"
)

// TimeLayout is the format of the persisted fetch time. Reading accepts
// any number of fractional digits.
const (
	TimeLayout      = "2006-01-02 15:04:05.000000"
	timeParseLayout = "2006-01-02 15:04:05"
)

const (
	utilDir       = "util"
	fetchTimeFile = "last_get_date.txt"
)

type (
	Store struct {
		dir string
		now func() time.Time
		log *log.Logger
	}
	Option func(s *Store)
)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir: dir,
		now: time.Now,
		log: log.Default().Named("store.file"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file a table with category and name is written to.
func (s *Store) Path(category, name string) string {
	return filepath.Join(s.dir, category, name+".csv")
}

// Store writes the table to <dir>/<category>/<name>.csv, replacing an
// existing file.
func (s *Store) Store(ctx context.Context, table model.Table, category, name string) error {
	if err := checkName(category); err != nil {
		return err
	}
	if err := checkName(name); err != nil {
		return err
	}
	target := s.Path(category, name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+name+"-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(table.Header()); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(table.Records()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return err
	}
	s.log.Info("Writing to file", log.String("file", target))
	return nil
}

// ReadLastFetchTime returns the persisted time or now if there is none.
func (s *Store) ReadLastFetchTime(ctx context.Context) (time.Time, error) {
	data, err := os.ReadFile(s.fetchTimePath())
	if errors.Is(err, os.ErrNotExist) {
		return s.now(), nil
	}
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(timeParseLayout, strings.TrimSpace(string(data)), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", s.fetchTimePath(), err)
	}
	return t, nil
}

func (s *Store) RecordFetchTime(ctx context.Context, t time.Time) error {
	if err := os.MkdirAll(filepath.Join(s.dir, utilDir), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.fetchTimePath(), []byte(t.Local().Format(TimeLayout)), 0o600)
}

func (s *Store) fetchTimePath() string {
	return filepath.Join(s.dir, utilDir, fetchTimeFile)
}

func checkName(n string) error {
	if n == "" || n == "." || n == ".." || strings.ContainsAny(n, `/\`) {
		return fmt.Errorf("invalid table location %q", n)
	}
	return nil
}
