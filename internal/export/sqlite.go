package export

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const schema = `
CREATE TABLE IF NOT EXISTS draws (
  contest           INTEGER PRIMARY KEY,
  date              TEXT    NOT NULL,
  num1              INTEGER NOT NULL,
  num2              INTEGER NOT NULL,
  num3              INTEGER NOT NULL,
  num4              INTEGER NOT NULL,
  num5              INTEGER NOT NULL,
  num6              INTEGER NOT NULL,
  draw_order        TEXT    NOT NULL,
  accumulated       INTEGER NOT NULL,
  accumulated_value TEXT    NOT NULL,
  jackpot_winners   INTEGER NOT NULL,
  jackpot_prize     TEXT    NOT NULL,
  location          TEXT    NOT NULL DEFAULT '',
  note              TEXT    NOT NULL DEFAULT ''
);`

// SQLiteStore mirrors the draw history into a "draws" table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// WriteDraws upserts every draw of h in one transaction and returns the
// number of rows written.
func (s *SQLiteStore) WriteDraws(ctx context.Context, h lottery.History) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO draws (
	    contest, date, num1, num2, num3, num4, num5, num6, draw_order,
	    accumulated, accumulated_value, jackpot_winners, jackpot_prize, location, note
	  ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, d := range h.Ordered() {
		nums := d.Sorted()
		if len(nums) != lottery.NumbersPerDraw {
			return 0, fmt.Errorf("%w: contest %d has %d numbers", lottery.ErrInvalidDraw, d.Contest, len(nums))
		}
		_, err := stmt.ExecContext(ctx,
			d.Contest, d.Date,
			nums[0], nums[1], nums[2], nums[3], nums[4], nums[5],
			joinInts(d.Numbers),
			d.Accumulated,
			d.AccumulatedValue.String(),
			d.JackpotWinners,
			d.JackpotPrize.String(),
			d.Location,
			d.Note,
		)
		if err != nil {
			return 0, fmt.Errorf("insert contest %d: %w", d.Contest, err)
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return written, nil
}

// ReadDraws loads the table back into a history.
func (s *SQLiteStore) ReadDraws(ctx context.Context) (lottery.History, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
	    contest, date, num1, num2, num3, num4, num5, num6, draw_order,
	    accumulated, accumulated_value, jackpot_winners, jackpot_prize, location, note
	  FROM draws ORDER BY contest`)
	if err != nil {
		return nil, fmt.Errorf("query draws: %w", err)
	}
	defer rows.Close()

	h := lottery.History{}
	for rows.Next() {
		var (
			d                 lottery.Draw
			sorted            [lottery.NumbersPerDraw]int
			order, accum, pri string
		)
		if err := rows.Scan(
			&d.Contest, &d.Date,
			&sorted[0], &sorted[1], &sorted[2], &sorted[3], &sorted[4], &sorted[5],
			&order, &d.Accumulated, &accum, &d.JackpotWinners, &pri, &d.Location, &d.Note,
		); err != nil {
			return nil, fmt.Errorf("scan draw: %w", err)
		}
		d.NumbersSorted = sorted[:]
		if d.Numbers, err = splitInts(order); err != nil {
			return nil, fmt.Errorf("contest %d draw order: %w", d.Contest, err)
		}
		if d.AccumulatedValue, err = decimal.NewFromString(accum); err != nil {
			return nil, fmt.Errorf("contest %d accumulated value: %w", d.Contest, err)
		}
		if d.JackpotPrize, err = decimal.NewFromString(pri); err != nil {
			return nil, fmt.Errorf("contest %d jackpot prize: %w", d.Contest, err)
		}
		h.Add(d)
	}
	return h, rows.Err()
}

// Count returns the number of stored draws.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM draws`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count draws: %w", err)
	}
	return n, nil
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
