package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/studio-scheduler/internal/persistence"
)

// timestamps are stored as UTC RFC3339 text so lexical order is time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type snapshotRow struct {
	StudioSlug     string `db:"studio_slug"`
	SessionID      string `db:"session_id"`
	SessionDate    string `db:"session_date"`
	StartTime      string `db:"start_time"`
	EndTime        string `db:"end_time"`
	MaxCapacity    int    `db:"max_capacity"`
	BookedCount    int    `db:"booked_count"`
	InstructorName string `db:"instructor_name"`
	ClassName      string `db:"class_name"`
	Level          string `db:"level"`
	Style          string `db:"style"`
	DropInPrice    int64  `db:"drop_in_price"`
}

type rangeRow struct {
	FetchedAt string `db:"fetched_at"`
}

// SnapshotRepository implements persistence.SnapshotRepository.
type SnapshotRepository struct {
	store *Store
}

var _ persistence.SnapshotRepository = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a repository backed by store.
func NewSnapshotRepository(store *Store) *SnapshotRepository {
	return &SnapshotRepository{store: store}
}

const upsertSnapshot = `
INSERT INTO session_snapshots (
	studio_slug, session_id, session_date, start_time, end_time, max_capacity,
	booked_count, instructor_name, class_name, level, style, drop_in_price
) VALUES (
	:studio_slug, :session_id, :session_date, :start_time, :end_time, :max_capacity,
	:booked_count, :instructor_name, :class_name, :level, :style, :drop_in_price
)
ON CONFLICT (studio_slug, session_id) DO UPDATE SET
	session_date = excluded.session_date,
	start_time = excluded.start_time,
	end_time = excluded.end_time,
	max_capacity = excluded.max_capacity,
	booked_count = excluded.booked_count,
	instructor_name = excluded.instructor_name,
	class_name = excluded.class_name,
	level = excluded.level,
	style = excluded.style,
	drop_in_price = excluded.drop_in_price`

// ReplaceRange swaps the stored sessions of the set's range in one transaction
// and records the range as fetched.
func (r *SnapshotRepository) ReplaceRange(ctx context.Context, set persistence.SnapshotSet) error {
	if err := set.Validate(); err != nil {
		return err
	}

	rows := make([]snapshotRow, 0, len(set.Sessions))
	for _, session := range set.Sessions {
		rows = append(rows, toRow(set.StudioSlug, session))
	}
	fetchedAt := set.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	return r.store.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM session_snapshots WHERE studio_slug = ? AND session_date BETWEEN ? AND ?`,
			set.StudioSlug, set.From, set.To,
		); err != nil {
			return fmt.Errorf("sqlite: clear snapshot range: %w", mapError(err))
		}

		for _, row := range rows {
			if _, err := tx.NamedExecContext(ctx, upsertSnapshot, row); err != nil {
				return fmt.Errorf("sqlite: store session %s: %w", row.SessionID, mapError(err))
			}
		}

		// Ranges nested inside the new one are superseded by it.
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM snapshot_ranges WHERE studio_slug = ? AND range_from >= ? AND range_to <= ?`,
			set.StudioSlug, set.From, set.To,
		); err != nil {
			return fmt.Errorf("sqlite: prune snapshot ranges: %w", mapError(err))
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_ranges (studio_slug, range_from, range_to, fetched_at) VALUES (?, ?, ?, ?)`,
			set.StudioSlug, set.From, set.To, formatTime(fetchedAt),
		); err != nil {
			return fmt.Errorf("sqlite: record snapshot range: %w", mapError(err))
		}
		return nil
	})
}

// ListRange returns the stored sessions dated within from..to.
func (r *SnapshotRepository) ListRange(ctx context.Context, slug, from, to string) (persistence.SnapshotSet, error) {
	probe := persistence.SnapshotSet{StudioSlug: slug, From: from, To: to}
	if err := probe.Validate(); err != nil {
		return persistence.SnapshotSet{}, err
	}

	db := r.store.DB()

	// The newest covering fetch dates the answer.
	var covering []rangeRow
	if err := db.SelectContext(ctx, &covering,
		`SELECT fetched_at FROM snapshot_ranges
		 WHERE studio_slug = ? AND range_from <= ? AND range_to >= ?
		 ORDER BY fetched_at DESC LIMIT 1`,
		slug, from, to,
	); err != nil {
		return persistence.SnapshotSet{}, fmt.Errorf("sqlite: find snapshot range: %w", mapError(err))
	}
	if len(covering) == 0 {
		return persistence.SnapshotSet{}, fmt.Errorf("%w: no snapshot of %s for %s..%s", persistence.ErrNotFound, slug, from, to)
	}
	fetchedAt, err := parseTime(covering[0].FetchedAt)
	if err != nil {
		return persistence.SnapshotSet{}, err
	}

	var rows []snapshotRow
	if err := db.SelectContext(ctx, &rows,
		`SELECT studio_slug, session_id, session_date, start_time, end_time, max_capacity,
		        booked_count, instructor_name, class_name, level, style, drop_in_price
		 FROM session_snapshots
		 WHERE studio_slug = ? AND session_date BETWEEN ? AND ?
		 ORDER BY start_time, session_id`,
		slug, from, to,
	); err != nil {
		return persistence.SnapshotSet{}, fmt.Errorf("sqlite: list snapshots: %w", mapError(err))
	}

	set := persistence.SnapshotSet{
		StudioSlug: slug,
		From:       from,
		To:         to,
		FetchedAt:  fetchedAt,
		Sessions:   make([]persistence.SessionSnapshot, 0, len(rows)),
	}
	for _, row := range rows {
		session, err := fromRow(row)
		if err != nil {
			return persistence.SnapshotSet{}, err
		}
		set.Sessions = append(set.Sessions, session)
	}
	return set, nil
}

func toRow(slug string, s persistence.SessionSnapshot) snapshotRow {
	return snapshotRow{
		StudioSlug:     slug,
		SessionID:      s.SessionID,
		SessionDate:    s.Date,
		StartTime:      formatTime(s.Start),
		EndTime:        formatTime(s.End),
		MaxCapacity:    s.MaxCapacity,
		BookedCount:    s.BookedCount,
		InstructorName: s.InstructorName,
		ClassName:      s.ClassName,
		Level:          s.Level,
		Style:          s.Style,
		DropInPrice:    s.DropInPrice,
	}
}

func fromRow(row snapshotRow) (persistence.SessionSnapshot, error) {
	start, err := parseTime(row.StartTime)
	if err != nil {
		return persistence.SessionSnapshot{}, err
	}
	end, err := parseTime(row.EndTime)
	if err != nil {
		return persistence.SessionSnapshot{}, err
	}
	return persistence.SessionSnapshot{
		StudioSlug:     row.StudioSlug,
		SessionID:      row.SessionID,
		Date:           row.SessionDate,
		Start:          start,
		End:            end,
		MaxCapacity:    row.MaxCapacity,
		BookedCount:    row.BookedCount,
		InstructorName: row.InstructorName,
		ClassName:      row.ClassName,
		Level:          row.Level,
		Style:          row.Style,
		DropInPrice:    row.DropInPrice,
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: malformed timestamp %q: %w", value, err)
	}
	return t, nil
}
