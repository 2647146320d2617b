package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"k8s.io/klog/v2"

	"github.com/youruser/boothapp/internal/frames"
	"github.com/youruser/boothapp/internal/links"
	"github.com/youruser/boothapp/internal/strip"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// DB persists frames and links in SQLite.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	klog.V(1).Infof("opened store %s", path)
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS frames (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		image_url TEXT NOT NULL,
		thumbnail_url TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		style TEXT NOT NULL DEFAULT 'Custom',
		rarity TEXT NOT NULL DEFAULT 'Common',
		artist TEXT NOT NULL DEFAULT 'Default',
		type TEXT NOT NULL DEFAULT 'custom',
		layout_config TEXT,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_frames_created ON frames(created_at);

	CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT 'Link',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		sort_order INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := db.Exec(schema)
	return err
}

const frameColumns = `id, name, image_url, thumbnail_url, status, style, rarity, artist, type, layout_config, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanFrame(row scanner) (*frames.Frame, error) {
	var (
		f      frames.Frame
		thumb  sql.NullString
		layout sql.NullString
	)
	if err := row.Scan(&f.ID, &f.Name, &f.ImageURL, &thumb, &f.Status, &f.Style, &f.Rarity, &f.Artist, &f.Type, &layout, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.ThumbnailURL = thumb.String
	if layout.Valid && layout.String != "" {
		if err := json.Unmarshal([]byte(layout.String), &f.LayoutConfig); err != nil {
			return nil, fmt.Errorf("frame %s layout_config: %w", f.ID, err)
		}
	}
	return &f, nil
}

func encodeLayout(slots []strip.Slot) (sql.NullString, error) {
	if len(slots) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(slots)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ListFrames returns all frames, newest first.
func (db *DB) ListFrames(ctx context.Context) ([]frames.Frame, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+frameColumns+` FROM frames ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []frames.Frame{}
	for rows.Next() {
		f, err := scanFrame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// GetFrame returns the frame with the given id.
func (db *DB) GetFrame(ctx context.Context, id string) (*frames.Frame, error) {
	f, err := scanFrame(db.QueryRowContext(ctx, `SELECT `+frameColumns+` FROM frames WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("frame %s: %w", id, ErrNotFound)
	}
	return f, err
}

// CreateFrame assigns an id and creation time and inserts f.
func (db *DB) CreateFrame(ctx context.Context, f *frames.Frame) error {
	layout, err := encodeLayout(f.LayoutConfig)
	if err != nil {
		return err
	}
	f.ID = uuid.NewString()
	f.CreatedAt = time.Now().UTC()
	_, err = db.ExecContext(ctx, `INSERT INTO frames (`+frameColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Name, f.ImageURL, nullable(f.ThumbnailURL), f.Status, f.Style, f.Rarity, f.Artist, f.Type, layout, f.CreatedAt)
	return err
}

// UpdateFrame overwrites every mutable column of f.
func (db *DB) UpdateFrame(ctx context.Context, f *frames.Frame) error {
	layout, err := encodeLayout(f.LayoutConfig)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `UPDATE frames SET name = ?, image_url = ?, thumbnail_url = ?, status = ?, style = ?,
		rarity = ?, artist = ?, type = ?, layout_config = ? WHERE id = ?`,
		f.Name, f.ImageURL, nullable(f.ThumbnailURL), f.Status, f.Style, f.Rarity, f.Artist, f.Type, layout, f.ID)
	if err != nil {
		return err
	}
	return affected(res, "frame", f.ID)
}

// DeleteFrame removes the frame with the given id.
func (db *DB) DeleteFrame(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM frames WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, "frame", id)
}

// ListLinks returns all links in display order.
func (db *DB) ListLinks(ctx context.Context) ([]links.Link, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, title, url, icon, is_active, sort_order FROM links ORDER BY sort_order, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []links.Link{}
	for rows.Next() {
		var l links.Link
		if err := rows.Scan(&l.ID, &l.Title, &l.URL, &l.Icon, &l.IsActive, &l.Order); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetLink returns the link with the given id.
func (db *DB) GetLink(ctx context.Context, id string) (*links.Link, error) {
	var l links.Link
	err := db.QueryRowContext(ctx, `SELECT id, title, url, icon, is_active, sort_order FROM links WHERE id = ?`, id).
		Scan(&l.ID, &l.Title, &l.URL, &l.Icon, &l.IsActive, &l.Order)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("link %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateLink appends l after the existing links.
func (db *DB) CreateLink(ctx context.Context, l *links.Link) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM links`).Scan(&l.Order); err != nil {
		return err
	}
	l.ID = uuid.NewString()
	if _, err := tx.ExecContext(ctx, `INSERT INTO links (id, title, url, icon, is_active, sort_order) VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, l.Title, l.URL, l.Icon, l.IsActive, l.Order); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateLink overwrites every mutable column of l.
func (db *DB) UpdateLink(ctx context.Context, l *links.Link) error {
	res, err := db.ExecContext(ctx, `UPDATE links SET title = ?, url = ?, icon = ?, is_active = ?, sort_order = ? WHERE id = ?`,
		l.Title, l.URL, l.Icon, l.IsActive, l.Order, l.ID)
	if err != nil {
		return err
	}
	return affected(res, "link", l.ID)
}

// DeleteLink removes the link with the given id.
func (db *DB) DeleteLink(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM links WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, "link", id)
}

func affected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
