package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"spese/internal/core"
	"spese/internal/log"
)

const (
	listRecordsSQL = `SELECT id, date, name, amount, category, description
		FROM records WHERE owner_id = ? ORDER BY date, id`
	insertRecordSQL = `INSERT INTO records (owner_id, date, name, amount, category, description)
		VALUES (?, ?, ?, ?, ?, ?)`
	updateRecordSQL = `UPDATE records
		SET date = ?, name = ?, amount = ?, category = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND owner_id = ?`
	deleteRecordSQL = `DELETE FROM records WHERE id = ? AND owner_id = ?`
	clearRecordsSQL = `DELETE FROM records WHERE owner_id = ?`
)

// SQLiteRepository stores records in a SQLite database. Amounts are kept as
// decimal text so they round-trip exactly.
type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// applies pending migrations.
func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer; serialize through one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: log.OrDefault(logger, log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping implements Pinger.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListForOwner implements RecordStore.
func (r *SQLiteRepository) ListForOwner(ctx context.Context, ownerID int64) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, listRecordsSQL, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var (
			id  int64
			rec core.Record
		)
		if err := rows.Scan(&id, &rec.Date, &rec.Name, &rec.Amount, &rec.Category, &rec.Description); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.ID = core.NewID(id)
		rec.OwnerID = ownerID
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// Save implements RecordStore. Any ID on rec is ignored.
func (r *SQLiteRepository) Save(ctx context.Context, rec core.Record, ownerID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertRecordSQL,
		ownerID, rec.Date, rec.Name, rec.Amount.String(), rec.Category, rec.Description)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert record id: %w", err)
	}

	r.logger.DebugContext(ctx, "Record saved",
		log.FieldRecordID, id,
		log.FieldOwner, ownerID,
		log.FieldCategory, rec.Category)
	return id, nil
}

// Update implements RecordStore.
func (r *SQLiteRepository) Update(ctx context.Context, rec core.Record, ownerID int64) (bool, error) {
	if !rec.HasID() {
		return false, nil
	}
	res, err := r.db.ExecContext(ctx, updateRecordSQL,
		rec.Date, rec.Name, rec.Amount.String(), rec.Category, rec.Description, rec.IDValue(), ownerID)
	if err != nil {
		return false, fmt.Errorf("update record %d: %w", rec.IDValue(), err)
	}
	return affected(res)
}

// Delete implements RecordStore.
func (r *SQLiteRepository) Delete(ctx context.Context, rec core.Record, ownerID int64) (bool, error) {
	if !rec.HasID() {
		return false, nil
	}
	res, err := r.db.ExecContext(ctx, deleteRecordSQL, rec.IDValue(), ownerID)
	if err != nil {
		return false, fmt.Errorf("delete record %d: %w", rec.IDValue(), err)
	}
	return affected(res)
}

// ClearAll implements RecordStore.
func (r *SQLiteRepository) ClearAll(ctx context.Context, ownerID int64) error {
	res, err := r.db.ExecContext(ctx, clearRecordsSQL, ownerID)
	if err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	n, _ := res.RowsAffected()
	r.logger.InfoContext(ctx, "Records cleared",
		log.FieldOwner, ownerID,
		log.FieldCount, n)
	return nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
