package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-glucose/app/entity"
)

type ReadingRepository struct {
	db DBTX
}

func NewReadingRepository(db DBTX) *ReadingRepository {
	return &ReadingRepository{db: db}
}

func (r *ReadingRepository) Create(ctx context.Context, reading *entity.Reading) error {
	query := `
		INSERT INTO glucose_readings (id, glucose_value, unit, measured_at, photo_url, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		reading.ID,
		reading.GlucoseValue,
		reading.Unit,
		reading.MeasuredAt.UTC(),
		reading.PhotoURL,
		reading.Notes,
		reading.CreatedAt.UTC(),
	)
	return err
}

func (r *ReadingRepository) FindByID(ctx context.Context, id string) (*entity.Reading, error) {
	query := `
		SELECT id, glucose_value, unit, measured_at, photo_url, notes, created_at
		FROM glucose_readings WHERE id = ?
	`
	row := r.db.QueryRowContext(ctx, query, id)
	reading, err := scanReading(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return reading, nil
}

func (r *ReadingRepository) List(ctx context.Context, limit int) ([]*entity.Reading, error) {
	query := `
		SELECT id, glucose_value, unit, measured_at, photo_url, notes, created_at
		FROM glucose_readings
		ORDER BY measured_at DESC, created_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings := make([]*entity.Reading, 0)
	for rows.Next() {
		reading, err := scanReading(rows.Scan)
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return readings, nil
}

func (r *ReadingRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM glucose_readings WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type rowScanner func(dest ...interface{}) error

func scanReading(scan rowScanner) (*entity.Reading, error) {
	reading := &entity.Reading{}
	if err := scan(
		&reading.ID,
		&reading.GlucoseValue,
		&reading.Unit,
		&reading.MeasuredAt,
		&reading.PhotoURL,
		&reading.Notes,
		&reading.CreatedAt,
	); err != nil {
		return nil, err
	}

	reading.MeasuredAt = reading.MeasuredAt.UTC()
	reading.CreatedAt = reading.CreatedAt.UTC()
	return reading, nil
}
