package photos

import (
	"context"
	"database/sql"
)

// ProjectRecord is the raw project row joined to its album.
type ProjectRecord struct {
	AlbumName string
	RpmState  sql.NullString
}

type Repository interface {
	ListAlbumNames(ctx context.Context) ([]string, error)
	GetProjectState(ctx context.Context, albumName string) (*ProjectRecord, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ListAlbumNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.Album_Name
		FROM Album a
		ORDER BY a.Album_Name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if !name.Valid {
			continue
		}
		names = append(names, name.String)
	}
	return names, rows.Err()
}

// GetProjectState returns nil, nil when no project belongs to albumName.
func (r *SQLiteRepository) GetProjectState(ctx context.Context, albumName string) (*ProjectRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT a.Album_Name, p.Project_RpmState
		FROM Project p
			INNER JOIN Album a ON p.Project_AlbumId = a.Album_Id
		WHERE a.Album_Name = ?
		ORDER BY p.Project_Id
		LIMIT 1
	`, albumName)

	var rec ProjectRecord
	err := row.Scan(&rec.AlbumName, &rec.RpmState)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
