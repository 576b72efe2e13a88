package photos

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/heimdex/msve-edl/internal/db"
)

func setupTestDB(t *testing.T) (*db.DB, *SQLiteRepository) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "MediaDb.v1.sqlite")

	database, err := db.Create(dbPath, nil)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database, NewRepository(database.Conn())
}

func cardJSON(url string, start, duration int64) map[string]any {
	return map[string]any{
		"idealDuration": duration,
		"Sources": []any{
			map[string]any{
				"MediaBackedSourceProperties": map[string]any{"url": url},
				"VideoSourceProperties":       map[string]any{"idealAssetStartTime": start},
			},
		},
	}
}

func rpmState(t *testing.T, cards []any) string {
	t.Helper()
	blob, err := json.Marshal(map[string]any{"Project": map[string]any{"Cards": cards}})
	if err != nil {
		t.Fatalf("marshal blob: %v", err)
	}
	outer, err := json.Marshal(map[string]string{blobField: string(blob)})
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	return string(outer)
}

func insertProject(t *testing.T, conn *sql.DB, albumID int, name string, state sql.NullString) {
	t.Helper()
	if _, err := conn.Exec("INSERT INTO Album (Album_Id, Album_Name) VALUES (?, ?)", albumID, name); err != nil {
		t.Fatalf("insert album %q: %v", name, err)
	}
	if _, err := conn.Exec("INSERT INTO Project (Project_AlbumId, Project_RpmState) VALUES (?, ?)", albumID, state); err != nil {
		t.Fatalf("insert project %q: %v", name, err)
	}
}

func validState(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}
