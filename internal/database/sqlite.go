package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteDatabase) CreateSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		image_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS objects (
		id TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		content_type TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)
	return err
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) CreateProfile(email, displayName string) (*Profile, error) {
	profile := &Profile{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := s.db.Exec("INSERT INTO profiles (id, email, display_name, created_at) VALUES (?, ?, ?, ?)",
		profile.ID, profile.Email, profile.DisplayName, profile.CreatedAt)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *SQLiteDatabase) GetProfile(id string) (*Profile, error) {
	row := s.db.QueryRow("SELECT id, email, display_name, created_at FROM profiles WHERE id = ?", id)

	var profile Profile
	err := row.Scan(&profile.ID, &profile.Email, &profile.DisplayName, &profile.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *SQLiteDatabase) DeleteProfile(id string) error {
	_, err := s.db.Exec("DELETE FROM profiles WHERE id = ?", id)
	return err
}

func (s *SQLiteDatabase) CreateDocument(profileID, title, content, imageID string) (*Document, error) {
	now := time.Now().UTC()
	document := &Document{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Title:     title,
		Content:   content,
		ImageID:   imageID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.Exec(
		"INSERT INTO documents (id, profile_id, title, content, image_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		document.ID, document.ProfileID, document.Title, document.Content, document.ImageID,
		document.CreatedAt, document.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return document, nil
}

func (s *SQLiteDatabase) GetDocument(id string) (*Document, error) {
	row := s.db.QueryRow(
		"SELECT id, profile_id, title, content, image_id, created_at, updated_at FROM documents WHERE id = ?", id)
	return scanDocument(row)
}

func (s *SQLiteDatabase) GetDocuments(profileID string) ([]*Document, error) {
	query := "SELECT id, profile_id, title, content, image_id, created_at, updated_at FROM documents"
	args := []any{}
	if profileID != "" {
		query += " WHERE profile_id = ?"
		args = append(args, profileID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	var documents []*Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.ProfileID, &doc.Title, &doc.Content, &doc.ImageID,
			&doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		documents = append(documents, &doc)
	}
	return documents, rows.Err()
}

func (s *SQLiteDatabase) UpdateDocument(id, title, content string) (*Document, error) {
	result, err := s.db.Exec("UPDATE documents SET title = ?, content = ?, updated_at = ? WHERE id = ?",
		title, content, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetDocument(id)
}

func (s *SQLiteDatabase) DeleteDocument(id string) error {
	_, err := s.db.Exec("DELETE FROM documents WHERE id = ?", id)
	return err
}

func (s *SQLiteDatabase) PutObject(data []byte, contentType string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec("INSERT INTO objects (id, data, content_type, created_at) VALUES (?, ?, ?, ?)",
		id, data, contentType, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLiteDatabase) GetObject(id string) (*Object, error) {
	row := s.db.QueryRow("SELECT id, data, content_type, created_at FROM objects WHERE id = ?", id)

	var object Object
	err := row.Scan(&object.ID, &object.Data, &object.ContentType, &object.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &object, nil
}

func (s *SQLiteDatabase) DeleteObject(id string) error {
	_, err := s.db.Exec("DELETE FROM objects WHERE id = ?", id)
	return err
}

func scanDocument(row *sql.Row) (*Document, error) {
	var doc Document
	err := row.Scan(&doc.ID, &doc.ProfileID, &doc.Title, &doc.Content, &doc.ImageID,
		&doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
