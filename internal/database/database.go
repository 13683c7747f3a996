package database

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// Profile is a user account record.
type Profile struct {
	ID          string    `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	DisplayName string    `db:"display_name" json:"displayName"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Document is a stored scan with its extracted text.
type Document struct {
	ID        string    `db:"id" json:"id"`
	ProfileID string    `db:"profile_id" json:"profileId"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	ImageID   string    `db:"image_id" json:"imageId"` // object store reference, may be empty
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Object is a binary payload, typically an optimized scan image.
type Object struct {
	ID          string    `db:"id" json:"id"`
	Data        []byte    `db:"data" json:"-"`
	ContentType string    `db:"content_type" json:"contentType"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// DatabaseService persists profiles, documents and binary objects.
type DatabaseService interface {
	CreateSchema() error
	Close() error

	CreateProfile(email, displayName string) (*Profile, error)
	GetProfile(id string) (*Profile, error)
	DeleteProfile(id string) error

	CreateDocument(profileID, title, content, imageID string) (*Document, error)
	GetDocument(id string) (*Document, error)
	// GetDocuments returns documents newest-first, optionally filtered by
	// profile (empty profileID means all).
	GetDocuments(profileID string) ([]*Document, error)
	UpdateDocument(id, title, content string) (*Document, error)
	DeleteDocument(id string) error

	PutObject(data []byte, contentType string) (string, error)
	GetObject(id string) (*Object, error)
	DeleteObject(id string) error
}
