// Package models provides data model definitions for Arcana.
package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// UUID is a wrapper around string for UUID v4 type safety.
type UUID string

// Value implements driver.Valuer for UUID.
func (u UUID) Value() (driver.Value, error) {
	return string(u), nil
}

// Scan implements sql.Scanner for UUID.
func (u *UUID) Scan(value interface{}) error {
	if value == nil {
		*u = ""
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*u = UUID(v)
	case string:
		*u = UUID(v)
	default:
		return fmt.Errorf("cannot scan %T into UUID", value)
	}
	return nil
}

// String returns the string representation of the UUID.
func (u UUID) String() string {
	return string(u)
}

// Card represents a single stored code snippet plus its metadata.
type Card struct {
	ID        UUID      `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Language  string    `db:"language" json:"language"`
	Tags      []string  `db:"tags" json:"tags"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// TableName returns the table name for Card.
func (Card) TableName() string {
	return "cards"
}

// Touch refreshes the UpdatedAt timestamp.
func (c *Card) Touch() {
	c.UpdatedAt = time.Now()
}

// HasTag reports whether the card carries the given tag (case-sensitive).
func (c *Card) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends a tag, preserving insertion order and skipping duplicates.
func (c *Card) AddTag(tag string) {
	if tag == "" || c.HasTag(tag) {
		return
	}
	c.Tags = append(c.Tags, tag)
}

// CardUpdate describes a partial card mutation. Nil fields are left as-is.
type CardUpdate struct {
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Language *string   `json:"language,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
}

// Apply copies the non-nil fields onto the card.
func (u *CardUpdate) Apply(c *Card) {
	if u.Title != nil {
		c.Title = *u.Title
	}
	if u.Content != nil {
		c.Content = *u.Content
	}
	if u.Language != nil {
		c.Language = *u.Language
	}
	if u.Tags != nil {
		tags := make([]string, len(*u.Tags))
		copy(tags, *u.Tags)
		c.Tags = tags
	}
}

// KnownLanguages lists the languages the UI renders with dedicated keyword
// tables. Language is stored as free text; anything else falls back to the
// default treatment.
var KnownLanguages = []string{
	"typescript", "javascript", "python", "css", "html",
	"sql", "json", "bash", "go", "rust", "other",
}

// IsKnownLanguage reports whether the tag is part of the known enumeration.
func IsKnownLanguage(lang string) bool {
	for _, l := range KnownLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
