package models

import "time"

// Post represents a blog post as edited from the admin form.
type Post struct {
	Title     string    `json:"title" validate:"required"`
	Slug      string    `json:"slug" validate:"required"`
	Markdown  string    `json:"markdown" validate:"required"`
	CreatedAt time.Time `json:"created_at" validate:"-"`
	UpdatedAt time.Time `json:"updated_at" validate:"-"`
}

// FieldErrors maps a form field name to the message shown next to it.
type FieldErrors map[string]string
