// Package core holds the domain model shared by every jotter component.
package core

import "time"

// Note is the central entity of the domain.
// It belongs to exactly one user and is replaced as a whole on every save.
type Note struct {
	ID          string       `json:"id" validate:"required"`
	OwnerID     string       `json:"ownerId" validate:"required"`
	Title       string       `json:"title" validate:"required_without=Content"`
	Content     string       `json:"content"`
	Tags        []string     `json:"tags"`
	Attachments []Attachment `json:"attachments" validate:"dive"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Attachment is a file embedded in a note. Data carries the binary payload
// as text, usually a base64 data URL.
type Attachment struct {
	Name     string `json:"name" validate:"required"`
	MimeType string `json:"mimeType" validate:"required"`
	Data     string `json:"data" validate:"required"`
}

// HasTag reports whether the note carries exactly the given tag.
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
