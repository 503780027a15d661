package entities

import (
	"time"
)

type AnnotationType string

const (
	AnnotationTypeHighlight AnnotationType = "highlight"
	AnnotationTypeNote      AnnotationType = "note"
	AnnotationTypeBookmark  AnnotationType = "bookmark"
)

// Book is a read-only snapshot of one volume on the e-reader, carrying its
// annotations in chronological order.
type Book struct {
	VolumeID    string
	Title       string
	Author      string
	Annotations []Annotation
}

// Annotation is a single highlight, note or bookmark from the Kobo database.
type Annotation struct {
	ExternalID string
	VolumeID   string
	Type       AnnotationType
	Text       string // highlighted passage
	Note       string // user-written annotation
	Chapter    string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Timestamp returns the later of the created and modified dates.
func (a Annotation) Timestamp() time.Time {
	if a.ModifiedAt.After(a.CreatedAt) {
		return a.ModifiedAt
	}
	return a.CreatedAt
}

// ModifiedSince reports whether the annotation was created or modified
// strictly after the cutoff.
func (a Annotation) ModifiedSince(cutoff time.Time) bool {
	return a.CreatedAt.After(cutoff) || a.ModifiedAt.After(cutoff)
}
