package kobo

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/mrlokans/kobo2notion/internal/entities"
)

// Reader extracts books and their annotations from a Kobo KoboReader.sqlite
// database. When a device path is configured, the database is first copied
// to the cache path and all reads go through the copy; the device file is
// never opened directly.
type Reader struct {
	devicePath string
	cachePath  string
}

// NewReader creates a reader. devicePath may be empty, in which case the
// cache is read as-is without refreshing it from the e-reader.
func NewReader(devicePath, cachePath string) *Reader {
	return &Reader{devicePath: devicePath, cachePath: cachePath}
}

// CopyDatabase refreshes the local cache from the connected e-reader.
func CopyDatabase(devicePath, cachePath string) error {
	src, err := os.Open(devicePath)
	if err != nil {
		return fmt.Errorf("%w: %s (is your e-reader connected?)", ErrSourceUnavailable, devicePath)
	}
	defer src.Close()

	dst, err := os.Create(cachePath)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy database: %w", err)
	}

	return nil
}

// Rows come out ordered by volume and creation date so that each book's
// annotations stay chronological. The second content join resolves the
// chapter entry the bookmark points into.
const annotationQuery = `
	SELECT
		Bookmark.BookmarkID,
		Bookmark.VolumeID,
		Bookmark.Type,
		Bookmark.Text,
		Bookmark.Annotation,
		Bookmark.DateCreated,
		Bookmark.DateModified,
		book.Title,
		book.Attribution,
		chapter.Title
	FROM Bookmark
	INNER JOIN content AS book ON Bookmark.VolumeID = book.ContentID
	LEFT JOIN content AS chapter
		ON Bookmark.ContentID = chapter.ContentID
		AND chapter.ContentID != Bookmark.VolumeID
	ORDER BY Bookmark.VolumeID, Bookmark.DateCreated
`

// GetBooks returns the books that have annotations created or modified
// strictly after the cutoff (all of them when cutoff is nil), each with its
// annotations in chronological order. The source is never mutated.
func (r *Reader) GetBooks(cutoff *time.Time) ([]entities.Book, error) {
	if r.devicePath != "" {
		if err := CopyDatabase(r.devicePath, r.cachePath); err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(r.cachePath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, r.cachePath)
	}

	db, err := sql.Open("sqlite3", r.cachePath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", ErrSourceUnavailable, r.cachePath, err)
	}
	defer db.Close()

	rows, err := db.Query(annotationQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query annotations: %v", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	bookMap := make(map[string]*entities.Book)
	bookOrder := []string{} // Preserve order

	for rows.Next() {
		var bookmarkID, volumeID string
		var kind, text, note, created, modified, title, author, chapter sql.NullString

		err := rows.Scan(
			&bookmarkID,
			&volumeID,
			&kind,
			&text,
			&note,
			&created,
			&modified,
			&title,
			&author,
			&chapter,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		annotation := entities.Annotation{
			ExternalID: bookmarkID,
			VolumeID:   volumeID,
			Type:       convertBookmarkType(kind.String, text.String),
			Text:       strings.TrimSpace(text.String),
			Note:       strings.TrimSpace(note.String),
			Chapter:    chapter.String,
			CreatedAt:  parseKoboTime(created.String),
			ModifiedAt: parseKoboTime(modified.String),
		}

		if cutoff != nil && !annotation.ModifiedSince(*cutoff) {
			continue
		}

		book, exists := bookMap[volumeID]
		if !exists {
			book = &entities.Book{
				VolumeID: volumeID,
				Title:    title.String,
				Author:   author.String,
			}
			bookMap[volumeID] = book
			bookOrder = append(bookOrder, volumeID)
		}

		book.Annotations = append(book.Annotations, annotation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	var books []entities.Book
	for _, key := range bookOrder {
		book := bookMap[key]
		if len(book.Annotations) > 0 {
			books = append(books, *book)
		}
	}

	return books, nil
}

// convertBookmarkType maps Kobo's Bookmark.Type values to our enum. Kobo
// uses "dot" for plain bookmarks.
func convertBookmarkType(kind, text string) entities.AnnotationType {
	switch strings.ToLower(kind) {
	case "highlight":
		return entities.AnnotationTypeHighlight
	case "note", "annotation":
		return entities.AnnotationTypeNote
	case "dot", "bookmark":
		return entities.AnnotationTypeBookmark
	}
	if text != "" {
		return entities.AnnotationTypeHighlight
	}
	return entities.AnnotationTypeBookmark
}

// Kobo writes dates in a handful of layouts depending on firmware version.
var koboTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseKoboTime normalizes a Kobo date string. NULL and unparseable dates
// come back as the zero time: they sync on a full run and are excluded by
// any real cutoff.
func parseKoboTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range koboTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
