// Package mapper converts books and annotations into their Notion page and
// block representations. All functions are pure and deterministic: no I/O,
// same input always yields the same descriptor.
package mapper

import (
	"fmt"

	"github.com/mrlokans/kobo2notion/internal/entities"
	"github.com/mrlokans/kobo2notion/internal/notion"
)

// Notion caps a single rich text content field at 2000 characters.
const maxRichTextLength = 2000

const notePrefix = "Note: "

// PageTitle is the canonical title for a book's page; page lookup by title
// must use the same form.
func PageTitle(book entities.Book) string {
	if book.Author == "" {
		return book.Title
	}
	return fmt.Sprintf("%s - %s", book.Title, book.Author)
}

// BookPage builds the descriptor for a book's page under the given parent.
func BookPage(book entities.Book, parentID, icon string) notion.PageDescriptor {
	page := notion.PageDescriptor{
		Parent: notion.Parent{PageID: parentID},
		Properties: notion.PageProperties{
			Title: []notion.RichText{notion.Text(PageTitle(book))},
		},
	}
	if icon != "" {
		page.Icon = &notion.Icon{Type: "emoji", Emoji: icon}
	}
	return page
}

// AnnotationBlocks converts one annotation into the blocks appended to the
// book's page: the highlighted passage as quote blocks (chunked to the rich
// text limit), the user's note as an italic paragraph, and bookmarks as a
// short paragraph marking the spot.
func AnnotationBlocks(a entities.Annotation) []notion.BlockDescriptor {
	var blocks []notion.BlockDescriptor

	for _, chunk := range chunkText(a.Text, maxRichTextLength) {
		blocks = append(blocks, notion.Quote(notion.Text(chunk)))
	}

	if a.Note != "" {
		for _, chunk := range chunkText(a.Note, maxRichTextLength-len(notePrefix)) {
			blocks = append(blocks, notion.Paragraph(notion.ItalicText(notePrefix+chunk)))
		}
	}

	if len(blocks) == 0 {
		blocks = append(blocks, notion.Paragraph(notion.ItalicText(bookmarkLabel(a))))
	}

	return blocks
}

func bookmarkLabel(a entities.Annotation) string {
	label := "Bookmark"
	if a.Chapter != "" {
		label = fmt.Sprintf("Bookmark: %s", a.Chapter)
	}
	if !a.CreatedAt.IsZero() {
		label = fmt.Sprintf("%s (%s)", label, a.CreatedAt.Format("2006-01-02 15:04"))
	}
	return label
}

// chunkText splits text into pieces of at most size characters. Splitting
// counts runes, not bytes, so multi-byte characters stay intact.
func chunkText(text string, size int) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
