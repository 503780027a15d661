package mapper

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kobo2notion/internal/entities"
)

func TestPageTitle(t *testing.T) {
	assert.Equal(t, "Dune - Frank Herbert", PageTitle(entities.Book{Title: "Dune", Author: "Frank Herbert"}))
	assert.Equal(t, "Dune", PageTitle(entities.Book{Title: "Dune"}))
}

func TestBookPage(t *testing.T) {
	book := entities.Book{Title: "Dune", Author: "Frank Herbert"}

	page := BookPage(book, "parent-id", "📖")

	assert.Equal(t, "parent-id", page.Parent.PageID)
	require.NotNil(t, page.Icon)
	assert.Equal(t, "emoji", page.Icon.Type)
	assert.Equal(t, "📖", page.Icon.Emoji)
	require.Len(t, page.Properties.Title, 1)
	assert.Equal(t, "Dune - Frank Herbert", page.Properties.Title[0].Text.Content)
}

func TestBookPageWithoutIcon(t *testing.T) {
	page := BookPage(entities.Book{Title: "Dune"}, "parent-id", "")
	assert.Nil(t, page.Icon)
}

func TestAnnotationBlocksHighlight(t *testing.T) {
	blocks := AnnotationBlocks(entities.Annotation{
		Type: entities.AnnotationTypeHighlight,
		Text: "Fear is the mind-killer.",
	})

	require.Len(t, blocks, 1)
	assert.Equal(t, "quote", blocks[0].Type)
	assert.Equal(t, "Fear is the mind-killer.", blocks[0].Quote.RichText[0].Text.Content)
}

func TestAnnotationBlocksChunksLongText(t *testing.T) {
	blocks := AnnotationBlocks(entities.Annotation{
		Type: entities.AnnotationTypeHighlight,
		Text: strings.Repeat("a", 4500),
	})

	require.Len(t, blocks, 3)
	assert.Len(t, blocks[0].Quote.RichText[0].Text.Content, 2000)
	assert.Len(t, blocks[1].Quote.RichText[0].Text.Content, 2000)
	assert.Len(t, blocks[2].Quote.RichText[0].Text.Content, 500)
}

func TestAnnotationBlocksChunksByRunes(t *testing.T) {
	blocks := AnnotationBlocks(entities.Annotation{
		Type: entities.AnnotationTypeHighlight,
		Text: strings.Repeat("ü", 2001),
	})

	require.Len(t, blocks, 2)
	assert.Equal(t, 2000, len([]rune(blocks[0].Quote.RichText[0].Text.Content)))
	assert.Equal(t, 1, len([]rune(blocks[1].Quote.RichText[0].Text.Content)))
}

func TestAnnotationBlocksWithNote(t *testing.T) {
	blocks := AnnotationBlocks(entities.Annotation{
		Type: entities.AnnotationTypeNote,
		Text: "A beginning is a delicate time.",
		Note: "Opening line",
	})

	require.Len(t, blocks, 2)
	assert.Equal(t, "quote", blocks[0].Type)

	note := blocks[1]
	assert.Equal(t, "paragraph", note.Type)
	segment := note.Paragraph.RichText[0]
	assert.Equal(t, "Note: Opening line", segment.Text.Content)
	require.NotNil(t, segment.Annotations)
	assert.True(t, segment.Annotations.Italic)
}

func TestAnnotationBlocksBookmark(t *testing.T) {
	blocks := AnnotationBlocks(entities.Annotation{
		Type:      entities.AnnotationTypeBookmark,
		Chapter:   "Chapter One",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	})

	require.Len(t, blocks, 1)
	assert.Equal(t, "paragraph", blocks[0].Type)
	assert.Equal(t, "Bookmark: Chapter One (2024-03-01 12:00)", blocks[0].Paragraph.RichText[0].Text.Content)
}

func TestAnnotationBlocksBareBookmark(t *testing.T) {
	blocks := AnnotationBlocks(entities.Annotation{Type: entities.AnnotationTypeBookmark})

	require.Len(t, blocks, 1)
	assert.Equal(t, "Bookmark", blocks[0].Paragraph.RichText[0].Text.Content)
}

func TestAnnotationBlocksDeterministic(t *testing.T) {
	a := entities.Annotation{
		Type: entities.AnnotationTypeNote,
		Text: strings.Repeat("x", 3000),
		Note: "same in, same out",
	}

	assert.Equal(t, AnnotationBlocks(a), AnnotationBlocks(a))
}
