package notion

// PageRef identifies an existing Notion page.
type PageRef struct {
	ID  string
	URL string
}

// BlockRef identifies a block appended to a page.
type BlockRef struct {
	ID string
}

// RichText is a single segment in Notion's rich text model. PlainText is
// only populated in API responses.
type RichText struct {
	Type        string       `json:"type,omitempty"`
	Text        *TextContent `json:"text,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	PlainText   string       `json:"plain_text,omitempty"`
}

type TextContent struct {
	Content string `json:"content"`
}

type Annotations struct {
	Bold   bool `json:"bold,omitempty"`
	Italic bool `json:"italic,omitempty"`
}

// Text builds a plain rich text segment.
func Text(content string) RichText {
	return RichText{Type: "text", Text: &TextContent{Content: content}}
}

// ItalicText builds an italicized rich text segment.
func ItalicText(content string) RichText {
	segment := Text(content)
	segment.Annotations = &Annotations{Italic: true}
	return segment
}

// Parent points a new page at its parent page.
type Parent struct {
	PageID string `json:"page_id"`
}

// Icon is an emoji page icon.
type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

// PageDescriptor is the payload for creating a page.
type PageDescriptor struct {
	Parent     Parent            `json:"parent"`
	Icon       *Icon             `json:"icon,omitempty"`
	Properties PageProperties    `json:"properties"`
	Children   []BlockDescriptor `json:"children,omitempty"`
}

type PageProperties struct {
	Title []RichText `json:"title"`
}

// BlockDescriptor is a single content block appended to a page.
type BlockDescriptor struct {
	Object    string         `json:"object"`
	Type      string         `json:"type"`
	Paragraph *RichTextBlock `json:"paragraph,omitempty"`
	Quote     *RichTextBlock `json:"quote,omitempty"`
}

type RichTextBlock struct {
	RichText []RichText `json:"rich_text"`
}

// Paragraph builds a paragraph block from rich text segments.
func Paragraph(segments ...RichText) BlockDescriptor {
	return BlockDescriptor{
		Object:    "block",
		Type:      "paragraph",
		Paragraph: &RichTextBlock{RichText: segments},
	}
}

// Quote builds a quote block from rich text segments.
func Quote(segments ...RichText) BlockDescriptor {
	return BlockDescriptor{
		Object: "block",
		Type:   "quote",
		Quote:  &RichTextBlock{RichText: segments},
	}
}
