package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sentinel errors for deck page rendering.
var (
	ErrNoSlides       = errors.New("markdown deck has no slides")
	ErrTemplateParse  = errors.New("deck template parsing failed")
	ErrTemplateRender = errors.New("deck template rendering failed")
)

// Image classes understood by the deck parser.
const (
	classMainImage  = "main-image"
	classExpandable = "expandable-image"
)

// PageMeta is the page-level data of a rendered Markdown deck.
type PageMeta struct {
	Lang          string
	Title         string
	Description   string
	Author        string
	PreviousLabel string
	NextLabel     string
	CloseLabel    string
}

// pageSlide is one slide as seen by the deck template.
type pageSlide struct {
	ID    string
	Title string
	Body  template.HTML
}

type pageData struct {
	PageMeta
	Slides []pageSlide
}

// DeckRenderer turns a Markdown deck into a deck page.
type DeckRenderer struct {
	preprocessor MarkdownPreprocessor
	converter    HTMLConverter
	tmpl         *template.Template
}

// NewDeckRenderer parses the page template. The template receives PageMeta
// fields plus Slides, each with ID, Title and Body.
func NewDeckRenderer(tmplContent string) (*DeckRenderer, error) {
	tmpl, err := template.New("deck").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	return &DeckRenderer{
		preprocessor: &CommonMarkPreprocessor{},
		converter:    NewGoldmarkConverter(),
		tmpl:         tmpl,
	}, nil
}

// Render splits content into slides, converts each to HTML and executes the
// page template. The first image of every slide becomes its main image and
// every image may be expanded.
func (r *DeckRenderer) Render(ctx context.Context, content string, meta PageMeta) (string, error) {
	parts := SplitSlides(content)
	if len(parts) == 0 {
		return "", ErrNoSlides
	}

	data := pageData{PageMeta: meta, Slides: make([]pageSlide, 0, len(parts))}
	used := make(map[string]int, len(parts))

	for i, part := range parts {
		body, err := r.converter.ToHTML(ctx, r.preprocessor.PreprocessMarkdown(ctx, part.Body))
		if err != nil {
			return "", fmt.Errorf("slide %d: %w", i+1, err)
		}
		body, err = markSlideImages(body)
		if err != nil {
			return "", fmt.Errorf("slide %d: %w", i+1, err)
		}
		data.Slides = append(data.Slides, pageSlide{
			ID:    uniqueID(part.ID, used),
			Title: part.Title,
			Body:  template.HTML(body), // #nosec G203 -- goldmark output with raw HTML disabled
		})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}

// uniqueID suffixes repeated heading slugs so generated identifiers never
// collide. Empty identifiers stay empty.
func uniqueID(id string, used map[string]int) string {
	if id == "" {
		return ""
	}
	used[id]++
	if n := used[id]; n > 1 {
		return id + "-" + strconv.Itoa(n)
	}
	return id
}

// markSlideImages tags the first image of a slide fragment as its main image
// and every image as expandable.
func markSlideImages(fragment string) (string, error) {
	doc, isFragment, err := parseHTML(fragment)
	if err != nil {
		return "", err
	}

	first := true
	walkElements(doc, func(n *html.Node) {
		if n.DataAtom != atom.Img {
			return
		}
		if first {
			addClass(n, classMainImage)
			first = false
		}
		addClass(n, classExpandable)
	})

	return renderHTML(doc, isFragment)
}
