package slidedeck

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/net/html"

	"github.com/alnah/go-slidedeck/internal/config"
	"github.com/alnah/go-slidedeck/internal/deck"
	"github.com/alnah/go-slidedeck/internal/fileutil"
	"github.com/alnah/go-slidedeck/internal/locale"
	"github.com/alnah/go-slidedeck/internal/pipeline"
)

// Document is a loaded deck: the slide model and the page it came from.
type Document struct {
	Path string // source file, empty for in-memory decks
	Dir  string // base directory for relative image sources
	Deck *deck.Deck
	// Page is the deck HTML annotated with data-slide on every slide and
	// data-image-key on every declared image.
	Page string
}

// DeckLoader reads HTML and Markdown decks.
type DeckLoader struct {
	assets AssetLoader
	cfg    *config.Config
	loc    *locale.Localizer
}

// NewDeckLoader creates a DeckLoader. A nil AssetLoader uses the embedded
// assets; nil cfg and loc use the defaults.
func NewDeckLoader(a AssetLoader, cfg *config.Config, loc *locale.Localizer) (*DeckLoader, error) {
	if a == nil {
		var err error
		if a, err = NewAssetLoader(""); err != nil {
			return nil, err
		}
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if loc == nil {
		loc = locale.New(cfg.Locale)
	}
	return &DeckLoader{assets: a, cfg: cfg, loc: loc}, nil
}

// Load reads the deck at path. The format follows the extension.
func (l *DeckLoader) Load(ctx context.Context, path string) (*Document, error) {
	if !fileutil.IsHTML(path) && !fileutil.IsMarkdown(path) {
		return nil, fmt.Errorf("%w: %q (want .html or .md)", ErrUnsupportedDeck, filepath.Ext(path))
	}
	data, err := os.ReadFile(path) // #nosec G304 -- deck path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeckRead, err)
	}

	var doc *Document
	if fileutil.IsMarkdown(path) {
		doc, err = l.ParseMarkdown(ctx, string(data))
	} else {
		doc, err = l.ParseHTML(ctx, string(data))
	}
	if err != nil {
		return nil, err
	}
	doc.Path = path
	doc.Dir = filepath.Dir(path)
	return doc, nil
}

// ParseHTML parses a pre-authored deck page.
func (l *DeckLoader) ParseHTML(ctx context.Context, page string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := html.Parse(bytes.NewBufferString(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", deck.ErrDeckParse, err)
	}
	d, err := deck.ParseDocument(root)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeckRender, err)
	}
	return &Document{Deck: d, Page: buf.String()}, nil
}

// ParseMarkdown renders a Markdown deck into the deck template and parses
// the result.
func (l *DeckLoader) ParseMarkdown(ctx context.Context, content string) (*Document, error) {
	tmpl, err := l.assets.LoadTemplate(DeckTemplate)
	if err != nil {
		return nil, err
	}
	renderer, err := pipeline.NewDeckRenderer(tmpl)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeckRender, err)
	}
	page, err := renderer.Render(ctx, content, l.pageMeta())
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrDeckRender, err)
	}
	return l.ParseHTML(ctx, page)
}

func (l *DeckLoader) pageMeta() pipeline.PageMeta {
	return pipeline.PageMeta{
		Lang:          l.loc.Language(),
		Title:         l.cfg.Site.Title,
		Description:   l.cfg.Site.Subtitle,
		Author:        l.cfg.Site.Authors,
		PreviousLabel: l.loc.Text(locale.MsgPreviousSlide),
		NextLabel:     l.loc.Text(locale.MsgNextSlide),
		CloseLabel:    l.loc.Text(locale.MsgCloseImage),
	}
}
