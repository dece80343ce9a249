package deck

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-slidedeck/internal/assets"
)

// DOM contract attributes and classes.
const (
	SlideClass       = "slide"
	AttrSlideID      = "data-slide"
	AttrSlideTitle   = "data-title"
	AttrImageSource  = "data-src"
	AttrAlternates   = "data-alternates"
	AttrImageKey     = "data-image-key"
	ClassMainImage   = "main-image"
	ClassFeature     = "feature-image"
	ClassExpandable  = "expandable-image"
	alternateDivider = ","
)

// ParseHTML reads a deck page and extracts its slides. Every element whose
// class list contains "slide" is a slide; nested slide elements are ignored.
// Images inside a slide are declared by img elements with data-src or src.
func ParseHTML(r io.Reader) (*Deck, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeckParse, err)
	}
	return ParseDocument(doc)
}

// ParseDocument extracts slides from an already parsed page. It annotates
// the tree as it goes: slides missing an identifier get a generated
// data-slide, and every declared image gets a data-image-key matching its
// ImageRef.Key.
func ParseDocument(doc *html.Node) (*Deck, error) {
	p := &parser{}
	p.walk(doc)
	if p.err != nil {
		return nil, p.err
	}
	return New(p.title, p.slides)
}

type parser struct {
	title    string
	slides   []Slide
	features int
	err      error
}

func (p *parser) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch {
		case n.DataAtom == atom.Title && p.title == "":
			p.title = strings.TrimSpace(textContent(n))
		case HasClass(n, SlideClass):
			p.addSlide(n)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

func (p *parser) addSlide(n *html.Node) {
	s := Slide{
		ID:    strings.TrimSpace(Attr(n, AttrSlideID)),
		Title: strings.TrimSpace(Attr(n, AttrSlideTitle)),
	}
	if s.ID == "" {
		s.ID = "slide-" + strconv.Itoa(len(p.slides)+1)
		SetAttr(n, AttrSlideID, s.ID)
	}

	var imgs []*html.Node
	collectImages(n, &imgs)
	mainTaken := false
	for i, img := range imgs {
		src := ImageSource(img)
		if src == "" || strings.HasPrefix(src, "data:") {
			continue
		}
		key := p.imageKey(img, s.ID, i, &mainTaken)
		if err := assets.ValidateImageKey(key); err != nil {
			if p.err == nil {
				p.err = fmt.Errorf("%w: slide %q: %v", ErrInvalidImageKey, s.ID, err)
			}
			continue
		}
		ref := ImageRef{
			Key:        key,
			Primary:    src,
			Alternates: parseAlternates(Attr(img, AttrAlternates)),
			Alt:        Attr(img, "alt"),
			Expandable: HasClass(img, ClassMainImage) || HasClass(img, ClassFeature) || HasClass(img, ClassExpandable),
		}
		SetAttr(img, AttrImageKey, ref.Key)
		s.Images = append(s.Images, ref)
	}
	p.slides = append(p.slides, s)
}

// imageKey names an image the way authors refer to it: the main image by its
// slide, feature images by their deck-wide ordinal, anything else by id or
// position.
func (p *parser) imageKey(img *html.Node, slideID string, pos int, mainTaken *bool) string {
	if k := Attr(img, AttrImageKey); k != "" {
		return k
	}
	if HasClass(img, ClassFeature) {
		k := "feature-" + strconv.Itoa(p.features)
		p.features++
		return k
	}
	if HasClass(img, ClassMainImage) && !*mainTaken {
		*mainTaken = true
		return slideID
	}
	if id := Attr(img, "id"); id != "" {
		return id
	}
	return slideID + "-img-" + strconv.Itoa(pos+1)
}

func collectImages(n *html.Node, out *[]*html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Img {
			*out = append(*out, c)
			continue
		}
		collectImages(c, out)
	}
}

func parseAlternates(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, alternateDivider) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ImageSource returns the authored source of an img element, preferring
// data-src over src.
func ImageSource(n *html.Node) string {
	if v := strings.TrimSpace(Attr(n, AttrImageSource)); v != "" {
		return v
	}
	return strings.TrimSpace(Attr(n, "src"))
}

// Attr returns the value of attribute key on n, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// SetAttr sets or replaces attribute key on n.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// HasClass reports whether n's class attribute contains class.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
