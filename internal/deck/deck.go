// Package deck models a pre-authored slide deck: an ordered, immutable list
// of slides and the images each slide owns.
package deck

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for deck construction.
var (
	ErrEmptyDeck        = errors.New("deck has no slides")
	ErrDuplicateSlideID = errors.New("duplicate slide identifier")
	ErrDuplicateImage   = errors.New("duplicate image key")
	ErrDeckParse        = errors.New("failed to parse deck")
	ErrInvalidImageKey  = errors.New("invalid image key")
)

// Slide is one panel of the deck.
type Slide struct {
	Index  int
	ID     string
	Title  string // empty when the author did not provide one
	Images []ImageRef
}

// ImageRef is an image declared by a slide.
type ImageRef struct {
	Key        string   // stable identifier, also shown on the placeholder
	SlideID    string   // owning slide
	Primary    string   // path as authored
	Alternates []string // explicit candidates; nil means "derive from Primary"
	Alt        string
	Expandable bool // may be opened in the image modal
}

// Deck is an ordered, immutable sequence of slides.
type Deck struct {
	Title  string
	slides []Slide
	byID   map[string]int
}

// New validates slides and builds a Deck. Slides without an identifier are
// given "slide-N" (1-based). Indices are renumbered to match position.
func New(title string, slides []Slide) (*Deck, error) {
	if len(slides) == 0 {
		return nil, ErrEmptyDeck
	}

	d := &Deck{
		Title:  title,
		slides: make([]Slide, len(slides)),
		byID:   make(map[string]int, len(slides)),
	}
	keys := make(map[string]struct{})

	for i, s := range slides {
		s.Index = i
		if s.ID == "" {
			s.ID = "slide-" + strconv.Itoa(i+1)
		}
		if _, dup := d.byID[s.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSlideID, s.ID)
		}
		d.byID[s.ID] = i

		images := make([]ImageRef, len(s.Images))
		for j, img := range s.Images {
			img.SlideID = s.ID
			if _, dup := keys[img.Key]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateImage, img.Key)
			}
			keys[img.Key] = struct{}{}
			images[j] = img
		}
		s.Images = images
		d.slides[i] = s
	}

	return d, nil
}

// Len returns the number of slides. It is always at least one.
func (d *Deck) Len() int {
	return len(d.slides)
}

// Slide returns the slide at index i.
func (d *Deck) Slide(i int) (Slide, bool) {
	if i < 0 || i >= len(d.slides) {
		return Slide{}, false
	}
	return d.slides[i], true
}

// Slides returns a copy of the slide list.
func (d *Deck) Slides() []Slide {
	out := make([]Slide, len(d.slides))
	copy(out, d.slides)
	return out
}

// IndexOf returns the index of the slide with the given identifier.
func (d *Deck) IndexOf(id string) (int, bool) {
	i, ok := d.byID[id]
	return i, ok
}

// Images returns every image in deck order.
func (d *Deck) Images() []ImageRef {
	var out []ImageRef
	for _, s := range d.slides {
		out = append(out, s.Images...)
	}
	return out
}

// Image looks up an image by key.
func (d *Deck) Image(key string) (ImageRef, bool) {
	for _, s := range d.slides {
		for _, img := range s.Images {
			if img.Key == key {
				return img, true
			}
		}
	}
	return ImageRef{}, false
}

// IDs returns the slide identifiers in order.
func (d *Deck) IDs() []string {
	out := make([]string, len(d.slides))
	for i, s := range d.slides {
		out[i] = s.ID
	}
	return out
}
