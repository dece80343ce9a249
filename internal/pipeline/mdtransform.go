package pipeline

import (
	"context"
	"regexp"
	"strings"
	"unicode"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through Goldmark unchanged and become <mark> tags afterwards.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.*?)==`)

	// <!-- slide: intro --> and <!-- title: Welcome -->
	directivePattern = regexp.MustCompile(`(?m)^[ \t]*<!--\s*(slide|title)\s*:\s*(.*?)\s*-->[ \t]*\n?`)

	// A slide separator is a line of three or more dashes.
	separatorPattern = regexp.MustCompile(`(?m)^-{3,}[ \t]*$`)

	atxHeading = regexp.MustCompile(`(?m)^#{1,6}[ \t]+(.+?)[ \t#]*$`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor applies transformations before CommonMark conversion.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown normalizes line endings, converts ==highlight== syntax
// and compresses runs of blank lines.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = convertHighlights(content)
	content = compressBlankLines(content)
	return content
}

func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

func convertHighlights(content string) string {
	return highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}

// MarkdownSlide is one slide cut from a Markdown deck.
type MarkdownSlide struct {
	ID    string // from <!-- slide: id -->, else the first heading's slug
	Title string // from <!-- title: ... -->, else the first heading's text
	Body  string // Markdown with directives removed
}

// SplitSlides cuts a Markdown deck on separator lines. Empty slides are
// dropped. Identifiers may be empty when a slide declares neither a
// directive nor a heading; the deck assigns those later.
func SplitSlides(content string) []MarkdownSlide {
	content = normalizeLineEndings(content)
	content = stripFrontMatter(content)

	var slides []MarkdownSlide
	for _, part := range separatorPattern.Split(content, -1) {
		s := parseSlide(part)
		if strings.TrimSpace(s.Body) == "" && s.ID == "" {
			continue
		}
		slides = append(slides, s)
	}
	return slides
}

// stripFrontMatter drops a leading YAML front matter block. The first
// separator would otherwise read it as a slide.
func stripFrontMatter(content string) string {
	if !strings.HasPrefix(content, "---\n") {
		return content
	}
	end := strings.Index(content[4:], "\n---")
	if end < 0 {
		return content
	}
	head := content[4 : 4+end]
	if !strings.Contains(head, ":") || atxHeading.MatchString(head) {
		return content
	}
	rest := content[4+end+4:]
	return strings.TrimPrefix(rest, "\n")
}

func parseSlide(part string) MarkdownSlide {
	var s MarkdownSlide
	body := directivePattern.ReplaceAllStringFunc(part, func(m string) string {
		sub := directivePattern.FindStringSubmatch(m)
		switch sub[1] {
		case "slide":
			if s.ID == "" {
				s.ID = sub[2]
			}
		case "title":
			if s.Title == "" {
				s.Title = sub[2]
			}
		}
		return ""
	})
	s.Body = strings.TrimSpace(body)

	if h := atxHeading.FindStringSubmatch(s.Body); h != nil {
		heading := strings.TrimSpace(h[1])
		if s.Title == "" {
			s.Title = heading
		}
		if s.ID == "" {
			s.ID = Slugify(heading)
		}
	}
	return s
}

// Slugify lowercases s and joins its letters and digits with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
