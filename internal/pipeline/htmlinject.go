package pipeline

import (
	"context"
	"html"
	"strings"
)

// BootElementID is the id of the JSON script element the client reads on load.
const BootElementID = "deck-boot"

// PageAssets lists what a served deck page links to.
type PageAssets struct {
	Stylesheets []string // href values, in order
	InlineCSS   string   // theme tokens and custom CSS
	BootJSON    []byte   // initial state for the client, already JSON-encoded
	Scripts     []string // src values, loaded deferred
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, after <body>, or at the
// start of the content, whichever is found first.
// CSS content is sanitized to prevent injection attacks.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}
	return injectHead(htmlContent, "<style>"+sanitizeCSS(cssContent)+"</style>")
}

// InjectPage adds stylesheet links, inline CSS, boot data and client scripts
// to a deck page. Head content goes before </head>; scripts go before
// </body> so they run after the slides are in the DOM.
func InjectPage(ctx context.Context, htmlContent string, a PageAssets) string {
	if ctx.Err() != nil {
		return htmlContent
	}

	var head strings.Builder
	for _, href := range a.Stylesheets {
		head.WriteString(`<link rel="stylesheet" href="`)
		head.WriteString(html.EscapeString(href))
		head.WriteString(`">`)
	}
	if a.InlineCSS != "" {
		head.WriteString("<style>")
		head.WriteString(sanitizeCSS(a.InlineCSS))
		head.WriteString("</style>")
	}
	if head.Len() > 0 {
		htmlContent = injectHead(htmlContent, head.String())
	}

	var tail strings.Builder
	if len(a.BootJSON) > 0 {
		tail.WriteString(`<script id="` + BootElementID + `" type="application/json">`)
		tail.WriteString(sanitizeScript(string(a.BootJSON)))
		tail.WriteString("</script>")
	}
	for _, src := range a.Scripts {
		tail.WriteString(`<script src="`)
		tail.WriteString(html.EscapeString(src))
		tail.WriteString(`" defer></script>`)
	}
	if tail.Len() > 0 {
		htmlContent = injectBodyEnd(htmlContent, tail.String())
	}
	return htmlContent
}

// injectHead inserts snippet before </head>, else after <body ...>, else
// prepends it.
func injectHead(htmlContent, snippet string) string {
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + snippet + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + snippet + htmlContent[insertPos:]
		}
	}

	return snippet + htmlContent
}

// injectBodyEnd inserts snippet before the last </body>, else appends it.
func injectBodyEnd(htmlContent, snippet string) string {
	if idx := strings.LastIndex(strings.ToLower(htmlContent), "</body>"); idx != -1 {
		return htmlContent[:idx] + snippet + htmlContent[idx:]
	}
	return htmlContent + snippet
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// sanitizeScript keeps inline JSON from closing its <script> element or
// opening an HTML comment. Both escapes are valid inside JSON strings.
func sanitizeScript(s string) string {
	s = strings.ReplaceAll(s, "</", `<\/`)
	return strings.ReplaceAll(s, "<!--", `\u003c!--`)
}

// Compile-time interface check.
var _ CSSInjector = (*CSSInjection)(nil)
