// Package pipeline builds the HTML pages a deck is served as.
//
// Stages:
//   - Markdown decks: split on separator lines, preprocess (line endings,
//     ==highlight== syntax), convert each slide with Goldmark and render the
//     slides into the deck page template
//   - Image sources: write resolved sources into keyed img elements and hold
//     back unresolved candidates so the browser never shows a broken image
//   - Injection: stylesheet links, theme CSS, client boot data and scripts
//
// HTML is rewritten with golang.org/x/net/html where structure matters and
// with plain string insertion for head and body injection.
package pipeline
