package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Image attributes and classes written into served pages.
const (
	attrImageKey    = "data-image-key"
	attrImageSource = "data-src"
	classLoading    = "loading"
	classFallback   = "placeholder"
)

// ImageSource is what a served page should show for one image key.
type ImageSource struct {
	Source      string
	Placeholder bool
}

// ApplyImageSources rewrites every keyed img so the browser never requests
// an unresolved candidate:
//   - resolved keys get their final src and lose the loading class
//   - unresolved keys keep their authored source in data-src, lose src and
//     get the loading class until the resolution is pushed to the client
//
// Images without a data-image-key are left alone.
func ApplyImageSources(htmlContent string, sources map[string]ImageSource) (string, error) {
	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	walkElements(doc, func(n *html.Node) {
		if n.DataAtom != atom.Img {
			return
		}
		key := getAttr(n, attrImageKey)
		if key == "" {
			return
		}

		if src, ok := sources[key]; ok {
			setAttr(n, "src", src.Source)
			removeClass(n, classLoading)
			if src.Placeholder {
				addClass(n, classFallback)
			}
			return
		}

		if getAttr(n, attrImageSource) == "" {
			if authored := getAttr(n, "src"); authored != "" {
				setAttr(n, attrImageSource, authored)
			}
		}
		removeAttr(n, "src")
		addClass(n, classLoading)
	})

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the document back to string. Fragments render their
// children only, without an <html><body> wrapper.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// walkElements calls fn for every element node under n, depth first.
func walkElements(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, fn)
	}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			out = append(out, a)
		}
	}
	n.Attr = out
}

func addClass(n *html.Node, class string) {
	fields := strings.Fields(getAttr(n, "class"))
	for _, c := range fields {
		if c == class {
			return
		}
	}
	setAttr(n, "class", strings.Join(append(fields, class), " "))
}

func removeClass(n *html.Node, class string) {
	fields := strings.Fields(getAttr(n, "class"))
	out := fields[:0]
	for _, c := range fields {
		if c != class {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		removeAttr(n, "class")
		return
	}
	setAttr(n, "class", strings.Join(out, " "))
}
