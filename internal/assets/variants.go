package assets

import "strings"

// extensionSwap replaces the first occurrence of From with To.
type extensionSwap struct {
	From, To string
}

// variantSwaps is the fixed probing order for extension-case variants.
var variantSwaps = []extensionSwap{
	{".PNG", ".png"},
	{".PNG", ".jpg"},
	{".PNG", ".jpeg"},
	{".png", ".PNG"},
	{".png", ".jpg"},
}

// Variants returns the extension-case variants of primary in probing order.
// Only the first occurrence of each extension is replaced. The result holds
// no duplicates and never contains primary itself.
func Variants(primary string) []string {
	if primary == "" {
		return nil
	}

	seen := map[string]bool{primary: true}
	var out []string
	for _, s := range variantSwaps {
		if !strings.Contains(primary, s.From) {
			continue
		}
		v := strings.Replace(primary, s.From, s.To, 1)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Candidates returns every source to probe for req, in order: the primary
// followed by the explicit alternates, or the extension variants when the
// request declares none. Blank and repeated entries are dropped.
func Candidates(req Request) []string {
	alternates := req.Alternates
	if len(alternates) == 0 {
		alternates = Variants(req.Primary)
	}

	seen := make(map[string]bool, len(alternates)+1)
	out := make([]string, 0, len(alternates)+1)
	for _, c := range append([]string{req.Primary}, alternates...) {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
