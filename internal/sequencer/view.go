package sequencer

// View is the UI-sync projection of the sequencer: everything a renderer
// needs to draw counters, the progress bar, the arrows and the address bar.
type View struct {
	Index           int     `json:"index"`
	Count           int     `json:"count"`
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Progress        float64 `json:"progress"`        // (index+1)/count
	ProgressPercent float64 `json:"progressPercent"` // 100*(index+1)/count
	PrevEnabled     bool    `json:"prevEnabled"`
	NextEnabled     bool    `json:"nextEnabled"`
	Fragment        string  `json:"fragment"` // "#<id>", replaces the current history entry
	Transitioning   bool    `json:"transitioning"`
}

// View returns the current UI-sync state.
func (s *Sequencer) View() View {
	sl, _ := s.deck.Slide(s.index)
	n := s.deck.Len()
	return View{
		Index:           s.index,
		Count:           n,
		ID:              sl.ID,
		Title:           s.TitleOf(s.index),
		Progress:        Fraction(s.index, n),
		ProgressPercent: Percent(s.index, n),
		PrevEnabled:     s.index > 0,
		NextEnabled:     s.index < n-1,
		Fragment:        "#" + sl.ID,
		Transitioning:   s.transitioning,
	}
}

// Fraction returns (index+1)/count.
func Fraction(index, count int) float64 {
	if count <= 0 {
		return 0
	}
	return float64(index+1) / float64(count)
}

// Percent returns 100*(index+1)/count, computed so that exact ratios such
// as 3/5 yield exactly 60.
func Percent(index, count int) float64 {
	if count <= 0 {
		return 0
	}
	return float64(100*(index+1)) / float64(count)
}
