package server

import (
	"context"
	"encoding/json"
	"fmt"

	slidedeck "github.com/alnah/go-slidedeck"
	"github.com/alnah/go-slidedeck/internal/assets"
	"github.com/alnah/go-slidedeck/internal/config"
	"github.com/alnah/go-slidedeck/internal/pipeline"
)

// bootData is embedded in the page for the client's first render.
type bootData struct {
	Resolution config.Resolution `json:"resolution"`
	WSPath     string            `json:"wsPath"`
	State      slidedeck.State   `json:"state"`
}

// renderPage writes resolved image sources into the deck page and injects
// the stylesheets, boot state and client script.
func (s *Server) renderPage(ctx context.Context, sess session) (string, error) {
	st := sess.p.State()

	sources := make(map[string]pipeline.ImageSource, len(st.Images))
	for key, res := range st.Images {
		if res.State == assets.StatePending {
			continue
		}
		sources[key] = pipeline.ImageSource{Source: res.Source, Placeholder: res.State == assets.StatePlaceholder}
	}
	page, err := pipeline.ApplyImageSources(sess.doc.Page, sources)
	if err != nil {
		return "", fmt.Errorf("apply image sources: %w", err)
	}

	boot, err := json.Marshal(bootData{
		Resolution: sess.p.Config().Presentation.Resolution,
		WSPath:     WSPath,
		State:      st,
	})
	if err != nil {
		return "", fmt.Errorf("encode boot state: %w", err)
	}

	var styles []string
	if s.opts.DeckStylesheet {
		styles = append(styles, StylePath)
	}
	styles = append(styles, ThemePath)

	return pipeline.InjectPage(ctx, page, pipeline.PageAssets{
		Stylesheets: styles,
		BootJSON:    boot,
		Scripts:     []string{ClientPath},
	}), nil
}
