package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	slidedeck "github.com/alnah/go-slidedeck"
	"github.com/alnah/go-slidedeck/internal/assets"
	"github.com/alnah/go-slidedeck/internal/config"
	"github.com/alnah/go-slidedeck/internal/locale"
)

// builder loads the config and the deck and assembles a Presentation. Serve
// uses it once at startup and again on every reload.
type builder struct {
	deckPath string
	// configSource is the --config value, or the environment's.
	configSource string
	// strict fails on config errors instead of falling back to defaults.
	strict bool
	env    *envConfig
	// override applies CLI flags after the environment.
	override func(*config.Config)
	client   *http.Client
	log      *zap.Logger
}

// built is one assembled presentation with everything it was made from.
type built struct {
	p      *slidedeck.Presentation
	doc    *slidedeck.Document
	cfg    *config.Config
	loc    *locale.Localizer
	assets slidedeck.AssetLoader
}

// loadConfig reads the config document and layers the environment and the
// flags over it.
func (b *builder) loadConfig(ctx context.Context) (*config.Config, error) {
	var cfg *config.Config
	if b.strict {
		var err error
		cfg, err = config.Load(ctx, firstNonEmpty(b.configSource, config.DefaultName), true,
			config.WithHTTPClient(b.client))
		switch {
		case err == nil:
		case b.configSource == "" && errors.Is(err, config.ErrConfigNotFound):
			cfg = config.DefaultConfig()
		default:
			return nil, err
		}
	} else {
		cfg = config.LoadOrDefault(ctx, b.configSource, b.log, config.WithHTTPClient(b.client))
	}

	applyEnvConfig(b.env, cfg)
	if b.override != nil {
		b.override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("applying overrides: %w", err)
	}
	return cfg, nil
}

// build loads everything and starts a presentation on the slide named by
// fragment.
func (b *builder) build(ctx context.Context, fragment string) (*built, error) {
	cfg, err := b.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	loc := locale.New(cfg.Locale)

	loader, err := slidedeck.NewAssetLoader(cfg.Assets.BasePath)
	if err != nil {
		return nil, err
	}
	deckLoader, err := slidedeck.NewDeckLoader(loader, cfg, loc)
	if err != nil {
		return nil, err
	}
	doc, err := deckLoader.Load(ctx, b.deckPath)
	if err != nil {
		return nil, err
	}

	local, err := assets.NewFileProber(doc.Dir)
	if err != nil {
		return nil, err
	}
	remote, err := assets.NewHTTPProber("", b.client)
	if err != nil {
		return nil, err
	}

	p, err := slidedeck.NewPresentation(doc.Deck,
		slidedeck.WithConfig(cfg),
		slidedeck.WithLogger(b.log),
		slidedeck.WithLocalizer(loc),
		slidedeck.WithProber(assets.RoutingProber{Local: local, Remote: remote}),
		slidedeck.WithInitialFragment(fragment),
	)
	if err != nil {
		return nil, err
	}

	b.log.Info("deck loaded",
		zap.String("path", b.deckPath),
		zap.Int("slides", doc.Deck.Len()),
		zap.Int("images", len(doc.Deck.Images())),
		zap.String("start", p.CurrentID()))
	return &built{p: p, doc: doc, cfg: cfg, loc: loc, assets: loader}, nil
}
