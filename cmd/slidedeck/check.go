package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-slidedeck/internal/assets"
	"github.com/alnah/go-slidedeck/internal/config"
	"github.com/alnah/go-slidedeck/internal/logging"
)

// ErrMissingImages is returned by check --strict when an image fell back to
// its placeholder.
var ErrMissingImages = errors.New("images fell back to placeholders")

// checkReport is the outcome of checking a deck.
type checkReport struct {
	Deck    string              `json:"deck"`
	Variant string              `json:"variant"`
	Locale  string              `json:"locale"`
	Slides  []checkSlide        `json:"slides"`
	Images  []assets.Resolution `json:"images"`
	Missing int                 `json:"missing"`
}

// checkSlide is one slide of the report.
type checkSlide struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Images int    `json:"images"`
}

// runCheck validates the config strictly, loads the deck and resolves every
// image without serving anything.
func runCheck(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseCheckFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: usage: slidedeck check <deck> [flags]", ErrNoInput)
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	level := f.common.resolveLogLevel(envCfg)
	if level == "" {
		level = "warn"
	}
	log, err := logging.New(level, firstNonEmpty(f.common.logFormat, envCfg.LogFormat))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	b := &builder{
		deckPath:     positional[0],
		configSource: firstNonEmpty(f.common.config, envCfg.ConfigPath),
		strict:       true,
		env:          envCfg,
		override: func(cfg *config.Config) {
			f.common.applyFlags(cfg)
			f.assets.applyFlags(cfg)
		},
		client: env.HTTPClient,
		log:    log,
	}

	bt, err := b.build(ctx, "")
	if err != nil {
		return err
	}
	defer func() { _ = bt.p.Close() }()

	results, err := bt.p.ResolveImages(ctx)
	if err != nil {
		return err
	}

	report := buildReport(bt, results)
	if f.jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else if !f.common.quiet {
		printCheckReport(env.Stdout, report)
	}

	if f.strict && report.Missing > 0 {
		return fmt.Errorf("%w: %d of %d", ErrMissingImages, report.Missing, len(report.Images))
	}
	return nil
}

func buildReport(bt *built, results []assets.Resolution) *checkReport {
	d := bt.doc.Deck
	r := &checkReport{
		Deck:    bt.doc.Path,
		Variant: bt.cfg.Features().Variant,
		Locale:  bt.loc.Language(),
		Images:  results,
	}

	perSlide := make(map[string]int)
	for _, ref := range d.Images() {
		perSlide[ref.SlideID]++
	}
	state := bt.p.State()
	for _, s := range state.Slides {
		r.Slides = append(r.Slides, checkSlide{ID: s.ID, Title: s.Title, Images: perSlide[s.ID]})
	}
	for _, res := range results {
		if !res.Loaded() {
			r.Missing++
		}
	}
	return r
}

// printCheckReport outputs a human-readable report.
func printCheckReport(w io.Writer, r *checkReport) {
	fmt.Fprintf(w, "slidedeck check %s\n", r.Deck)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Slides (%d, variant %s, locale %s)\n", len(r.Slides), r.Variant, r.Locale)
	for i, s := range r.Slides {
		fmt.Fprintf(w, "  %2d. %-20s %s", i+1, s.ID, s.Title)
		if s.Images > 0 {
			fmt.Fprintf(w, " [%d images]", s.Images)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	if len(r.Images) > 0 {
		fmt.Fprintln(w, "Images")
		for _, img := range r.Images {
			if img.Loaded() {
				fmt.Fprintf(w, "  [OK] %s: %s\n", img.Key, img.Source)
				continue
			}
			fmt.Fprintf(w, "  [WARN] %s: placeholder after %d attempts\n", img.Key, img.Attempts)
			for _, tried := range img.Tried {
				fmt.Fprintf(w, "         tried %s\n", tried)
			}
		}
		fmt.Fprintln(w)
	}

	if r.Missing > 0 {
		fmt.Fprintf(w, "Status: %d of %d images use placeholders\n", r.Missing, len(r.Images))
		return
	}
	fmt.Fprintln(w, "Status: Ready to present")
}
