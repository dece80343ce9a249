// Package slidedeck drives a pre-authored slide deck from one authoritative
// controller.
//
// # Quick Start
//
// Load a deck, create a presentation, and close it when done:
//
//	loader, err := slidedeck.NewDeckLoader(nil, cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := loader.Load(ctx, "deck.html")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	prober, _ := assets.NewFileProber(doc.Dir)
//	p, err := slidedeck.NewPresentation(doc.Deck,
//	    slidedeck.WithConfig(cfg),
//	    slidedeck.WithProber(prober),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	go p.ResolveImages(ctx)
//	p.HandleKey("ArrowRight")
//
// # Event Loop
//
// A Presentation owns a single goroutine. Navigation, input gating,
// autoplay ticks, transition steps and image results all run on it in
// order, so the slide index is never observed mid-update and at most one
// transition is in flight. Exported methods post work to that goroutine
// and wait for it.
//
// # State and Events
//
// State returns a snapshot with everything a client renders: the current
// slide, counters, slide classes, overlays, autoplay and image sources.
// Subscribe delivers every domain event with the snapshot taken right
// after it.
//
// # Images
//
// ResolveImages probes every declared image through the configured Prober:
// the authored source first, then its alternates or extension-case
// variants. Images that cannot be loaded get a generated SVG placeholder.
// Resolution never fails and never leaves an image pending.
//
// # Configuration
//
// Use functional options to customize a presentation:
//
//	p, err := slidedeck.NewPresentation(d,
//	    slidedeck.WithConfig(cfg),
//	    slidedeck.WithLogger(logger),
//	    slidedeck.WithInitialFragment("#pricing"),
//	    slidedeck.WithProbeTimeout(2*time.Second),
//	)
package slidedeck
