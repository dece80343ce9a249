// Package assets resolves deck images and loads the web assets served with
// a deck.
//
// # Image Resolution
//
// Every declared image is probed out of band before its source is handed to
// the page:
//
//	Resolver.Resolve
//	    │
//	    ├── primary source
//	    ├── alternates (explicit, or extension variants of the primary)
//	    └── placeholder (generated SVG data URI, never fails)
//
// A Prober decides whether a candidate loads. FileProber decodes image
// headers from the deck directory, HTTPProber checks remote sources, and
// RoutingProber picks between them. Each probe runs under a timeout, so a
// resolution always terminates.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── LayeredLoader     - combines both with custom-first fallback
//
// LayeredLoader tries the custom directory first and falls back to the
// embedded copy only when the asset is not found there. Validation and I/O
// errors are returned as-is.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── deck.css        # deck stylesheet
//	├── scripts/
//	│   └── client.js       # browser client
//	└── templates/
//	    └── deck.html       # page template for Markdown decks
//
// # Security
//
// Asset names and image keys are validated. FilesystemLoader and FileProber
// resolve symlinks and verify paths stay within their base directory.
package assets
