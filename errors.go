package slidedeck

import "errors"

// Sentinel errors for library operations.
var (
	ErrClosed = errors.New("presentation closed")

	// Deck loading errors.
	ErrDeckRead        = errors.New("failed to read deck")
	ErrUnsupportedDeck = errors.New("unsupported deck format")
	ErrDeckRender      = errors.New("failed to render deck")

	// Image modal errors.
	ErrImageModalDisabled = errors.New("image modal disabled")
	ErrUnknownImage       = errors.New("unknown image")
	ErrImageNotExpandable = errors.New("image is not expandable")
	ErrImageUnavailable   = errors.New("image has no loaded source")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrScriptNotFound   = errors.New("script not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
