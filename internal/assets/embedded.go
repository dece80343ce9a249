package assets

import (
	"embed"
	"fmt"
	"path"
)

//go:embed web/styles/* web/scripts/* web/templates/*
var web embed.FS

// EmbeddedLoader loads assets from embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.read(assetKindStyles, name, styleExtension, ErrStyleNotFound)
}

// LoadScript loads a client script from embedded assets by name.
func (e *EmbeddedLoader) LoadScript(name string) (string, error) {
	return e.read(assetKindScripts, name, scriptExtension, ErrScriptNotFound)
}

// LoadTemplate loads an HTML template from embedded assets by name.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.read(assetKindTemplates, name, templateExtension, ErrTemplateNotFound)
}

func (e *EmbeddedLoader) read(kind, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := web.ReadFile(path.Join(embeddedRootDirname, kind, name+ext))
	if err != nil {
		return "", fmt.Errorf("%w: %q", notFound, name)
	}

	return string(content), nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
