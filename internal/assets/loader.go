package assets

// AssetLoader defines the contract for loading the web assets served with
// a deck: stylesheets, client scripts and page templates.
// Implementations may load from embedded assets, filesystem, etc.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadScript loads a JavaScript file by name (without .js extension).
	// Returns ErrScriptNotFound if the script doesn't exist.
	LoadScript(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// Built-in asset names.
const (
	DefaultStyleName    = "deck"
	ClientScriptName    = "client"
	DeckTemplateName    = "deck"
	assetKindStyles     = "styles"
	assetKindScripts    = "scripts"
	assetKindTemplates  = "templates"
	styleExtension      = ".css"
	scriptExtension     = ".js"
	templateExtension   = ".html"
	embeddedRootDirname = "web"
)
