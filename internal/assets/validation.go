package assets

import (
	"fmt"
	"strings"
)

// MaxImageKeyLength bounds image keys accepted from clients.
const MaxImageKeyLength = 128

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty or contains path separators,
// dots (which could allow extension manipulation), or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// ValidateImageKey checks an image key received over the wire before it is
// looked up or rendered into a placeholder.
func ValidateImageKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty image key", ErrInvalidAssetName)
	}
	if len(key) > MaxImageKeyLength {
		return fmt.Errorf("%w: image key exceeds %d characters", ErrInvalidAssetName, MaxImageKeyLength)
	}
	if strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, key)
	}
	return nil
}
