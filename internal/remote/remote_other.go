//go:build !linux

package remote

import "context"

// Devices is not available on this platform.
func Devices() ([]Device, error) { return nil, ErrUnsupported }

// Clicker is not available on this platform.
type Clicker struct{}

// Open always fails on this platform.
func Open(string, ...Option) (*Clicker, error) { return nil, ErrUnsupported }

// Device returns the zero Device.
func (c *Clicker) Device() Device { return Device{} }

// Run always fails on this platform.
func (c *Clicker) Run(context.Context, func(string)) error { return ErrUnsupported }

// Close is a no-op.
func (c *Clicker) Close() error { return nil }
