// Package process tears down browser process trees that outlive their
// launcher, such as renderer and GPU helpers left by a kiosk window.
package process
