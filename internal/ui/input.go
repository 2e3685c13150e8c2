package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var (
	isKeyJustPressed = inpututil.IsKeyJustPressed
	isFullscreen     = ebiten.IsFullscreen
	setFullscreen    = ebiten.SetFullscreen
	setWindowTitle   = ebiten.SetWindowTitle
)

// SetInputForTest replaces the window and key functions during tests and
// returns a function to restore the originals.
func SetInputForTest(
	key func(ebiten.Key) bool,
	fullscreen func() bool,
	setFull func(bool),
	title func(string),
) func() {
	oldKey := isKeyJustPressed
	oldFull := isFullscreen
	oldSetFull := setFullscreen
	oldTitle := setWindowTitle
	isKeyJustPressed = key
	isFullscreen = fullscreen
	setFullscreen = setFull
	setWindowTitle = title
	return func() {
		isKeyJustPressed = oldKey
		isFullscreen = oldFull
		setFullscreen = oldSetFull
		setWindowTitle = oldTitle
	}
}
