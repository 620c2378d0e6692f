//go:build headless

package main

import "github.com/voiceband/softmodem/internal/audio"

// newBackends always returns nil backends in a headless build, which has
// no oto/malgo dependency compiled in at all; the engine drives its
// internal loopback ring instead.
func newBackends(headless bool, sampleRate int) (audio.PlaybackBackend, audio.CaptureBackend) {
	return nil, nil
}
