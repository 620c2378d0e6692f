//go:build !headless

package main

import (
	"log"

	"github.com/voiceband/softmodem/internal/audio"
)

// newBackends opens the real playback/capture devices unless headless is
// set or the device fails to open, in which case the engine falls back to
// its internal loopback ring.
func newBackends(headless bool, sampleRate int) (audio.PlaybackBackend, audio.CaptureBackend) {
	if headless {
		return nil, nil
	}

	var playback audio.PlaybackBackend
	out, err := audio.NewOtoBackend(sampleRate)
	if err != nil {
		log.Printf("softmodem: playback device unavailable, using simulation ring: %v", err)
	} else {
		playback = out
	}

	var capture audio.CaptureBackend
	in, err := audio.NewMalgoBackend(sampleRate)
	if err != nil {
		log.Printf("softmodem: capture device unavailable, using simulation ring: %v", err)
	} else {
		capture = in
	}

	return playback, capture
}
