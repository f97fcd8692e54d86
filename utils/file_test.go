package utils

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "demo.mp3", "demo.mp3"},
		{"spaces and case", "My First Track.MP3", "my-first-track.mp3"},
		{"path-ish characters", "../..//sneaky track.wav", "sneaky-track.wav"},
		{"unicode", "Tschüß Lärm.flac", "tschuss-larm.flac"},
		{"empty base", "....mp3", "file.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Fatalf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestObjectKeyShape(t *testing.T) {
	key := ObjectKey(KeyPrefixAudio, "My Track.mp3")

	if !strings.HasPrefix(key, "audio/my-track-") {
		t.Fatalf("key = %q, want audio/my-track-<unix>-<rand>.mp3 shape", key)
	}
	if !strings.HasSuffix(key, ".mp3") {
		t.Fatalf("key = %q, extension lost", key)
	}

	// Same filename twice must not collide.
	if other := ObjectKey(KeyPrefixAudio, "My Track.mp3"); other == key {
		t.Fatalf("two keys for the same filename collided: %q", key)
	}
}
