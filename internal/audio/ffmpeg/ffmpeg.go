// Package ffmpeg shells out to the ffmpeg binary to compress recordings
// before upload. Whisper accepts raw WAV, but an Opus-in-OGG payload is an
// order of magnitude smaller.
package ffmpeg

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
)

// ToOpusOGG converts inPath into an Opus stream in an OGG container at
// outPath. bitRate is in kbps.
func ToOpusOGG(inPath, outPath string, channels, sampleRate, bitRate int) error {
	if channels <= 0 {
		channels = 1
	}
	if bitRate <= 0 {
		bitRate = 32
	}

	args := []string{
		"-y",
		"-i", inPath,
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(sampleRate),
		"-c:a", "libopus",
		"-b:a", fmt.Sprintf("%dk", bitRate),
		outPath,
	}

	cmd := exec.Command("ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %v\n%s", err, stderr.String())
	}
	return nil
}
