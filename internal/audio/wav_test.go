package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
)

func TestWriteWAVRoundTrip(t *testing.T) {
	samples := make([]int16, 3072)
	for i := range samples {
		samples[i] = int16(i % 512)
	}

	path := filepath.Join(t.TempDir(), "capture.wav")
	require.NoError(t, WriteWAV(path, samples, 16000, 1))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	require.Len(t, buf.Data, len(samples))
	require.Equal(t, 16000, buf.Format.SampleRate)
	require.Equal(t, 1, buf.Format.NumChannels)
	for i, want := range samples {
		if buf.Data[i] != int(want) {
			t.Fatalf("sample %d: got %d, want %d", i, buf.Data[i], want)
		}
	}
}
