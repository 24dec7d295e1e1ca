package record

import (
	"github.com/gordonklaus/portaudio"
)

// Initialize prepares the PortAudio host API. Call once at process start.
func Initialize() error {
	return portaudio.Initialize()
}

// Terminate releases the PortAudio host API.
func Terminate() error {
	return portaudio.Terminate()
}

func openPortAudioStream(channels, sampleRate, framesPerChunk int, onChunk func([]int16, Status)) (Stream, error) {
	cb := func(in []int16, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
		onChunk(in, Status{InputOverflow: flags&portaudio.InputOverflow != 0})
	}
	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(sampleRate), framesPerChunk, cb)
	if err != nil {
		return nil, err
	}
	return stream, nil
}
