//go:build headless

package audio

func newOtoSink(sampleRate, channels int, source SampleSource) (Sink, error) {
	return nil, ErrNoOutputDevice
}

func newEbitenSink(sampleRate int, source SampleSource) (Sink, error) {
	return nil, ErrNoOutputDevice
}
