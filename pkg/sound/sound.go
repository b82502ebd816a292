package sound

import (
	"fmt"
	"os"
	"time"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// bytesPerFrame is the size of a decoded frame: 16-bit stereo samples.
const bytesPerFrame = 4

// Duration returns the playing time of an MP3 file.
func Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("sound: couldn't open file: %w", err)
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, fmt.Errorf("sound: couldn't decode mp3: %w", err)
	}
	length := decoder.Length()
	if length <= 0 || decoder.SampleRate() <= 0 {
		return 0, fmt.Errorf("sound: unknown length for %s", path)
	}
	frames := length / bytesPerFrame
	return time.Duration(float64(frames) / float64(decoder.SampleRate()) * float64(time.Second)), nil
}
