package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/gjwgit/azspeech2txt/pkg/audio/pcm"
)

// wavePCM is the WAVE_FORMAT_PCM format tag.
const wavePCM = 1

var (
	// ErrNotWAV is returned for input that is not a RIFF/WAVE container.
	ErrNotWAV = errors.New("wav: not a WAV file")

	// ErrNotPCM is returned for WAV files whose samples are not integer PCM.
	ErrNotPCM = errors.New("wav: not integer PCM")

	// ErrFormat is returned by Clip.Require on a sample format mismatch.
	ErrFormat = errors.New("wav: unsupported sample format")
)

// Clip is a decoded WAV file. PCM holds the interleaved little-endian sample
// bytes of the data chunk.
type Clip struct {
	SampleRate int
	Channels   int
	BitDepth   int
	PCM        []byte
}

// FrameSize returns the number of bytes per interleaved frame.
func (c *Clip) FrameSize() int {
	return c.Channels * c.BitDepth / 8
}

// Frames returns the number of frames in the clip.
func (c *Clip) Frames() int {
	if fs := c.FrameSize(); fs > 0 {
		return len(c.PCM) / fs
	}
	return 0
}

// Duration returns the play time of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.SampleRate)
}

// Format returns the matching pcm.Format, if the clip is 16-bit mono at a
// known rate.
func (c *Clip) Format() (pcm.Format, bool) {
	return pcm.Lookup(c.SampleRate, c.Channels, c.BitDepth)
}

// Require checks the clip against the wanted sample rate, channel count and
// bit depth. A zero value skips that check.
func (c *Clip) Require(sampleRate, channels, depth int) error {
	switch {
	case sampleRate != 0 && c.SampleRate != sampleRate:
		return fmt.Errorf("%w: sample rate is %d Hz, want %d Hz", ErrFormat, c.SampleRate, sampleRate)
	case channels != 0 && c.Channels != channels:
		return fmt.Errorf("%w: %d channel(s), want %d", ErrFormat, c.Channels, channels)
	case depth != 0 && c.BitDepth != depth:
		return fmt.Errorf("%w: %d-bit samples, want %d-bit", ErrFormat, c.BitDepth, depth)
	}
	return nil
}

// DecodeFile reads and decodes the WAV file at path. Errors opening the file
// wrap the underlying *fs.PathError, so os.IsNotExist style checks work
// through errors.Is(err, fs.ErrNotExist).
func DecodeFile(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	clip, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return clip, nil
}

// Decode reads a complete WAV file from r.
func Decode(r io.Reader) (*Clip, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes an in-memory WAV file.
func DecodeBytes(data []byte) (*Clip, error) {
	if mt := mimetype.Detect(data); !mt.Is("audio/wav") {
		return nil, fmt.Errorf("%w (detected %s)", ErrNotWAV, mt.String())
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, ErrNotWAV
	}
	if dec.WavAudioFormat != wavePCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrNotPCM, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: read samples: %w", err)
	}

	clip := &Clip{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}
	clip.PCM, err = packSamples(buf.Data, clip.BitDepth)
	if err != nil {
		return nil, err
	}
	return clip, nil
}

// EncodeFile writes clip to path as a PCM WAV file.
func EncodeFile(path string, clip *Clip) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, clip); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes clip as a canonical PCM WAV file. The encoder patches the
// RIFF sizes after the data is written, hence the io.WriteSeeker.
func Encode(w io.WriteSeeker, clip *Clip) error {
	samples, err := unpackSamples(clip.PCM, clip.BitDepth)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(w, clip.SampleRate, clip.BitDepth, clip.Channels, wavePCM)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: clip.Channels,
			SampleRate:  clip.SampleRate,
		},
		Data:           samples,
		SourceBitDepth: clip.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav: write samples: %w", err)
	}
	return enc.Close()
}

// packSamples converts decoded sample values back to little-endian bytes.
func packSamples(samples []int, depth int) ([]byte, error) {
	switch depth {
	case 8:
		out := make([]byte, len(samples))
		for i, s := range samples {
			out[i] = byte(s)
		}
		return out, nil
	case 16:
		out := make([]byte, len(samples)*2)
		for i, s := range samples {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(s)))
		}
		return out, nil
	case 24:
		out := make([]byte, len(samples)*3)
		for i, s := range samples {
			v := uint32(int32(s))
			out[i*3] = byte(v)
			out[i*3+1] = byte(v >> 8)
			out[i*3+2] = byte(v >> 16)
		}
		return out, nil
	case 32:
		out := make([]byte, len(samples)*4)
		for i, s := range samples {
			binary.LittleEndian.PutUint32(out[i*4:], uint32(int32(s)))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %d-bit samples", ErrNotPCM, depth)
}

func unpackSamples(data []byte, depth int) ([]int, error) {
	switch depth {
	case 8:
		out := make([]int, len(data))
		for i, b := range data {
			out[i] = int(b)
		}
		return out, nil
	case 16:
		out := make([]int, len(data)/2)
		for i := range out {
			out[i] = int(int16(binary.LittleEndian.Uint16(data[i*2:])))
		}
		return out, nil
	case 24:
		out := make([]int, len(data)/3)
		for i := range out {
			v := int32(data[i*3]) | int32(data[i*3+1])<<8 | int32(data[i*3+2])<<16
			out[i] = int(v<<8) >> 8
		}
		return out, nil
	case 32:
		out := make([]int, len(data)/4)
		for i := range out {
			out[i] = int(int32(binary.LittleEndian.Uint32(data[i*4:])))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %d-bit samples", ErrNotPCM, depth)
}
