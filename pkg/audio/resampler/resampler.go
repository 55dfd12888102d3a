package resampler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	resampling "github.com/tphakala/go-audio-resampling"
)

// readFrames is the number of source frames pulled per refill.
const readFrames = 4096

// Stream reads 16-bit PCM from a source in one format and yields it in
// another. Channel counts are mixed down to mono by averaging, or spread from
// mono by duplication. Sample rate conversion uses a pure Go resampler.
type Stream struct {
	src    io.Reader
	srcFmt Format
	dstFmt Format

	resampler resampling.Resampler

	buf     []byte
	carry   int
	pending []byte
	srcErr  error

	mu       sync.Mutex
	closeErr error
}

// New returns a Stream converting src from srcFmt to dstFmt. Converting
// between two multi-channel layouts of different width is not supported.
func New(src io.Reader, srcFmt, dstFmt Format) (*Stream, error) {
	if err := srcFmt.validate(); err != nil {
		return nil, err
	}
	if err := dstFmt.validate(); err != nil {
		return nil, err
	}
	if srcFmt.Channels != dstFmt.Channels && srcFmt.Channels != 1 && dstFmt.Channels != 1 {
		return nil, fmt.Errorf("resampler: cannot map %d channels to %d", srcFmt.Channels, dstFmt.Channels)
	}

	s := &Stream{
		src:    src,
		srcFmt: srcFmt,
		dstFmt: dstFmt,
		buf:    make([]byte, readFrames*srcFmt.frameSize()),
	}

	if srcFmt.SampleRate != dstFmt.SampleRate {
		rs, err := resampling.New(&resampling.Config{
			InputRate:  float64(srcFmt.SampleRate),
			OutputRate: float64(dstFmt.SampleRate),
			Channels:   dstFmt.Channels,
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create resampler: %w", err)
		}
		s.resampler = rs
	}
	return s, nil
}

// Convert runs data through a Stream and returns the whole output.
func Convert(data []byte, srcFmt, dstFmt Format) ([]byte, error) {
	s, err := New(bytes.NewReader(data), srcFmt, dstFmt)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return io.ReadAll(s)
}

// Read fills p with converted frames. It is not safe for concurrent use.
func (s *Stream) Read(p []byte) (int, error) {
	fs := s.dstFmt.frameSize()
	if len(p) < fs {
		return 0, io.ErrShortBuffer
	}
	p = p[:len(p)/fs*fs]

	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.pending) == 0 {
		if s.closeErr != nil {
			return 0, s.closeErr
		}
		if s.srcErr != nil {
			return 0, s.srcErr
		}
		if err := s.refill(); err != nil {
			return 0, err
		}
	}

	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// refill reads the next block of source frames and appends their
// conversion to pending. A source error is kept and reported once pending
// has been drained.
func (s *Stream) refill() error {
	rn, err := s.src.Read(s.buf[s.carry:])
	avail := s.carry + rn

	srcFS := s.srcFmt.frameSize()
	whole := avail / srcFS * srcFS

	if whole > 0 {
		out, cerr := s.convert(s.buf[:whole])
		if cerr != nil {
			return cerr
		}
		s.pending = append(s.pending, out...)
	}
	s.carry = copy(s.buf, s.buf[whole:avail])

	if err != nil {
		if errors.Is(err, io.EOF) && s.carry != 0 {
			err = io.ErrUnexpectedEOF
		}
		s.srcErr = err
	}
	return nil
}

func (s *Stream) convert(frames []byte) ([]byte, error) {
	samples := remix(frames, s.srcFmt.Channels, s.dstFmt.Channels)
	if s.resampler == nil {
		return toBytes(samples), nil
	}

	input := make([]float64, len(samples))
	for i, v := range samples {
		input[i] = float64(v) / 32768.0
	}
	output, err := s.resampler.Process(input)
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}

	// Keep whole destination frames only.
	output = output[:len(output)/s.dstFmt.Channels*s.dstFmt.Channels]
	converted := make([]int16, len(output))
	for i, v := range output {
		converted[i] = clamp(v)
	}
	return toBytes(converted), nil
}

// Close releases the resampler. Subsequent reads return io.ErrClosedPipe.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closeErr == nil {
		s.closeErr = fmt.Errorf("resampler: %w", io.ErrClosedPipe)
	}
	s.resampler = nil
	s.pending = nil
	return nil
}

// remix decodes interleaved frames and maps them from srcCh to dstCh
// channels.
func remix(frames []byte, srcCh, dstCh int) []int16 {
	n := len(frames) / (srcCh * 2)
	out := make([]int16, n*dstCh)
	for i := range n {
		base := i * srcCh * 2
		switch {
		case srcCh == dstCh:
			for c := range srcCh {
				out[i*dstCh+c] = sampleAt(frames, base+c*2)
			}
		case dstCh == 1:
			var sum int32
			for c := range srcCh {
				sum += int32(sampleAt(frames, base+c*2))
			}
			out[i] = int16(sum / int32(srcCh))
		default:
			v := sampleAt(frames, base)
			for c := range dstCh {
				out[i*dstCh+c] = v
			}
		}
	}
	return out
}

func sampleAt(b []byte, off int) int16 {
	return int16(b[off]) | int16(b[off+1])<<8
}

func toBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, v := range samples {
		out[i*2] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}
	return out
}

func clamp(v float64) int16 {
	switch {
	case v >= 1.0:
		return 32767
	case v <= -1.0:
		return -32768
	}
	return int16(v * 32767.0)
}
