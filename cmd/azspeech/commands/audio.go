package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gjwgit/azspeech2txt/pkg/audio/resampler"
	"github.com/gjwgit/azspeech2txt/pkg/audio/wav"
	"github.com/gjwgit/azspeech2txt/pkg/cli"
)

// AudioInfo describes a WAV file.
type AudioInfo struct {
	File       string  `json:"file" yaml:"file"`
	SampleRate int     `json:"sampleRate" yaml:"sample_rate"`
	Channels   int     `json:"channels" yaml:"channels"`
	BitDepth   int     `json:"bitDepth" yaml:"bit_depth"`
	Duration   float64 `json:"duration" yaml:"duration"`
	Bytes      int     `json:"bytes" yaml:"bytes"`

	// Verifiable reports whether the file meets the speaker verification
	// constraint (16 kHz 16-bit mono).
	Verifiable bool `json:"verifiable" yaml:"verifiable"`
}

var (
	convertRate     int
	convertChannels int
)

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Inspect and convert WAV samples",
	Long: `Inspect and convert WAV samples.

Speaker verification requires 16 kHz 16-bit mono PCM WAV files. These
commands check a recording and convert it when needed.`,
}

var audioInfoCmd = &cobra.Command{
	Use:   "info <file.wav>...",
	Short: "Show the format of WAV files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := make([]*AudioInfo, 0, len(args))
		for _, path := range args {
			clip, err := wav.DecodeFile(path)
			if err != nil {
				return err
			}
			info := &AudioInfo{
				File:       path,
				SampleRate: clip.SampleRate,
				Channels:   clip.Channels,
				BitDepth:   clip.BitDepth,
				Duration:   clip.Duration().Seconds(),
				Bytes:      len(clip.PCM),
				Verifiable: clip.Require(16000, 1, 16) == nil,
			}
			infos = append(infos, info)

			if !isStructuredOutput() {
				ready := "no (run 'azspeech audio convert')"
				if info.Verifiable {
					ready = "yes"
				}
				fmt.Printf("%s\n", path)
				fmt.Printf("  Sample rate:  %s\n", cli.FormatSampleRate(clip.SampleRate))
				fmt.Printf("  Channels:     %d\n", clip.Channels)
				fmt.Printf("  Bit depth:    %d\n", clip.BitDepth)
				fmt.Printf("  Duration:     %s\n", cli.FormatDuration(clip.Duration()))
				fmt.Printf("  PCM size:     %s\n", cli.FormatBytes(int64(len(clip.PCM))))
				fmt.Printf("  Verifiable:   %s\n", ready)
			}
		}

		if isStructuredOutput() {
			if len(infos) == 1 {
				return outputResult(infos[0])
			}
			return outputResult(infos)
		}
		return nil
	},
}

var audioConvertCmd = &cobra.Command{
	Use:   "convert <in.wav>",
	Short: "Convert a 16-bit WAV file to another rate or channel count",
	Long: `Convert a 16-bit PCM WAV file to another sample rate or channel count.

The defaults produce the 16 kHz mono format speaker verification expects.

Examples:
  azspeech audio convert recording.wav -o sample.wav
  azspeech audio convert sample.wav -o sample48k.wav --rate 48000 --channels 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputFile()
		if out == "" {
			return fmt.Errorf("output file is required, use -o flag")
		}
		if abs(out) == abs(args[0]) {
			return fmt.Errorf("output file must differ from the input file")
		}

		clip, err := wav.DecodeFile(args[0])
		if err != nil {
			return err
		}
		if clip.BitDepth != 16 {
			return fmt.Errorf("%s: only 16-bit PCM can be converted, got %d-bit", args[0], clip.BitDepth)
		}

		src := resampler.Format{SampleRate: clip.SampleRate, Channels: clip.Channels}
		dst := resampler.Format{SampleRate: convertRate, Channels: convertChannels}
		printVerbose("Converting %s -> %s", src, dst)

		data, err := resampler.Convert(clip.PCM, src, dst)
		if err != nil {
			return fmt.Errorf("convert %s: %w", args[0], err)
		}

		converted := &wav.Clip{
			SampleRate: dst.SampleRate,
			Channels:   dst.Channels,
			BitDepth:   16,
			PCM:        data,
		}
		if err := wav.EncodeFile(out, converted); err != nil {
			return err
		}

		printSuccess("Wrote %s (%s, %d channel(s), %s)", out,
			cli.FormatSampleRate(converted.SampleRate), converted.Channels, cli.FormatDuration(converted.Duration()))
		return nil
	},
}

func abs(path string) string {
	if p, err := filepath.Abs(path); err == nil {
		return p
	}
	return path
}

func init() {
	audioConvertCmd.Flags().IntVar(&convertRate, "rate", 16000, "target sample rate")
	audioConvertCmd.Flags().IntVar(&convertChannels, "channels", 1, "target channel count (1 or 2)")

	audioCmd.AddCommand(audioInfoCmd)
	audioCmd.AddCommand(audioConvertCmd)
}
