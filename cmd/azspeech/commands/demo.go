package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gjwgit/azspeech2txt/pkg/cli"
	"github.com/gjwgit/azspeech2txt/pkg/speakerverify"
	"github.com/gjwgit/azspeech2txt/pkg/speechsdk"
)

var (
	demoPlayer string
	demoDir    string
)

// demoSamples are the three enrollment recordings followed by the target.
var demoSamples = []string{"audio.wav", "audio1.wav", "audio2.wav", "audio3.wav"}

var demoSampleTitles = []string{
	"The first sample audio...",
	"The second sample audio...",
	"The third sample audio...",
	"The fourth audio that needs to identify...",
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Interactive walkthrough of the speech services",
	Long: `Walk through speech to text, text to speech, speech translation and
speaker verification.

The demo uses the default microphone and speaker. The speaker verification
step plays audio.wav, audio1.wav, audio2.wav and audio3.wav from --dir with
--player, enrolls the first three and verifies the fourth.

When stdin is not a terminal the Enter prompts are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, ctx, err := getCredentials()
		if err != nil {
			return err
		}
		d := newDemo(cmd.Context(), os.Stdin, os.Stdout)

		d.banner("Speech Services", `Welcome to a demo of the pre-built models for Speech provided
through Azure's Cognitive Services. The Speech cloud service
supports speech to text, text to speech, speech translation and
Speaker Recognition capabilities.`)

		// Speech to text
		d.ask("Press Enter to continue")
		d.banner("Speech to Text", "Now say something, it will transcribe into text.")
		d.ask("Press Enter and then say something")

		conf := createSpeechConfig(creds, ctx, "")
		res, err := conf.RecognizeOnce(d.ctx, speechsdk.Microphone())
		if err != nil {
			return err
		}
		fmt.Fprintln(d.out, res.Render())
		if err := reportRecognitionError(res.Err()); err != nil {
			return err
		}

		// Text to speech
		d.ask("Press Enter to continue")
		d.banner("Text to Speech", "Now type text to be spoken. When Enter is pressed you will hear the result.")
		if text := d.readLine(); text != "" {
			if err := conf.Synthesize(d.ctx, text, speechsdk.Speaker()); err != nil {
				return err
			}
		}

		// Speech translation
		d.ask("Press Enter to continue")
		d.banner("Speech Translation", `This part is to translate English to other language. Now please speak English.
This speech service will translate it to French.`)
		d.ask("Press Enter and then speak English")
		if err := d.translate(creds, ctx, "en-US", "fr"); err != nil {
			return err
		}

		// Speaker verification
		d.ask("Press Enter to continue")
		d.banner("Speaker Recognition", `This part is the act of confirming that a speaker matches a enrolled voice.
Now you will hear four audios. The first three will be the sample audios,
and the fourth one will be the audio that needs to compare against them.`)
		d.ask("Press Enter to continue")

		paths := make([]string, len(demoSamples))
		for i, name := range demoSamples {
			paths[i] = filepath.Join(demoDir, name)
			d.banner(demoSampleTitles[i], "")
			d.play(paths[i])
		}

		d.banner("Get the result", `Now, we will insert the first three examples into our recognition system,
and use these samples to verify the fourth audio by its unique voice
characteristics.`)
		d.ask("Press Enter to continue")

		verifier := speakerverify.New(createClient(creds, ctx).Verification, creds.Region)
		enrollment := []speakerverify.Sample{
			speakerverify.SampleFile(paths[0]),
			speakerverify.SampleFile(paths[1]),
			speakerverify.SampleFile(paths[2]),
		}
		result, err := verifier.VerifySpeaker(d.ctx, enrollment, speakerverify.SampleFile(paths[3]))
		if err != nil {
			return err
		}
		fmt.Fprintln(d.out, speakerverify.Render(result, true))
		return nil
	},
}

// demo holds the terminal state of one walkthrough.
type demo struct {
	ctx         context.Context
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	width       int
	styles      cli.Styles
}

func newDemo(ctx context.Context, in *os.File, out io.Writer) *demo {
	d := &demo{
		ctx:         ctx,
		in:          bufio.NewReader(in),
		out:         out,
		interactive: term.IsTerminal(int(in.Fd())),
		styles:      cli.NewStyles(cli.DefaultTheme),
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		d.width = min(w, 80)
	}
	return d
}

func (d *demo) banner(title, body string) {
	b := cli.Banner{Styles: d.styles, Title: title, Body: body}
	fmt.Fprintln(d.out, b.Render(d.width))
}

// ask waits for Enter on an interactive terminal.
func (d *demo) ask(prompt string) {
	if !d.interactive {
		return
	}
	fmt.Fprint(d.out, d.styles.Hint(prompt+": "))
	_, _ = d.in.ReadString('\n')
}

func (d *demo) readLine() string {
	line, err := d.in.ReadString('\n')
	if err != nil && err != io.EOF {
		slog.Warn("demo: read input", "error", err)
	}
	return strings.TrimSpace(line)
}

// play runs the external player, ignoring its output. A missing player or
// sample only costs the listener the audio.
func (d *demo) play(path string) {
	printInfo("Playing %s", path)
	cmd := exec.CommandContext(d.ctx, demoPlayer, path)
	if err := cmd.Run(); err != nil {
		slog.Warn("demo: play sample", "player", demoPlayer, "path", path, "error", err)
	}
}

func (d *demo) translate(creds cli.Credentials, ctx *cli.Context, from string, to ...string) error {
	st, err := translateSpeech(d.ctx, creds, ctx, speechsdk.Microphone(), from, to)
	if err != nil || st == nil {
		return err
	}
	st.print(d.out)
	return nil
}

func init() {
	demoCmd.Flags().StringVar(&demoPlayer, "player", "aplay", "command used to play the WAV samples")
	demoCmd.Flags().StringVar(&demoDir, "dir", ".", "directory holding the sample recordings")
}
