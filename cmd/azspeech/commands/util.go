package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gjwgit/azspeech2txt/pkg/azspeech"
	"github.com/gjwgit/azspeech2txt/pkg/cli"
	"github.com/gjwgit/azspeech2txt/pkg/speakerverify"
	"github.com/gjwgit/azspeech2txt/pkg/speechsdk"
)

// loadRequest loads a request from a YAML or JSON file
func loadRequest(path string, v any) error {
	return cli.LoadRequest(path, v)
}

// printSuccess prints a success message
func printSuccess(format string, args ...any) {
	cli.PrintSuccess(format, args...)
}

// printInfo prints an info message
func printInfo(format string, args ...any) {
	cli.PrintInfo(format, args...)
}

// printWarning prints a warning message
func printWarning(format string, args ...any) {
	cli.PrintWarning(format, args...)
}

// warnVerificationRegion flags regions without the speaker verification API.
func warnVerificationRegion(region string) {
	if region != speakerverify.SupportedRegion {
		printWarning("Region %q does not offer speaker verification; 'azspeech verify' needs %q", region, speakerverify.SupportedRegion)
	}
}

// createClient creates a Speech REST client from resolved credentials and
// the optional context settings.
func createClient(creds cli.Credentials, ctx *cli.Context) *azspeech.Client {
	opts := []azspeech.Option{
		azspeech.WithRegion(creds.Region),
		azspeech.WithLogger(slog.Default()),
	}
	if ctx != nil {
		if ctx.Endpoint != "" {
			opts = append(opts, azspeech.WithEndpoint(ctx.Endpoint))
		}
		if ctx.TranslatorEndpoint != "" {
			opts = append(opts, azspeech.WithTranslatorEndpoint(ctx.TranslatorEndpoint))
		}
		if ctx.Timeout > 0 {
			opts = append(opts, azspeech.WithTimeout(time.Duration(ctx.Timeout)*time.Second))
		}
		if ctx.MaxRetries > 0 {
			opts = append(opts, azspeech.WithRetry(ctx.MaxRetries))
		}
	}
	return azspeech.NewClient(creds.Key, opts...)
}

// createSpeechConfig creates a Speech SDK config. An empty language falls
// back to the context's default.
func createSpeechConfig(creds cli.Credentials, ctx *cli.Context, language string) *speechsdk.Config {
	conf := speechsdk.NewConfig(creds.Key, creds.Region)
	conf.Logger = slog.Default()
	conf.Language = language
	if ctx != nil {
		if conf.Language == "" {
			conf.Language = ctx.Language
		}
		conf.Voice = ctx.Voice
	}
	return conf
}

// readText joins args, or reads stdin when there are none.
func readText(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// splitList splits a comma separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
