package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gjwgit/azspeech2txt/pkg/cli"
)

const appName = "azspeech"

var (
	// Global flags
	cfgFile     string
	contextName string
	outputFile  string
	outputJSON  bool
	queryExpr   string
	verbose     bool
	privateFile string
	keyFlag     string
	regionFlag  string

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "azspeech",
	Short: "Azure Speech Services CLI tool",
	Long: `azspeech - A command line interface for Azure Speech Services.

This tool covers:
  - Speech to text (transcribe)
  - Text to speech (synthesize)
  - Speech translation (translate)
  - Speaker verification (verify, phrases)

Credentials are read from --key/--region, AZURE_SPEECH_KEY/AZURE_SPEECH_REGION,
./private.txt ("key,region"), ~/.mlhub/azspeech/private.txt, or a context
stored in ~/.mlhub/azspeech/config.yaml. A context named with -c takes
precedence over the environment and private.txt.

Examples:
  # Store a resource as a context
  azspeech config add-context lab --key YOUR_KEY --region westus

  # Transcribe a WAV file
  azspeech transcribe -i meeting.wav

  # Verify a speaker
  azspeech verify -f s1.wav -f s2.wav -f s3.wav -v target.wav --long
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger()
	},
}

// ErrReported is returned by commands that already printed their failure.
var ErrReported = errors.New("error already reported")

// Execute adds all child commands to the root command and sets flags appropriately.
// Ctrl-C cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.mlhub/azspeech/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().StringVar(&queryExpr, "query", "", "jq expression applied to structured output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&privateFile, "private", "", "credential file (default is ./private.txt)")
	rootCmd.PersistentFlags().StringVar(&keyFlag, "key", "", "subscription key")
	rootCmd.PersistentFlags().StringVar(&regionFlag, "region", "", "resource region (e.g. westus)")

	// Add subcommands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(synthesizeCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(phrasesCmd)
	rootCmd.AddCommand(audioCmd)
	rootCmd.AddCommand(demoCmd)
}

func initConfig() {
	var err error
	globalConfig, err = cli.LoadConfigWithPath(appName, cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}

// initLogger routes slog through a charmbracelet logger on stderr.
func initLogger() {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
		Prefix:          appName,
	})
	slog.SetDefault(slog.New(logger))
}

// getConfig returns the global configuration
func getConfig() *cli.Config {
	return globalConfig
}

// getContext returns the selected context. Without -c and without a current
// context it returns nil and no error, since credentials may come from
// elsewhere.
func getContext() (*cli.Context, error) {
	cfg := getConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	if contextName == "" && cfg.CurrentContext == "" {
		return nil, nil
	}
	return cfg.ResolveContext(contextName)
}

// getCredentials resolves the subscription key and region for this invocation.
func getCredentials() (cli.Credentials, *cli.Context, error) {
	ctx, err := getContext()
	if err != nil {
		return cli.Credentials{}, nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return cli.Credentials{}, nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	src := cli.CredentialSources{
		Explicit:     cli.Credentials{Key: keyFlag, Region: regionFlag},
		Dir:          wd,
		PrivateFile:  privateFile,
		Context:      ctx,
		ContextNamed: contextName != "",
	}
	if paths, err := cli.NewPaths(appName); err == nil {
		src.AppPrivateFile = paths.PrivateFile()
	}
	creds, err := cli.ResolveCredentials(src)
	if err != nil {
		return cli.Credentials{}, nil, err
	}
	printVerbose("Using credentials %s from %s", creds, creds.Source)
	return creds, ctx, nil
}

// getOutputFile returns the output file path
func getOutputFile() string {
	return outputFile
}

// outputFlags collects the global output flags.
func outputFlags() cli.OutputFlags {
	return cli.OutputFlags{JSON: outputJSON, Query: queryExpr, File: getOutputFile()}
}

// outputResult prints a structured result, honoring --json, --query and -o.
func outputResult(result any) error {
	return cli.Output(result, outputFlags().Options())
}

// isStructuredOutput reports whether the user asked for machine-readable output.
func isStructuredOutput() bool {
	return outputFlags().Structured()
}

// printVerbose prints verbose output if enabled
func printVerbose(format string, args ...any) {
	cli.PrintVerbose(verbose, format, args...)
}
