package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gjwgit/azspeech2txt/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

Contexts hold a subscription key and the region of its Speech resource,
similar to kubectl's context management.

Configuration is stored in ~/.mlhub/azspeech/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context with the specified name.

Example:
  azspeech config add-context lab --key YOUR_KEY --region westus
  azspeech config add-context prod --key KEY --region eastus --language en-AU --voice en-AU-NatashaNeural`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		if keyFlag == "" || regionFlag == "" {
			return fmt.Errorf("--key and --region are required")
		}

		endpoint, err := cmd.Flags().GetString("endpoint")
		if err != nil {
			return fmt.Errorf("failed to read 'endpoint' flag: %w", err)
		}
		translatorEndpoint, err := cmd.Flags().GetString("translator-endpoint")
		if err != nil {
			return fmt.Errorf("failed to read 'translator-endpoint' flag: %w", err)
		}
		language, err := cmd.Flags().GetString("language")
		if err != nil {
			return fmt.Errorf("failed to read 'language' flag: %w", err)
		}
		voice, err := cmd.Flags().GetString("voice")
		if err != nil {
			return fmt.Errorf("failed to read 'voice' flag: %w", err)
		}
		timeout, err := cmd.Flags().GetInt("timeout")
		if err != nil {
			return fmt.Errorf("failed to read 'timeout' flag: %w", err)
		}
		maxRetries, err := cmd.Flags().GetInt("max-retries")
		if err != nil {
			return fmt.Errorf("failed to read 'max-retries' flag: %w", err)
		}

		ctx := &cli.Context{
			SubscriptionKey:    keyFlag,
			Region:             regionFlag,
			Endpoint:           endpoint,
			TranslatorEndpoint: translatorEndpoint,
			Language:           language,
			Voice:              voice,
			Timeout:            timeout,
			MaxRetries:         maxRetries,
		}

		cfg := getConfig()
		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}

		printSuccess("Context %q added successfully", name)
		warnVerificationRegion(ctx.Region)
		return nil
	},
}

var configImportPrivateCmd = &cobra.Command{
	Use:   "import-private <name> [private.txt]",
	Short: "Create a context from a private.txt file",
	Long: `Create a context from a private.txt credential file.

The file holds "key,region" on one line, or the key and the region on two
lines. It defaults to ./private.txt.

Example:
  azspeech config import-private lab
  azspeech config import-private lab ~/speech/private.txt`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cli.DefaultPrivateFile
		if len(args) == 2 {
			path = args[1]
		}
		creds, err := cli.LoadPrivate(path)
		if err != nil {
			return err
		}

		cfg := getConfig()
		ctx := &cli.Context{SubscriptionKey: creds.Key, Region: creds.Region}
		if err := cfg.AddContext(args[0], ctx); err != nil {
			return err
		}

		printSuccess("Context %q imported from %s", args[0], path)
		warnVerificationRegion(ctx.Region)
		return nil
	},
}

var configExportPrivateCmd = &cobra.Command{
	Use:   "export-private [private.txt]",
	Short: "Write the resolved credentials to a private.txt file",
	Long: `Write the resolved credentials to a private.txt file.

With --user the file is ~/.mlhub/azspeech/private.txt, which every
invocation falls back to when the working directory has none.

Example:
  azspeech -c lab config export-private
  azspeech -c lab config export-private --user`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cli.DefaultPrivateFile
		if len(args) == 1 {
			path = args[0]
		}
		if user, _ := cmd.Flags().GetBool("user"); user {
			paths, err := cli.NewPaths(appName)
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			path = paths.PrivateFile()
		}
		creds, _, err := getCredentials()
		if err != nil {
			return err
		}
		if err := cli.SavePrivate(path, creds); err != nil {
			return err
		}
		abs, _ := filepath.Abs(path)
		printSuccess("Credentials %s written to %s", creds, abs)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg := getConfig()
		if err := cfg.DeleteContext(name); err != nil {
			return err
		}

		printSuccess("Context %q deleted", name)
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg := getConfig()
		if err := cfg.UseContext(name); err != nil {
			return err
		}

		printSuccess("Switched to context %q", name)
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context",
	Short: "Display the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		if cfg.CurrentContext == "" {
			fmt.Println("No current context set")
			return nil
		}

		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"get-contexts"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		if len(cfg.Contexts) == 0 {
			fmt.Println("No contexts configured")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tREGION\tKEY\tLANGUAGE")
		for _, name := range cfg.ListContexts() {
			ctx := cfg.Contexts[name]
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			language := ctx.Language
			if language == "" {
				language = "(default)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", current, name, ctx.Region, cli.MaskAPIKey(ctx.SubscriptionKey), language)
		}

		w.Flush()
		return nil
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		fmt.Printf("Config file: %s\n", cfg.Path())
		fmt.Printf("Current context: %s\n", cfg.CurrentContext)
		fmt.Printf("Contexts: %d\n", len(cfg.Contexts))

		if len(cfg.Contexts) > 0 {
			fmt.Println("\nContext details:")
			for _, name := range cfg.ListContexts() {
				ctx := cfg.Contexts[name]
				fmt.Printf("\n  %s:\n", name)
				fmt.Printf("    Key: %s\n", cli.MaskAPIKey(ctx.SubscriptionKey))
				fmt.Printf("    Region: %s\n", ctx.Region)
				if ctx.Endpoint != "" {
					fmt.Printf("    Endpoint: %s\n", ctx.Endpoint)
				}
				if ctx.TranslatorEndpoint != "" {
					fmt.Printf("    Translator Endpoint: %s\n", ctx.TranslatorEndpoint)
				}
				if ctx.Language != "" {
					fmt.Printf("    Language: %s\n", ctx.Language)
				}
				if ctx.Voice != "" {
					fmt.Printf("    Voice: %s\n", ctx.Voice)
				}
				if ctx.Timeout > 0 {
					fmt.Printf("    Timeout: %ds\n", ctx.Timeout)
				}
				if ctx.MaxRetries > 0 {
					fmt.Printf("    Max Retries: %d\n", ctx.MaxRetries)
				}
			}
		}

		return nil
	},
}

func init() {
	configAddContextCmd.Flags().String("endpoint", "", "Speech REST endpoint (default: https://<region>.api.cognitive.microsoft.com)")
	configAddContextCmd.Flags().String("translator-endpoint", "", "Translator endpoint")
	configAddContextCmd.Flags().String("language", "", "default recognition language (e.g. en-US)")
	configAddContextCmd.Flags().String("voice", "", "default synthesis voice")
	configAddContextCmd.Flags().Int("timeout", 0, "per-request timeout in seconds")
	configAddContextCmd.Flags().Int("max-retries", 0, "retries after a transient failure")
	configExportPrivateCmd.Flags().Bool("user", false, "write ~/.mlhub/azspeech/private.txt")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configImportPrivateCmd)
	configCmd.AddCommand(configExportPrivateCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configGetContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configViewCmd)
}
