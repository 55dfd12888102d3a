// Package cli provides common CLI utilities for the azspeech command-line tool.
//
// This package includes:
//   - Configuration management (contexts holding subscription keys and regions)
//   - Credential resolution (flags, environment/.env, private.txt, contexts)
//   - Output formatting (JSON, YAML, raw) with optional jq filtering
//   - Request file loading (YAML/JSON)
//   - Banners for interactive walkthroughs
//
// Configuration is stored in ~/.mlhub/<app>/ directory, supporting
// multiple contexts similar to kubectl.
//
// Example usage:
//
//	cfg, err := cli.LoadConfigWithPath("azspeech", "")
//	ctx, _ := cfg.ResolveContext("")
//
//	creds, err := cli.ResolveCredentials(cli.CredentialSources{
//	    Dir:     cwd,
//	    Context: ctx,
//	})
//
//	cli.Output(result, cli.OutputOptions{Format: cli.FormatJSON})
package cli
