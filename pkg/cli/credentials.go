package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DefaultPrivateFile is the credential file looked up in the working directory
	DefaultPrivateFile = "private.txt"

	// EnvSpeechKey holds the subscription key
	EnvSpeechKey = "AZURE_SPEECH_KEY"
	// EnvSpeechRegion holds the service region
	EnvSpeechRegion = "AZURE_SPEECH_REGION"
)

// ErrNoCredentials is returned when no source yields a complete key/region pair.
var ErrNoCredentials = errors.New("no speech credentials found")

// Credentials is a subscription key and the region of the resource it belongs to.
type Credentials struct {
	Key    string `yaml:"key" json:"-"`
	Region string `yaml:"region" json:"region"`

	// Source describes where the pair was loaded from, for diagnostics.
	Source string `yaml:"-" json:"source,omitempty"`
}

// Complete reports whether both the key and the region are set.
func (c Credentials) Complete() bool {
	return c.Key != "" && c.Region != ""
}

// String masks the key.
func (c Credentials) String() string {
	return fmt.Sprintf("%s@%s", MaskAPIKey(c.Key), c.Region)
}

// ParsePrivate parses the content of a private.txt file.
//
// Two layouts are accepted: "key,region" on one line, or the key and the
// region on two separate lines. Blank lines and lines starting with '#' are
// skipped.
func ParsePrivate(data []byte) (Credentials, error) {
	var fields []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, f := range strings.Split(line, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}
	if len(fields) != 2 {
		return Credentials{}, fmt.Errorf("expected a key and a region, got %d field(s)", len(fields))
	}
	return Credentials{Key: fields[0], Region: strings.ToLower(fields[1])}, nil
}

// LoadPrivate reads a private.txt credential file.
func LoadPrivate(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, err
	}
	creds, err := ParsePrivate(data)
	if err != nil {
		return Credentials{}, fmt.Errorf("invalid credential file %s: %w", path, err)
	}
	creds.Source = path
	return creds, nil
}

// SavePrivate writes creds to path in the single-line "key,region" layout.
func SavePrivate(path string, creds Credentials) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data := creds.Key + "," + creds.Region + "\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}

// LoadEnv returns credentials from AZURE_SPEECH_KEY and AZURE_SPEECH_REGION.
// Values from a .env file in dir are loaded first without overriding
// variables already present in the environment.
func LoadEnv(dir string) Credentials {
	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}
	return Credentials{
		Key:    strings.TrimSpace(os.Getenv(EnvSpeechKey)),
		Region: strings.ToLower(strings.TrimSpace(os.Getenv(EnvSpeechRegion))),
		Source: "environment",
	}
}

// CredentialSources lists the places ResolveCredentials looks at.
type CredentialSources struct {
	// Explicit holds values given on the command line.
	Explicit Credentials

	// Dir is the invocation directory, searched for .env and private.txt.
	Dir string

	// PrivateFile overrides <Dir>/private.txt.
	PrivateFile string

	// AppPrivateFile is the per-user fallback, ~/.mlhub/<app>/private.txt.
	AppPrivateFile string

	// Context is the resolved config context, if any.
	Context *Context

	// ContextNamed marks a Context chosen on the command line. It then
	// ranks right after Explicit.
	ContextNamed bool
}

// ResolveCredentials returns the first complete key/region pair, in order:
// explicit values, environment, private.txt, the per-user private.txt,
// config context. A named context moves up to second place.
//
// Explicit values that are only partially set fill the gaps of whichever
// source is found, so "--region westus" with a key from private.txt works.
func ResolveCredentials(src CredentialSources) (Credentials, error) {
	merge := func(c Credentials) Credentials {
		if src.Explicit.Key != "" {
			c.Key = src.Explicit.Key
		}
		if src.Explicit.Region != "" {
			c.Region = strings.ToLower(src.Explicit.Region)
		}
		return c
	}

	if src.Explicit.Complete() {
		c := src.Explicit
		c.Region = strings.ToLower(c.Region)
		c.Source = "flags"
		return c, nil
	}

	if src.ContextNamed && src.Context != nil {
		if c := merge(src.Context.Credentials()); c.Complete() {
			return c, nil
		}
	}

	if c := merge(LoadEnv(src.Dir)); c.Complete() {
		return c, nil
	}

	privatePath := src.PrivateFile
	if privatePath == "" {
		privatePath = filepath.Join(src.Dir, DefaultPrivateFile)
	}
	for _, path := range []string{privatePath, src.AppPrivateFile} {
		if path == "" {
			continue
		}
		c, err := LoadPrivate(path)
		switch {
		case err == nil:
			if c = merge(c); c.Complete() {
				return c, nil
			}
		case !errors.Is(err, fs.ErrNotExist):
			return Credentials{}, err
		}
	}

	if src.Context != nil {
		if c := merge(src.Context.Credentials()); c.Complete() {
			return c, nil
		}
	}

	return Credentials{}, fmt.Errorf("%w: set %s/%s, create %s, or add a context with 'azspeech config add-context'",
		ErrNoCredentials, EnvSpeechKey, EnvSpeechRegion, privatePath)
}
