package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"1234", "****"},
		{"12345678", "********"},
		{"123456789", "1234*6789"},
		{"abcdefghij", "abcd**ghij"},
		{"0123456789abcdef0123456789abcdef", "0123" + strings.Repeat("*", 24) + "cdef"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := MaskAPIKey(tt.key)
			if got != tt.want {
				t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestContext_Credentials(t *testing.T) {
	ctx := &Context{Name: "lab", SubscriptionKey: "k", Region: "westus"}

	creds := ctx.Credentials()
	if creds.Key != "k" || creds.Region != "westus" {
		t.Errorf("Credentials() = %+v", creds)
	}
	if creds.Source != "context lab" {
		t.Errorf("Source = %q, want %q", creds.Source, "context lab")
	}
}

func TestLoadConfigWithPath_NewConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "testapp", "config.yaml")

	cfg, err := LoadConfigWithPath("testapp", configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}

	if cfg.AppName != "testapp" {
		t.Errorf("AppName = %q, want %q", cfg.AppName, "testapp")
	}

	if cfg.Contexts == nil {
		t.Error("Contexts should be initialized")
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		t.Fatal("Config file should be created")
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}
}

func TestLoadConfigWithPath_Invalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("contexts: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfigWithPath("testapp", configPath); err == nil {
		t.Error("LoadConfigWithPath should fail on malformed YAML")
	}
}

func TestConfig_AddContext(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg, err := LoadConfigWithPath("testapp", configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}

	ctx := &Context{
		SubscriptionKey: "test-key",
		Region:          "westus",
	}

	err = cfg.AddContext("production", ctx)
	if err != nil {
		t.Fatalf("AddContext error: %v", err)
	}

	if cfg.Contexts["production"] == nil {
		t.Fatal("Context not added")
	}

	if cfg.Contexts["production"].Name != "production" {
		t.Errorf("Context.Name = %q, want %q", cfg.Contexts["production"].Name, "production")
	}

	if cfg.Contexts["production"].SubscriptionKey != "test-key" {
		t.Errorf("Context.SubscriptionKey = %q, want %q", cfg.Contexts["production"].SubscriptionKey, "test-key")
	}
}

func TestConfig_DeleteContext(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg, err := LoadConfigWithPath("testapp", configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}

	cfg.AddContext("ctx1", &Context{SubscriptionKey: "key1"})
	cfg.AddContext("ctx2", &Context{SubscriptionKey: "key2"})
	cfg.UseContext("ctx1")

	// Delete non-current context
	if err := cfg.DeleteContext("ctx2"); err != nil {
		t.Fatalf("DeleteContext error: %v", err)
	}

	if _, ok := cfg.Contexts["ctx2"]; ok {
		t.Error("Context should be deleted")
	}

	// Delete current context
	if err := cfg.DeleteContext("ctx1"); err != nil {
		t.Fatalf("DeleteContext error: %v", err)
	}

	if cfg.CurrentContext != "" {
		t.Errorf("CurrentContext should be cleared, got %q", cfg.CurrentContext)
	}
}

func TestConfig_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg, err := LoadConfigWithPath("testapp", configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}

	if err := cfg.DeleteContext("nonexistent"); !errors.Is(err, ErrContextNotFound) {
		t.Errorf("DeleteContext error = %v, want ErrContextNotFound", err)
	}
	if err := cfg.UseContext("nonexistent"); err == nil {
		t.Error("UseContext should fail for non-existent context")
	}
	if _, err := cfg.GetContext("nonexistent"); err == nil {
		t.Error("GetContext should fail for non-existent context")
	}
	if _, err := cfg.GetCurrentContext(); err == nil {
		t.Error("GetCurrentContext should fail when no current context")
	}
}

func TestConfig_ResolveContext(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg, err := LoadConfigWithPath("testapp", configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	cfg.AddContext("ctx1", &Context{SubscriptionKey: "key1"})
	cfg.AddContext("ctx2", &Context{SubscriptionKey: "key2"})
	cfg.UseContext("ctx1")

	// Resolve by name
	ctx, err := cfg.ResolveContext("ctx2")
	if err != nil {
		t.Fatalf("ResolveContext(ctx2) error: %v", err)
	}
	if ctx.SubscriptionKey != "key2" {
		t.Errorf("SubscriptionKey = %q, want %q", ctx.SubscriptionKey, "key2")
	}

	// Resolve current (empty name)
	ctx, err = cfg.ResolveContext("")
	if err != nil {
		t.Fatalf("ResolveContext('') error: %v", err)
	}
	if ctx.SubscriptionKey != "key1" {
		t.Errorf("SubscriptionKey = %q, want %q", ctx.SubscriptionKey, "key1")
	}
}

func TestConfig_ListContexts(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg, err := LoadConfigWithPath("testapp", configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	cfg.AddContext("westus", &Context{})
	cfg.AddContext("eastus", &Context{})

	names := cfg.ListContexts()
	if len(names) != 2 || names[0] != "eastus" || names[1] != "westus" {
		t.Errorf("ListContexts() = %v, want [eastus westus]", names)
	}
}

func TestConfig_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg1, err := LoadConfigWithPath("testapp", configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	cfg1.AddContext("test", &Context{
		SubscriptionKey: "secret-key",
		Region:          " WestUS ",
		Endpoint:        "https://speech.example.com",
		Language:        "en-AU",
		Timeout:         10,
		MaxRetries:      2,
	})
	cfg1.UseContext("test")

	cfg2, err := LoadConfigWithPath("testapp", configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}

	if cfg2.CurrentContext != "test" {
		t.Errorf("CurrentContext = %q, want %q", cfg2.CurrentContext, "test")
	}

	ctx, err := cfg2.GetContext("test")
	if err != nil {
		t.Fatalf("GetContext error: %v", err)
	}
	if ctx.SubscriptionKey != "secret-key" {
		t.Errorf("SubscriptionKey = %q, want %q", ctx.SubscriptionKey, "secret-key")
	}
	if ctx.Region != "westus" || ctx.Endpoint != "https://speech.example.com" {
		t.Errorf("Region/Endpoint = %q/%q", ctx.Region, ctx.Endpoint)
	}
	if ctx.Language != "en-AU" || ctx.Timeout != 10 || ctx.MaxRetries != 2 {
		t.Errorf("Language/Timeout/MaxRetries = %q/%d/%d", ctx.Language, ctx.Timeout, ctx.MaxRetries)
	}
}

func TestConfig_PathAndDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg, err := LoadConfigWithPath("testapp", configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}

	if cfg.Path() != configPath {
		t.Errorf("Path() = %q, want %q", cfg.Path(), configPath)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestConfig_SaveLeavesNoTempFiles(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg, err := LoadConfigWithPath("testapp", configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	for _, name := range []string{"a", "b", "c"} {
		if err := cfg.AddContext(name, &Context{SubscriptionKey: name}); err != nil {
			t.Fatalf("AddContext(%s) error: %v", name, err)
		}
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "config.yaml" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("config dir = %v, want [config.yaml]", names)
	}
}
