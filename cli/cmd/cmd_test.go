package cmd

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/terrace/cli/config"
)

func TestCommonFlags_IncludesConfig(t *testing.T) {
	hasConfig := false
	for _, f := range CommonFlags() {
		if f.Names()[0] == "config" {
			hasConfig = true
			break
		}
	}
	if !hasConfig {
		t.Error("CommonFlags should include --config")
	}
}

// testContext builds a cli.Context with the given string flag values.
func testContext(t *testing.T, flags map[string]string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for name, value := range flags {
		set.String(name, value, "")
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terrace.yaml")
	if err := os.WriteFile(path, []byte("staging_root: /seq/staging\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(testContext(t, map[string]string{"config": path}))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.StagingRoot != "/seq/staging" {
		t.Errorf("staging_root = %q", cfg.StagingRoot)
	}
}

func TestLoadConfig_ExplicitPathMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")
	if _, err := loadConfig(testContext(t, map[string]string{"config": path})); err == nil {
		t.Fatal("missing explicit config loaded without error")
	}
}

func TestLoadConfig_NoFileIsEmptyConfig(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := loadConfig(testContext(t, nil))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.StagingRoot != "" {
		t.Errorf("staging_root = %q, want empty", cfg.StagingRoot)
	}
}

func TestNewPublisher_None(t *testing.T) {
	pub, err := newPublisher(config.AdapterConfig{})
	if err != nil {
		t.Fatalf("newPublisher: %v", err)
	}
	if pub != nil {
		t.Error("empty adapter config built a publisher")
	}
}

func TestNewPublisher_UnknownType(t *testing.T) {
	if _, err := newPublisher(config.AdapterConfig{Type: "kafka"}); err == nil {
		t.Fatal("unknown adapter type accepted")
	}
}

func TestNewPublisher_WebhookRequiresURL(t *testing.T) {
	if _, err := newPublisher(config.AdapterConfig{Type: "webhook"}); err == nil {
		t.Fatal("webhook adapter built without URL")
	}
}

// chdir changes to dir for the duration of the test, mirroring t.Chdir
// from newer Go releases (unavailable on the local toolchain).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
