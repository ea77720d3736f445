package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Model = "model.pb"
	cfg.Input = "digit.png"
	cfg.InputPlaceholder = "input"
	cfg.FetchFrom = "output"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	test.That(t, cfg.Backend, test.ShouldEqual, BackendAuto)
	test.That(t, cfg.ForceGPU, test.ShouldBeFalse)
	test.That(t, cfg.Verbose, test.ShouldBeFalse)
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.yaml")
	content := "model: /models/mnist.pb\ninput_placeholder: x\nfetch_from: y_pred\nforce_gpu: true\nresize: 28x28\n"
	test.That(t, os.WriteFile(path, []byte(content), 0o644), test.ShouldBeNil)

	cfg, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Model, test.ShouldEqual, "/models/mnist.pb")
	test.That(t, cfg.InputPlaceholder, test.ShouldEqual, "x")
	test.That(t, cfg.FetchFrom, test.ShouldEqual, "y_pred")
	test.That(t, cfg.ForceGPU, test.ShouldBeTrue)
	test.That(t, cfg.Backend, test.ShouldEqual, BackendAuto)
	test.That(t, cfg.Resize, test.ShouldEqual, "28x28")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	test.That(t, os.WriteFile(path, []byte("model: [unterminated"), 0o644), test.ShouldBeNil)

	cfg, err := Load(path)
	test.That(t, cfg, test.ShouldBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to parse config file")
}

func TestLoadNoDefaultFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg, test.ShouldResemble, DefaultConfig())
}

func TestValidate(t *testing.T) {
	test.That(t, validConfig().Validate(), test.ShouldBeNil)

	for _, tc := range []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"model", func(c *Config) { c.Model = "" }, "-m/--model"},
		{"placeholder", func(c *Config) { c.InputPlaceholder = "" }, "-p/--inputPlaceholderName"},
		{"fetch", func(c *Config) { c.FetchFrom = "" }, "-r/--fetchFrom"},
		{"input", func(c *Config) { c.Input = "" }, "input path"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			test.That(t, errors.Is(err, ErrMissingField), test.ShouldBeTrue)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.want)
		})
	}

	cfg := validConfig()
	cfg.Backend = "torch"
	test.That(t, cfg.Validate().Error(), test.ShouldContainSubstring, `unknown backend "torch"`)
}

func TestResizeDims(t *testing.T) {
	cfg := validConfig()
	w, h, err := cfg.ResizeDims()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, w, test.ShouldEqual, uint(0))
	test.That(t, h, test.ShouldEqual, uint(0))

	cfg.Resize = "28X32"
	w, h, err = cfg.ResizeDims()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, w, test.ShouldEqual, uint(28))
	test.That(t, h, test.ShouldEqual, uint(32))

	for _, bad := range []string{"28", "0x10", "10x", "ax10"} {
		cfg.Resize = bad
		_, _, err = cfg.ResizeDims()
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, cfg.Validate(), test.ShouldNotBeNil)
	}
}
