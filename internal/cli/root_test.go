package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/daryltucker/tfplayer/internal/config"
)

func parse(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	o := &options{}
	cmd := newRootCmd(o)
	test.That(t, cmd.ParseFlags(args), test.ShouldBeNil)
	return o.config(cmd, cmd.Flags().Args())
}

func TestConfigFromFlags(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := parse(t, "digit.png", "out.txt", "-m", "mnist.pb", "-p", "input", "-r", "softmax", "-g", "-v")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Input, test.ShouldEqual, "digit.png")
	test.That(t, cfg.Output, test.ShouldEqual, "out.txt")
	test.That(t, cfg.Model, test.ShouldEqual, "mnist.pb")
	test.That(t, cfg.InputPlaceholder, test.ShouldEqual, "input")
	test.That(t, cfg.FetchFrom, test.ShouldEqual, "softmax")
	test.That(t, cfg.ForceGPU, test.ShouldBeTrue)
	test.That(t, cfg.Verbose, test.ShouldBeTrue)
	test.That(t, cfg.Backend, test.ShouldEqual, config.BackendAuto)

	cfg, err = parse(t, "digit.png", "--model=m.onnx", "--inputPlaceholderName=x", "--fetchFrom=y", "--backend=onnx")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Output, test.ShouldEqual, "")
	test.That(t, cfg.ForceGPU, test.ShouldBeFalse)
	test.That(t, cfg.Backend, test.ShouldEqual, config.BackendONNX)
}

func TestConfigFileWithOverrides(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	content := "model: from-file.pb\ninput_placeholder: file_in\nfetch_from: file_out\nforce_gpu: true\n"
	test.That(t, os.WriteFile(filepath.Join(dir, "tfplayer.yaml"), []byte(content), 0o644), test.ShouldBeNil)

	cfg, err := parse(t, "digit.png", "-r", "flag_out")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Model, test.ShouldEqual, "from-file.pb")
	test.That(t, cfg.InputPlaceholder, test.ShouldEqual, "file_in")
	test.That(t, cfg.FetchFrom, test.ShouldEqual, "flag_out")
	test.That(t, cfg.ForceGPU, test.ShouldBeTrue)

	cfg, err = parse(t, "digit.png", "-g=false")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ForceGPU, test.ShouldBeFalse)
}

func TestExecuteMissingRequiredOption(t *testing.T) {
	chdir(t, t.TempDir())

	for _, args := range [][]string{
		{"digit.png", "out.txt", "-p", "input", "-r", "softmax"},
		{"digit.png", "out.txt", "-m", "mnist.pb", "-r", "softmax"},
		{"digit.png", "out.txt", "-m", "mnist.pb", "-p", "input"},
	} {
		cmd := NewRootCmd()
		var stdout, stderr bytes.Buffer
		cmd.SetOut(&stdout)
		cmd.SetErr(&stderr)
		cmd.SetArgs(args)

		err := cmd.Execute()
		test.That(t, errors.Is(err, config.ErrMissingField), test.ShouldBeTrue)
		test.That(t, strings.Contains(stdout.String(), "OT:"), test.ShouldBeFalse)
	}
}

func TestExecuteArgCount(t *testing.T) {
	chdir(t, t.TempDir())

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-m", "mnist.pb", "-p", "input", "-r", "softmax"})
	test.That(t, cmd.Execute(), test.ShouldNotBeNil)

	cmd = NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"a.png", "b.txt", "c", "-m", "mnist.pb", "-p", "input", "-r", "softmax"})
	test.That(t, cmd.Execute(), test.ShouldNotBeNil)
}

func TestListOpsRequiresModel(t *testing.T) {
	chdir(t, t.TempDir())

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"list-ops"})
	err := cmd.Execute()
	test.That(t, errors.Is(err, config.ErrMissingField), test.ShouldBeTrue)
}
