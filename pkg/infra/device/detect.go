package device

import (
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/doclingo/pkg/domain/model"
)

// Runner executes a command and returns its standard output
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

type config struct {
	runner  Runner
	command string
}

// Option is a functional option for Detect
type Option func(*config)

// WithRunner replaces the command runner
func WithRunner(runner Runner) Option {
	return func(c *config) {
		c.runner = runner
	}
}

// WithCommand sets the GPU management command to invoke
func WithCommand(command string) Option {
	return func(c *config) {
		c.command = command
	}
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

var reCUDAVersion = regexp.MustCompile(`CUDA Version:\s*([0-9.]+)`)

// Detect probes for NVIDIA GPUs. It never fails: any problem running the
// probe is logged and reported as CPU-only operation.
func Detect(ctx context.Context, opts ...Option) model.DeviceInfo {
	cfg := &config{
		runner:  execRunner,
		command: "nvidia-smi",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	logger := ctxlog.From(ctx)

	out, err := cfg.runner(ctx, cfg.command, "--query-gpu=name", "--format=csv,noheader")
	if err != nil {
		logger.Debug("GPU probe failed, using CPU", "command", cfg.command, "error", err)
		return model.CPUDevice()
	}

	var names []string
	for _, line := range strings.Split(string(out), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return model.CPUDevice()
	}

	info := model.DeviceInfo{
		Device:        model.DeviceCUDA,
		CUDAAvailable: true,
		GPUNames:      names,
	}

	banner, err := cfg.runner(ctx, cfg.command)
	if err != nil {
		logger.Debug("Failed to read CUDA version", "error", err)
		return info
	}
	if m := reCUDAVersion.FindSubmatch(banner); m != nil {
		info.CUDAVersion = string(m[1])
	}

	return info
}
