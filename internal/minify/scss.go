package minify

import (
	"bytes"
	"context"
	"os/exec"

	"assetforge/internal/logging"
)

// Compiler turns SCSS source into CSS.
type Compiler interface {
	Compile(ctx context.Context, src []byte) ([]byte, error)
}

// CommandCompiler compiles SCSS by piping it through a sass binary found on
// PATH. When no binary is available the source passes through unchanged:
// a missing compiler degrades output quality, it never breaks a request.
type CommandCompiler struct {
	path   string
	logger logging.Logger
}

// NewCommandCompiler looks up the sass binary and returns a compiler.
func NewCommandCompiler(logger logging.Logger) *CommandCompiler {
	if logger == nil {
		logger = logging.NopLogger()
	}
	path, _ := exec.LookPath("sass")
	return &CommandCompiler{path: path, logger: logger.WithComponent("scss")}
}

// Available reports whether a sass binary was found.
func (c *CommandCompiler) Available() bool {
	return c.path != ""
}

// Compile runs the sass binary over stdin/stdout. Compile failures return
// the error so the caller can fall back to the raw source.
func (c *CommandCompiler) Compile(ctx context.Context, src []byte) ([]byte, error) {
	if c.path == "" {
		c.logger.Warn(ctx, nil, "no sass binary on PATH, passing SCSS through unchanged")
		return src, nil
	}

	cmd := exec.CommandContext(ctx, c.path, "--stdin", "--style=compressed", "--no-source-map")
	cmd.Stdin = bytes.NewReader(src)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// PassthroughCompiler returns SCSS source unchanged. Used in tests and when
// compilation is delegated elsewhere.
type PassthroughCompiler struct{}

func (PassthroughCompiler) Compile(_ context.Context, src []byte) ([]byte, error) {
	return src, nil
}
