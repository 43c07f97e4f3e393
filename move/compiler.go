package move

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"maps"
	"os/exec"
	"slices"
	"strings"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"

	"github.com/smartcontractkit/aptos-raffle-harness/pkg/logger"
)

// Package describes a Move package on disk.
type Package struct {
	// Name is the package name declared in Move.toml. The compiler writes its output to
	// build/<Name> inside Dir.
	Name string
	// Dir is the package root containing Move.toml.
	Dir string
	// NamedAddresses binds the package's named addresses to accounts.
	NamedAddresses map[string]aptoslib.AccountAddress
	// Modules lists the compiled modules to publish, in order. Empty publishes every module
	// found in the build output, sorted by name.
	Modules []string
}

// Compiler compiles a Move package so that its artifacts can be loaded with LoadArtifacts.
type Compiler interface {
	Compile(ctx context.Context, pkg Package) error
}

var _ Compiler = (*CLICompiler)(nil)

// CLICompiler compiles packages by running `aptos move compile`.
type CLICompiler struct {
	path string
	lggr logger.Logger
}

// NewCLICompiler returns a compiler running the aptos binary at path. Compiler output is logged
// at debug level on a child logger named "move.compiler".
func NewCLICompiler(path string, lggr logger.Logger) *CLICompiler {
	if path == "" {
		path = "aptos"
	}

	return &CLICompiler{
		path: path,
		lggr: logger.Named(lggr, "move.compiler"),
	}
}

// Compile implements Compiler.
func (c *CLICompiler) Compile(ctx context.Context, pkg Package) error {
	cmd := exec.CommandContext(ctx, c.path, compileArgs(pkg)...) // #nosec G204
	c.lggr.Infow("Compiling Move package", "package", pkg.Name, "dir", pkg.Dir)
	c.lggr.Debugf("Running %s", cmd.String())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	c.logOutput("stdout", &stdout)
	c.logOutput("stderr", &stderr)

	if err != nil {
		return fmt.Errorf("failed to compile package %s: %w: %s", pkg.Name, err, strings.TrimSpace(stderr.String()))
	}

	return nil
}

func (c *CLICompiler) logOutput(stream string, buf *bytes.Buffer) {
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			c.lggr.Debugw(line, "stream", stream)
		}
	}
}

// compileArgs returns the aptos CLI arguments compiling pkg. Named addresses are passed in
// name order.
func compileArgs(pkg Package) []string {
	args := []string{"move", "compile", "--package-dir", pkg.Dir, "--save-metadata"}

	if len(pkg.NamedAddresses) == 0 {
		return args
	}

	bindings := make([]string, 0, len(pkg.NamedAddresses))
	for _, name := range slices.Sorted(maps.Keys(pkg.NamedAddresses)) {
		addr := pkg.NamedAddresses[name]
		bindings = append(bindings, name+"="+addr.String())
	}

	return append(args, "--named-addresses", strings.Join(bindings, ","))
}

// Build resolves pkg against its manifest, compiles it and returns the payload publishing it.
func Build(ctx context.Context, compiler Compiler, pkg Package) (Artifacts, aptoslib.TransactionPayload, error) {
	pkg, err := Resolve(pkg)
	if err != nil {
		return Artifacts{}, aptoslib.TransactionPayload{}, err
	}

	if err = compiler.Compile(ctx, pkg); err != nil {
		return Artifacts{}, aptoslib.TransactionPayload{}, err
	}

	artifacts, err := LoadArtifacts(pkg)
	if err != nil {
		return Artifacts{}, aptoslib.TransactionPayload{}, err
	}

	payload, err := PublishPayload(artifacts)
	if err != nil {
		return Artifacts{}, aptoslib.TransactionPayload{}, err
	}

	return artifacts, payload, nil
}
