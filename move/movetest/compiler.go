// Package movetest provides a Move compiler double writing placeholder build artifacts.
package movetest

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/smartcontractkit/aptos-raffle-harness/move"
)

var _ move.Compiler = (*FakeCompiler)(nil)

// FakeCompiler writes a one byte metadata file and one single byte module per listed module
// (or a module named after the package when none are listed) instead of compiling.
type FakeCompiler struct {
	// Err, when set, is returned by every Compile call.
	Err error

	mu       sync.Mutex
	compiled []move.Package
}

// Compile implements move.Compiler.
func (c *FakeCompiler) Compile(_ context.Context, pkg move.Package) error {
	c.mu.Lock()
	c.compiled = append(c.compiled, pkg)
	c.mu.Unlock()

	if c.Err != nil {
		return c.Err
	}

	modules := pkg.Modules
	if len(modules) == 0 {
		modules = []string{pkg.Name}
	}

	if err := os.MkdirAll(filepath.Dir(move.ModulePath(pkg, modules[0])), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(move.MetadataPath(pkg), []byte{0x01}, 0o600); err != nil {
		return err
	}
	for i, module := range modules {
		if err := os.WriteFile(move.ModulePath(pkg, module), []byte{byte(i + 1)}, 0o600); err != nil {
			return err
		}
	}

	return nil
}

// Compiled returns the packages compiled so far.
func (c *FakeCompiler) Compiled() []move.Package {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]move.Package, len(c.compiled))
	copy(out, c.compiled)

	return out
}
