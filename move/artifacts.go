package move

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	metadataFile = "package-metadata.bcs"
	modulesDir   = "bytecode_modules"
	moduleExt    = ".mv"
)

// ErrNoModules is returned when a package build contains no bytecode modules.
var ErrNoModules = errors.New("no bytecode modules found")

// Artifacts holds the compiled output of a package.
type Artifacts struct {
	Package  string
	Metadata []byte
	// Modules are the module names in publish order, matching Bytecode.
	Modules  []string
	Bytecode [][]byte
}

// BuildDir returns the directory the compiler writes pkg's output to.
func BuildDir(pkg Package) string {
	return filepath.Join(pkg.Dir, "build", pkg.Name)
}

// MetadataPath returns the path of the package metadata written by the compiler.
func MetadataPath(pkg Package) string {
	return filepath.Join(BuildDir(pkg), metadataFile)
}

// ModulePath returns the path of the bytecode of module written by the compiler.
func ModulePath(pkg Package, module string) string {
	return filepath.Join(BuildDir(pkg), modulesDir, module+moduleExt)
}

// LoadArtifacts reads the metadata and bytecode modules of a compiled package.
func LoadArtifacts(pkg Package) (Artifacts, error) {
	buildDir := BuildDir(pkg)

	metadata, err := os.ReadFile(MetadataPath(pkg))
	if err != nil {
		return Artifacts{}, fmt.Errorf("failed to read package metadata of %s: %w", pkg.Name, err)
	}

	names := pkg.Modules
	if len(names) == 0 {
		names, err = listModules(filepath.Join(buildDir, modulesDir))
		if err != nil {
			return Artifacts{}, err
		}
	}
	if len(names) == 0 {
		return Artifacts{}, fmt.Errorf("package %s: %w", pkg.Name, ErrNoModules)
	}

	a := Artifacts{
		Package:  pkg.Name,
		Metadata: metadata,
		Modules:  names,
		Bytecode: make([][]byte, 0, len(names)),
	}
	for _, name := range names {
		code, rerr := os.ReadFile(ModulePath(pkg, name))
		if rerr != nil {
			return Artifacts{}, fmt.Errorf("failed to read module %s of %s: %w", name, pkg.Name, rerr)
		}
		a.Bytecode = append(a.Bytecode, code)
	}

	return a, nil
}

func listModules(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list bytecode modules: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != moduleExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), moduleExt))
	}
	slices.Sort(names)

	return names, nil
}
