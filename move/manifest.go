package move

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ManifestFile is the manifest at the root of every Move package.
const ManifestFile = "Move.toml"

// Manifest is the part of Move.toml the harness reads.
type Manifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	// Addresses maps named addresses to their value, "_" when bound at compile time.
	Addresses map[string]string `toml:"addresses"`
}

// LoadManifest reads the Move.toml of the package rooted at dir.
func LoadManifest(dir string) (Manifest, error) {
	path := filepath.Join(dir, ManifestFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}

	var m Manifest
	if err = toml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if m.Package.Name == "" {
		return Manifest{}, fmt.Errorf("%s: missing package name", path)
	}

	return m, nil
}

// Resolve checks pkg against its manifest. An empty Name is taken from the manifest, a non empty
// one must match it, and every bound named address must be declared. A package without a
// manifest is returned unchanged when it is named, leaving the compiler to report the problem.
func Resolve(pkg Package) (Package, error) {
	m, err := LoadManifest(pkg.Dir)
	if errors.Is(err, fs.ErrNotExist) && pkg.Name != "" {
		return pkg, nil
	}
	if err != nil {
		return Package{}, err
	}

	switch {
	case pkg.Name == "":
		pkg.Name = m.Package.Name
	case pkg.Name != m.Package.Name:
		return Package{}, fmt.Errorf("package %s: %s declares package %s", pkg.Name, ManifestFile, m.Package.Name)
	}

	for name := range pkg.NamedAddresses {
		if _, ok := m.Addresses[name]; !ok {
			return Package{}, fmt.Errorf("package %s: named address %q is not declared in %s", pkg.Name, name, ManifestFile)
		}
	}

	return pkg, nil
}
