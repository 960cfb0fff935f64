package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// Init scaffolds a new module at path: a starter fastc.toml plus a
// src/main.fc, mirroring chai's mods.InitModule (SPEC_FULL.md Part D
// item 5).
func Init(name, path string) error {
	manifestPath := filepath.Join(path, ManifestFileName)

	if _, err := os.Stat(manifestPath); err == nil {
		return errors.New("fastc.toml already exists")
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("manifest file error: %s", err.Error())
	}

	if !IsValidIdentifier(name) {
		return errors.New("module name must be a valid identifier")
	}

	mod := &tomlModule{
		Name:        name,
		SourceRoots: []string{"src"},
		BuildProfiles: []*tomlProfile{
			{Name: "debug", EmitHeader: true, SafetyLevel: "standard", Strict: false, RuntimeInclude: "fastc_runtime.h", Default: true},
			{Name: "release", EmitHeader: true, SafetyLevel: "critical", Strict: true, RuntimeInclude: "fastc_runtime.h"},
		},
	}

	f, err := os.Create(manifestPath)
	if err != nil {
		return fmt.Errorf("error creating manifest file: %s", err.Error())
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(&tomlManifest{Module: mod}); err != nil {
		return fmt.Errorf("error encoding TOML: %s", err.Error())
	}

	srcDir := filepath.Join(path, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return fmt.Errorf("error creating source directory: %s", err.Error())
	}
	return os.WriteFile(filepath.Join(srcDir, "main.fc"), []byte(starterSource), 0o644)
}

const starterSource = `fn main() -> i32 {
    let x: i32 = 0;
    return x;
}
`
