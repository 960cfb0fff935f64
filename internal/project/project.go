// Package project loads and validates a fastc.toml manifest, selecting the
// build profile the compiler driver runs with. It is grounded directly on
// chai's mods package (mods/load.go, mods/module.go): the same
// load-then-validate-then-select-profile shape, the same go-toml-backed
// TOML schema split into a wire-format struct and a validated domain
// struct, adapted from chai's OS/arch/output-format profile axes to
// FastC's four build-profile fields (spec.md §6): emit_header,
// safety_level, strict, runtime_include.
package project

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// ManifestFileName is the name Load looks for in a project root,
// mirroring chai's common.ModuleFileName constant.
const ManifestFileName = "fastc.toml"

// Module is a validated fastc.toml manifest.
type Module struct {
	Name        string
	Root        string
	SourceRoots []string
	Deps        []Dependency
}

// Dependency is one declared (not necessarily fetched) module dependency.
// Fetching is explicitly out of scope (spec.md §1); this mirrors chai's
// fetchDependencies no-op.
type Dependency struct {
	Name    string
	Version string
	Path    string
}

// SafetyLevel mirrors internal/p10.Level's three tiers at the configuration
// boundary, kept as a separate type so internal/project has no dependency
// on internal/p10.
type SafetyLevel int

const (
	SafetyRelaxed SafetyLevel = iota
	SafetyStandard
	SafetyCritical
)

// BuildProfile is the compiler's four build-profile fields (spec.md §6).
type BuildProfile struct {
	Name           string
	EmitHeader     bool
	SafetyLevel    SafetyLevel
	Strict         bool
	RuntimeInclude string
	Default        bool
}

type tomlManifest struct {
	Module *tomlModule `toml:"module"`
}

type tomlModule struct {
	Name          string            `toml:"name"`
	SourceRoots   []string          `toml:"source-roots,omitempty"`
	Dependencies  []*tomlDependency `toml:"dependencies"`
	BuildProfiles []*tomlProfile    `toml:"profiles"`
}

type tomlDependency struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Path    string `toml:"path"`
}

type tomlProfile struct {
	Name           string `toml:"name"`
	EmitHeader     bool   `toml:"emit-header"`
	SafetyLevel    string `toml:"safety-level"`
	Strict         bool   `toml:"strict"`
	RuntimeInclude string `toml:"runtime-include"`
	Default        bool   `toml:"default"`
}

// Load reads and validates the manifest at path (a directory containing
// fastc.toml), then selects a build profile: the one named selectedProfile
// if non-empty, otherwise the profile marked `default = true`.
func Load(path, selectedProfile string) (*Module, *BuildProfile, error) {
	f, err := os.Open(filepath.Join(path, ManifestFileName))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	buf, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}

	tm := &tomlManifest{}
	if err := toml.Unmarshal(buf, tm); err != nil {
		return nil, nil, err
	}
	if tm.Module == nil {
		return nil, nil, errors.New("fastc.toml is missing a [module] section")
	}

	if err := validateModule(tm.Module); err != nil {
		return nil, nil, err
	}
	if err := fetchDependencies(tm.Module); err != nil {
		return nil, nil, err
	}

	profile, err := selectProfile(tm.Module, selectedProfile)
	if err != nil {
		return nil, nil, err
	}

	mod := &Module{
		Name:        tm.Module.Name,
		Root:        path,
		SourceRoots: tm.Module.SourceRoots,
	}
	for _, d := range tm.Module.Dependencies {
		mod.Deps = append(mod.Deps, Dependency{Name: d.Name, Version: d.Version, Path: d.Path})
	}
	if len(mod.SourceRoots) == 0 {
		mod.SourceRoots = []string{"src"}
	}
	return mod, profile, nil
}

func validateModule(mod *tomlModule) error {
	if mod.Name == "" {
		return errors.New("module must specify a name")
	}
	if !IsValidIdentifier(mod.Name) {
		return errors.New("module name must be a valid identifier")
	}
	return nil
}

func selectProfile(mod *tomlModule, selected string) (*BuildProfile, error) {
	if len(mod.BuildProfiles) == 0 {
		return nil, fmt.Errorf("module %s must declare at least one build profile", mod.Name)
	}

	if selected != "" {
		for _, p := range mod.BuildProfiles {
			if p.Name == selected {
				return convertProfile(p)
			}
		}
		return nil, fmt.Errorf("module %s has no profile %q", mod.Name, selected)
	}

	for _, p := range mod.BuildProfiles {
		if p.Default {
			return convertProfile(p)
		}
	}
	return nil, fmt.Errorf("module %s does not specify a default profile; a --profile argument is required", mod.Name)
}

var safetyNames = map[string]SafetyLevel{
	"relaxed":  SafetyRelaxed,
	"standard": SafetyStandard,
	"critical": SafetyCritical,
}

func convertProfile(tp *tomlProfile) (*BuildProfile, error) {
	level, ok := safetyNames[tp.SafetyLevel]
	if tp.SafetyLevel != "" && !ok {
		return nil, fmt.Errorf("profile %s: %q is not a valid safety level", tp.Name, tp.SafetyLevel)
	}
	return &BuildProfile{
		Name:           tp.Name,
		EmitHeader:     tp.EmitHeader,
		SafetyLevel:    level,
		Strict:         tp.Strict,
		RuntimeInclude: tp.RuntimeInclude,
		Default:        tp.Default,
	}, nil
}

// fetchDependencies is a deliberate no-op: dependency resolution/fetching
// is out of scope (spec.md §1), mirroring chai's own fetchDependencies stub.
func fetchDependencies(mod *tomlModule) error {
	return nil
}

// IsValidIdentifier reports whether idstr could be a FastC module name.
func IsValidIdentifier(idstr string) bool {
	if idstr == "" {
		return false
	}
	first := idstr[0]
	if !(first == '_' || ('a' <= first && first <= 'z') || ('A' <= first && first <= 'Z')) {
		return false
	}
	for _, c := range idstr[1:] {
		if c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			continue
		}
		return false
	}
	return true
}
