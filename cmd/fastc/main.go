// Command fastc is the compiler driver: it owns the filesystem, the
// terminal, and argument parsing, and calls into the pure internal/compiler
// entry points for everything else. Grounded directly on chai's
// cmd/execute.go -- the same olive.NewCLI shape, the same
// selector-arg-for-loglevel convention, and the same subcommand/primary-arg
// layout -- adapted from chai's single `build` command over a whole module
// to FastC's four subcommands (spec.md §6: check/compile/format, plus
// project scaffolding).
package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ComedicChimera/olive"

	"fastc/internal/compiler"
	"fastc/internal/diag"
	"fastc/internal/diagdisplay"
	"fastc/internal/p10"
	"fastc/internal/project"
)

func main() {
	cli := olive.NewCLI("fastc", "fastc compiles FastC source to portable C11", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	checkCmd := cli.AddSubcommand("check", "typecheck a module without emitting C", true)
	checkCmd.AddPrimaryArg("module-path", "the path to the module to check", true)
	checkCmd.AddStringArg("profile", "p", "the name of the build profile to check against", false)

	buildCmd := cli.AddSubcommand("build", "compile a module to C", true)
	buildCmd.AddPrimaryArg("module-path", "the path to the module to build", true)
	buildCmd.AddStringArg("profile", "p", "the name of the profile to build", false)

	fmtCmd := cli.AddSubcommand("fmt", "format a source file in place", true)
	fmtCmd.AddPrimaryArg("file-path", "the source file to format", true)

	modCmd := cli.AddSubcommand("mod", "manage modules", true)
	modInitCmd := modCmd.AddSubcommand("init", "initialize a module", true)
	modInitCmd.AddPrimaryArg("module-name", "the name of the new module", true)

	cli.AddSubcommand("version", "print the fastc version", false)

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		diagdisplay.PrintErrorMessage("CLI Usage Error", err)
		os.Exit(1)
	}

	loglevel, _ := result.Arguments["loglevel"].(string)

	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "check":
		execCheckCommand(subResult, loglevel)
	case "build":
		execBuildCommand(subResult, loglevel)
	case "fmt":
		execFmtCommand(subResult)
	case "mod":
		execModCommand(subResult)
	case "version":
		diagdisplay.PrintInfoMessage("fastc Version", diagdisplay.FastcVersion)
	}
}

// execCheckCommand runs the `check` subcommand: typecheck every source file
// in the module and report diagnostics, never writing any C output.
func execCheckCommand(result *olive.ArgParseResult, loglevel string) {
	mod, profile, ok := loadProfileArg(result)
	if !ok {
		return
	}

	diagdisplay.CompileHeader(profile.Name)

	sources, err := collectSources(mod)
	if err != nil {
		diagdisplay.PrintErrorMessage("Module Load Error", err)
		return
	}

	totalErrors, totalWarnings := 0, 0
	for _, src := range sources {
		text, err := os.ReadFile(src)
		if err != nil {
			diagdisplay.PrintErrorMessage("Source Read Error", err)
			continue
		}

		diags := compiler.Run(func() []diag.Diagnostic {
			return compiler.Check(string(text), src)
		})
		errs, warns := reportDiags(loglevel, src, text, diags)
		totalErrors += errs
		totalWarnings += warns
	}

	if loglevel != "silent" {
		diagdisplay.Finished(totalErrors == 0, totalErrors, totalWarnings)
	}
	if totalErrors > 0 {
		os.Exit(1)
	}
}

// execBuildCommand runs the `build` subcommand: compile every source file
// to a sibling .c (and, if the profile requests it, .h) file, then run the
// Power-of-10 pass over the checked AST at the profile's safety level --
// p10 is invoked here, by the driver, never from inside internal/compiler
// (SPEC_FULL.md Part D item 4).
func execBuildCommand(result *olive.ArgParseResult, loglevel string) {
	mod, profile, ok := loadProfileArg(result)
	if !ok {
		return
	}

	diagdisplay.CompileHeader(profile.Name)

	sources, err := collectSources(mod)
	if err != nil {
		diagdisplay.PrintErrorMessage("Module Load Error", err)
		return
	}

	cfg := compiler.Config{
		EmitHeader:     profile.EmitHeader,
		SafetyLevel:    safetyLevelName(profile.SafetyLevel),
		Strict:         profile.Strict,
		RuntimeInclude: profile.RuntimeInclude,
	}

	totalErrors, totalWarnings := 0, 0
	for _, src := range sources {
		if loglevel != "silent" {
			diagdisplay.BeginPhase(filepath.Base(src))
		}

		text, err := os.ReadFile(src)
		if err != nil {
			diagdisplay.PrintErrorMessage("Source Read Error", err)
			continue
		}

		var res compiler.Result
		diags := compiler.Run(func() []diag.Diagnostic {
			res = compiler.Compile(string(text), src, cfg)
			return res.Diags
		})

		if res.File != nil {
			p10Diags := p10.Run(res.File, safetyLevel(profile.SafetyLevel))
			diags = append(diags, p10Diags.All()...)
		}

		errs, warns := reportDiags(loglevel, src, text, diags)
		totalErrors += errs
		totalWarnings += warns

		if loglevel != "silent" {
			diagdisplay.EndPhase(errs == 0)
		}

		if errs == 0 && res.C != "" {
			if err := writeOutput(src, res); err != nil {
				diagdisplay.PrintErrorMessage("Output Write Error", err)
				totalErrors++
			}
		}
	}

	if loglevel != "silent" {
		diagdisplay.Finished(totalErrors == 0, totalErrors, totalWarnings)
	}
	if totalErrors > 0 {
		os.Exit(1)
	}
}

// execFmtCommand runs the `fmt` subcommand over a single file.
func execFmtCommand(result *olive.ArgParseResult) {
	filePath, _ := result.PrimaryArg()
	text, err := os.ReadFile(filePath)
	if err != nil {
		diagdisplay.PrintErrorMessage("Source Read Error", err)
		return
	}

	formatted, diags := compiler.Format(string(text), filePath)
	if errs, _ := reportDiags("verbose", filePath, text, diags); errs > 0 {
		return
	}

	if formatted != string(text) {
		if err := os.WriteFile(filePath, []byte(formatted), 0o644); err != nil {
			diagdisplay.PrintErrorMessage("Output Write Error", err)
		}
	}
}

// execModCommand executes the `mod` subcommand and its subcommands.
func execModCommand(result *olive.ArgParseResult) {
	subcmdName, subResult, _ := result.Subcommand()

	workDir, err := os.Getwd()
	if err != nil {
		diagdisplay.PrintErrorMessage("Path Error", err)
		return
	}

	switch subcmdName {
	case "init":
		name, _ := subResult.PrimaryArg()
		if err := project.Init(name, workDir); err != nil {
			diagdisplay.PrintErrorMessage("Module Init Error", err)
		}
	}
}

// -----------------------------------------------------------------------------

func loadProfileArg(result *olive.ArgParseResult) (mod *project.Module, profile *project.BuildProfile, ok bool) {
	moduleRelPath, _ := result.PrimaryArg()

	modulePath, err := filepath.Abs(moduleRelPath)
	if err != nil {
		diagdisplay.PrintErrorMessage("Path Error", err)
		return nil, nil, false
	}

	selectedProfile := ""
	if v, has := result.Arguments["profile"]; has {
		selectedProfile, _ = v.(string)
	}

	mod, profile, err = project.Load(modulePath, selectedProfile)
	if err != nil {
		diagdisplay.PrintErrorMessage("Module Load Error", err)
		return nil, nil, false
	}
	return mod, profile, true
}

// collectSources walks mod's declared source roots for .fc files.
func collectSources(mod *project.Module) ([]string, error) {
	var sources []string
	roots := mod.SourceRoots
	if len(roots) == 0 {
		roots = []string{"src"}
	}
	for _, root := range roots {
		dir := filepath.Join(mod.Root, root)
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && strings.HasSuffix(path, ".fc") {
				sources = append(sources, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if len(sources) == 0 {
		return nil, errors.New("module contains no .fc source files")
	}
	return sources, nil
}

// writeOutput writes a compiled result's .c (and optional .h) file next to
// its source, e.g. src/main.fc -> src/main.c, src/main.h.
func writeOutput(srcPath string, res compiler.Result) error {
	base := strings.TrimSuffix(srcPath, filepath.Ext(srcPath))
	if err := os.WriteFile(base+".c", []byte(res.C), 0o644); err != nil {
		return err
	}
	if res.Header != "" {
		if err := os.WriteFile(base+".h", []byte(res.Header), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// reportDiags prints diags (unless loglevel is "silent") and returns the
// error/warning counts.
func reportDiags(loglevel, srcPath string, source []byte, diags []diag.Diagnostic) (errs, warns int) {
	if loglevel == "silent" {
		for _, d := range diags {
			if d.Severity == diag.Error {
				errs++
			} else if d.Severity == diag.Warning {
				warns++
			}
		}
		return
	}
	return diagdisplay.Print(srcPath, source, diags)
}

var safetyNames = map[project.SafetyLevel]string{
	project.SafetyRelaxed:  "relaxed",
	project.SafetyStandard: "standard",
	project.SafetyCritical: "critical",
}

func safetyLevelName(s project.SafetyLevel) string {
	if name, ok := safetyNames[s]; ok {
		return name
	}
	return "standard"
}

// safetyLevel converts a project manifest's safety level into the p10
// level of the same name -- the two packages deliberately declare
// independent enums (internal/project has no dependency on internal/p10),
// so the driver is where they're reconciled.
func safetyLevel(s project.SafetyLevel) p10.Level {
	switch s {
	case project.SafetyRelaxed:
		return p10.Relaxed
	case project.SafetyCritical:
		return p10.Critical
	default:
		return p10.Standard
	}
}
