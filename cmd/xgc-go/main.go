package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"xgc-go/packages/compiler/generator"
	"xgc-go/packages/compiler/metadata"
)

func usage() {
	fmt.Println(`xgc-go - markup compiler
Usage: xgc-go <command> [args]

Commands:
  compile [flags] <path>   Compile every .xaml document under path
  help                     Show help

Compile flags:
  -metadata <file>   Type-metadata manifest (json)
  -assembly <name>   Compiling assembly name, enables resource uri rewriting`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "help":
		usage()
	case "compile":
		flags := flag.NewFlagSet("compile", flag.ExitOnError)
		manifestPath := flags.String("metadata", "", "type-metadata manifest")
		assemblyName := flags.String("assembly", "", "compiling assembly name")
		flags.Parse(os.Args[2:])
		root := "."
		if flags.NArg() > 0 {
			root = flags.Arg(0)
		}
		if err := compile(root, *manifestPath, *assemblyName); err != nil {
			fmt.Fprintf(os.Stderr, "compile error: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func compile(root, manifestPath, assemblyName string) error {
	oracle := metadata.NewStaticOracle()
	if manifestPath != "" {
		loaded, err := loadManifest(manifestPath)
		if err != nil {
			return err
		}
		oracle = loaded
	}

	var compiled, failed int
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !strings.HasSuffix(path, ".xaml") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		if err := compileFile(path, filepath.ToSlash(rel), oracle, assemblyName); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			return nil
		}
		compiled++
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Printf("Compiled %d documents, %d failed\n", compiled, failed)
	if failed > 0 {
		return fmt.Errorf("%d documents failed to compile", failed)
	}
	return nil
}

// compileFile compiles one document into its sibling .g.cs file
func compileFile(path, relativePath string, oracle metadata.TypeOracle, assemblyName string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := parseDocument(content, relativePath)
	if err != nil {
		return err
	}
	cfg := &generator.Config{
		AssemblyName:             assemblyName,
		ImplicitAssemblyRedirect: assemblyName != "",
		GenerateFields:           true,
		FactorHelpers:            true,
	}
	source, err := generator.NewGenerator(cfg, oracle, doc).Generate()
	if err != nil {
		return err
	}
	out := strings.TrimSuffix(path, ".xaml") + ".g.cs"
	return os.WriteFile(out, []byte(source), 0o644)
}
