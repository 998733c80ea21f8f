//go:build ignore

// build.go - Skye report tools build script
// Usage: go run build.go [-target=TARGET]
// Targets: all, skyereport, combinereports, clean, test, package

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

var (
	rootDir string
	distDir string

	// Executables (key = source dir name under cmd/, value = output name)
	executables = map[string]string{
		"skyereport":     "skyereport",
		"combinereports": "combinereports",
	}

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); os.IsNotExist(err) {
		panic(fmt.Sprintf("go.mod not found in %s. Run the build from the repository root.", rootDir))
	}
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	switch *target {
	case "all":
		buildAll(*verbose)
	case "skyereport", "combinereports":
		buildExecutable(*target, *verbose)
	case "clean":
		clean(*verbose)
	case "test":
		runTests(*verbose)
	case "package":
		buildAll(*verbose)
		createPackage(*verbose)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "      Skye Financials - Build System       " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARNING]%s %s\n", colorYellow, colorReset, msg)
}

func buildAll(verbose bool) {
	printInfo("Building all executables...")
	if err := os.MkdirAll(distDir, 0755); err != nil {
		printError(fmt.Sprintf("Failed to create %s: %v", distDir, err))
		os.Exit(1)
	}

	names := make([]string, 0, len(executables))
	for name := range executables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		buildExecutable(name, verbose)
	}
	printSuccess("All executables built successfully!")
}

func buildExecutable(name string, verbose bool) {
	exeName := executables[name]
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	printInfo(fmt.Sprintf("Building %s...", name))

	outputPath := filepath.Join(distDir, exeName)
	args := []string{"build", "-trimpath", "-ldflags", "-s -w", "-o", outputPath, "./cmd/" + name}
	if verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stderr = os.Stderr
	if verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
	}

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		sizeMB := float64(info.Size()) / 1024 / 1024
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", exeName, sizeMB))
	}
}

func clean(verbose bool) {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		printWarning(fmt.Sprintf("Failed to remove %s: %v", distDir, err))
		return
	}
	if verbose {
		fmt.Printf("Removed %s\n", distDir)
	}
	printSuccess("Clean completed")
}

func runTests(verbose bool) {
	printInfo("Running tests...")
	args := []string{"test", "./..."}
	if verbose {
		args = append(args, "-v")
	}

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		printError("Tests failed")
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

// createPackage lays out dist/ the way the tools expect at runtime: the
// executables next to configs/ and an empty data tree.
func createPackage(verbose bool) {
	printInfo("Creating distribution package...")

	for _, dir := range []string{"configs", "data/input", "data/reports", "logs"} {
		if err := os.MkdirAll(filepath.Join(distDir, dir), 0755); err != nil {
			printError(fmt.Sprintf("Failed to create %s: %v", dir, err))
			os.Exit(1)
		}
	}

	src := filepath.Join(rootDir, "configs", "config.example.yaml")
	dest := filepath.Join(distDir, "configs", "config.yaml")
	if err := copyFile(src, dest); err != nil {
		printWarning(fmt.Sprintf("Failed to copy example config: %v", err))
	} else if verbose {
		fmt.Printf("Copied %s -> %s\n", src, dest)
	}

	printSuccess(fmt.Sprintf("Package created in %s", distDir))
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0644)
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all             Build every executable (default)")
	fmt.Println("  skyereport      Build the period report tool")
	fmt.Println("  combinereports  Build the report combiner")
	fmt.Println("  clean           Remove dist/")
	fmt.Println("  test            Run all tests")
	fmt.Println("  package         Build and lay out dist/ with configs and data directories")
}
