// SPDX-License-Identifier: MIT

// Package e2e provides end-to-end tests for the jsontmpl CLI.
package e2e

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
)

var (
	binary string                                              // path to built jsontmpl binary
	update = flag.Bool("update", false, "update golden files")
)

func TestMain(m *testing.M) {
	flag.Parse()

	// Build the jsontmpl binary to a temp location.
	tmpDir, err := os.MkdirTemp("", "jsontmpl-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	binary = filepath.Join(tmpDir, "jsontmpl")
	if err := buildBinary(binary); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build binary: %v\n", err)
		os.RemoveAll(tmpDir)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// buildBinary builds the jsontmpl binary to the specified path.
func buildBinary(outputPath string, tags ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	args := []string{"build", "-o", outputPath}
	if len(tags) > 0 {
		args = append(args, "-tags", strings.Join(tags, ","))
	}
	cmd := exec.CommandContext(ctx, "go", append(args, "./cmd/jsontmpl")...)

	// Set working directory to the module root.
	moduleRoot, err := findModuleRoot()
	if err != nil {
		return fmt.Errorf("find module root: %w", err)
	}
	cmd.Dir = moduleRoot

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build: %w: %s", err, stderr.String())
	}

	return nil
}

// findModuleRoot finds the root of the Go module by looking for go.mod.
func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// The e2e tests are in /path/to/jsontmpl/e2e/, so module root is the parent.
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}

func TestE2E(t *testing.T) {
	testdataDir := filepath.Join("testdata")

	pattern := filepath.Join(testdataDir, "*.txtar")
	files, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("glob %q: %v", pattern, err)
	}

	if len(files) == 0 {
		t.Fatalf("no txtar files found in %q", testdataDir)
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".txtar")
		t.Run(name, func(t *testing.T) {
			runTestCase(t, file, name)
		})
	}
}

// runTestCase executes a single e2e test case.
//
// Inputs are written to a temp directory: a descriptor document
// (input.yaml or input.json) is passed with -catalog, config.yaml with
// -config, and files under src/ form a Go module passed with -dir. The
// token $OUT in the flags names a fresh output directory whose files are
// compared as want/out/*.
func runTestCase(t *testing.T, file, name string) {
	t.Helper()

	ar, err := txtar.ParseFile(file)
	if err != nil {
		t.Fatalf("parse txtar: %v", err)
	}

	tc, err := parseE2ECase(name, ar)
	if err != nil {
		t.Fatalf("parse case: %v", err)
	}
	if tc.source != nil && testing.Short() {
		t.Skip("skipping package loading in short mode")
	}

	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "out")

	var args []string
	if tc.catalogName != "" {
		catalogPath := filepath.Join(tmpDir, tc.catalogName)
		if err := os.WriteFile(catalogPath, tc.catalog, 0o644); err != nil {
			t.Fatalf("write %s: %v", tc.catalogName, err)
		}
		args = append(args, "-catalog", catalogPath)
	}
	if tc.config != nil {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, tc.config, 0o644); err != nil {
			t.Fatalf("write config.yaml: %v", err)
		}
		args = append(args, "-config", configPath)
	}
	if tc.source != nil {
		srcDir := filepath.Join(tmpDir, "src")
		for name, data := range tc.source {
			path := filepath.Join(srcDir, filepath.FromSlash(name))
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				t.Fatalf("write %s: %v", name, err)
			}
		}
		args = append(args, "-dir", srcDir)
	}
	for _, f := range tc.flags {
		args = append(args, strings.ReplaceAll(f, "$OUT", outDir+string(filepath.Separator)))
	}

	// Execute the CLI.
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod", "GOPROXY=off")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	got := map[string][]byte{}
	if _, wantsError := tc.want["error"]; wantsError {
		if err == nil {
			t.Fatalf("command succeeded, want failure\nstdout: %s", stdout.String())
		}
		got["error"] = lastLine(stderr.Bytes())
	} else {
		if err != nil {
			t.Logf("command: %s %s", binary, strings.Join(args, " "))
			t.Logf("stderr: %s", stderr.String())
			t.Fatalf("command failed: %v", err)
		}
		if stdout.Len() > 0 {
			got["stdout"] = stdout.Bytes()
		}
		if err := collectDir(outDir, got); err != nil {
			t.Fatalf("collect output: %v", err)
		}
	}

	if *update {
		updated := updateE2EArchive(ar, got)
		if err := os.WriteFile(file, txtar.Format(updated), 0o644); err != nil {
			t.Fatalf("write updated file: %v", err)
		}
		t.Logf("updated %s", file)
		return
	}

	compareOutput(t, tc.want, got)
}

// collectDir adds every file under dir to got as out/<name>.
func collectDir(dir string, got map[string][]byte) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		got["out/"+filepath.ToSlash(rel)] = data
		return nil
	})
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// lastLine returns the final non-empty line of stderr, which holds the
// error message.
func lastLine(b []byte) []byte {
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	return []byte(lines[len(lines)-1] + "\n")
}

// e2eCase represents a parsed e2e test case.
type e2eCase struct {
	name        string
	description string
	flags       []string
	catalogName string
	catalog     []byte
	config      []byte
	source      map[string][]byte
	want        map[string][]byte
}

// parseE2ECase parses a txtar archive into an e2e test case.
func parseE2ECase(name string, ar *txtar.Archive) (*e2eCase, error) {
	c := &e2eCase{
		name:        name,
		description: string(ar.Comment),
		want:        make(map[string][]byte),
	}

	// Parse flags from description.
	c.parseFlags()

	// Process files.
	for _, f := range ar.Files {
		switch {
		case f.Name == "input.yaml" || f.Name == "input.json":
			if c.catalog != nil {
				return nil, fmt.Errorf("archive has more than one input document")
			}
			c.catalogName = f.Name
			c.catalog = f.Data
		case f.Name == "config.yaml":
			c.config = f.Data
		case strings.HasPrefix(f.Name, "src/"):
			if c.source == nil {
				c.source = make(map[string][]byte)
			}
			c.source[strings.TrimPrefix(f.Name, "src/")] = f.Data
		case strings.HasPrefix(f.Name, "want/"):
			relPath := strings.TrimPrefix(f.Name, "want/")
			c.want[relPath] = f.Data
		default:
			return nil, fmt.Errorf("unexpected file in archive: %q (expected input.yaml, input.json, config.yaml, src/* or want/*)", f.Name)
		}
	}

	if c.catalog == nil && c.source == nil {
		return nil, fmt.Errorf("missing input.yaml, input.json or src/* in archive")
	}

	if len(c.want) == 0 {
		return nil, fmt.Errorf("missing want/* files in archive")
	}

	return c, nil
}

// parseFlags extracts flags from "Flags: ..." line in the description.
// Flags are space-separated (not comma-separated) to match CLI conventions.
func (c *e2eCase) parseFlags() {
	lines := strings.Split(c.description, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Flags:") {
			flagStr := strings.TrimPrefix(line, "Flags:")
			flagStr = strings.TrimSpace(flagStr)
			if flagStr != "" {
				// Split by whitespace to handle flags like "-t Order,Line"
				c.flags = strings.Fields(flagStr)
			}
			break
		}
	}
}

// compareOutput compares expected and actual output.
func compareOutput(t *testing.T, want, got map[string][]byte) {
	t.Helper()

	// Check for missing expected files.
	for wantFile := range want {
		if _, ok := got[wantFile]; !ok {
			t.Errorf("missing output file: %q", wantFile)
		}
	}

	// Check for unexpected files.
	for gotFile := range got {
		if _, ok := want[gotFile]; !ok {
			t.Errorf("unexpected output file: %q", gotFile)
		}
	}

	// Compare contents.
	for wantFile, wantContent := range want {
		gotContent, ok := got[wantFile]
		if !ok {
			continue // Already reported as missing.
		}

		if diff := cmp.Diff(normalizeOutput(wantContent), normalizeOutput(gotContent)); diff != "" {
			t.Errorf("file %q mismatch (-want +got):\n%s", wantFile, diff)
		}
	}
}

// normalizeOutput trims trailing whitespace from each line and trailing
// newlines, which txtar does not preserve reliably.
func normalizeOutput(content []byte) string {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// updateE2EArchive updates a txtar archive with new generated content.
func updateE2EArchive(ar *txtar.Archive, got map[string][]byte) *txtar.Archive {
	result := &txtar.Archive{
		Comment: ar.Comment,
	}

	// Keep the inputs.
	for _, f := range ar.Files {
		if !strings.HasPrefix(f.Name, "want/") {
			result.Files = append(result.Files, f)
		}
	}

	// Add want/* files in sorted order.
	var wantFiles []string
	for name := range got {
		wantFiles = append(wantFiles, name)
	}
	sort.Strings(wantFiles)

	for _, name := range wantFiles {
		content := []byte(normalizeOutput(got[name]) + "\n")
		result.Files = append(result.Files, txtar.File{
			Name: "want/" + name,
			Data: content,
		})
	}

	return result
}
