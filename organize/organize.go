// Package organize lays simulation inputs and outputs into the fixed
// directory structure expected by the archival importer.
package organize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File classes routed into the destination tree.
var (
	codePatterns   = []string{"*.cc", "*.c", "*.cpp", "*.cxx", "*.h", "*.hpp", "*.prm", "*.py", "*.sh", "*.json", "*.yaml", "*.yml"}
	outputPatterns = []string{"*.vtk", "*.vtu", "*.pvtu"}
	docPatterns    = []string{"*.md"}
)

// Options configures one organizer run.
type Options struct {
	// SrcDir is the flat directory holding the simulation files.
	SrcDir string
	// DstDir receives the organized tree. Empty means a directory named
	// after the source's basename under the current directory.
	DstDir string
	// CopyOutput copies bulk output files instead of moving them.
	CopyOutput bool
}

// Result reports the outcome of an organizer run. Failures never escape as
// errors; they are described here with Success set to false.
type Result struct {
	SrcDir  string
	DstDir  string
	Elapsed time.Duration
	Success bool
	Message string
}

// Run organizes the files under opts.SrcDir into the destination tree:
// code/, data/vtk/, data/images/, data/movies/ and data/postprocess/, with
// markdown files kept at the destination root.
func Run(opts Options) Result {
	start := time.Now()
	res := Result{}
	fail := func(msg string) Result {
		res.Elapsed = time.Since(start)
		res.Message = msg
		return res
	}

	src, err := absPath(opts.SrcDir)
	if err != nil {
		return fail("invalid source directory: " + err.Error())
	}
	res.SrcDir = src

	dst := opts.DstDir
	if dst == "" {
		dst = filepath.Join(".", filepath.Base(src))
	}
	dst, err = absPath(dst)
	if err != nil {
		return fail("invalid destination directory: " + err.Error())
	}
	res.DstDir = dst

	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return fail(fmt.Sprintf("source directory %q does not exist", src))
	}

	layout := newLayout(dst)
	if err := layout.create(); err != nil {
		return fail("failed to create directory structure: " + err.Error())
	}
	if err := layout.place(src, opts.CopyOutput); err != nil {
		return fail("failed to organize files: " + err.Error())
	}

	res.Elapsed = time.Since(start)
	res.Success = true
	res.Message = fmt.Sprintf("file organization completed in %.2f seconds", res.Elapsed.Seconds())
	return res
}

// layout holds the destination subdirectories.
type layout struct {
	root        string
	code        string
	vtk         string
	images      string
	movies      string
	postprocess string
}

func newLayout(root string) layout {
	data := filepath.Join(root, "data")
	return layout{
		root:        root,
		code:        filepath.Join(root, "code"),
		vtk:         filepath.Join(data, "vtk"),
		images:      filepath.Join(data, "images"),
		movies:      filepath.Join(data, "movies"),
		postprocess: filepath.Join(data, "postprocess"),
	}
}

func (l layout) create() error {
	for _, dir := range []string{l.root, l.code, l.vtk, l.images, l.movies, l.postprocess} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func (l layout) place(src string, copyOutput bool) error {
	if err := transfer(src, codePatterns, l.code, true); err != nil {
		return err
	}
	if err := transfer(src, outputPatterns, l.vtk, copyOutput); err != nil {
		return err
	}
	if err := transfer(src, docPatterns, l.root, true); err != nil {
		return err
	}
	return l.placeSpecial(src)
}

// placeSpecial routes the two fixed-name files that extension matching
// cannot classify.
func (l layout) placeSpecial(src string) error {
	special := map[string]string{
		"CMakeLists.txt":       l.code,
		"integratedFields.txt": l.postprocess,
	}
	for name, dir := range special {
		path := filepath.Join(src, name)
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		if err := copyFile(path, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// transfer copies (or moves) every file under src matching one of the glob
// patterns into dst.
func transfer(src string, patterns []string, dst string, keep bool) error {
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(src, pattern))
		if err != nil {
			return err
		}
		for _, match := range matches {
			target := filepath.Join(dst, filepath.Base(match))
			if keep {
				err = copyFile(match, target)
			} else {
				err = moveFile(match, target)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// copyFile copies src to dst, preserving mode and modification time.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// moveFile renames src to dst, falling back to copy+remove across devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// absPath expands a leading ~ and resolves the path to absolute form.
func absPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
