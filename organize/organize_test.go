package organize

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name+" contents"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func mustExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected %s to exist: %v", path, err)
	}
}

func TestRun_DefaultDestination(t *testing.T) {
	src := filepath.Join(t.TempDir(), "mysim")
	if err := os.Mkdir(src, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFiles(t, src, "run.cpp", "out.vtk", "notes.md")

	work := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatal(err)
		}
	})

	res := Run(Options{SrcDir: src, CopyOutput: true})
	if !res.Success {
		t.Fatalf("Run() failed: %s", res.Message)
	}

	wantDst, err := filepath.EvalSymlinks(filepath.Join(work, "mysim"))
	if err != nil {
		t.Fatal(err)
	}
	gotDst, err := filepath.EvalSymlinks(res.DstDir)
	if err != nil {
		t.Fatal(err)
	}
	if gotDst != wantDst {
		t.Errorf("DstDir = %s, want %s", gotDst, wantDst)
	}

	mustExist(t, filepath.Join(res.DstDir, "code", "run.cpp"))
	mustExist(t, filepath.Join(res.DstDir, "data", "vtk", "out.vtk"))
	mustExist(t, filepath.Join(res.DstDir, "notes.md"))
	if res.Elapsed <= 0 {
		t.Error("Expected a positive elapsed time")
	}
}

func TestRun_FullLayout(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src,
		"equations.cc", "parameters.prm", "plot.py", "run.sh",
		"solution-1000.vtu", "solution-2000.pvtu",
		"CMakeLists.txt", "integratedFields.txt", "README.md",
		"unrelated.dat",
	)
	dst := filepath.Join(t.TempDir(), "organized")

	res := Run(Options{SrcDir: src, DstDir: dst, CopyOutput: true})
	if !res.Success {
		t.Fatalf("Run() failed: %s", res.Message)
	}

	for _, rel := range []string{
		"code/equations.cc",
		"code/parameters.prm",
		"code/plot.py",
		"code/run.sh",
		"code/CMakeLists.txt",
		"data/vtk/solution-1000.vtu",
		"data/vtk/solution-2000.pvtu",
		"data/postprocess/integratedFields.txt",
		"README.md",
	} {
		mustExist(t, filepath.Join(dst, filepath.FromSlash(rel)))
	}

	for _, rel := range []string{"data/images", "data/movies"} {
		info, err := os.Stat(filepath.Join(dst, filepath.FromSlash(rel)))
		if err != nil || !info.IsDir() {
			t.Errorf("Expected directory %s", rel)
		}
	}

	// Unmatched files stay put.
	if _, err := os.Stat(filepath.Join(dst, "unrelated.dat")); err == nil {
		t.Error("unrelated.dat must not be organized")
	}
	mustExist(t, filepath.Join(src, "unrelated.dat"))
}

func TestRun_CopyKeepsOutputs(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, "out.vtk")
	dst := filepath.Join(t.TempDir(), "d")

	res := Run(Options{SrcDir: src, DstDir: dst, CopyOutput: true})
	if !res.Success {
		t.Fatalf("Run() failed: %s", res.Message)
	}
	mustExist(t, filepath.Join(src, "out.vtk"))
	mustExist(t, filepath.Join(dst, "data", "vtk", "out.vtk"))
}

func TestRun_MoveRemovesOutputs(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, "out.vtk", "keep.cpp")
	dst := filepath.Join(t.TempDir(), "d")

	res := Run(Options{SrcDir: src, DstDir: dst, CopyOutput: false})
	if !res.Success {
		t.Fatalf("Run() failed: %s", res.Message)
	}
	if _, err := os.Stat(filepath.Join(src, "out.vtk")); err == nil {
		t.Error("Expected out.vtk to be moved out of the source")
	}
	mustExist(t, filepath.Join(dst, "data", "vtk", "out.vtk"))
	// Code files are always copied, never moved.
	mustExist(t, filepath.Join(src, "keep.cpp"))
}

func TestRun_MissingSource(t *testing.T) {
	res := Run(Options{SrcDir: filepath.Join(t.TempDir(), "nope")})
	if res.Success {
		t.Fatal("Expected failure for a missing source directory")
	}
	if res.Message == "" {
		t.Error("Expected a descriptive message")
	}
}

func TestRun_CopyPreservesContents(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, "main.cc")
	dst := filepath.Join(t.TempDir(), "d")

	res := Run(Options{SrcDir: src, DstDir: dst, CopyOutput: true})
	if !res.Success {
		t.Fatalf("Run() failed: %s", res.Message)
	}

	data, err := os.ReadFile(filepath.Join(dst, "code", "main.cc"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "main.cc contents" {
		t.Errorf("Copied contents = %q", data)
	}
}
