package compare

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/treediff/treediff/pkg/models"
)

// TestHelper provides utilities for engine tests
type TestHelper struct {
	t     *testing.T
	rootA string
	rootB string
}

// NewTestHelper creates a helper with two empty temporary roots
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	tempDir := t.TempDir()
	rootA := filepath.Join(tempDir, "a")
	rootB := filepath.Join(tempDir, "b")

	for _, dir := range []string{rootA, rootB} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create root: %v", err)
		}
	}

	return &TestHelper{t: t, rootA: rootA, rootB: rootB}
}

// CreateFileA creates a file under the first root
func (h *TestHelper) CreateFileA(name, content string) {
	h.t.Helper()
	h.createFile(h.rootA, name, content)
}

// CreateFileB creates a file under the second root
func (h *TestHelper) CreateFileB(name, content string) {
	h.t.Helper()
	h.createFile(h.rootB, name, content)
}

func (h *TestHelper) createFile(root, name, content string) {
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		h.t.Fatalf("failed to create file: %v", err)
	}
}

// SymlinkA creates a symbolic link under the first root
func (h *TestHelper) SymlinkA(target, name string) {
	h.t.Helper()
	if err := os.Symlink(target, filepath.Join(h.rootA, name)); err != nil {
		h.t.Skipf("symlinks not supported: %v", err)
	}
}

// PathA returns the path of name as it is reported under the first root
func (h *TestHelper) PathA(name string) string {
	return filepath.Join(h.rootA, name)
}

// Run executes a comparison between the two roots
func (h *TestHelper) Run(excludePatterns []string) (*models.DiffReport, error) {
	return Trees(context.Background(), h.rootA, h.rootB, excludePatterns)
}

func TestEngineDisjointTrees(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateFileA("one.txt", "alpha")
	h.CreateFileA("sub/two.txt", "beta")
	h.CreateFileB("other.txt", "gamma")

	report, err := h.Run(nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{h.PathA("one.txt"), h.PathA("sub/two.txt")}
	if !reflect.DeepEqual(report.New, want) {
		t.Errorf("New = %v, want %v", report.New, want)
	}
	if len(report.Changed) != 0 || len(report.Unchanged) != 0 {
		t.Errorf("Changed = %v, Unchanged = %v, want both empty", report.Changed, report.Unchanged)
	}
}

func TestEngineIdenticalContent(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateFileA("same.bin", "identical bytes")
	h.CreateFileB("same.bin", "identical bytes")

	// Different timestamps must not matter.
	old := filepath.Join(h.rootB, "same.bin")
	if err := os.Chtimes(old, epoch(), epoch()); err != nil {
		t.Fatalf("failed to set mod time: %v", err)
	}

	report, err := h.Run(nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !reflect.DeepEqual(report.Unchanged, []string{h.PathA("same.bin")}) {
		t.Errorf("Unchanged = %v, want [same.bin]", report.Unchanged)
	}
	if len(report.Changed) != 0 || len(report.New) != 0 {
		t.Errorf("Changed = %v, New = %v, want both empty", report.Changed, report.New)
	}
}

func TestEngineSingleByteDifference(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateFileA("file.bin", "content-X")
	h.CreateFileB("file.bin", "content-Y")

	report, err := h.Run(nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !reflect.DeepEqual(report.Changed, []string{h.PathA("file.bin")}) {
		t.Errorf("Changed = %v, want [file.bin]", report.Changed)
	}
}

func TestEngineExcludedNeverReported(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateFileA("keep.txt", "data")
	h.CreateFileA("skip.log", "data")
	h.CreateFileB("skip.log", "other")

	report, err := h.Run([]string{`\.log$`})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, list := range [][]string{report.Changed, report.New, report.Unchanged} {
		for _, path := range list {
			if filepath.Base(path) == "skip.log" {
				t.Errorf("excluded file reported in output: %s", path)
			}
		}
	}
	if report.Stats.Excluded != 1 {
		t.Errorf("Stats.Excluded = %d, want 1", report.Stats.Excluded)
	}
}

func TestEngineSymlinksNeverReported(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateFileA("real.txt", "source content")
	h.CreateFileB("link.txt", "completely different")
	h.SymlinkA(h.PathA("real.txt"), "link.txt")

	report, err := h.Run(nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, list := range [][]string{report.Changed, report.New, report.Unchanged} {
		for _, path := range list {
			if filepath.Base(path) == "link.txt" {
				t.Errorf("symlink reported in output: %s", path)
			}
		}
	}
	if report.Stats.SymlinksSkipped != 1 {
		t.Errorf("Stats.SymlinksSkipped = %d, want 1", report.Stats.SymlinksSkipped)
	}
}

func TestEngineIdempotence(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateFileA("a.txt", "one")
	h.CreateFileA("b.txt", "two")
	h.CreateFileB("a.txt", "one")
	h.CreateFileB("b.txt", "changed")
	h.CreateFileA("c.txt", "three")

	first, err := h.Run(nil)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	second, err := h.Run(nil)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if !reflect.DeepEqual(first.Changed, second.Changed) ||
		!reflect.DeepEqual(first.New, second.New) ||
		!reflect.DeepEqual(first.Unchanged, second.Unchanged) {
		t.Errorf("repeated runs disagree: first = %+v, second = %+v", first, second)
	}
}

func TestEngineRoundTripPartition(t *testing.T) {
	h := NewTestHelper(t)
	files := map[string]string{
		"top.txt":        "t",
		"sub/mid.txt":    "m",
		"sub/deep/x.txt": "x",
		"other.bin":      "o",
	}
	for name, content := range files {
		h.CreateFileA(name, content)
	}
	h.CreateFileB("top.txt", "t")
	h.CreateFileB("sub/mid.txt", "different")

	report, err := h.Run(nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got []string
	got = append(got, report.Changed...)
	got = append(got, report.New...)
	got = append(got, report.Unchanged...)
	sort.Strings(got)

	var want []string
	for name := range files {
		want = append(want, h.PathA(name))
	}
	sort.Strings(want)

	if !reflect.DeepEqual(got, want) {
		t.Errorf("classification union = %v, want exactly the files of the first tree %v", got, want)
	}
}

func TestEngineScenarioMixed(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateFileA("test.abc", "Test")
	h.CreateFileA("test.xls", "Test")
	h.CreateFileA("test.txt", "Test")
	h.CreateFileB("test.xls", "Test2")

	report, err := h.Run([]string{".txt"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !reflect.DeepEqual(report.New, []string{h.PathA("test.abc")}) {
		t.Errorf("New = %v, want [test.abc]", report.New)
	}
	if !reflect.DeepEqual(report.Changed, []string{h.PathA("test.xls")}) {
		t.Errorf("Changed = %v, want [test.xls]", report.Changed)
	}
	if len(report.Unchanged) != 0 {
		t.Errorf("Unchanged = %v, want empty", report.Unchanged)
	}
}

func TestEngineIdenticalTrees(t *testing.T) {
	h := NewTestHelper(t)
	files := map[string]string{
		"a.txt":     "alpha",
		"sub/b.txt": "beta",
		"sub/c.txt": "gamma",
	}
	for name, content := range files {
		h.CreateFileA(name, content)
		h.CreateFileB(name, content)
	}

	report, err := h.Run(nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(report.Changed) != 0 || len(report.New) != 0 {
		t.Errorf("Changed = %v, New = %v, want both empty", report.Changed, report.New)
	}
	if len(report.Unchanged) != len(files) {
		t.Errorf("len(Unchanged) = %d, want %d", len(report.Unchanged), len(files))
	}
}

func TestEngineMissingSecondRoot(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateFileA("one", "1")
	h.CreateFileA("two", "2")
	h.CreateFileA("three", "3")

	report, err := Trees(context.Background(), h.rootA, filepath.Join(h.rootB, "does-not-exist"), nil)
	if err != nil {
		t.Fatalf("Trees() error = %v", err)
	}

	if len(report.New) != 3 {
		t.Errorf("len(New) = %d, want 3", len(report.New))
	}
	if len(report.Changed) != 0 || len(report.Unchanged) != 0 {
		t.Errorf("Changed = %v, Unchanged = %v, want both empty", report.Changed, report.Unchanged)
	}
}

func TestEngineMissingFirstRoot(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateFileB("present", "data")

	report, err := Trees(context.Background(), filepath.Join(h.rootA, "does-not-exist"), h.rootB, nil)
	if err != nil {
		t.Fatalf("Trees() error = %v", err)
	}

	if report.TotalClassified() != 0 {
		t.Errorf("TotalClassified() = %d, want 0 for missing first root", report.TotalClassified())
	}
}

func TestEngineInvalidPattern(t *testing.T) {
	// The pattern failure must surface before any filesystem access, so
	// nonexistent roots must not matter here.
	_, err := Trees(context.Background(), "/nonexistent/a", "/nonexistent/b", []string{"(unbalanced"})
	if err == nil {
		t.Fatal("Trees() should fail for an invalid pattern")
	}

	var patternErr *PatternError
	if !errors.As(err, &patternErr) {
		t.Fatalf("error = %v, want *PatternError", err)
	}
	if patternErr.Pattern != "(unbalanced" {
		t.Errorf("Pattern = %q, want %q", patternErr.Pattern, "(unbalanced")
	}
}

func TestEngineDiscoveryOrder(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateFileA("aa.txt", "1")
	h.CreateFileA("bb/cc.txt", "2")
	h.CreateFileA("dd.txt", "3")

	report, err := h.Run(nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// filepath.WalkDir yields entries in lexical, depth-first order.
	want := []string{h.PathA("aa.txt"), h.PathA("bb/cc.txt"), h.PathA("dd.txt")}
	if !reflect.DeepEqual(report.New, want) {
		t.Errorf("New = %v, want discovery order %v", report.New, want)
	}
}

func TestEngineUnreadableSelectedFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission checks are bypassed")
	}

	h := NewTestHelper(t)
	h.CreateFileA("secret.txt", "data")
	h.CreateFileB("secret.txt", "data")

	path := h.PathA("secret.txt")
	if err := os.Chmod(path, 0000); err != nil {
		t.Fatalf("failed to chmod: %v", err)
	}
	defer os.Chmod(path, 0644)

	_, err := h.Run(nil)
	if err == nil {
		t.Fatal("Run() should fail when a selected file cannot be read")
	}

	var ioErr *IoError
	if !errors.As(err, &ioErr) {
		t.Fatalf("error = %v, want *IoError", err)
	}
}

func TestEngineNoPartialResultsOnFatalError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission checks are bypassed")
	}

	h := NewTestHelper(t)
	h.CreateFileA("a_first.txt", "fine")
	h.CreateFileA("b_broken.txt", "data")
	h.CreateFileB("b_broken.txt", "data")

	path := h.PathA("b_broken.txt")
	if err := os.Chmod(path, 0000); err != nil {
		t.Fatalf("failed to chmod: %v", err)
	}
	defer os.Chmod(path, 0644)

	report, err := h.Run(nil)
	if err == nil {
		t.Fatal("Run() should fail")
	}
	if report != nil {
		t.Errorf("report = %+v, want nil alongside a fatal error", report)
	}
}

func TestEngineCancellation(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateFileA("file.txt", "data")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Trees(ctx, h.rootA, h.rootB, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func epoch() time.Time {
	return time.Unix(0, 0)
}
