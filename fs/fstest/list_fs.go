package fstest

import (
	"context"
	"testing"

	"github.com/jmgilman/go/cldfs/fs/core"
)

// TestListFS tests ListContents.
func TestListFS(t *testing.T, newFS func() core.FS, config FSTestConfig) {
	runSubtests(t, "ListFS", newFS, config, []subtest{
		{"Shallow", testListFSShallow},
		{"Deep", testListFSDeep},
		{"NotExist", testListFSNotExist},
		{"EarlyStop", testListFSEarlyStop},
	})
}

// listing collects a listing keyed by path, failing on any error.
func listing(t *testing.T, filesystem core.FS, path string, deep bool) map[string]core.StorageAttributes {
	t.Helper()
	out := make(map[string]core.StorageAttributes)
	for attrs, err := range filesystem.ListContents(context.Background(), path, deep) {
		if err != nil {
			t.Fatalf("ListContents(%s, %v): got error %v", path, deep, err)
		}
		if _, dup := out[attrs.Path()]; dup {
			t.Errorf("ListContents(%s, %v): %s listed twice", path, deep, attrs.Path())
		}
		out[attrs.Path()] = attrs
	}
	return out
}

func testListFSShallow(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	mustWrite(t, filesystem, "ls/file.txt", []byte("f"))
	mustWrite(t, filesystem, "ls/sub/nested.txt", []byte("n"))

	got := listing(t, filesystem, "ls", false)
	if len(got) != 2 {
		t.Fatalf("ListContents(ls): got %d entries, want 2: %v", len(got), got)
	}
	if a, ok := got["ls/file.txt"]; !ok || !a.IsFile() {
		t.Errorf("ListContents(ls): missing file entry ls/file.txt")
	}
	if a, ok := got["ls/sub"]; !ok || !a.IsDir() {
		t.Errorf("ListContents(ls): missing directory entry ls/sub")
	}
}

func testListFSDeep(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	files := []string{"deep/a.txt", "deep/b/c.txt", "deep/b/d/e.txt"}
	for _, p := range files {
		mustWrite(t, filesystem, p, []byte(p))
	}
	mustWrite(t, filesystem, "shallow/other.txt", []byte("x"))

	got := listing(t, filesystem, "deep", true)
	for _, p := range files {
		if a, ok := got[p]; !ok || !a.IsFile() {
			t.Errorf("ListContents(deep, true): missing file %s", p)
		}
	}
	if _, ok := got["shallow/other.txt"]; ok {
		t.Errorf("ListContents(deep, true): listed file outside the directory")
	}
	if a, ok := got["deep/b"]; !ok || !a.IsDir() {
		t.Errorf("ListContents(deep, true): missing directory deep/b")
	}
}

func testListFSNotExist(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	if got := listing(t, filesystem, "not/here", false); len(got) != 0 {
		t.Errorf("ListContents(not/here): got %d entries, want 0", len(got))
	}
}

func testListFSEarlyStop(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	for _, p := range []string{"many/1.txt", "many/2.txt", "many/3.txt"} {
		mustWrite(t, filesystem, p, []byte(p))
	}

	n := 0
	for _, err := range filesystem.ListContents(context.Background(), "many", false) {
		if err != nil {
			t.Fatalf("ListContents(many): got error %v", err)
		}
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("ListContents(many) with early break: got %d iterations, want 2", n)
	}
}
