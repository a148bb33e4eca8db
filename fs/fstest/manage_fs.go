package fstest

import (
	"context"
	"testing"

	"github.com/jmgilman/go/cldfs/errors"
	"github.com/jmgilman/go/cldfs/fs/core"
)

// TestManageFS tests Delete, DeleteDirectory, Move and Copy.
func TestManageFS(t *testing.T, newFS func() core.FS, config FSTestConfig) {
	runSubtests(t, "ManageFS", newFS, config, []subtest{
		{"Delete", testManageFSDelete},
		{"DeleteNotExist", testManageFSDeleteNotExist},
		{"DeleteDirectory", testManageFSDeleteDirectory},
		{"Move", testManageFSMove},
		{"MoveOverwrite", testManageFSMoveOverwrite},
		{"MoveNotExist", testManageFSMoveNotExist},
		{"Copy", testManageFSCopy},
	})
}

func exists(t *testing.T, filesystem core.FS, path string) bool {
	t.Helper()
	ok, err := filesystem.FileExists(context.Background(), path)
	if err != nil {
		t.Fatalf("FileExists(%s): got error %v", path, err)
	}
	return ok
}

func testManageFSDelete(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	mustWrite(t, filesystem, "doomed.txt", []byte("bye"))

	if err := filesystem.Delete(context.Background(), "doomed.txt"); err != nil {
		t.Fatalf("Delete(doomed.txt): got error %v, want nil", err)
	}
	if exists(t, filesystem, "doomed.txt") {
		t.Errorf("FileExists(doomed.txt) after Delete: got true, want false")
	}
}

func testManageFSDeleteNotExist(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	if err := filesystem.Delete(context.Background(), "never-was.txt"); err != nil {
		t.Errorf("Delete(never-was.txt): got error %v, want nil", err)
	}
}

func testManageFSDeleteDirectory(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	ctx := context.Background()
	mustWrite(t, filesystem, "tree/a.txt", []byte("a"))
	mustWrite(t, filesystem, "tree/sub/b.txt", []byte("b"))
	mustWrite(t, filesystem, "treehouse/keep.txt", []byte("k"))

	if err := filesystem.DeleteDirectory(ctx, "tree"); err != nil {
		t.Fatalf("DeleteDirectory(tree): got error %v, want nil", err)
	}

	for _, p := range []string{"tree/a.txt", "tree/sub/b.txt"} {
		if exists(t, filesystem, p) {
			t.Errorf("FileExists(%s) after DeleteDirectory: got true, want false", p)
		}
	}
	if !exists(t, filesystem, "treehouse/keep.txt") {
		t.Errorf("FileExists(treehouse/keep.txt): sibling with shared prefix was removed")
	}
	if ok, err := filesystem.DirectoryExists(ctx, "tree"); err != nil || ok {
		t.Errorf("DirectoryExists(tree) after DeleteDirectory: got (%v, %v), want (false, nil)", ok, err)
	}

	if err := filesystem.DeleteDirectory(ctx, "tree"); err != nil {
		t.Errorf("DeleteDirectory(tree) twice: got error %v, want nil", err)
	}
}

func testManageFSMove(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	ctx := context.Background()
	mustWrite(t, filesystem, "from/file.txt", []byte("moving"))

	if err := filesystem.Move(ctx, "from/file.txt", "to/file.txt"); err != nil {
		t.Fatalf("Move(from/file.txt, to/file.txt): got error %v, want nil", err)
	}
	if exists(t, filesystem, "from/file.txt") {
		t.Errorf("FileExists(from/file.txt) after Move: got true, want false")
	}

	got, err := filesystem.Read(ctx, "to/file.txt")
	if err != nil {
		t.Fatalf("Read(to/file.txt): got error %v, want nil", err)
	}
	if string(got) != "moving" {
		t.Errorf("Read(to/file.txt): got %q, want %q", got, "moving")
	}
}

func testManageFSMoveOverwrite(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	ctx := context.Background()
	mustWrite(t, filesystem, "src.txt", []byte("new"))
	mustWrite(t, filesystem, "dst.txt", []byte("old"))

	if err := filesystem.Move(ctx, "src.txt", "dst.txt"); err != nil {
		t.Fatalf("Move(src.txt, dst.txt): got error %v, want nil", err)
	}
	got, err := filesystem.Read(ctx, "dst.txt")
	if err != nil {
		t.Fatalf("Read(dst.txt): got error %v, want nil", err)
	}
	if string(got) != "new" {
		t.Errorf("Read(dst.txt) after Move: got %q, want %q", got, "new")
	}
}

func testManageFSMoveNotExist(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	err := filesystem.Move(context.Background(), "ghost.txt", "anywhere.txt")
	wantCode(t, "Move(ghost.txt)", err, errors.CodeUnableToMoveFile)
}

func testManageFSCopy(t *testing.T, filesystem core.FS, config FSTestConfig) {
	ctx := context.Background()
	mustWrite(t, filesystem, "orig.txt", []byte("twin"))

	err := filesystem.Copy(ctx, "orig.txt", "copy/twin.txt")
	if !config.SupportsCopy {
		wantCode(t, "Copy(orig.txt)", err, errors.CodeUnableToCopyFile)
		return
	}
	if err != nil {
		t.Fatalf("Copy(orig.txt, copy/twin.txt): got error %v, want nil", err)
	}

	for _, p := range []string{"orig.txt", "copy/twin.txt"} {
		got, err := filesystem.Read(ctx, p)
		if err != nil {
			t.Fatalf("Read(%s) after Copy: got error %v", p, err)
		}
		if string(got) != "twin" {
			t.Errorf("Read(%s) after Copy: got %q, want %q", p, got, "twin")
		}
	}
}
