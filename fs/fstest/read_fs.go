package fstest

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/jmgilman/go/cldfs/errors"
	"github.com/jmgilman/go/cldfs/fs/core"
)

// TestReadFS tests Read, ReadStream, FileExists and DirectoryExists.
func TestReadFS(t *testing.T, newFS func() core.FS, config FSTestConfig) {
	runSubtests(t, "ReadFS", newFS, config, []subtest{
		{"Read", testReadFSRead},
		{"ReadStream", testReadFSReadStream},
		{"ReadNotExist", testReadFSReadNotExist},
		{"FileExists", testReadFSFileExists},
		{"DirectoryExists", testReadFSDirectoryExists},
	})
}

func testReadFSRead(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	ctx := context.Background()
	want := []byte("read me\n")
	mustWrite(t, filesystem, "read/file.txt", want)

	got, err := filesystem.Read(ctx, "read/file.txt")
	if err != nil {
		t.Fatalf("Read(read/file.txt): got error %v, want nil", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Read(read/file.txt): got %q, want %q", got, want)
	}
}

func testReadFSReadStream(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	ctx := context.Background()
	want := bytes.Repeat([]byte("0123456789"), 512)
	mustWrite(t, filesystem, "stream.bin", want)

	r, err := filesystem.ReadStream(ctx, "stream.bin")
	if err != nil {
		t.Fatalf("ReadStream(stream.bin): got error %v, want nil", err)
	}
	defer func() { _ = r.Close() }()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll(stream.bin): got error %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("ReadStream(stream.bin): got %d bytes, want %d", len(got), len(want))
	}
}

func testReadFSReadNotExist(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	ctx := context.Background()

	_, err := filesystem.Read(ctx, "missing.txt")
	wantCode(t, "Read(missing.txt)", err, errors.CodeUnableToReadFile)

	_, err = filesystem.ReadStream(ctx, "missing.txt")
	wantCode(t, "ReadStream(missing.txt)", err, errors.CodeUnableToReadFile)
}

func testReadFSFileExists(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	ctx := context.Background()
	mustWrite(t, filesystem, "exists/file.txt", []byte("x"))

	tests := []struct {
		path string
		want bool
	}{
		{"exists/file.txt", true},
		{"/exists/file.txt", true},
		{"exists/other.txt", false},
		{"exists", false},
	}
	for _, tt := range tests {
		got, err := filesystem.FileExists(ctx, tt.path)
		if err != nil {
			t.Errorf("FileExists(%s): got error %v, want nil", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FileExists(%s): got %v, want %v", tt.path, got, tt.want)
		}
	}
}

func testReadFSDirectoryExists(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	ctx := context.Background()
	mustWrite(t, filesystem, "outer/inner/file.txt", []byte("x"))

	tests := []struct {
		path string
		want bool
	}{
		{"", true},
		{"outer", true},
		{"outer/inner", true},
		{"outer/missing", false},
		{"nowhere", false},
	}
	for _, tt := range tests {
		got, err := filesystem.DirectoryExists(ctx, tt.path)
		if err != nil {
			t.Errorf("DirectoryExists(%q): got error %v, want nil", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("DirectoryExists(%q): got %v, want %v", tt.path, got, tt.want)
		}
	}
}
