package fstest

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jmgilman/go/cldfs/errors"
	"github.com/jmgilman/go/cldfs/fs/core"
)

// TestWriteFS tests Write, WriteStream and CreateDirectory.
func TestWriteFS(t *testing.T, newFS func() core.FS, config FSTestConfig) {
	runSubtests(t, "WriteFS", newFS, config, []subtest{
		{"Overwrite", testWriteFSOverwrite},
		{"BinaryContent", testWriteFSBinary},
		{"WriteStream", testWriteFSWriteStream},
		{"WriteStreamNil", testWriteFSWriteStreamNil},
		{"EmptyFile", testWriteFSEmptyFile},
		{"CreateDirectory", testWriteFSCreateDirectory},
	})
}

func testWriteFSOverwrite(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	ctx := context.Background()
	mustWrite(t, filesystem, "over.txt", []byte("first"))
	mustWrite(t, filesystem, "over.txt", []byte("second"))

	got, err := filesystem.Read(ctx, "over.txt")
	if err != nil {
		t.Fatalf("Read(over.txt): got error %v, want nil", err)
	}
	if string(got) != "second" {
		t.Errorf("Read(over.txt) after overwrite: got %q, want %q", got, "second")
	}
}

func testWriteFSBinary(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	ctx := context.Background()
	want := make([]byte, 256)
	for i := range want {
		want[i] = byte(i)
	}
	mustWrite(t, filesystem, "bin/all-bytes.dat", want)

	got, err := filesystem.Read(ctx, "bin/all-bytes.dat")
	if err != nil {
		t.Fatalf("Read(bin/all-bytes.dat): got error %v, want nil", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Read(bin/all-bytes.dat): content differs from what was written")
	}
}

func testWriteFSWriteStream(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	ctx := context.Background()
	if err := filesystem.WriteStream(ctx, "streamed.txt", strings.NewReader("from a stream")); err != nil {
		t.Fatalf("WriteStream(streamed.txt): got error %v, want nil", err)
	}

	got, err := filesystem.Read(ctx, "streamed.txt")
	if err != nil {
		t.Fatalf("Read(streamed.txt): got error %v, want nil", err)
	}
	if string(got) != "from a stream" {
		t.Errorf("Read(streamed.txt): got %q, want %q", got, "from a stream")
	}
}

func testWriteFSWriteStreamNil(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	err := filesystem.WriteStream(context.Background(), "nil.txt", nil)
	wantCode(t, "WriteStream(nil.txt, nil)", err, errors.CodeInvalidInput)
}

func testWriteFSEmptyFile(t *testing.T, filesystem core.FS, config FSTestConfig) {
	ctx := context.Background()
	err := filesystem.Write(ctx, "empty.txt", nil)
	if !config.SupportsEmptyFiles {
		wantCode(t, "Write(empty.txt)", err, errors.CodeUnableToWriteFile)
		return
	}
	if err != nil {
		t.Fatalf("Write(empty.txt): got error %v, want nil", err)
	}

	got, err := filesystem.Read(ctx, "empty.txt")
	if err != nil {
		t.Fatalf("Read(empty.txt): got error %v, want nil", err)
	}
	if len(got) != 0 {
		t.Errorf("Read(empty.txt): got %d bytes, want 0", len(got))
	}
}

func testWriteFSCreateDirectory(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := filesystem.CreateDirectory(ctx, "made/nested"); err != nil {
			t.Fatalf("CreateDirectory(made/nested) call %d: got error %v, want nil", i+1, err)
		}
	}

	for _, dir := range []string{"made", "made/nested"} {
		ok, err := filesystem.DirectoryExists(ctx, dir)
		if err != nil {
			t.Fatalf("DirectoryExists(%s): got error %v", dir, err)
		}
		if !ok {
			t.Errorf("DirectoryExists(%s) after CreateDirectory: got false, want true", dir)
		}
	}
}
