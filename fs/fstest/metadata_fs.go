package fstest

import (
	"context"
	"strings"
	"testing"

	"github.com/jmgilman/go/cldfs/errors"
	"github.com/jmgilman/go/cldfs/fs/core"
)

// TestMetadataFS tests Metadata, FileSize, LastModified, MimeType and
// visibility.
func TestMetadataFS(t *testing.T, newFS func() core.FS, config FSTestConfig) {
	runSubtests(t, "MetadataFS", newFS, config, []subtest{
		{"Metadata", testMetadataFSMetadata},
		{"NotExist", testMetadataFSNotExist},
		{"MimeType", testMetadataFSMimeType},
		{"Visibility", testMetadataFSVisibility},
	})
}

func testMetadataFSMetadata(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	ctx := context.Background()
	mustWrite(t, filesystem, "meta/sized.txt", []byte("twelve bytes"))

	attrs, err := filesystem.Metadata(ctx, "meta/sized.txt")
	if err != nil {
		t.Fatalf("Metadata(meta/sized.txt): got error %v, want nil", err)
	}
	if attrs.Path() != "meta/sized.txt" {
		t.Errorf("Metadata(meta/sized.txt).Path(): got %q", attrs.Path())
	}
	if !attrs.IsFile() {
		t.Errorf("Metadata(meta/sized.txt).IsFile(): got false, want true")
	}

	size, err := filesystem.FileSize(ctx, "meta/sized.txt")
	if err != nil {
		t.Fatalf("FileSize(meta/sized.txt): got error %v, want nil", err)
	}
	if size != 12 {
		t.Errorf("FileSize(meta/sized.txt): got %d, want 12", size)
	}

	modified, err := filesystem.LastModified(ctx, "meta/sized.txt")
	if err != nil {
		t.Fatalf("LastModified(meta/sized.txt): got error %v, want nil", err)
	}
	if modified.IsZero() {
		t.Errorf("LastModified(meta/sized.txt): got zero time")
	}
}

func testMetadataFSNotExist(t *testing.T, filesystem core.FS, _ FSTestConfig) {
	ctx := context.Background()

	_, err := filesystem.Metadata(ctx, "nope.txt")
	wantCode(t, "Metadata(nope.txt)", err, errors.CodeUnableToRetrieveMetadata)

	_, err = filesystem.FileSize(ctx, "nope.txt")
	wantCode(t, "FileSize(nope.txt)", err, errors.CodeUnableToRetrieveMetadata)

	_, err = filesystem.LastModified(ctx, "nope.txt")
	wantCode(t, "LastModified(nope.txt)", err, errors.CodeUnableToRetrieveMetadata)
}

func testMetadataFSMimeType(t *testing.T, filesystem core.FS, config FSTestConfig) {
	mustWrite(t, filesystem, "plain.txt", []byte("just some text\n"))

	got, err := filesystem.MimeType(context.Background(), "plain.txt")
	if !config.SupportsMimeType {
		wantCode(t, "MimeType(plain.txt)", err, errors.CodeUnableToRetrieveMetadata)
		return
	}
	if err != nil {
		t.Fatalf("MimeType(plain.txt): got error %v, want nil", err)
	}
	if !strings.HasPrefix(got, "text/plain") {
		t.Errorf("MimeType(plain.txt): got %q, want text/plain", got)
	}
}

func testMetadataFSVisibility(t *testing.T, filesystem core.FS, config FSTestConfig) {
	ctx := context.Background()
	mustWrite(t, filesystem, "vis.txt", []byte("v"))

	if !config.SupportsVisibility {
		_, err := filesystem.Visibility(ctx, "vis.txt")
		wantCode(t, "Visibility(vis.txt)", err, errors.CodeUnableToRetrieveMetadata)
		return
	}

	for _, want := range []string{core.VisibilityPrivate, core.VisibilityPublic} {
		if err := filesystem.SetVisibility(ctx, "vis.txt", want); err != nil {
			t.Fatalf("SetVisibility(vis.txt, %s): got error %v, want nil", want, err)
		}
		got, err := filesystem.Visibility(ctx, "vis.txt")
		if err != nil {
			t.Fatalf("Visibility(vis.txt): got error %v, want nil", err)
		}
		if got != want {
			t.Errorf("Visibility(vis.txt): got %q, want %q", got, want)
		}
	}

	data, err := filesystem.Read(ctx, "vis.txt")
	if err != nil || string(data) != "v" {
		t.Errorf("Read(vis.txt) after SetVisibility: got (%q, %v), want (\"v\", nil)", data, err)
	}
}
