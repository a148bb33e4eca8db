// Package fstest provides a conformance test suite for validating filesystem
// provider implementations against the core.FS interface contracts.
//
// The suite validates interface contracts, not backend-specific behavior.
// Providers differ in what they can do (copying, visibility, content
// sniffing, empty files), and FSTestConfig tells the suite which of those
// differences to expect. Unsupported operations must still fail with the
// error code of the operation.
//
// Example usage:
//
//	func TestMyProvider(t *testing.T) {
//	    fstest.TestSuite(t, func() core.FS {
//	        return myprovider.New()
//	    }, fstest.FSTestConfig{SupportsCopy: true})
//	}
package fstest

import (
	"context"
	"slices"
	"testing"

	"github.com/jmgilman/go/cldfs/errors"
	"github.com/jmgilman/go/cldfs/fs/core"
)

// FSTestConfig configures the test suite to match provider capabilities.
type FSTestConfig struct {
	// SupportsCopy indicates Copy duplicates files. When false, Copy must
	// fail with CodeUnableToCopyFile.
	SupportsCopy bool

	// SupportsVisibility indicates Visibility and SetVisibility work.
	// When false, Visibility must fail.
	SupportsVisibility bool

	// SupportsMimeType indicates MimeType reports a media type.
	// When false, MimeType must fail.
	SupportsMimeType bool

	// SupportsEmptyFiles indicates zero-length files can be written.
	SupportsEmptyFiles bool

	// SkipTests lists specific test names to skip.
	// Format: "TestGroup/SubTest" (e.g., "WriteFS/EmptyFile") or "TestGroup".
	SkipTests []string
}

// LocalTestConfig returns configuration for POSIX-like filesystems (local, memory).
func LocalTestConfig() FSTestConfig {
	return FSTestConfig{
		SupportsCopy:       true,
		SupportsVisibility: true,
		SupportsMimeType:   true,
		SupportsEmptyFiles: true,
	}
}

// TestSuite runs all conformance tests against a filesystem.
// newFS must return a fresh, empty filesystem on every call; each subtest
// gets its own instance.
func TestSuite(t *testing.T, newFS func() core.FS, config FSTestConfig) {
	groups := []struct {
		name string
		run  func(*testing.T, func() core.FS, FSTestConfig)
	}{
		{"ReadFS", TestReadFS},
		{"WriteFS", TestWriteFS},
		{"ManageFS", TestManageFS},
		{"ListFS", TestListFS},
		{"MetadataFS", TestMetadataFS},
	}

	for _, g := range groups {
		t.Run(g.name, func(t *testing.T) {
			if config.skip(g.name) {
				t.Skip("Skipped by provider configuration")
			}
			g.run(t, newFS, config)
		})
	}
}

func (c FSTestConfig) skip(name string) bool {
	return slices.Contains(c.SkipTests, name)
}

// subtest is one conformance check run against a fresh filesystem.
type subtest struct {
	name string
	fn   func(t *testing.T, filesystem core.FS, config FSTestConfig)
}

func runSubtests(t *testing.T, group string, newFS func() core.FS, config FSTestConfig, tests []subtest) {
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if config.skip(group + "/" + tc.name) {
				t.Skip("Skipped by provider configuration")
			}
			tc.fn(t, newFS(), config)
		})
	}
}

// mustWrite writes data or fails the test.
func mustWrite(t *testing.T, filesystem core.FS, path string, data []byte) {
	t.Helper()
	if err := filesystem.Write(context.Background(), path, data); err != nil {
		t.Fatalf("Write(%s): setup failed: %v", path, err)
	}
}

// wantCode fails the test unless err carries code as its outermost code.
func wantCode(t *testing.T, call string, err error, code errors.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: got nil error, want %s", call, code)
	}
	if got := errors.GetCode(err); got != code {
		t.Errorf("%s: got code %s, want %s (%v)", call, got, code, err)
	}
}
