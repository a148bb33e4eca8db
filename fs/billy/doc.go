// Package billy provides a go-billy-backed implementation of core.FS.
//
// It wraps go-billy's osfs (local) and memfs (in-memory) filesystems, or any
// other billy.Filesystem, behind the same interface as the Cloudinary
// adapter. The CLI uses it as the local side of uploads and tests use the
// in-memory variant as a reference implementation.
//
// Usage:
//
//	// Local directory
//	local := billy.NewLocal("/srv/assets")
//	data, err := local.Read(ctx, "logo.png")
//
//	// In-memory
//	mem := billy.NewMemory()
//	err := mem.Write(ctx, "notes/todo.txt", []byte("ship it"))
//
//	// Unwrap for direct billy access
//	bfs := mem.Unwrap()
//
// # Visibility
//
// Visibility maps to permission bits: public files are 0644, private files
// 0600. Filesystems that implement billy.Change are chmod-ed in place; others
// have the file recreated with the new mode.
//
// # Thread Safety
//
// FS instances are as safe for concurrent use as the wrapped filesystem.
// Readers returned by ReadStream are not safe for concurrent use.
package billy
