// Package core defines the filesystem-abstraction contract implemented by
// every storage backend in this module.
//
// Unlike io/fs, the contract targets object stores as much as disks: every
// operation takes a context, paths are slash-separated and relative to the
// backend root, and directories may be emulated. A backend that cannot
// support an operation (copying, visibility) still implements the method
// and returns a coded error.
//
// # Interface Hierarchy
//
// FS is composed of five sub-interfaces:
//
//   - ReadFS: Read, ReadStream, FileExists, DirectoryExists
//   - WriteFS: Write, WriteStream, CreateDirectory
//   - ManageFS: Delete, DeleteDirectory, Move, Copy
//   - ListFS: ListContents
//   - MetadataFS: Metadata, LastModified, FileSize, MimeType, Visibility, SetVisibility
//
// # Usage Example
//
//	func Publish(ctx context.Context, store core.FS, name string, data []byte) error {
//	    if err := store.Write(ctx, "public/"+name, data, core.WithAsync(true)); err != nil {
//	        return err
//	    }
//	    for attrs, err := range store.ListContents(ctx, "public", false) {
//	        if err != nil {
//	            return err
//	        }
//	        fmt.Println(attrs.Path())
//	    }
//	    return nil
//	}
//
// # Providers
//
// This package contains only contracts and value types. Implementations:
//
//   - github.com/jmgilman/go/cldfs/fs/cloudinary - Cloudinary media API
//   - github.com/jmgilman/go/cldfs/fs/billy - go-billy local and in-memory
package core
