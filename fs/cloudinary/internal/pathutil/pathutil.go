// Package pathutil maps filesystem paths to Cloudinary public identifiers
// and builds the strings used in search expressions.
package pathutil

import (
	"mime"
	"path"
	"strings"
)

// mediaTypes covers media extensions that the platform MIME table may lack.
// Entries are consulted before mime.TypeByExtension.
var mediaTypes = map[string]string{
	".avif": "image/avif",
	".heic": "image/heic",
	".heif": "image/heif",
	".jxl":  "image/jxl",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".m4a":  "audio/mp4",
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
}

// MimeTypeByExtension guesses the media type of p from its final extension.
// Parameters such as charset are dropped. Returns "" when unknown.
func MimeTypeByExtension(p string) string {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return ""
	}
	if t, ok := mediaTypes[ext]; ok {
		return t
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return ""
	}
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// IsMedia reports whether mimeType is an image, video or audio type.
func IsMedia(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") ||
		strings.HasPrefix(mimeType, "video/") ||
		strings.HasPrefix(mimeType, "audio/")
}

// ToPublicID converts a filesystem path to the identifier Cloudinary stores.
//
// Media files lose their final extension because the platform records the
// format separately; the directory part is kept. Everything else is
// returned unchanged:
//
//	foo.jpg          -> foo
//	test.jpg.jpg     -> test.jpg
//	dir/clip.mp4     -> dir/clip
//	test/foobar.txt  -> test/foobar.txt
func ToPublicID(p string) string {
	if !IsMedia(MimeTypeByExtension(p)) {
		return p
	}
	return strings.TrimSuffix(p, path.Ext(p))
}

// WithFormat restores the extension of a media identifier from the format
// reported by the platform. ToPublicID strips exactly one extension, so one
// is always appended, even when the identifier already ends in the format.
// An empty format returns the identifier unchanged.
func WithFormat(publicID, format string) string {
	if format == "" {
		return publicID
	}
	return publicID + "." + format
}

// Normalize cleans a path and ensures forward slashes.
// It applies: ToSlash -> Clean -> Trim slashes.
// Returns "" for empty and root paths.
func Normalize(p string) string {
	if p == "" {
		return ""
	}

	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	p = strings.Trim(p, "/")

	if p == "." {
		return ""
	}
	return p
}

// NormalizePrefix normalizes a configured URI prefix.
// It is Normalize under another name so call sites read clearly.
func NormalizePrefix(prefix string) string {
	return Normalize(prefix)
}

// JoinPrefix joins a normalized prefix with a name.
// The name is normalized; an empty name yields the prefix itself.
func JoinPrefix(prefix, name string) string {
	name = Normalize(name)

	if name == "" {
		return prefix
	}
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// StripPrefix removes a normalized prefix from an identifier or folder path
// returned by the platform, yielding a path relative to the prefix.
// Identifiers outside the prefix are returned unchanged.
func StripPrefix(prefix, id string) string {
	if prefix == "" {
		return id
	}
	if id == prefix {
		return ""
	}
	return strings.TrimPrefix(id, prefix+"/")
}

// Parent returns the directory containing p, or "" for top-level entries.
func Parent(p string) string {
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return ""
	}
	return p[:i]
}

// queryReplacer backslash-escapes the characters that are reserved in
// search expressions.
var queryReplacer = func() *strings.Replacer {
	var pairs []string
	for _, c := range []string{"!", "(", ")", "{", "}", "[", "]", "*", "^", "~", "?", ":", "|", "=", "&", ">", "<", " ", "\t", "\n", "\r", "\f", "\v"} {
		pairs = append(pairs, c, "\\"+c)
	}
	return strings.NewReplacer(pairs...)
}()

// EscapeQuery escapes s for use as a value in a search expression.
func EscapeQuery(s string) string {
	return queryReplacer.Replace(s)
}
