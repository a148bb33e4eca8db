// Package datauri encodes upload payloads as RFC 2397 data URIs.
package datauri

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectType sniffs the media type of data from its content.
// Parameters such as charset are dropped; unrecognised content is
// application/octet-stream.
func DetectType(data []byte) string {
	t := mimetype.Detect(data).String()
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// Encode returns "data:<mime>;base64,<payload>" with the media type sniffed
// from data.
func Encode(data []byte) string {
	return EncodeWithType(DetectType(data), data)
}

// EncodeWithType is Encode with a caller-supplied media type.
func EncodeWithType(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode parses a base64 data URI produced by Encode.
func Decode(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data uri")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data uri has no payload separator")
	}
	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data uri is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decoding data uri payload: %w", err)
	}
	return mimeType, data, nil
}
