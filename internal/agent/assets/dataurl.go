package assets

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// IsDataURL reports whether v is an inline-encoded asset rather than a
// blob reference.
func IsDataURL(v string) bool {
	return strings.HasPrefix(v, "data:")
}

// DecodeDataURL splits a base64 data URL into its media type and raw bytes.
func DecodeDataURL(v string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(v, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data url")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data url")
	}

	mediaType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data url is not base64-encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data url payload: %w", err)
	}
	return mediaType, data, nil
}

// EncodeDataURL builds an inline base64 data URL for the given bytes.
func EncodeDataURL(mediaType string, data []byte) string {
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// extension maps a media type to a file extension for the object key
// ("image/png" -> "png"). Unknown types default to jpg, matching how
// captured photos are encoded in practice.
func extension(mediaType string) string {
	if sub, ok := strings.CutPrefix(mediaType, "image/"); ok && sub != "" {
		return sub
	}
	return "jpg"
}
