// Package dataurl encodes binary payloads as base64 data URLs
// (data:<mime>;base64,<payload>) and decodes them back.
package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	scheme       = "data:"
	base64Marker = ";base64,"
)

var (
	ErrMissingScheme = errors.New("dataurl: missing data: scheme")
	ErrNotBase64     = errors.New("dataurl: payload is not base64 encoded")
)

// Encode uses standard base64 with padding and no line wrapping.
func Encode(mimeType string, data []byte) string {
	var sb strings.Builder

	sb.Grow(len(scheme) + len(mimeType) + len(base64Marker) + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString(scheme)
	sb.WriteString(mimeType)
	sb.WriteString(base64Marker)
	sb.WriteString(base64.StdEncoding.EncodeToString(data))

	return sb.String()
}

func Decode(s string) (string, []byte, error) {
	if !strings.HasPrefix(s, scheme) {
		return "", nil, ErrMissingScheme
	}

	mimeType, payload, ok := strings.Cut(s[len(scheme):], base64Marker)
	if !ok {
		return "", nil, ErrNotBase64
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("dataurl: decode payload: %w", err)
	}

	return mimeType, data, nil
}
