package batch

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// lookupEncoding resolves an IANA charset name. UTF-8 (and the empty
// default) resolve to nil, meaning bodies pass through untouched.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}

	return enc, nil
}

// decodeBody converts a raw object body to a UTF-8 string using the
// configured encoding.
func decodeBody(raw []byte, encName string) (string, error) {
	enc, err := lookupEncoding(encName)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return string(raw), nil
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding body as %s: %w", encName, err)
	}

	return string(decoded), nil
}

// encodeBody converts a UTF-8 string back to the configured encoding
// for write-back.
func encodeBody(body string, encName string) ([]byte, error) {
	enc, err := lookupEncoding(encName)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return []byte(body), nil
	}

	encoded, err := enc.NewEncoder().Bytes([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("encoding body as %s: %w", encName, err)
	}

	return encoded, nil
}

// splitRecords decomposes a body into its ordered record sequence. An
// empty body yields an empty sequence, not a single empty record.
// Re-joining with the same delimiter reconstructs the original body.
func splitRecords(body, delimiter string) []string {
	if body == "" {
		return nil
	}
	return strings.Split(body, delimiter)
}
