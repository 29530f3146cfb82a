// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fingerprint computes the deterministic SHA-256 identities used to
// deduplicate content globally. The same logical source must always hash to
// the same digest, regardless of tracking parameters, host casing, or how
// the bytes are chunked.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// chunkSize bounds memory while hashing arbitrarily large uploads.
const chunkSize = 8 * 1024

// HashURL returns the identity digest of a URL. Scheme and host are
// lowercased, a trailing slash is dropped from the path, and the query and
// fragment are discarded entirely, so two URLs differing only in tracking
// parameters or host case collapse to one identity.
func HashURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	normalized := strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) +
		strings.TrimSuffix(u.Path, "/")
	return HashText(normalized), nil
}

// HashFile streams r through SHA-256 in fixed-size chunks and returns the
// hex digest. The digest depends only on the bytes, never on chunking.
func HashFile(r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read for hashing: %w", err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBytes returns the hex SHA-256 digest of already-materialized content.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashText hashes a string's UTF-8 bytes.
func HashText(text string) string {
	return HashBytes([]byte(text))
}
