// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 keyed digest of one entry's bytes.
type Digest [32]byte

// entryDomainKey is the BLAKE3 key for entry digests: the ASCII name
// of the domain, zero-padded to 32 bytes. Changing it changes every
// digest, which only matters for persisted extraction state.
var entryDomainKey = [32]byte{
	'o', 'm', 'n', 'i', 'p', 'a', 'c', 'k', '.', 'f', 'i', 'n', 'g', 'e', 'r', 'p',
	'r', 'i', 'n', 't', '.', 'e', 'n', 't', 'r', 'y', 0, 0, 0, 0, 0, 0,
}

// Hasher is an incremental entry hasher. It implements io.Writer so it
// can sit behind an io.TeeReader while the same bytes are written
// somewhere else.
type Hasher struct {
	hasher *blake3.Hasher
}

// NewHasher returns a Hasher in its initial keyed state.
func NewHasher() *Hasher {
	// NewKeyed only fails for keys that are not 32 bytes long.
	hasher, err := blake3.NewKeyed(entryDomainKey[:])
	if err != nil {
		panic("fingerprint: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return &Hasher{hasher: hasher}
}

// Write adds data to the running digest. It never returns an error.
func (h *Hasher) Write(data []byte) (int, error) {
	return h.hasher.Write(data)
}

// Digest returns the digest of everything written so far.
func (h *Hasher) Digest() Digest {
	var digest Digest
	copy(digest[:], h.hasher.Sum(nil))
	return digest
}

// Sum streams reader through the hash and returns its digest. The
// reader is consumed until EOF.
func Sum(reader io.Reader) (Digest, error) {
	hasher := NewHasher()
	if _, err := io.Copy(hasher, reader); err != nil {
		return Digest{}, fmt.Errorf("hashing entry content: %w", err)
	}
	return hasher.Digest(), nil
}

// SumBytes returns the digest of data.
func SumBytes(data []byte) Digest {
	hasher := NewHasher()
	hasher.Write(data)
	return hasher.Digest()
}

// SumFile returns the digest of the file at path.
func SumFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	digest, err := Sum(file)
	if err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	return digest, nil
}

// String returns the canonical hex form of the digest.
func (d Digest) String() string {
	return Format(d)
}

// Short returns the first 12 hex characters, for log output.
func (d Digest) Short() string {
	return hex.EncodeToString(d[:6])
}

// IsZero reports whether d is the zero value.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Format returns the hex-encoded representation of a digest.
func Format(digest Digest) string {
	return hex.EncodeToString(digest[:])
}

// Parse parses a 64-character hex string into a Digest.
func Parse(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing content digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("content digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}
