// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package splitter

import (
	"slices"

	"github.com/omnipack/omnipack/lib/fingerprint"
)

// ClaimState records which (path, digest) pairs already belong to a
// group. One ClaimState lives for exactly one split run. It is not
// safe for concurrent use.
type ClaimState struct {
	claimed map[string][]fingerprint.Digest
}

// NewClaimState returns an empty claim state.
func NewClaimState() *ClaimState {
	return &ClaimState{claimed: make(map[string][]fingerprint.Digest)}
}

// Claimed reports whether content with digest at path is already
// covered by a group.
func (c *ClaimState) Claimed(path string, digest fingerprint.Digest) bool {
	return slices.Contains(c.claimed[path], digest)
}

// Claim marks content with digest at path as covered. Claiming the same
// pair twice is a no-op.
func (c *ClaimState) Claim(path string, digest fingerprint.Digest) {
	if c.Claimed(path, digest) {
		return
	}
	c.claimed[path] = append(c.claimed[path], digest)
}

// Digests returns the claimed digests for path in claim order.
func (c *ClaimState) Digests(path string) []fingerprint.Digest {
	return slices.Clone(c.claimed[path])
}
