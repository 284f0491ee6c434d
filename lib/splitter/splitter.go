// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package splitter

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/omnipack/omnipack/lib/archive"
	"github.com/omnipack/omnipack/lib/fingerprint"
	"github.com/omnipack/omnipack/lib/membership"
)

// Options configures a [Splitter].
type Options struct {
	// NoSplit lists entry paths whose copies are never shared between
	// variants.
	NoSplit []string

	// Exclude lists entry paths that are skipped entirely.
	Exclude []string

	// ExcludeIn lists, per variant index, entry paths skipped in that
	// variant only. Other variants' entries at the same path are split
	// as usual.
	ExcludeIn [][]string

	// Concurrency bounds parallel fingerprinting. Zero means
	// GOMAXPROCS.
	Concurrency int

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// Splitter groups entries by membership. A Splitter holds only
// configuration and may be reused; each [Splitter.Split] call gets its
// own [ClaimState].
type Splitter struct {
	noSplit     map[string]struct{}
	exclude     map[string]struct{}
	excludeIn   []map[string]struct{}
	concurrency int
	logger      *slog.Logger
}

// EntryRef is one entry placed into a group.
type EntryRef struct {
	// Variant is the input index the entry is copied from: the lowest
	// index among the group's members holding this path.
	Variant int

	Entry  *archive.Entry
	Digest fingerprint.Digest
}

// Group is the set of entries shared by exactly one membership.
type Group struct {
	Membership *membership.Set
	Entries    []EntryRef
}

// Universal reports whether every variant shares the group's content.
func (g *Group) Universal() bool {
	return g.Membership.Full()
}

// Stats summarizes a split run.
type Stats struct {
	// Entries is the number of entries seen across all variants,
	// excluded ones included.
	Entries int `json:"entries"`

	// Stored is the number of entries placed into groups.
	Stored int `json:"stored"`

	// Deduplicated is the number of entries skipped because an
	// identical copy was already claimed by an earlier variant.
	Deduplicated int `json:"deduplicated"`

	// Excluded is the number of entries skipped by the exclude sets.
	Excluded int `json:"excluded"`

	// Groups is the number of distinct memberships.
	Groups int `json:"groups"`
}

// Result is the output of [Splitter.Split].
type Result struct {
	// Groups in order of first creation.
	Groups []*Group
	Stats  Stats
}

// New returns a Splitter for options.
func New(options Options) *Splitter {
	concurrency := options.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	excludeIn := make([]map[string]struct{}, len(options.ExcludeIn))
	for i, paths := range options.ExcludeIn {
		excludeIn[i] = toSet(paths)
	}
	return &Splitter{
		noSplit:     toSet(options.NoSplit),
		exclude:     toSet(options.Exclude),
		excludeIn:   excludeIn,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Split partitions the entries of variants, which are processed in the
// given order. Variant i in the slice is bit i of every membership.
func (s *Splitter) Split(ctx context.Context, variants []*archive.Archive) (*Result, error) {
	digests, err := s.fingerprintAll(ctx, variants)
	if err != nil {
		return nil, err
	}

	claims := NewClaimState()
	result := &Result{}
	groups := make(map[string]*Group)

	for i, variant := range variants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, entry := range variant.Entries() {
			result.Stats.Entries++
			name := entry.Name()
			if s.excluded(i, name) {
				result.Stats.Excluded++
				continue
			}

			digest := digests[i][name]
			if claims.Claimed(name, digest) {
				result.Stats.Deduplicated++
				continue
			}

			members := membership.Of(len(variants), i)
			if s.splittable(name) {
				claims.Claim(name, digest)
				for j := i + 1; j < len(variants); j++ {
					other, ok := digests[j][name]
					if ok && other == digest {
						members.Add(j)
					}
				}
			}

			key := members.String()
			group, ok := groups[key]
			if !ok {
				group = &Group{Membership: members}
				groups[key] = group
				result.Groups = append(result.Groups, group)
			}
			group.Entries = append(group.Entries, EntryRef{Variant: i, Entry: entry, Digest: digest})
			result.Stats.Stored++
		}
	}

	result.Stats.Groups = len(result.Groups)
	s.logger.Debug("split complete",
		"variants", len(variants),
		"entries", result.Stats.Entries,
		"stored", result.Stats.Stored,
		"deduplicated", result.Stats.Deduplicated,
		"excluded", result.Stats.Excluded,
		"groups", result.Stats.Groups,
	)
	return result, nil
}

// fingerprintAll digests every non-excluded entry of every variant.
// The returned maps are written only by their own goroutine's slot and
// read after the group has finished.
func (s *Splitter) fingerprintAll(ctx context.Context, variants []*archive.Archive) ([]map[string]fingerprint.Digest, error) {
	type job struct {
		variant int
		entry   *archive.Entry
	}
	var jobs []job
	for i, variant := range variants {
		for _, entry := range variant.Entries() {
			if !s.excluded(i, entry.Name()) {
				jobs = append(jobs, job{variant: i, entry: entry})
			}
		}
	}

	results := make([]fingerprint.Digest, len(jobs))
	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)
	for index, current := range jobs {
		group.Go(func() error {
			if err := groupContext.Err(); err != nil {
				return err
			}
			digest, err := digestEntry(current.entry)
			if err != nil {
				return fmt.Errorf("fingerprinting %s in %s: %w",
					current.entry.Name(), variants[current.variant].Name(), err)
			}
			results[index] = digest
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	digests := make([]map[string]fingerprint.Digest, len(variants))
	for i, variant := range variants {
		digests[i] = make(map[string]fingerprint.Digest, len(variant.Entries()))
	}
	for index, current := range jobs {
		digests[current.variant][current.entry.Name()] = results[index]
	}
	return digests, nil
}

func digestEntry(entry *archive.Entry) (fingerprint.Digest, error) {
	reader, err := entry.Open()
	if err != nil {
		return fingerprint.Digest{}, err
	}
	defer reader.Close()
	return fingerprint.Sum(reader)
}

func (s *Splitter) excluded(variant int, path string) bool {
	if _, ok := s.exclude[path]; ok {
		return true
	}
	if variant < len(s.excludeIn) {
		_, ok := s.excludeIn[variant][path]
		return ok
	}
	return false
}

func (s *Splitter) splittable(path string) bool {
	_, ok := s.noSplit[path]
	return !ok
}

func toSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		set[path] = struct{}{}
	}
	return set
}
