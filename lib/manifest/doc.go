// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest defines the document a composite archive carries to
// describe its fragments, and the runtime selection over it.
//
// The serialized form is JSON:
//
//	{
//	  "schemaVersion": 0,
//	  "jars": [
//	    {"path": "omnipack/example-110.jar", "versions": ["1.20.1", "1.20.2"], "loaders": ["fabric"], "isPrimary": true}
//	  ]
//	}
//
// Fragment order is significant: it is the order the build wrote
// fragments, and the order the runtime composes them. [Decode] checks
// the schema version before anything else, so a manifest written by a
// newer build fails with [ErrUnsupportedSchema] rather than a parse
// error even when the rest of its shape has changed.
//
// [Select] filters fragments for a running game version and loader. A
// version predicate matches when it equals the target version exactly,
// or when its expression admits the target. "||" separates
// alternatives and whitespace separates terms that must all hold
// (">=1.20 <1.21"). A term is a version with an optional operator
// (>=, <=, >, <, =, ~, ^); without one it is an equality test in which
// missing components are zero, so "1.20" means 1.20.0. Trailing x
// components ("1.20.x") fix only the leading components, and "*"
// matches anything. Versions are ordered by semantic versioning, so a
// prerelease target such as 1.21-pre1 satisfies ">=1.20.5".
package manifest
