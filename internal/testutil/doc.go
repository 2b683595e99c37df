// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that fail fast on setup errors:
// filesystem fixtures (MustMkdirAll, MustWriteFile, MustWriteZip) and a
// manually driven FakeClock.
package testutil
