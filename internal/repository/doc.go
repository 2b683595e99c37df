// SPDX-License-Identifier: MPL-2.0

// Package repository assembles a p2 repository from resolved build
// artifacts.
//
// Assembly is a strictly sequential pipeline:
//
//	VALIDATE -> RESOLVE -> STAGE -> EXTRACT -> COPY_BUNDLES -> COPY_RESOURCES
//	         -> PUBLISH -> CATEGORIZE -> ARCHIVE -> CLEANUP
//
// The first failing step ends the run in the FAILED state. Nothing touches
// the filesystem before RESOLVE has found every referenced artifact, and
// CLEANUP runs whenever a staging tree was created; a failed cleanup is
// reported as a warning and never changes the outcome.
package repository
