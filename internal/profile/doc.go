// SPDX-License-Identifier: MPL-2.0

// Package profile installs features into, and removes them from, a p2
// profile, and keeps the profile registry bounded.
//
// Install runs VALIDATE, LAUNCHER_INI, INSTALL, BOOT_CONFIG and PRUNE in that
// order and stops at the first failure. Uninstall runs VALIDATE and UNINSTALL
// only; the boot configuration and the registry are left as they are.
package profile
