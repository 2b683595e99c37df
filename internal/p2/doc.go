// SPDX-License-Identifier: MPL-2.0

// Package p2 drives the external Equinox p2 applications (publishers and the
// director) through an Eclipse launcher.
//
// Argument vectors are built by the functions in args.go and are order
// sensitive; the tool parses them positionally per flag. A ToolRunner executes
// an Invocation and reports the exit code, and an Invoker turns anything other
// than a clean zero exit into an *ExternalToolFailure.
package p2
