// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents into Go values against an embedded schema.
//
// Every CUE-backed file in carbon-p2 (the build descriptor and the tool
// configuration) goes through the same flow: compile the schema, unify the
// user document with a root definition, validate, and decode.
//
//	//go:embed build_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[Build](schema, data, "#Build",
//	    cueutil.WithFilename("p2build.cue"))
package cueutil
