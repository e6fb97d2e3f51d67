// Package namespace implements the enable/disable pattern engine behind debug
// channels.
//
// An enable-string is a list of patterns separated by commas and/or
// whitespace, conventionally taken from the DEBUG environment variable:
//
//	DEBUG="api:*,-api:internal worker"
//
// Each pattern is matched against the full channel name. A '*' matches any
// run of characters (':' included), every other character matches literally.
// A pattern prefixed with '-' is a negation.
//
// # Matching Rules
//
//  1. A name ending in '*' is always enabled.
//  2. If any negation matches, the name is disabled.
//  3. If any positive pattern matches, the name is enabled.
//  4. Otherwise the name is disabled.
//
// Negations win regardless of where they appear in the string, so "x,-x" and
// "-x,x" both disable "x".
//
// # Example
//
//	ps := namespace.Compile("api:*,-api:internal")
//	ps.Enabled("api:public")   // true
//	ps.Enabled("api:internal") // false
//	ps.Enabled("billing")      // false
//
// A PatternSet serializes back to a canonical enable-string with String.
// Compiling that string again gives a set with identical matching behavior.
package namespace
