// Package irc provides tools for extracting fields from single IRC lines,
// designed to be as efficient and minimal as possible while not compromising
// correctness.
//
// The functions operate on one already-framed line, without its terminating
// CR-LF. Splitting a byte stream into lines is the caller's responsibility.
// All results are subslices of the input line; nothing is allocated.
//
// No full protocol validation is performed. For a badly-formed input the
// result degrades to an empty slice or a negative match, never to an error.
package irc
