// Package ir provides the shared token and annotation model of the
// correction pipeline.
//
// # Core Types
//
//   - Token: a lexical unit with kind, current text, original source text,
//     decoded value and optional error
//   - Annotation: a diagnostic over an inclusive range of token positions
//   - CheckedSentence: a checker's result for one sentence
//
// # Positions
//
// A sentence is the token list between (and including) a begin marker and a
// terminator. Annotation positions exclude the begin marker, so position i
// addresses list element i+Base(tokens).
//
// # Example
//
//	sent := []ir.Token{
//	    {Kind: ir.KindSentenceBegin},
//	    {Kind: ir.KindWord, Text: "Ég", Original: "Ég"},
//	    {Kind: ir.KindWord, Text: "fer", Original: " fer"},
//	    {Kind: ir.KindSentenceEnd},
//	}
//	ann := ir.Annotation{Start: 1, End: 1, Code: "S004", Suggest: "fór"}
package ir
