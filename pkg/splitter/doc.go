// Package splitter resolves a language tag to a sentence-splitting
// capability.
//
// The registry does not implement linguistic rules itself; it only
// dispatches. Callers register entries (language codes, priority, split
// function), freeze the registry for the run, and the pipeline resolves a
// splitter per invocation. Registration order breaks priority ties
// deterministically.
//
// # Lifecycle
//
//	reg := splitter.NewRegistry()
//	err := reg.Register(splitter.Entry{
//	    Languages: []string{"de"},
//	    Priority:  10,
//	    Split:     mySplitter,
//	})
//	reg.Freeze()
//	split := reg.Resolve("de")
//
// After Freeze the registry is read-only and safe for concurrent use by
// the batch pipeline.
//
// A built-in splitter (DefaultSplit) backs every resolution miss,
// including the "auto" pseudo-language. It breaks on terminal punctuation
// followed by an upper-case or digit start, suppresses common
// abbreviations, and treats a blank line as a hard break. Sentences tile
// the input: concatenating them reproduces the text exactly.
package splitter
