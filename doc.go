// Package coerce turns loosely structured text, typically a language model
// completion, into values that conform to a declared schema.
//
// The pipeline:
//
//   - Load builds a value tree from the raw input. Strings that are not valid
//     JSON are scanned for markdown-fenced JSON and embedded {...} / [...]
//     fragments, kept as alternate interpretations of the text.
//   - A Registry holds the enum and object strategies built from the schema
//     and its alias tables.
//   - A Deserializer resolves the root schema to a strategy and coerces the
//     tree, accumulating scoped diagnostics instead of failing early.
//
// Failures come in two kinds. A *ConfigError means the schema or registry is
// malformed. A *diag.DeserializeError means the input could not be coerced;
// it carries every error and warning plus the raw input.
//
// Typical usage:
//
//	reg := coerce.NewRegistry()
//	if err := reg.RegisterDocument(doc, nil); err != nil { ... }
//	ds := coerce.NewDeserializer(reg, doc)
//	v, err := ds.Coerce(ctx, completion)
//
// Union branches are tried in declared order and the first success wins, so
// [string, integer] turns "42" into the string "42". WithUnionPolicy selects
// rank-based resolution instead.
package coerce
