// Package program defines the serialized form of a wyvern compute program:
// the contract between the builder and a downstream executor.
//
// A program document is a JSON object with five top-level fields:
//
//	symbol     token -> {"Constant"|"Variable"|"Array": <type tag>}
//	storage    token -> {"Variable": tag} | {"PrivateArray"|"SharedArray": [tag, max]}
//	input      name  -> token
//	output     name  -> token
//	operation  ordered list of operation records
//
// Each operation record is a single-key object whose key is the operation tag
// and whose value is an array of positional arguments:
//
//	{"Add": [3, 1, 2]}
//	{"Constant": [2, {"U32": 1}]}
//	{"While": [1, [...], 5, 2, [...], 3]}
//
// Control-flow records carry nested operation lists for their condition and
// branch bodies. Positional order is load-bearing.
//
// The package provides the typed record model, JSON encoding and decoding,
// and structural validation of finalized documents (dense token and label
// namespaces, single assignment of constant slots, operand arity and types).
package program
