// Package credential holds the pairing credential and its on-disk store.
//
// A Credential is written as a single JSON object:
//
//	{"username":"abc123","bridge_address":"10.0.0.5"}
//
// The Store takes its file path at construction. NewDefaultStore resolves
// ~/.config/rue/rue.json for the current user; tests pass a temporary path.
package credential
