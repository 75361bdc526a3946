// Package urls holds the external documentation links printed by the CLI.
//
// Keeping them in one place means a moved page is a one-line fix:
//
//	fmt.Printf("See %s\n", urls.BridgeDiscovery)
package urls
