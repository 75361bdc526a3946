// Package discovery locates bridges on the local network.
//
// Two interchangeable strategies implement Provider:
//
//   - Scanner listens for "_hue._tcp" mDNS advertisements and returns as soon
//     as one resolves to an address. An empty result means the listening
//     window passed without a usable advertisement.
//   - Directory asks the public lookup service for bridges registered from
//     the caller's network. An empty list is reported as NoCandidatesError.
//
// Fallback chains providers so an empty mDNS result falls through to the
// lookup service. Neither strategy deduplicates or merges with the other.
//
// # Usage Example
//
//	provider, err := discovery.ParseMethod("auto", discovery.NewScanner(), discovery.NewDirectory())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	candidates, err := provider.Discover(ctx)
//	switch {
//	case discovery.IsNoCandidates(err):
//	    fmt.Println("no bridges found")
//	case err != nil:
//	    log.Fatal(err)
//	}
//
// # Network Requirements
//
//   - mDNS needs multicast on the interface and UDP 5353 open
//   - The lookup service needs outbound HTTPS
package discovery
