// Package pairing obtains a credential from a bridge by polling.
//
// A bridge only issues a credential after someone presses its link button,
// and nobody knows when that will happen. The Coordinator therefore asks
// every candidate at once, once per round, and repeats:
//
//	Idle → RoundInFlight → Succeeded            → Done
//	                     → RoundExhausted → wait → RoundInFlight
//	                                      → budget spent → Done (NoCredentialError)
//
// Within a round, outcomes are handled in completion order. The first
// credential ends the run: it is handed to the Saver and results still in
// flight are dropped. Rejected, unreachable and malformed outcomes are logged
// and never abort the run.
//
// # Usage Example
//
//	store, _ := credential.NewDefaultStore()
//	coord, err := pairing.New(pairing.DefaultConfig(), bridge.NewClient(), store,
//	    pairing.WithProvider(discovery.NewDirectory()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cred, err := coord.Run(ctx)
//	switch {
//	case discovery.IsNoCandidates(err):
//	    fmt.Println("no bridges found")
//	case pairing.IsNoCredential(err):
//	    fmt.Println("no bridge responded to pairing")
//	}
package pairing
