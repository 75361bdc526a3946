// Package bridge performs the pairing exchange with a single bridge.
//
// A pairing request is a POST to http://<address>/api:
//
//	{"devicetype":"rue_pc_app"}
//
// and the bridge replies with a one-element array, either
//
//	[{"success":{"username":"abc123"}}]
//
// or, until someone presses the link button,
//
//	[{"error":{"type":101,"address":"","description":"link button not pressed"}}]
//
// Authorize turns the first form into a credential.Credential and everything
// else into a *BridgeError whose Type tells the caller whether the bridge
// rejected the request, could not be reached, or returned something
// unexpected. Use IsRejected, IsNetworkError, IsParseError and IsHTTPError
// rather than inspecting the type directly.
//
// # Error Handling Example
//
//	cred, err := client.Authorize(ctx, "192.168.1.20")
//	if err != nil {
//	    fmt.Println(bridge.GetShortErrorMessage(err))
//	    fmt.Println(bridge.GetTroubleshootingHint(err))
//	    return err
//	}
package bridge
