package urls

// BridgeDiscovery describes how bridges advertise themselves over mDNS and
// the remote lookup service. Printed when discovery finds nothing.
const BridgeDiscovery = "https://developers.meethue.com/develop/application-design-guidance/hue-bridge-discovery/"

// GettingStarted walks through pairing by hand with the bridge's debug page.
// Printed when a bridge cannot be reached or answers unexpectedly.
const GettingStarted = "https://developers.meethue.com/develop/get-started-2/"

// DebugPage returns the bridge-hosted API debugger for address
func DebugPage(address string) string {
	return "http://" + address + "/debug/clip.html"
}
