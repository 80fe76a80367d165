package params

import (
	"errors"
	"regexp"
	"strings"
)

// Define known networks.
const (
	NetworkMain  = "main.ton.dev"
	NetworkNet   = "net.ton.dev"
	NetworkLocal = "http://127.0.0.1/"
)

// Consult this list with https://docs.everos.dev/ before changing it.
var networks = map[string][]string{
	NetworkMain: {
		"https://main2.ton.dev",
		"https://main3.ton.dev",
		"https://main4.ton.dev",
	},
	NetworkNet: {
		"https://net1.ton.dev",
		"https://net5.ton.dev",
	},
	NetworkLocal: {
		"http://0.0.0.0/",
		"http://127.0.0.1/",
		"http://localhost/",
	},
}

var netNameRegexp = regexp.MustCompile(`^\s*(?:https?://)?(\w+\.ton\.dev)\s*`)

// EndpointsForNetwork returns the endpoint list of a known network.
func EndpointsForNetwork(network string) ([]string, error) {
	endpoints, ok := networks[network]
	if ok {
		return append([]string{}, endpoints...), nil
	}
	return nil, errors.New("network could not be found")
}

// ResolveNetName maps a url or network name to one of the known networks.
// The second result is false when url does not name a known network.
func ResolveNetName(url string) (string, bool) {
	if m := netNameRegexp.FindStringSubmatch(url); m != nil {
		if _, ok := networks[m[1]]; ok {
			return m[1], true
		}
	}
	if strings.Contains(url, "127.0.0.1") || strings.Contains(url, "0.0.0.0") || strings.Contains(url, "localhost") {
		return NetworkLocal, true
	}
	return "", false
}

// ResolveEndpoints expands a known network name into its endpoints and
// passes anything else through as the only endpoint.
func ResolveEndpoints(url string) []string {
	if network, ok := ResolveNetName(url); ok {
		endpoints, _ := EndpointsForNetwork(network)
		return endpoints
	}
	return []string{url}
}
