package processor

import (
	"net/url"
	"regexp"
	"strings"
)

const defaultHost = "ecommerce-api.versapay.com"

var subdomainPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Endpoint is where the processor API and the hosted-fields script live.
type Endpoint struct {
	Host    string
	APIBase string
	SDKURL  string
}

// ResolveEndpoint derives the processor endpoint from the merchant
// subdomain. A non-empty baseURL wins over the subdomain.
func ResolveEndpoint(subdomain, baseURL string) Endpoint {
	if baseURL != "" {
		if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
			return Endpoint{
				Host:    u.Host,
				APIBase: strings.TrimRight(baseURL, "/") + "/",
				SDKURL:  u.Scheme + "://" + u.Host + "/client.js",
			}
		}
	}

	host := defaultHost
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	if subdomain != "" && subdomainPattern.MatchString(subdomain) {
		host = subdomain + ".versapay.com"
	}

	return Endpoint{
		Host:    host,
		APIBase: "https://" + host + "/api/v2/",
		SDKURL:  "https://" + host + "/client.js",
	}
}
