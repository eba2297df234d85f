package uploader

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
)

const (
	maxRedirects = 3
	// off-chain metadata documents are a few KB
	maxPublicResponseSize = 1 << 20
)

var (
	ErrForbiddenUri     = errors.New("uri not allowed")
	ErrForbiddenAddress = errors.New("address not allowed")

	// shared address space, not covered by net.IP.IsPrivate
	carrierGradeNat = &net.IPNet{IP: net.IP{100, 64, 0, 0}, Mask: net.CIDRMask(10, 32)}
)

// NewPublicFetcher returns a client for uris found on chain. It only talks https to
// public addresses, so anybody minting a token can not make the server call internal hosts.
func NewPublicFetcher(timeout time.Duration) *Client {
	dialer := &net.Dialer{
		Timeout: timeout,
		Control: func(network, address string, _ syscall.RawConn) error {
			return checkDialAddress(address)
		},
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: gzhttp.Transport(&http.Transport{
				DialContext:         dialer.DialContext,
				TLSHandshakeTimeout: timeout,
				ForceAttemptHTTP2:   true,
			}),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("%w: more than %d redirects", ErrForbiddenUri, maxRedirects)
				}
				return checkPublicUri(req.URL)
			},
		},
		public:          true,
		maxResponseSize: maxPublicResponseSize,
	}
}

func checkPublicUri(u *url.URL) error {
	if u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%w: %s", ErrForbiddenUri, u.Redacted())
	}

	return nil
}

// checkDialAddress runs after name resolution, so it sees the address really dialed.
func checkDialAddress(address string) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, address)
	}
	ip := net.ParseIP(host)
	if ip == nil || !IsPublicIP(ip) {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, address)
	}

	return nil
}

func IsPublicIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast() {
		return false
	}
	if ip4 := ip.To4(); ip4 != nil {
		return !carrierGradeNat.Contains(ip4) && !ip4.Equal(net.IPv4bcast)
	}

	return true
}

func (c *Client) checkFetchUri(uri string) error {
	if !c.public {
		return nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrForbiddenUri, err)
	}

	return checkPublicUri(u)
}
