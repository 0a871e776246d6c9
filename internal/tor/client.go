package tor

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

const (
	checkProxyTimeout = 2 * time.Second
	maxRedirects      = 10
)

// SOCKS5 constants used by the connection check (RFC 1928).
const (
	socks5Version        = 0x05
	socks5AuthNone       = 0x00
	socks5CmdConnect     = 0x01
	socks5AddrTypeDomain = 0x03
)

const (
	// probeHost is only named in the CONNECT request. Any reply proves the
	// proxy speaks SOCKS5, so it never has to resolve.
	probeHost = "check.torproject.org"
	probePort = 443
)

// Client dials through a Tor SOCKS5 proxy.
type Client struct {
	proxyAddress string
	dialer       proxy.Dialer
	timeout      time.Duration
	insecureTLS  bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithInsecureTLS disables certificate verification. Onion services
// commonly serve self-signed certificates.
func WithInsecureTLS(insecure bool) ClientOption {
	return func(c *Client) {
		c.insecureTLS = insecure
	}
}

// NewClient creates a client for the SOCKS5 proxy at proxyAddress
// (host:port). timeout bounds each HTTP request.
func NewClient(proxyAddress string, timeout time.Duration, opts ...ClientOption) (*Client, error) {
	if !isValidProxyAddress(proxyAddress) {
		return nil, ErrInvalidProxyAddress
	}

	dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	c := &Client{
		proxyAddress: proxyAddress,
		dialer:       dialer,
		timeout:      timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func isValidProxyAddress(address string) bool {
	if strings.Count(address, ":") != 1 {
		return false
	}
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" || port == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil || strings.ContainsAny(port, "+-") {
		return false
	}
	return n >= 1 && n <= 65535
}

// CheckConnection performs a SOCKS5 greeting and CONNECT against the
// proxy and reports whether it answered like a Tor SOCKS port.
func (c *Client) CheckConnection(ctx context.Context) ProxyStatus {
	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.proxyAddress)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return ProxyStatusCannotConnect
	}

	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}

	authResp := make([]byte, 2)
	if status, ok := readReply(conn, authResp); !ok {
		return status
	}
	if authResp[0] != socks5Version || authResp[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}

	req := []byte{socks5Version, socks5CmdConnect, 0x00, socks5AddrTypeDomain, byte(len(probeHost))}
	req = append(req, probeHost...)
	req = append(req, byte(probePort>>8), byte(probePort&0xFF))
	if _, err := conn.Write(req); err != nil {
		return ProxyStatusCannotConnect
	}

	connectResp := make([]byte, 4)
	if status, ok := readReply(conn, connectResp); !ok {
		return status
	}
	if connectResp[0] != socks5Version {
		return ProxyStatusWrongType
	}
	return ProxyStatusOK
}

func readReply(conn net.Conn, buf []byte) (ProxyStatus, bool) {
	if _, err := io.ReadFull(conn, buf); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ProxyStatusTimeout, false
		}
		return ProxyStatusWrongType, false
	}
	return ProxyStatusOK, true
}

// NewHTTPClient returns an HTTP client whose connections go through the
// proxy. It keeps cookies across requests and follows up to ten redirects.
func (c *Client) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: c.DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: c.insecureTLS, //nolint:gosec // opt-in for onion services
		},
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	return &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

// DialContext connects to address through the proxy.
func (c *Client) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if cd, ok := c.dialer.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, network, address)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.dialer.Dial(network, address)
}

// ProxyAddress returns the proxy's host:port.
func (c *Client) ProxyAddress() string {
	return c.proxyAddress
}

// ProxyURL returns the proxy as a socks5:// URL, the form Chrome expects
// for --proxy-server.
func (c *Client) ProxyURL() string {
	return "socks5://" + c.proxyAddress
}

// IsOnionURL reports whether rawURL points at a .onion host.
func IsOnionURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Hostname()), ".onion")
}
