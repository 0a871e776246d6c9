package fetcher

import "math/rand/v2"

// DefaultUserAgents is the pool a session default user agent is drawn from.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:123.0) Gecko/20100101 Firefox/123.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14.0; rv:123.0) Gecko/20100101 Firefox/123.0",
}

// PickUserAgent returns a random entry of pool using r. A nil r uses the
// global source; an empty pool falls back to DefaultUserAgents.
func PickUserAgent(r *rand.Rand, pool []string) string {
	if len(pool) == 0 {
		pool = DefaultUserAgents
	}
	if r == nil {
		return pool[rand.IntN(len(pool))] //nolint:gosec // not security sensitive
	}
	return pool[r.IntN(len(pool))]
}
