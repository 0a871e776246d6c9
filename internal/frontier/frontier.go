package frontier

import (
	"fmt"
	"strings"

	"github.com/nao1215/siteanalyzer/internal/model"
)

// Frontier holds the URLs of one session that are waiting to be fetched.
// It yields them in breadth-first order and enforces the page, depth and
// domain limits of its target.
//
// A Frontier is owned by a single session and is not safe for concurrent use.
type Frontier struct {
	// target holds the limits. It is copied at construction.
	target model.CrawlTarget

	// rootHost is the normalized host of the root URL.
	rootHost string

	// queue holds pending entries. Depths are non-decreasing along the
	// queue because every enqueue is one level below the batch being
	// processed.
	queue []model.FrontierEntry

	// visited is the VisitedSet: normalized URLs already enqueued or
	// visited. len(visited) never exceeds target.MaxPages.
	visited map[string]struct{}

	// redirects holds final URLs of redirected fetches that are not in
	// visited. They are never queued and do not count against MaxPages.
	redirects map[string]struct{}

	// yielded counts entries returned by NextBatch.
	yielded int
}

// New creates a Frontier seeded with the target's root URL at depth 0.
func New(target model.CrawlTarget) (*Frontier, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	key, err := NormalizeURL(target.RootURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidRootURL, err)
	}

	f := &Frontier{
		target:    target,
		rootHost:  Host(key),
		visited:   make(map[string]struct{}, min(target.MaxPages, 1024)),
		redirects: make(map[string]struct{}),
	}
	f.visited[key] = struct{}{}
	f.queue = append(f.queue, model.FrontierEntry{URL: strings.TrimSpace(target.RootURL), Depth: 0})

	return f, nil
}

// NextBatch returns every pending entry of the shallowest pending depth,
// in discovery order, and removes them from the queue. It returns nil when
// the frontier is exhausted.
func (f *Frontier) NextBatch() []model.FrontierEntry {
	if len(f.queue) == 0 {
		return nil
	}

	depth := f.queue[0].Depth
	n := 0
	for n < len(f.queue) && f.queue[n].Depth == depth {
		n++
	}

	batch := make([]model.FrontierEntry, n)
	copy(batch, f.queue[:n])
	f.queue = f.queue[n:]
	f.yielded += n

	return batch
}

// MarkRedirect records rawURL, the final URL of a redirected fetch, so that
// links to it are not queued again. It does not use up the page limit.
func (f *Frontier) MarkRedirect(rawURL string) {
	key, err := NormalizeURL(rawURL)
	if err != nil {
		return
	}
	if _, ok := f.visited[key]; ok {
		return
	}
	f.redirects[key] = struct{}{}
}

// EnqueueDiscovered queues the internal links found on a page at
// fromDepth, in the order given, at fromDepth+1. It returns how many links
// were queued.
//
// A link is queued only when the next depth does not exceed MaxDepth, the
// URL is http or https and not yet seen, the host matches the root host if
// SameDomainOnly is set, and fewer than MaxPages URLs have been seen.
func (f *Frontier) EnqueueDiscovered(links []model.ExtractedLink, fromDepth int) int {
	next := fromDepth + 1
	if next > f.target.MaxDepth {
		return 0
	}

	added := 0
	for _, link := range links {
		if len(f.visited) >= f.target.MaxPages {
			break
		}
		if !link.IsInternal {
			continue
		}

		key, err := NormalizeURL(link.URL)
		if err != nil || !isCrawlable(key) {
			continue
		}
		if f.seen(key) {
			continue
		}
		if f.target.SameDomainOnly && Host(key) != f.rootHost {
			continue
		}

		f.visited[key] = struct{}{}
		f.queue = append(f.queue, model.FrontierEntry{URL: link.URL, Depth: next})
		added++
	}

	return added
}

// Seen reports whether rawURL is already in the visited set or was the
// target of a redirect.
func (f *Frontier) Seen(rawURL string) bool {
	key, err := NormalizeURL(rawURL)
	if err != nil {
		return false
	}
	return f.seen(key)
}

func (f *Frontier) seen(key string) bool {
	if _, ok := f.visited[key]; ok {
		return true
	}
	_, ok := f.redirects[key]
	return ok
}

// Len returns the number of pending entries.
func (f *Frontier) Len() int {
	return len(f.queue)
}

// VisitedCount returns the size of the visited set.
func (f *Frontier) VisitedCount() int {
	return len(f.visited)
}

// Yielded returns how many entries NextBatch has returned so far.
func (f *Frontier) Yielded() int {
	return f.yielded
}

// RootHost returns the normalized root host.
func (f *Frontier) RootHost() string {
	return f.rootHost
}

func isCrawlable(normalized string) bool {
	return strings.HasPrefix(normalized, "http://") || strings.HasPrefix(normalized, "https://")
}
