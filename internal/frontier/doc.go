// Package frontier implements the breadth-first URL frontier of a crawl
// session.
//
// The root URL is the only depth-0 entry. Pages discovered on a page at
// depth d are queued at depth d+1 in the order they appear on the page.
// NextBatch hands out one depth layer at a time, so a layer is always
// fetched completely before the next one starts.
//
// The visited set is keyed by normalized URL and holds every URL that was
// ever queued or visited. Its size is capped at the target's MaxPages,
// which also caps the number of entries the frontier can ever yield.
//
// Whether links are followed at all is decided by the session; the
// frontier only enforces the depth, page and domain limits.
package frontier
