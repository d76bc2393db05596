package scraper

import "errors"

var (
	// ErrLoginRejected means LETUS refused the supplied credentials. Retrying
	// with the same credentials is pointless; the caller should stop and alert.
	ErrLoginRejected = errors.New("login rejected")

	// ErrTransport means the portal could not be reached or a page did not
	// load within the navigation timeout. The next poll cycle may retry.
	ErrTransport = errors.New("portal unreachable")

	// ErrPageStructure means the dashboard no longer contains the timeline
	// region the extractor expects, i.e. the page layout changed upstream.
	// This is distinct from a single unparseable date, which is tolerated.
	ErrPageStructure = errors.New("unrecognized page structure")
)
