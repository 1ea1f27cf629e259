package capture

import (
	"context"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/linkpad/linkpad/internal/apperr"
	"github.com/linkpad/linkpad/internal/db"
	"github.com/linkpad/linkpad/internal/logging"
	"github.com/linkpad/linkpad/internal/models"
)

// Status reports how a capture concluded.
type Status string

const (
	// StatusCreated means a new link row was stored.
	StatusCreated Status = "created"
	// StatusAlreadyExists means the URL was already stored and Refresh
	// was not requested; the existing link is returned untouched.
	StatusAlreadyExists Status = "already-exists"
	// StatusRefreshed means an existing link's content was re-fetched
	// and re-indexed.
	StatusRefreshed Status = "refreshed"
	// StatusLinkSavedContentUnindexed means the link row committed but
	// indexing its content failed afterwards. The link is usable; its
	// text is not searchable until a refresh succeeds.
	StatusLinkSavedContentUnindexed Status = "saved-content-unindexed"
)

// Outcome is the result of one capture run.
type Outcome struct {
	Link   *models.Link
	Status Status
	// Extracted reports whether readable content was obtained and
	// stored. False for non-HTML payloads, skipped fetches, and pages
	// too short to index.
	Extracted bool
}

// Options tune a single capture.
type Options struct {
	// Title and Description override whatever extraction finds.
	Title       string
	Description string
	// Refresh re-fetches an already-stored URL instead of returning
	// AlreadyExists.
	Refresh bool
	// SkipFetch stores the link without going to the network.
	SkipFetch bool
}

// Pipeline captures URLs into the store.
type Pipeline struct {
	store   *db.Store
	fetcher *Fetcher
}

// NewPipeline creates a capture pipeline over a migrated store.
func NewPipeline(store *db.Store, fetcher *Fetcher) *Pipeline {
	return &Pipeline{store: store, fetcher: fetcher}
}

// Capture validates, fetches, extracts, and stores a URL. Fetch and
// extraction failures for a *new* URL abort before any row is written;
// cancellation via ctx likewise leaves no partial state, because no
// transaction opens until the fetch has completed.
func (p *Pipeline) Capture(ctx context.Context, rawURL string, opts Options) (*Outcome, error) {
	url, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	existing, err := p.store.GetLinkByURL(url)
	if err != nil && !apperr.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsPrimary && !opts.Refresh {
		return &Outcome{Link: existing, Status: StatusAlreadyExists}, nil
	}

	status := StatusCreated
	if existing != nil && existing.IsPrimary {
		status = StatusRefreshed
	}

	title := opts.Title
	description := opts.Description
	var content string

	if !opts.SkipFetch {
		body, err := p.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}

		if isHTML(body) {
			ex, err := Extract(body)
			if err != nil {
				// A page we cannot parse still gets its link saved,
				// just without content.
				logging.Warn("content extraction failed", logging.Fields{"url": url, "error": err})
			} else {
				if title == "" {
					title = ex.Title
				}
				if description == "" {
					description = ex.Description
				}
				content = ex.Content
			}
		} else {
			logging.Debug("non-html payload, storing without content",
				logging.Fields{"url": url, "type": mimetype.Detect(body).String()})
		}
	}

	outcome := &Outcome{Status: status}
	switch status {
	case StatusRefreshed:
		existing.Title = firstNonEmpty(title, existing.Title)
		existing.Description = firstNonEmpty(description, existing.Description)
		if err := p.store.UpdateLink(existing); err != nil {
			return nil, err
		}
		outcome.Link = existing
	default:
		link, err := p.store.CreateLink(url, title, description)
		if err != nil {
			return nil, err
		}
		outcome.Link = link
	}

	if content != "" {
		if err := p.store.UpdateContent(outcome.Link.ID, content); err != nil {
			// The link committed; report the degraded state instead of
			// failing the whole capture.
			logging.Error("failed to index captured content", err, logging.Fields{"url": url})
			outcome.Status = StatusLinkSavedContentUnindexed
			return outcome, nil
		}
		outcome.Link.Content = content
		outcome.Extracted = true
	}
	return outcome, nil
}

// isHTML sniffs the payload; the mimetype tree puts html under text.
func isHTML(body []byte) bool {
	mtype := mimetype.Detect(body)
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "text/html") {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
