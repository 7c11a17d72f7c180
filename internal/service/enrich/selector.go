// Package enrich decides, per user message, which supplementary data to
// fetch before a generation call, and formats what it finds into prompt
// blocks. Lookups are best-effort: a failed or empty lookup contributes
// nothing and never fails the chat request.
package enrich

import (
	"context"
	"errors"
	"log"
)

// Selector inspects the newest user message and gathers enrichment blocks.
type Selector struct {
	price  *PriceClient
	search *SearchClient
}

// NewSelector wires the selector to its lookup clients. Either client may be
// nil, which disables that lookup.
func NewSelector(price *PriceClient, search *SearchClient) *Selector {
	return &Selector{price: price, search: search}
}

// Blocks returns zero, one, or two formatted enrichment blocks for the
// message, price before search. Lookup failures are logged and swallowed.
func (s *Selector) Blocks(ctx context.Context, message string) []string {
	var blocks []string

	if s.price != nil && IsPriceQuery(message) {
		snapshot, err := s.price.Fetch(ctx)
		if err != nil {
			log.Printf("[enrich] price lookup skipped: %v", err)
		} else {
			blocks = append(blocks, snapshot.FormatBlock())
		}
	}

	if s.search != nil && s.search.ShouldSearch(message) {
		response, err := s.search.Search(ctx, s.search.BuildQuery(message))
		if err != nil {
			if !errors.Is(err, ErrSearchDisabled) {
				log.Printf("[enrich] search lookup skipped: %v", err)
			}
		} else if block := response.FormatBlock(); block != "" {
			blocks = append(blocks, block)
		}
	}

	return blocks
}
