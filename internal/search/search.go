// Package search implements the link search over an in-memory chat archive:
// sender and date narrowing, link extraction and the site filter.
//
// Every function is pure. Inputs are never modified, so the package can be
// used concurrently on any messages without coordination.
package search

import "chatlinks/internal/domain"

// Links runs the whole search. Messages are narrowed by sender and date,
// one link at most is extracted from each remaining message, and extracted
// links not matching criteria.Site are dropped. The result follows the input
// order and is never nil.
func Links(messages []domain.Message, criteria domain.Criteria) []domain.LinkInfo {
	if criteria.Sender != "" {
		messages = FilterBySender(messages, criteria.Sender)
	}
	messages = FilterByDate(messages, criteria.Date)

	links := make([]domain.LinkInfo, 0, len(messages))
	for _, m := range messages {
		link, ok := ExtractLink(m)
		if !ok {
			continue
		}
		if criteria.Site != "" && !MatchesSite(link, criteria.Site) {
			continue
		}
		links = append(links, link)
	}
	return links
}
