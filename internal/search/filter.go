package search

import (
	"strings"
	"time"

	"chatlinks/internal/domain"
)

// FilterBySender returns the messages whose sender name contains sender.
// Matching is case-sensitive and order is preserved.
func FilterBySender(messages []domain.Message, sender string) []domain.Message {
	filtered := make([]domain.Message, 0, len(messages))
	for _, m := range messages {
		if strings.Contains(m.SenderName, sender) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// FilterByDate returns the messages whose UTC calendar date matches every set
// field of filter, preserving order.
//
// A filter without a year is not applied at all: messages are returned as is,
// even when month or day are set.
func FilterByDate(messages []domain.Message, filter domain.DateFilter) []domain.Message {
	if filter.Year == nil {
		return messages
	}

	filtered := make([]domain.Message, 0, len(messages))
	for _, m := range messages {
		if matchesDate(time.UnixMilli(m.TimestampMs).UTC(), filter) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// matchesDate expects filter.Year to be set.
func matchesDate(t time.Time, filter domain.DateFilter) bool {
	if t.Year() != *filter.Year {
		return false
	}
	if filter.Month != nil && int(t.Month()) != *filter.Month {
		return false
	}
	if filter.Day != nil && t.Day() != *filter.Day {
		return false
	}
	return true
}

// MatchesSite reports whether the extracted link contains site.
func MatchesSite(link domain.LinkInfo, site string) bool {
	return strings.Contains(link.Link, site)
}
