package search

import (
	"time"

	"chatlinks/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func ts(year int, month time.Month, day, hour int) int64 {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC).UnixMilli()
}

func shared(sender string, ms int64, link string) domain.Message {
	return domain.Message{SenderName: sender, TimestampMs: ms, Share: &domain.Share{Link: ptr(link)}}
}

func text(sender string, ms int64, content string) domain.Message {
	return domain.Message{SenderName: sender, TimestampMs: ms, Content: ptr(content)}
}
