package domain

import "time"

// DateLayout is the layout used for LinkInfo.Date (DD-MM-YYYY HH:MM:SS).
const DateLayout = "02-01-2006 15:04:05"

// LinkInfo is one link extracted from a chat message.
type LinkInfo struct {
	// SenderName is copied from the message the link was found in.
	SenderName string `json:"sender_name"`

	// Date is the message timestamp rendered in UTC with DateLayout.
	Date string `json:"date"`

	// Link is the URL text exactly as it appeared in the message.
	Link string `json:"link"`
}

// FormatTimestamp renders a millisecond Unix timestamp in UTC using DateLayout.
func FormatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(DateLayout)
}
