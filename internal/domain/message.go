package domain

// Message is a single event of an exported chat archive.
type Message struct {
	SenderName  string  `json:"sender_name" validate:"required"`
	Content     *string `json:"content,omitempty"`
	TimestampMs int64   `json:"timestamp_ms"`
	Share       *Share  `json:"share,omitempty"`
}

// Share is a structured attachment carrying an explicitly shared URL.
type Share struct {
	Link *string `json:"link,omitempty"`
}

// DateFilter is a partial calendar date. Nil fields are unset.
type DateFilter struct {
	Year  *int `json:"year,omitempty"`
	Month *int `json:"month,omitempty"`
	Day   *int `json:"day,omitempty"`
}

// IsZero reports whether no field of the filter is set.
func (f DateFilter) IsZero() bool {
	return f.Year == nil && f.Month == nil && f.Day == nil
}

// Criteria groups the filters of one search. The zero value matches everything.
type Criteria struct {
	// Site keeps only links containing it. Empty means no constraint.
	Site string
	// Sender keeps only messages whose sender name contains it. Empty means no constraint.
	Sender string
	Date   DateFilter
}
