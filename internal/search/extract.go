package search

import (
	"strings"

	"chatlinks/internal/domain"
)

var schemes = []string{"http://", "https://"}

// ExtractLink returns the link carried by message, if any.
//
// A shared attachment always takes precedence: when Share is set its link is
// used, and a share without a link yields nothing even if the text content
// holds a URL. Otherwise the first whitespace-separated token of the content
// that contains an http or https scheme is returned.
func ExtractLink(message domain.Message) (domain.LinkInfo, bool) {
	var link string
	switch {
	case message.Share != nil:
		if message.Share.Link == nil {
			return domain.LinkInfo{}, false
		}
		link = *message.Share.Link
	case message.Content != nil:
		var ok bool
		if link, ok = firstURL(*message.Content); !ok {
			return domain.LinkInfo{}, false
		}
	default:
		return domain.LinkInfo{}, false
	}

	return domain.LinkInfo{
		SenderName: message.SenderName,
		Date:       domain.FormatTimestamp(message.TimestampMs),
		Link:       link,
	}, true
}

func firstURL(content string) (string, bool) {
	if !hasScheme(content) {
		return "", false
	}
	for _, token := range strings.Fields(content) {
		if hasScheme(token) {
			return token, true
		}
	}
	return "", false
}

func hasScheme(s string) bool {
	for _, scheme := range schemes {
		if strings.Contains(s, scheme) {
			return true
		}
	}
	return false
}
