package chatapi

import "github.com/taskflowpro/taskflow/internal/httpapi"

// Failure categories for chat errors. The wording is user-facing.
const (
	messageUnavailable = "AI service is temporarily unavailable. Please try again later."
	messageNotFound    = "Chat endpoint not found. Please check backend configuration."
	messageGeneric     = "Failed to send message. Please try again."
)

// UserMessage maps a send failure to the banner text shown to the user:
// distinct wording for an unavailable service and a missing endpoint, a
// generic line for everything else.
func UserMessage(err error) string {
	switch httpapi.StatusCode(err) {
	case 503:
		return messageUnavailable
	case 404:
		return messageNotFound
	default:
		return messageGeneric
	}
}
