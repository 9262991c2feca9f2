package brevo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is the normalized envelope for every failed remote call.
// Callers never see raw transport errors; the client wraps network
// failures, timeouts, non-2xx statuses and malformed bodies into this
// shape before returning.
type APIError struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Details    json.RawMessage `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("brevo api error (%d): %s", e.StatusCode, e.Message)
}

// AsAPIError unwraps err into an *APIError if it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == status
}

const whitelistURL = "https://app.brevo.com/security/authorised_ips"

// errorBody is the shape Brevo uses for error responses.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// normalizeError converts a non-2xx response body into an APIError with
// a status-specific human-readable message. Bodies that are not valid
// JSON are preserved as {"message": <raw text>} in the details.
func normalizeError(status int, body []byte) *APIError {
	var parsed errorBody
	details := json.RawMessage(body)
	if err := json.Unmarshal(body, &parsed); err != nil {
		parsed = errorBody{Message: string(body)}
		details, _ = json.Marshal(map[string]string{"message": string(body)})
	}

	msg := ""
	switch status {
	case 400:
		msg = "Bad request"
	case 401:
		if strings.Contains(parsed.Message, "IP address") {
			msg = "Authentication failed: Your IP address needs to be whitelisted. Visit " + whitelistURL
		} else {
			msg = "Authentication failed"
		}
	case 403:
		msg = "Access forbidden"
	case 404:
		if parsed.Code == "document_not_found" || strings.Contains(strings.ToLower(parsed.Message), "campaign") {
			msg = "Campaign not found. Please check the campaign ID."
		} else {
			msg = "Resource not found"
		}
	case 429:
		msg = "Rate limit exceeded"
	case 500:
		msg = "Server error"
	default:
		msg = parsed.Message
		if msg == "" {
			msg = "Unknown error"
		}
	}

	return &APIError{
		StatusCode: status,
		Message:    msg,
		Details:    details,
	}
}
