package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// DefaultErrorMessage is used when a failed response carries no usable message.
const DefaultErrorMessage = "An error occurred"

// Error is the single failure type returned by the client.
//
// Status is the HTTP status code, or 0 when no response was received. Details
// holds the decoded error body as sent by the backend, or nil.
type Error struct {
	Status  int
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transport reports whether the request never produced a response.
func (e *Error) Transport() bool {
	return e.Status == 0
}

// ValidationIssue is one item of a 422 detail list.
type ValidationIssue struct {
	Location []string
	Message  string
	Type     string
}

// Field is the dotted location, e.g. "body.age".
func (v ValidationIssue) Field() string {
	return strings.Join(v.Location, ".")
}

// ValidationIssues returns the structured items of a list-valued detail, or nil.
func (e *Error) ValidationIssues() []ValidationIssue {
	body, ok := e.Details.(map[string]any)
	if !ok {
		return nil
	}
	items, ok := body["detail"].([]any)
	if !ok {
		return nil
	}
	return parseIssues(items)
}

// NormalizeError builds an Error from a non-2xx response. The message is taken
// from detail, then message, then error. A list-valued detail is flattened into
// "loc.path: msg" items joined by ", ".
func NormalizeError(status int, body []byte) *Error {
	apiErr := &Error{Status: status, Message: DefaultErrorMessage}

	var payload any
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return apiErr
	}
	apiErr.Details = payload

	fields, ok := payload.(map[string]any)
	if !ok {
		return apiErr
	}
	if msg := detailMessage(fields["detail"]); msg != "" {
		apiErr.Message = msg
		return apiErr
	}
	for _, key := range []string{"message", "error"} {
		if msg, ok := fields[key].(string); ok && msg != "" {
			apiErr.Message = msg
			return apiErr
		}
	}
	return apiErr
}

func detailMessage(detail any) string {
	switch d := detail.(type) {
	case string:
		return d
	case []any:
		issues := parseIssues(d)
		parts := make([]string, 0, len(issues))
		for _, issue := range issues {
			parts = append(parts, issue.Field()+": "+issue.Message)
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

func parseIssues(items []any) []ValidationIssue {
	issues := make([]ValidationIssue, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		issue := ValidationIssue{}
		issue.Message, _ = fields["msg"].(string)
		issue.Type, _ = fields["type"].(string)
		if loc, ok := fields["loc"].([]any); ok {
			for _, part := range loc {
				issue.Location = append(issue.Location, locPart(part))
			}
		}
		issues = append(issues, issue)
	}
	return issues
}

func locPart(v any) string {
	switch p := v.(type) {
	case string:
		return p
	case float64:
		return strconv.FormatFloat(p, 'f', -1, 64)
	default:
		b, _ := json.Marshal(p)
		return string(b)
	}
}

// StatusOf returns the HTTP status carried by err, if it is an *Error.
func StatusOf(err error) (int, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	return 0, false
}

// IsUnauthorized reports whether the backend rejected the bearer token.
func IsUnauthorized(err error) bool {
	status, ok := StatusOf(err)
	return ok && status == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	status, ok := StatusOf(err)
	return ok && status == http.StatusNotFound
}

// IsTransport reports whether err is a failure to get any response.
func IsTransport(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Transport()
}
