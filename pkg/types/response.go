package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PaginatedEnvelope wraps listing responses with the cursor for the next page.
type PaginatedEnvelope struct {
	Data       any    `json:"data"`
	NextCursor string `json:"next_cursor,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
