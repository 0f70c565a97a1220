package handler

// Envelope is the body of every API response.
type Envelope struct {
	Message    string      `json:"message"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Field      string      `json:"field,omitempty"`
	Required   []string    `json:"required,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Pagination describes the window a list response covers.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}
