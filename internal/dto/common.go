package dto

// PaginationInfo contains pagination metadata for list responses
type PaginationInfo struct {
	Total  int `json:"total"`  // Total number of items available across all pages
	Offset int `json:"offset"` // Zero-based index of first item in current response
	Limit  int `json:"limit"`  // Maximum number of items returned per page
}
