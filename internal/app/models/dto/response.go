package dto

// APIResponse is the uniform success envelope: payload under data, paging
// information (or null) under meta.
type APIResponse struct {
	Data interface{}     `json:"data"`
	Meta *PaginationMeta `json:"meta"`
}

// NewResponse wraps a payload in the standard envelope without paging.
func NewResponse(data interface{}) APIResponse {
	return APIResponse{Data: data}
}

// NewPagedResponse wraps a list payload with its paging meta.
func NewPagedResponse(data interface{}, meta PaginationMeta) APIResponse {
	return APIResponse{Data: data, Meta: &meta}
}

// PaginationMeta represents pagination metadata for list responses.
type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}

// SuccessResponse represents a bare success indicator.
type SuccessResponse struct {
	Message string `json:"message"`
}
