package dto

// ListParams are the common pagination query parameters shared by listing
// endpoints that carry no entity-specific filters.
type ListParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}
