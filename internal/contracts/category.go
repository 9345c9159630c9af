package contracts

type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"omitempty,max=255"`
	Type        string `json:"type" binding:"omitempty,oneof=expense income budget goal"`
}

type CategoryUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	Type        *string `json:"type" binding:"omitempty,oneof=expense income budget goal"`
}
