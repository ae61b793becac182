package dto

type ListModelsRequest struct {
	Type     string `form:"type"`
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

type ListModelsResponse struct {
	Models     []ModelDTO `json:"models"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

type ModelDTO struct {
	ModelID   string `json:"model_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Image     string `json:"image"`
	CreatedAt string `json:"created_at"`
}
