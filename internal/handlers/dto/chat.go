package dto

type CreateRoomRequest struct {
	Name       string                 `json:"name" binding:"required"`
	Type       string                 `json:"type" binding:"required,oneof=group private"`
	Visibility string                 `json:"visibility" binding:"omitempty,oneof=all student teacher mentor"`
	Meta       map[string]interface{} `json:"meta"`
}

type ResolveDMRequest struct {
	UserA string `json:"user_a" binding:"required"`
	UserB string `json:"user_b" binding:"required"`
}

type UpdateMembersRequest struct {
	Add    []string `json:"add"`
	Remove []string `json:"remove"`
}

type SendMessageRequest struct {
	SenderID   string                 `json:"sender_id" binding:"required"`
	SenderName string                 `json:"sender_name" binding:"required"`
	Content    string                 `json:"content" binding:"required"`
	Type       string                 `json:"type" binding:"omitempty,oneof=text image audio video document"`
	Meta       map[string]interface{} `json:"meta"`
}

type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// UserRequest covers the per-user overlay operations (hide, clear, read):
// the caller identifies the already-authenticated user the state belongs to.
type UserRequest struct {
	UserID string `json:"user_id" binding:"required"`
}
