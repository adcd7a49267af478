package packets

// REQUESTS FOR /api/v1/*

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FullName string  `json:"fullName" binding:"required"`
	Avatar   *string `json:"avatar"`
}

// Playlist create/update validation is deliberately OR-shaped: a request is
// rejected only when name and description are both blank.
type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
