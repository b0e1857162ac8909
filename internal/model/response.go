package model

// MessageResponse is the baseline reply shape. Code is present only where the
// client needs to distinguish failure kinds (upload rejections).
type MessageResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type UploadResponse struct {
	Message  string `json:"message"`
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
}

type FileCreatedResponse struct {
	Message string `json:"message"`
	FileID  int64  `json:"archivoID"`
}

type FilesResponse struct {
	Files []FileListing `json:"files"`
}

type UserCreatedResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"usuarioID"`
}

type MinistryCreatedResponse struct {
	Message    string `json:"message"`
	MinistryID int64  `json:"ministerioID"`
}

type RoleCreatedResponse struct {
	Message string `json:"message"`
	RoleID  int64  `json:"RolID"`
}

type LoginResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    AuthUser `json:"user"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type UserInfoResponse struct {
	Message string     `json:"message"`
	User    AuthClaims `json:"user"`
}
