package model

type RegisterRequest struct {
	Name       string `json:"Nombre" validate:"required,max=100"`
	Email      string `json:"Email" validate:"required,email"`
	Password   string `json:"Contraseña" validate:"required,min=6"`
	RoleID     *int64 `json:"RolID"`
	MinistryID *int64 `json:"MinisterioID"`
}

type LoginRequest struct {
	Email    string `json:"Email" validate:"required,email"`
	Password string `json:"Contraseña" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type CreateFileRequest struct {
	DisplayName string `json:"NombreArchivo" validate:"required,max=255"`
	StoredPath  string `json:"RutaArchivo" validate:"required"`
	MinistryID  *int64 `json:"MinisterioID" validate:"required"`
}

type RenameFileRequest struct {
	DisplayName string `json:"NombreArchivo" validate:"required,max=255"`
}

type CreateMinistryRequest struct {
	Name string `json:"NombreMinisterio" validate:"required,max=100"`
}

type CreateRoleRequest struct {
	Name string `json:"NombreRol" validate:"required,max=100"`
}

type CreateUserRequest struct {
	Name       string `json:"Nombre" validate:"required,max=100"`
	Email      string `json:"Email" validate:"required,email"`
	Password   string `json:"Contraseña" validate:"required,min=6"`
	RoleID     int64  `json:"RolID" validate:"required"`
	MinistryID *int64 `json:"MinisterioID"`
}

type UpdateUserRequest struct {
	Name       string `json:"Nombre" validate:"required,max=100"`
	Email      string `json:"Email" validate:"required,email"`
	RoleID     int64  `json:"RolID" validate:"required"`
	MinistryID *int64 `json:"MinisterioID"`
}

type SetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}
