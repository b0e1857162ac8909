package model

import "time"

type User struct {
	ID                int64      `json:"UsuarioID"`
	Name              string     `json:"Nombre"`
	Email             string     `json:"Email"`
	PasswordHash      string     `json:"-"`
	RoleID            int64      `json:"RolID"`
	MinistryID        *int64     `json:"MinisterioID"`
	ResetTokenHash    *string    `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
}

// UserListing is the admin view of a user joined with role and ministry names.
type UserListing struct {
	ID           int64   `json:"UsuarioID"`
	Name         string  `json:"Nombre"`
	Email        string  `json:"Email"`
	RoleID       *int64  `json:"RolID"`
	RoleName     *string `json:"NombreRol"`
	MinistryID   *int64  `json:"MinisterioID"`
	MinistryName *string `json:"NombreMinisterio"`
}

// AuthClaims is the session identity carried by the bearer token. The token is
// valid for one hour and is not renewed; expiry forces a new login.
type AuthClaims struct {
	UserID     int64  `json:"usuarioID"`
	Email      string `json:"email"`
	RoleID     int64  `json:"rolID"`
	MinistryID *int64 `json:"ministerioID"`
}

// Actor is the session identity plus the request origin, threaded explicitly
// through the services so authorization never depends on ambient state.
type Actor struct {
	AuthClaims
	IP string
}

func (a Actor) Audit() AuditActor {
	return AuditActor{UserID: a.UserID, Email: a.Email, RoleID: a.RoleID, IP: a.IP}
}

// AuthUser is the public shape of a user returned alongside a login token.
type AuthUser struct {
	ID         int64  `json:"UsuarioID"`
	Name       string `json:"Nombre"`
	Email      string `json:"Email"`
	RoleID     int64  `json:"RolID"`
	MinistryID *int64 `json:"MinisterioID"`
}

type LoginResult struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}
