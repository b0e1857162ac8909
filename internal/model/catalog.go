package model

type Ministry struct {
	ID   int64  `json:"MinisterioID"`
	Name string `json:"NombreMinisterio"`
}

type Role struct {
	ID   int64  `json:"RolID"`
	Name string `json:"NombreRol"`
}
