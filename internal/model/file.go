package model

import "time"

// FileType is the simplified classification stored with a file record. It is
// always derived server-side from the stored path's extension.
type FileType string

const (
	FileTypePDF   FileType = "PDF"
	FileTypeDocx  FileType = "DOCX"
	FileTypeXlsx  FileType = "XLSX"
	FileTypePptx  FileType = "PPTX"
	FileTypeImage FileType = "IMAGE"
	FileTypeAudio FileType = "AUDIO"
	FileTypeVideo FileType = "VIDEO"
	FileTypeZip   FileType = "ZIP"
	FileTypeRar   FileType = "RAR"
	FileTypeOther FileType = "OTHER"
)

// FileRecord is a row of the archivo table. StoredPath is the reference path
// under /uploads; DisplayName is user-editable and carries no uniqueness
// constraint.
type FileRecord struct {
	ID          int64     `json:"ArchivoID"`
	DisplayName string    `json:"NombreArchivo"`
	Type        FileType  `json:"TipoArchivo"`
	StoredPath  string    `json:"RutaArchivo"`
	UploaderID  int64     `json:"UsuarioID"`
	MinistryID  *int64    `json:"MinisterioID"`
	UploadedAt  time.Time `json:"-"`
}

// FileListing is a file record joined with its ministry display name, as
// returned by the list endpoints.
type FileListing struct {
	ID           int64    `json:"ArchivoID"`
	DisplayName  string   `json:"NombreArchivo"`
	Type         FileType `json:"TipoArchivo"`
	StoredPath   string   `json:"RutaArchivo"`
	UploaderID   int64    `json:"UsuarioID"`
	MinistryID   *int64   `json:"MinisterioID"`
	MinistryName *string  `json:"NombreMinisterio"`
	UploadedAt   string   `json:"FechaSubida"`
}

// StoredFile describes the result of a successful physical upload.
type StoredFile struct {
	Name string `json:"fileName"`
	Path string `json:"filePath"`
	Size int64  `json:"-"`
}
