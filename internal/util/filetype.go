package util

import (
	"mime"
	"path/filepath"
	"strings"

	"church-portal/internal/model"
)

// ClassifyExtension maps a file extension to the simplified type stored with
// the metadata record. Unknown extensions fall back to OTHER.
func ClassifyExtension(extension string) model.FileType {
	switch strings.ToLower(strings.TrimSpace(extension)) {
	case ".pdf":
		return model.FileTypePDF
	case ".doc", ".docx":
		return model.FileTypeDocx
	case ".xls", ".xlsx":
		return model.FileTypeXlsx
	case ".ppt", ".pptx":
		return model.FileTypePptx
	case ".jpg", ".jpeg", ".png", ".gif":
		return model.FileTypeImage
	case ".mp3", ".wav", ".ogg":
		return model.FileTypeAudio
	case ".mp4", ".mpeg", ".mpg", ".mov", ".avi", ".wmv", ".flv", ".webm", ".mkv":
		return model.FileTypeVideo
	case ".zip":
		return model.FileTypeZip
	case ".rar":
		return model.FileTypeRar
	default:
		return model.FileTypeOther
	}
}

// ClassifyPath classifies by the extension of the given stored path.
func ClassifyPath(path string) model.FileType {
	return ClassifyExtension(filepath.Ext(path))
}

// IsAllowedExtension reports whether the extension is on the upload allow-list.
func IsAllowedExtension(extension string) bool {
	switch strings.ToLower(strings.TrimSpace(extension)) {
	case ".jpeg", ".jpg", ".png", ".gif",
		".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
		".mp3", ".wav", ".ogg",
		".mp4", ".mpeg", ".mpg", ".mov", ".avi", ".wmv", ".flv", ".webm", ".mkv",
		".zip", ".rar":
		return true
	default:
		return false
	}
}

var allowedUploadMIMEs = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},

	"application/pdf":               {},
	"application/msword":            {},
	"application/vnd.ms-excel":      {},
	"application/vnd.ms-powerpoint": {},

	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},

	"application/zip":              {},
	"application/x-zip-compressed": {},
	"application/vnd.rar":          {},
	"application/x-rar-compressed": {},

	"audio/mpeg":  {},
	"audio/mp3":   {},
	"audio/wav":   {},
	"audio/x-wav": {},
	"audio/ogg":   {},

	"video/mp4":        {},
	"video/mpeg":       {},
	"video/quicktime":  {},
	"video/x-msvideo":  {},
	"video/x-ms-wmv":   {},
	"video/webm":       {},
	"video/ogg":        {},
	"video/x-flv":      {},
	"video/x-matroska": {},
}

// IsAllowedMIME reports whether the declared media type is on the upload
// allow-list. Parameters (charset etc.) are stripped before the lookup.
func IsAllowedMIME(mimeType string) bool {
	base, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		base = strings.ToLower(strings.TrimSpace(mimeType))
	}

	_, ok := allowedUploadMIMEs[base]
	return ok
}

// IsImageMIME is used by the thumbnail path to decide whether a stored file
// can be decoded as an image.
func IsImageMIME(mimeType string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(mimeType))
	return strings.HasPrefix(cleaned, "image/")
}
