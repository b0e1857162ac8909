package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"church-portal/internal/model"
)

// uploadTimeLayout matches what the portal frontend renders in its file
// tables.
const uploadTimeLayout = "2006-01-02 15:04:05"

type FileRepository struct {
	pool *pgxpool.Pool
}

func NewFileRepository(pool *pgxpool.Pool) *FileRepository {
	return &FileRepository{pool: pool}
}

func (r *FileRepository) Create(ctx context.Context, rec model.FileRecord) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO archivo (nombre_archivo, tipo_archivo, ruta_archivo, usuario_id, ministerio_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING archivo_id`,
		rec.DisplayName, string(rec.Type), rec.StoredPath, rec.UploaderID, rec.MinistryID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create file record: %w", err)
	}
	return id, nil
}

func (r *FileRepository) FindByID(ctx context.Context, id int64) (model.FileRecord, error) {
	var rec model.FileRecord
	var typ string
	err := r.pool.QueryRow(ctx,
		`SELECT archivo_id, nombre_archivo, tipo_archivo, ruta_archivo,
		        usuario_id, ministerio_id, fecha_subida
		 FROM archivo WHERE archivo_id = $1`, id).
		Scan(&rec.ID, &rec.DisplayName, &typ, &rec.StoredPath,
			&rec.UploaderID, &rec.MinistryID, &rec.UploadedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.FileRecord{}, model.ErrFileNotFound
	}
	if err != nil {
		return model.FileRecord{}, fmt.Errorf("find file by id: %w", err)
	}

	rec.Type = model.FileType(typ)
	return rec, nil
}

// ListAll returns every active record joined with its ministry display name,
// newest upload first. Pagination happens client-side.
func (r *FileRepository) ListAll(ctx context.Context) ([]model.FileListing, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.archivo_id, a.nombre_archivo, a.tipo_archivo, a.ruta_archivo,
		        a.usuario_id, a.ministerio_id, m.nombre_ministerio, a.fecha_subida
		 FROM archivo a
		 LEFT JOIN ministerio m ON a.ministerio_id = m.ministerio_id
		 ORDER BY a.fecha_subida DESC`)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	return scanFileListings(rows)
}

func (r *FileRepository) ListByMinistry(ctx context.Context, ministryID int64) ([]model.FileListing, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.archivo_id, a.nombre_archivo, a.tipo_archivo, a.ruta_archivo,
		        a.usuario_id, a.ministerio_id, m.nombre_ministerio, a.fecha_subida
		 FROM archivo a
		 JOIN ministerio m ON a.ministerio_id = m.ministerio_id
		 WHERE a.ministerio_id = $1
		 ORDER BY a.fecha_subida DESC`, ministryID)
	if err != nil {
		return nil, fmt.Errorf("list files by ministry: %w", err)
	}
	defer rows.Close()

	return scanFileListings(rows)
}

func (r *FileRepository) Rename(ctx context.Context, id int64, displayName string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE archivo SET nombre_archivo = $2 WHERE archivo_id = $1`,
		id, displayName)
	if err != nil {
		return fmt.Errorf("rename file record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrFileNotFound
	}
	return nil
}

func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM archivo WHERE archivo_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete file record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrFileNotFound
	}
	return nil
}

// ListStoredPaths returns every stored reference currently held by a metadata
// row. The orphan sweep compares this set against the uploads directory.
func (r *FileRepository) ListStoredPaths(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT ruta_archivo FROM archivo`)
	if err != nil {
		return nil, fmt.Errorf("list stored paths: %w", err)
	}
	defer rows.Close()

	paths := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan stored path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func scanFileListings(rows pgx.Rows) ([]model.FileListing, error) {
	listings := make([]model.FileListing, 0)
	for rows.Next() {
		var l model.FileListing
		var typ string
		var uploadedAt time.Time
		if err := rows.Scan(&l.ID, &l.DisplayName, &typ, &l.StoredPath,
			&l.UploaderID, &l.MinistryID, &l.MinistryName, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scan file listing: %w", err)
		}
		l.Type = model.FileType(typ)
		l.UploadedAt = uploadedAt.Format(uploadTimeLayout)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
