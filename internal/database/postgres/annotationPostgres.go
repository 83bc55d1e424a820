package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/geometry"
)

type annotationRepository struct {
	db *sql.DB
}

func NewAnnotationRepository(db *sql.DB) AnnotationRepository {
	return &annotationRepository{db: db}
}

func (r *annotationRepository) ListFaces(ctx context.Context, assetID string) ([]entity.StoredAnnotation, error) {
	query := `
		SELECT id, image_width, image_height, x1, y1, x2, y2, score, is_visible
		FROM asset_face
		WHERE asset_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list faces: %w", err)
	}
	defer rows.Close()

	faces := make([]entity.StoredAnnotation, 0)
	for rows.Next() {
		var (
			id             string
			ref            geometry.Dimensions
			x1, y1, x2, y2 int
			score          float64
			visible        bool
		)
		if err := rows.Scan(&id, &ref.Width, &ref.Height, &x1, &y1, &x2, &y2, &score, &visible); err != nil {
			return nil, fmt.Errorf("failed to scan face: %w", err)
		}

		box := entity.NewFaceBox(id, float64(x1), float64(y1), float64(x2), float64(y2))
		box.Score = score
		faces = append(faces, entity.StoredAnnotation{AssetID: assetID, Box: box, Reference: ref, IsVisible: visible})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read faces: %w", err)
	}
	return faces, nil
}

// ListOCR returns text boxes with the asset's own size as reference, since
// their corners are stored normalized.
func (r *annotationRepository) ListOCR(ctx context.Context, assetID string) ([]entity.StoredAnnotation, error) {
	query := `
		SELECT o.id, o.x1, o.y1, o.x2, o.y2, o.x3, o.y3, o.x4, o.y4, o.text, o.box_score, o.is_visible,
			COALESCE(a.width, 0), COALESCE(a.height, 0)
		FROM asset_ocr o
		JOIN assets a ON a.id = o.asset_id
		WHERE o.asset_id = $1
		ORDER BY o.id
	`

	rows, err := r.db.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ocr: %w", err)
	}
	defer rows.Close()

	boxes := make([]entity.StoredAnnotation, 0)
	for rows.Next() {
		var (
			id      string
			q       geometry.Quad
			text    string
			score   float64
			visible bool
			ref     geometry.Dimensions
		)
		err := rows.Scan(&id,
			&q[0].X, &q[0].Y, &q[1].X, &q[1].Y, &q[2].X, &q[2].Y, &q[3].X, &q[3].Y,
			&text, &score, &visible, &ref.Width, &ref.Height,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ocr: %w", err)
		}

		box := entity.NewOCRBox(id, q, text)
		box.Score = score
		boxes = append(boxes, entity.StoredAnnotation{AssetID: assetID, Box: box, Reference: ref, IsVisible: visible})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ocr: %w", err)
	}
	return boxes, nil
}

func (r *annotationRepository) UpdateVisibility(ctx context.Context, kind entity.AnnotationKind, visible, hidden []string) error {
	var table string
	switch kind {
	case entity.AnnotationFace:
		table = "asset_face"
	case entity.AnnotationOCR:
		table = "asset_ocr"
	default:
		return fmt.Errorf("unknown annotation kind %q: %w", kind, entity.ErrInvalidInput)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`UPDATE %s SET is_visible = $1 WHERE id = ANY($2)`, table)
	if len(visible) > 0 {
		if _, err := tx.ExecContext(ctx, query, true, pq.Array(visible)); err != nil {
			return fmt.Errorf("failed to mark %s visible: %w", kind, err)
		}
	}
	if len(hidden) > 0 {
		if _, err := tx.ExecContext(ctx, query, false, pq.Array(hidden)); err != nil {
			return fmt.Errorf("failed to mark %s hidden: %w", kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit visibility: %w", err)
	}
	return nil
}
