package recordrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"recordaccess/internal/entities"
	"recordaccess/internal/models"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "recordRepo/"

const selectRecord = `SELECT
			r.id AS id,
			r.parent_id AS parent_id,
			r.title AS title,
			r.resource_type AS resource_type,
			r.permissions AS permissions,
			r.group_role_map AS group_role_map,
			r.datastream AS datastream,
			r.embargo_date AS embargo_date,
			r.file_type AS file_type,
			r.status AS status,
			r.updated_at AS updated_at
		FROM records r`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) SaveRecord(ctx context.Context, rec *models.ContentRecord) error {
	op := pkg + "SaveRecord"

	roles := rec.GroupRoleMap
	if roles == nil {
		roles = models.GroupRoleMap{}
	}

	groupRoleMap, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO records (id, parent_id, title, resource_type, permissions, group_role_map, datastream, embargo_date, file_type, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			parent_id = EXCLUDED.parent_id,
			title = EXCLUDED.title,
			resource_type = EXCLUDED.resource_type,
			permissions = EXCLUDED.permissions,
			group_role_map = EXCLUDED.group_role_map,
			datastream = EXCLUDED.datastream,
			embargo_date = EXCLUDED.embargo_date,
			file_type = EXCLUDED.file_type,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`,
		rec.ID,
		nullString(rec.ParentID),
		rec.Title,
		rec.ResourceType,
		pq.StringArray(nonNil(rec.Permissions)),
		groupRoleMap,
		pq.StringArray(nonNil(rec.Datastream)),
		nullString(rec.EmbargoDate),
		pq.StringArray(nonNil(rec.FileType)),
		pq.StringArray(nonNil(rec.Status)),
		rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) RecordByID(ctx context.Context, id string) (*models.ContentRecord, error) {
	op := pkg + "RecordByID"

	raw := entities.Record{}

	err := r.db.GetContext(ctx, &raw, selectRecord+`
		WHERE r.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModel(raw), nil
}

func (r *repository) FilteredRecords(ctx context.Context, filter models.RecordFilter) ([]*models.ContentRecord, error) {
	op := pkg + "FilteredRecords"

	var (
		conditions []string
		args       []any
	)

	if filter.ParentID != "" {
		args = append(args, filter.ParentID)
		conditions = append(conditions, fmt.Sprintf("r.parent_id = $%d", len(args)))
	}

	if filter.ResourceType != "" {
		args = append(args, filter.ResourceType)
		conditions = append(conditions, fmt.Sprintf("r.resource_type = $%d", len(args)))
	}

	query := selectRecord
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY r.title, r.id"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf("\n\t\tLIMIT $%d", len(args))
	}

	rawRecords := make([]entities.Record, 0)

	if err := r.db.SelectContext(ctx, &rawRecords, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	records := make([]*models.ContentRecord, 0, len(rawRecords))
	for _, raw := range rawRecords {
		records = append(records, toModel(raw))
	}

	return records, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	op := pkg + "Delete"

	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrRecordNotFound)
	}

	return nil
}

func toModel(raw entities.Record) *models.ContentRecord {
	roles := models.GroupRoleMap{}
	if len(raw.GroupRoleMap) > 0 {
		_ = json.Unmarshal(raw.GroupRoleMap, &roles)
	}

	return &models.ContentRecord{
		ID:           raw.ID,
		ParentID:     raw.ParentID.String,
		Title:        raw.Title,
		ResourceType: raw.ResourceType,
		Permissions:  []string(raw.Permissions),
		GroupRoleMap: roles,
		Datastream:   []string(raw.Datastream),
		EmbargoDate:  raw.EmbargoDate.String,
		FileType:     []string(raw.FileType),
		Status:       []string(raw.Status),
		UpdatedAt:    raw.UpdatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
