package entities

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Record struct {
	ID           string         `db:"id"`
	ParentID     sql.NullString `db:"parent_id"`
	Title        string         `db:"title"`
	ResourceType string         `db:"resource_type"`
	Permissions  pq.StringArray `db:"permissions"`
	GroupRoleMap []byte         `db:"group_role_map"`
	Datastream   pq.StringArray `db:"datastream"`
	EmbargoDate  sql.NullString `db:"embargo_date"`
	FileType     pq.StringArray `db:"file_type"`
	Status       pq.StringArray `db:"status"`
	UpdatedAt    time.Time      `db:"updated_at"`
}
