package models

import (
	"encoding/json"
	"time"
)

const (
	ResourceFile       = "File"
	ResourceWork       = "Work"
	ResourceFolder     = "Folder"
	ResourceCollection = "Collection"
	ResourceAdminUnit  = "AdminUnit"
)

const (
	GroupEveryone      = "everyone"
	GroupAuthenticated = "authenticated"
)

type ContentRecord struct {
	ID           string       `json:"id"`
	ParentID     string       `json:"parentId,omitempty"`
	Title        string       `json:"title"`
	ResourceType string       `json:"resourceType"`
	Permissions  TokenList    `json:"permissions"`
	GroupRoleMap GroupRoleMap `json:"groupRoleMap"`
	Datastream   TokenList    `json:"datastream"`
	EmbargoDate  string       `json:"embargoDate,omitempty"`
	FileType     TokenList    `json:"fileType"`
	Status       TokenList    `json:"status"`
	UpdatedAt    time.Time    `json:"updated"`
}

type GroupRoleMap map[string]RoleList

// TokenList is an array of string tokens. Anything that is not a JSON array
// decodes to an empty list, and non-string elements are dropped.
type TokenList []string

func (t *TokenList) UnmarshalJSON(data []byte) error {
	var list []any
	if err := json.Unmarshal(data, &list); err != nil || list == nil {
		*t = nil
		return nil
	}

	tokens := make(TokenList, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			tokens = append(tokens, s)
		}
	}
	*t = tokens

	return nil
}

// RoleList is a set of role tokens granted to one group. The metadata
// collaborator sends either a bare string or an array of strings; any other
// shape decodes to an empty list so that it grants nothing.
type RoleList []string

func (r *RoleList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*r = nil
			return nil
		}
		*r = RoleList{single}
		return nil
	}

	var list []any
	if err := json.Unmarshal(data, &list); err != nil {
		*r = nil
		return nil
	}

	roles := make(RoleList, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok && s != "" {
			roles = append(roles, s)
		}
	}
	*r = roles

	return nil
}

// UnmarshalJSON tolerates a non-object groupRoleMap by treating it as empty.
func (g *GroupRoleMap) UnmarshalJSON(data []byte) error {
	var raw map[string]RoleList
	if err := json.Unmarshal(data, &raw); err != nil {
		*g = GroupRoleMap{}
		return nil
	}
	*g = raw

	return nil
}

type Datastream struct {
	Name      string
	Mime      string
	Filename  string
	Extension string
	Size      int64
	Checksum  string
	Owner     string
	Width     int
	Height    int
}

type RecordFilter struct {
	ParentID     string
	ResourceType string
	Limit        int
}
