package models

import "time"

type Embargo struct {
	Active    bool       `json:"active"`
	Until     *time.Time `json:"until,omitempty"`
	Message   string     `json:"message,omitempty"`
	Malformed bool       `json:"-"`
}

type RestrictedNotice struct {
	Visible   bool `json:"visible"`
	LoginLink bool `json:"loginLink"`
}

type DownloadOption struct {
	Label    string `json:"label"`
	Stream   string `json:"stream,omitempty"`
	MaxSize  int    `json:"maxSize,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

type Badges struct {
	MarkDeleted bool `json:"markDeleted"`
	Restricted  bool `json:"restricted"`
}

type Decision struct {
	Embargo      Embargo          `json:"embargo"`
	Restricted   RestrictedNotice `json:"restricted"`
	Edit         bool             `json:"edit"`
	ViewOriginal bool             `json:"viewOriginal"`
	Downloads    []DownloadOption `json:"downloads"`
}

type FileEntry struct {
	Record       *ContentRecord
	Embargo      Embargo
	ViewOriginal bool
	Downloads    []DownloadOption
	Badges       Badges
}

// FileList is one page of a work's files. Total counts every file of the
// work, before any limit.
type FileList struct {
	Total   int
	Entries []FileEntry
}
