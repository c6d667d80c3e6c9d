package dto

import (
	"recordaccess/internal/models"
	"time"
)

type SaveRecordRequest struct {
	AdminToken string                `json:"token"`
	Record     *models.ContentRecord `json:"record"`
}

type AccessResponse struct {
	ID       string          `json:"id"`
	Viewer   models.Viewer   `json:"viewer"`
	Decision models.Decision `json:"decision"`
}

type FileResponse struct {
	ID           string                  `json:"id"`
	Title        string                  `json:"title"`
	FileType     string                  `json:"fileType,omitempty"`
	Updated      time.Time               `json:"updated"`
	Embargo      models.Embargo          `json:"embargo"`
	ViewOriginal bool                    `json:"viewOriginal"`
	Downloads    []models.DownloadOption `json:"downloads"`
	Badges       models.Badges           `json:"badges"`
}

func NewFileResponse(entry models.FileEntry) FileResponse {
	resp := FileResponse{
		Embargo:      entry.Embargo,
		ViewOriginal: entry.ViewOriginal,
		Downloads:    entry.Downloads,
		Badges:       entry.Badges,
	}

	if resp.Downloads == nil {
		resp.Downloads = []models.DownloadOption{}
	}

	if rec := entry.Record; rec != nil {
		resp.ID = rec.ID
		resp.Title = rec.Title
		resp.Updated = rec.UpdatedAt
		if len(rec.FileType) > 0 {
			resp.FileType = rec.FileType[0]
		}
	}

	return resp
}
