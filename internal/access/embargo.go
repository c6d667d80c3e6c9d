package access

import (
	"recordaccess/internal/models"
	"strings"
	"time"
)

const (
	embargoDateLayout     = "2006-01-02"
	embargoMessage        = "Available after "
	embargoUndatedMessage = "Embargoed"
)

var embargoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	embargoDateLayout,
}

func parseEmbargoDate(s string) (time.Time, bool) {
	for _, layout := range embargoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// EmbargoStatus reports whether the record is under embargo right now.
// An embargo date that cannot be parsed keeps the record embargoed.
func (e *Evaluator) EmbargoStatus(record *models.ContentRecord) models.Embargo {
	if record == nil {
		return models.Embargo{}
	}

	raw := strings.TrimSpace(record.EmbargoDate)
	if raw == "" {
		return models.Embargo{}
	}

	until, ok := parseEmbargoDate(raw)
	if !ok {
		return models.Embargo{
			Active:    true,
			Message:   embargoUndatedMessage,
			Malformed: true,
		}
	}

	if !until.After(e.now()) {
		return models.Embargo{}
	}

	return models.Embargo{
		Active:  true,
		Until:   &until,
		Message: embargoMessage + until.Format(embargoDateLayout),
	}
}
