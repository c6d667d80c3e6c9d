package access

import (
	"recordaccess/internal/models"
	"strconv"
	"strings"
)

// ParseDatastream decodes a descriptor of the form
// name|mime|filename|extension|size|checksum|owner|dimensions.
// Missing or invalid fields are left at their zero value.
func ParseDatastream(raw string) models.Datastream {
	parts := strings.Split(raw, "|")

	field := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}

	ds := models.Datastream{
		Name:      field(0),
		Mime:      field(1),
		Filename:  field(2),
		Extension: field(3),
		Checksum:  field(5),
		Owner:     field(6),
	}

	if size, err := strconv.ParseInt(field(4), 10, 64); err == nil && size >= 0 {
		ds.Size = size
	}

	ds.Width, ds.Height = parseDimensions(field(7))

	return ds
}

// maxDimension bounds each side of a parsed WxH; larger values are treated
// as unknown.
const maxDimension = 1 << 20

func parseDimensions(s string) (int, int) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0
	}

	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 || width > maxDimension {
		return 0, 0
	}

	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 || height > maxDimension {
		return 0, 0
	}

	return width, height
}

// FindDatastream returns the first datastream on the record with the given name.
func FindDatastream(record *models.ContentRecord, name string) (models.Datastream, bool) {
	if record == nil {
		return models.Datastream{}, false
	}

	for _, raw := range record.Datastream {
		ds := ParseDatastream(raw)
		if ds.Name == name {
			return ds, true
		}
	}

	return models.Datastream{}, false
}
