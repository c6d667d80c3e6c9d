// Package access decides which access affordances a rendering layer should
// draw for a content record and a viewer.
package access

import (
	"math"
	"recordaccess/internal/models"
	"slices"
	"strings"
	"time"
)

const (
	labelUnavailable  = "Download Unavailable"
	labelDownload     = "Download"
	labelFullSize     = "Full Size JPG"
	labelOriginalFile = "Original File"

	statusMarkedForDeletion = "Marked For Deletion"
	statusPublicAccess      = "Public Access"
)

// Evaluator is safe for concurrent use. It keeps no state between calls
// beyond its policy and clock.
type Evaluator struct {
	policy    Policy
	editPerms map[string]struct{}
	now       func() time.Time
}

func New(policy Policy, now func() time.Time) *Evaluator {
	if now == nil {
		now = time.Now
	}

	if len(policy.Derivatives) == 0 {
		policy.Derivatives = DefaultDerivatives()
	}

	editPerms := make(map[string]struct{}, len(policy.EditPermissions))
	for _, p := range policy.EditPermissions {
		editPerms[p] = struct{}{}
	}

	return &Evaluator{
		policy:    policy,
		editPerms: editPerms,
		now:       now,
	}
}

func groupRoles(record *models.ContentRecord, group string) []string {
	if record == nil || record.GroupRoleMap == nil {
		return nil
	}
	return record.GroupRoleMap[group]
}

func (e *Evaluator) viewerRoles(record *models.ContentRecord, viewer models.Viewer) []string {
	roles := slices.Clone(groupRoles(record, models.GroupEveryone))
	if viewer.IsLoggedIn {
		roles = append(roles, groupRoles(record, models.GroupAuthenticated)...)
	}
	return roles
}

func rolesAuthorize(roles []string, capability string) bool {
	for _, role := range roles {
		if slices.Contains(roleCapabilities[role], capability) {
			return true
		}
	}
	return false
}

// IsPubliclyAccessible reports whether the everyone group alone grants capability.
func (e *Evaluator) IsPubliclyAccessible(record *models.ContentRecord, capability string) bool {
	return rolesAuthorize(groupRoles(record, models.GroupEveryone), capability)
}

// HasCapability reports whether the viewer may use capability on the record.
// Patron capabilities need both the permission token and an activating role;
// staff capabilities are granted by the permission token alone.
func (e *Evaluator) HasCapability(record *models.ContentRecord, viewer models.Viewer, capability string) bool {
	if record == nil || !IsKnownPermission(capability) {
		return false
	}

	if !slices.Contains(record.Permissions, capability) {
		return false
	}

	if !isPatronCapability(capability) {
		return true
	}

	return rolesAuthorize(e.viewerRoles(record, viewer), capability)
}

func (e *Evaluator) RestrictedAccess(record *models.ContentRecord, viewer models.Viewer) models.RestrictedNotice {
	if record == nil || e.EmbargoStatus(record).Active {
		return models.RestrictedNotice{}
	}

	if e.IsPubliclyAccessible(record, PermViewOriginal) {
		return models.RestrictedNotice{}
	}

	if rolesAuthorize(e.viewerRoles(record, viewer), PermViewOriginal) {
		return models.RestrictedNotice{}
	}

	notice := models.RestrictedNotice{Visible: true}
	if !viewer.IsLoggedIn {
		notice.LoginLink = e.policy.LoginPromptWithoutGain || loginAddsCapability(record)
	}

	return notice
}

func (e *Evaluator) RestrictedAccessVisible(record *models.ContentRecord, viewer models.Viewer) bool {
	return e.RestrictedAccess(record, viewer).Visible
}

func loginAddsCapability(record *models.ContentRecord) bool {
	public := groupRoles(record, models.GroupEveryone)
	signedIn := append(slices.Clone(public), groupRoles(record, models.GroupAuthenticated)...)

	for _, tier := range patronTiers {
		if rolesAuthorize(signedIn, tier) && !rolesAuthorize(public, tier) {
			return true
		}
	}
	return false
}

func (e *Evaluator) EditAffordanceVisible(record *models.ContentRecord) bool {
	if record == nil || len(record.Permissions) == 0 {
		return false
	}

	if e.EmbargoStatus(record).Active {
		return false
	}

	for _, p := range record.Permissions {
		if _, ok := e.editPerms[p]; ok {
			return true
		}
	}
	return false
}

func (e *Evaluator) ViewOriginalAffordanceVisible(record *models.ContentRecord, viewer models.Viewer) bool {
	if record == nil || record.ResourceType != models.ResourceFile {
		return false
	}

	if e.EmbargoStatus(record).Active {
		return false
	}

	return e.HasCapability(record, viewer, PermViewOriginal)
}

// DownloadOptions lists the download choices for a file. A single disabled
// option means the button is drawn but unusable.
func (e *Evaluator) DownloadOptions(record *models.ContentRecord, viewer models.Viewer) []models.DownloadOption {
	options := []models.DownloadOption{}

	if record == nil || record.ResourceType != models.ResourceFile {
		return options
	}

	original, ok := FindDatastream(record, StreamOriginalFile)
	if !ok {
		return options
	}

	if e.EmbargoStatus(record).Active {
		return options
	}

	if !e.HasCapability(record, viewer, PermViewAccessCopies) {
		return append(options, models.DownloadOption{Label: labelUnavailable, Disabled: true})
	}

	if !isImage(record) {
		return append(options, models.DownloadOption{
			Label:  labelDownload,
			Stream: StreamOriginalFile,
			Width:  original.Width,
			Height: original.Height,
		})
	}

	for _, d := range e.policy.Derivatives {
		w, h := scaleToBound(original.Width, original.Height, d.MaxSize)
		options = append(options, models.DownloadOption{
			Label:   d.Title(),
			Stream:  StreamJP2,
			MaxSize: d.MaxSize,
			Width:   w,
			Height:  h,
		})
	}

	if e.HasCapability(record, viewer, PermViewOriginal) {
		options = append(options,
			models.DownloadOption{
				Label:  labelFullSize,
				Stream: StreamJP2,
				Width:  original.Width,
				Height: original.Height,
			},
			models.DownloadOption{
				Label:  labelOriginalFile,
				Stream: StreamOriginalFile,
				Width:  original.Width,
				Height: original.Height,
			})
	}

	return options
}

func isImage(record *models.ContentRecord) bool {
	if len(record.FileType) == 0 {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(record.FileType[0])), "image/")
}

// scaleToBound fits width x height inside a square of side bound, keeping
// the aspect ratio. Images already inside the bound are not enlarged.
func scaleToBound(width, height, bound int) (int, int) {
	if width <= 0 || height <= 0 || bound <= 0 {
		return 0, 0
	}

	long := max(width, height)
	if long <= bound {
		return width, height
	}

	ratio := float64(bound) / float64(long)
	w := int(math.Round(float64(width) * ratio))
	h := int(math.Round(float64(height) * ratio))

	return max(w, 1), max(h, 1)
}

// Evaluate bundles every affordance for one record. A restricted notice and
// usable affordances are never returned together.
func (e *Evaluator) Evaluate(record *models.ContentRecord, viewer models.Viewer) models.Decision {
	decision := models.Decision{
		Embargo:   e.EmbargoStatus(record),
		Downloads: []models.DownloadOption{},
	}

	if record == nil || decision.Embargo.Active {
		return decision
	}

	decision.Edit = e.EditAffordanceVisible(record)
	decision.ViewOriginal = e.ViewOriginalAffordanceVisible(record, viewer)
	decision.Downloads = e.DownloadOptions(record, viewer)

	if decision.Edit || decision.ViewOriginal || hasEnabledDownload(decision.Downloads) {
		return decision
	}

	decision.Restricted = e.RestrictedAccess(record, viewer)
	if decision.Restricted.Visible {
		decision.Downloads = []models.DownloadOption{}
	}

	return decision
}

func hasEnabledDownload(options []models.DownloadOption) bool {
	for _, o := range options {
		if !o.Disabled {
			return true
		}
	}
	return false
}

func (e *Evaluator) Badges(record *models.ContentRecord) models.Badges {
	if record == nil {
		return models.Badges{Restricted: true}
	}

	badges := models.Badges{Restricted: true}
	for _, s := range record.Status {
		if strings.EqualFold(s, statusMarkedForDeletion) {
			badges.MarkDeleted = true
		}
		if strings.EqualFold(s, statusPublicAccess) {
			badges.Restricted = false
		}
	}

	return badges
}
