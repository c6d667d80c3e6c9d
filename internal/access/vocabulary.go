package access

// Permission tokens attached to records by the metadata collaborator.
const (
	PermViewMetadata          = "viewMetadata"
	PermViewAccessCopies      = "viewAccessCopies"
	PermViewReducedResImages  = "viewReducedResImages"
	PermViewOriginal          = "viewOriginal"
	PermViewHidden            = "viewHidden"
	PermEditDescription       = "editDescription"
	PermBulkUpdateDescription = "bulkUpdateDescription"
	PermEditResourceType      = "editResourceType"
	PermMarkForDeletion       = "markForDeletion"
	PermMarkForDeletionUnit   = "markForDeletionUnit"
	PermMove                  = "move"
	PermReindex               = "reindex"
	PermDestroy               = "destroy"
	PermDestroyUnit           = "destroyUnit"
	PermChangePatronAccess    = "changePatronAccess"
	PermRunEnhancements       = "runEnhancements"
	PermCreateAdminUnit       = "createAdminUnit"
	PermCreateCollection      = "createCollection"
	PermIngest                = "ingest"
	PermOrderMembers          = "orderMembers"
	PermAssignStaffRoles      = "assignStaffRoles"
)

// Patron role tokens found in groupRoleMap.
const (
	RoleNone                  = "none"
	RoleCanDiscover           = "canDiscover"
	RoleCanViewMetadata       = "canViewMetadata"
	RoleCanViewAccessCopies   = "canViewAccessCopies"
	RoleCanViewReducedQuality = "canViewReducedQuality"
	RoleCanViewOriginals      = "canViewOriginals"
)

const (
	StreamOriginalFile = "original_file"
	StreamJP2          = "jp2"
)

var knownPermissions = map[string]struct{}{
	PermViewMetadata:          {},
	PermViewAccessCopies:      {},
	PermViewReducedResImages:  {},
	PermViewOriginal:          {},
	PermViewHidden:            {},
	PermEditDescription:       {},
	PermBulkUpdateDescription: {},
	PermEditResourceType:      {},
	PermMarkForDeletion:       {},
	PermMarkForDeletionUnit:   {},
	PermMove:                  {},
	PermReindex:               {},
	PermDestroy:               {},
	PermDestroyUnit:           {},
	PermChangePatronAccess:    {},
	PermRunEnhancements:       {},
	PermCreateAdminUnit:       {},
	PermCreateCollection:      {},
	PermIngest:                {},
	PermOrderMembers:          {},
	PermAssignStaffRoles:      {},
}

// patronTiers lists the role-gated capabilities from lowest to highest.
var patronTiers = []string{
	PermViewMetadata,
	PermViewAccessCopies,
	PermViewReducedResImages,
	PermViewOriginal,
}

// roleCapabilities maps each patron role to the capabilities it activates.
// canViewOriginals implies every lower tier.
var roleCapabilities = map[string][]string{
	RoleNone:                  nil,
	RoleCanDiscover:           nil,
	RoleCanViewMetadata:       {PermViewMetadata},
	RoleCanViewAccessCopies:   {PermViewMetadata, PermViewAccessCopies},
	RoleCanViewReducedQuality: {PermViewMetadata, PermViewReducedResImages},
	RoleCanViewOriginals:      {PermViewMetadata, PermViewAccessCopies, PermViewReducedResImages, PermViewOriginal},
}

func IsKnownPermission(p string) bool {
	_, ok := knownPermissions[p]
	return ok
}

func isPatronCapability(p string) bool {
	for _, tier := range patronTiers {
		if tier == p {
			return true
		}
	}
	return false
}

func DefaultEditPermissions() []string {
	return []string{
		PermEditDescription,
		PermBulkUpdateDescription,
		PermEditResourceType,
		PermMarkForDeletion,
		PermMarkForDeletionUnit,
	}
}
