package auth

type PermissionCode string

const (
	ADMIN                 PermissionCode = "ADMIN"
	CONTACTS_MANAGE       PermissionCode = "CONTACTS_MANAGE"
	CONTACTS_DELETE       PermissionCode = "CONTACTS_DELETE"
	CONTACTS_LISTS_MANAGE PermissionCode = "CONTACTS_LISTS_MANAGE"
	CONTACTS_LISTS_DELETE PermissionCode = "CONTACTS_LISTS_DELETE"
	CONTACTS_TAGS_MANAGE  PermissionCode = "CONTACTS_TAGS_MANAGE"
	CONTACTS_TAGS_DELETE  PermissionCode = "CONTACTS_TAGS_DELETE"
)

// StaffPermissions are granted to the contact managers group. Default user
// groups get no permissions.
var StaffPermissions = []PermissionCode{
	CONTACTS_MANAGE,
	CONTACTS_LISTS_MANAGE,
	CONTACTS_TAGS_MANAGE,
}

type Action string

const (
	VIEW   Action = "view"
	CREATE Action = "create"
	EDIT   Action = "edit"
	DELETE Action = "delete"
)

type EntityKind string

const (
	CONTACT_KIND  EntityKind = "contact"
	LOCATION_KIND EntityKind = "location"
	NOTE_KIND     EntityKind = "note"
	TAG_KIND      EntityKind = "tag"
	LIST_KIND     EntityKind = "list"
)

// Principal is anything that can hold permissions, e.g. the caller of an API request.
type Principal interface {
	ID() string
	HasPermission(code PermissionCode) bool
}

type principal struct {
	id          string
	permissions map[PermissionCode]bool
}

func NewPrincipal(id string, codes ...string) Principal {
	permissions := map[PermissionCode]bool{}
	for _, code := range codes {
		permissions[PermissionCode(code)] = true
	}

	return &principal{id: id, permissions: permissions}
}

func (p *principal) ID() string {
	return p.id
}

func (p *principal) HasPermission(code PermissionCode) bool {
	return p.permissions[code]
}

type permissionPair struct {
	manage PermissionCode
	delete PermissionCode
}

var kindPermissions = map[EntityKind]permissionPair{
	CONTACT_KIND:  {manage: CONTACTS_MANAGE, delete: CONTACTS_DELETE},
	LOCATION_KIND: {manage: CONTACTS_MANAGE, delete: CONTACTS_DELETE},
	NOTE_KIND:     {manage: CONTACTS_MANAGE, delete: CONTACTS_DELETE},
	TAG_KIND:      {manage: CONTACTS_TAGS_MANAGE, delete: CONTACTS_TAGS_DELETE},
	LIST_KIND:     {manage: CONTACTS_LISTS_MANAGE, delete: CONTACTS_LISTS_DELETE},
}

// Allowed reports whether 'p' may perform 'action' on records of 'kind'.
func Allowed(p Principal, action Action, kind EntityKind) bool {
	if p == nil {
		return false
	}

	if p.HasPermission(ADMIN) {
		return true
	}

	pair, ok := kindPermissions[kind]
	if !ok {
		return false
	}

	if action == DELETE {
		return p.HasPermission(pair.delete)
	}

	return p.HasPermission(pair.manage)
}
