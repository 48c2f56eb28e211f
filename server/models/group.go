package models

import (
	"errors"

	"github.com/Daskott/rolodex/server/auth"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ADMINISTRATORS_GROUP   = "administrators"
	CONTACT_MANAGERS_GROUP = "contact-managers"
)

type Group struct {
	BaseModel
	Code        string       `json:"code" gorm:"not null;uniqueIndex"`
	Title       string       `json:"title"`
	Permissions []Permission `json:"permissions,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Members     []Member     `json:"-" gorm:"many2many:member_groups;"`
}

type Permission struct {
	BaseModel
	Code    string `json:"code" gorm:"not null"`
	GroupID uint   `json:"group_id"`
}

func FindGroupByCode(code string) (*Group, error) {
	group := Group{}
	err := db.First(&group, "code = ?", code).Error
	if err != nil {
		return nil, err
	}

	return &group, nil
}

// FindOrCreateGroup returns the group with the given code, creating it with 'title' when missing.
func FindOrCreateGroup(code, title string) (*Group, error) {
	group, err := FindGroupByCode(code)
	if err == nil {
		return group, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	logg.Infof("Inserting seed data into 'Group': %v", code)
	group = &Group{Code: code, Title: title}
	err = db.Omit(clause.Associations).Create(group).Error
	if err != nil {
		return nil, err
	}

	return group, nil
}

func (group *Group) GrantPermission(code string) error {
	return db.Where(Permission{Code: code, GroupID: group.ID}).FirstOrCreate(&Permission{}).Error
}

// AddMemberToGroup adds a member to a group; adding an existing member is a no-op.
func AddMemberToGroup(member *Member, group *Group) error {
	return member.AddToGroup(group)
}

func AllGroups() ([]Group, error) {
	groups := []Group{}
	err := db.Preload("Permissions", orderByID).Order("code ASC").Find(&groups).Error
	if err != nil {
		return nil, err
	}

	return groups, nil
}

// seedGroups makes sure the administrators and contact managers groups exist, and
// every configured default group. Default groups are plain member groups, they
// carry no permissions.
func seedGroups(defaultGroups map[string]string) error {
	admins, err := FindOrCreateGroup(ADMINISTRATORS_GROUP, "Administrators")
	if err != nil {
		return err
	}

	err = admins.GrantPermission(string(auth.ADMIN))
	if err != nil {
		return err
	}

	managers, err := FindOrCreateGroup(CONTACT_MANAGERS_GROUP, "Contact Managers")
	if err != nil {
		return err
	}

	for _, permission := range auth.StaffPermissions {
		if err := managers.GrantPermission(string(permission)); err != nil {
			return err
		}
	}

	for code, title := range defaultGroups {
		if _, err := FindOrCreateGroup(code, title); err != nil {
			return err
		}
	}

	return nil
}
