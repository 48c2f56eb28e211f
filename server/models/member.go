package models

import (
	"errors"
	"fmt"

	"github.com/Daskott/rolodex/server/auth"
	"github.com/Daskott/rolodex/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var allFieldsExceptPassword = []string{"id",
	"first_name",
	"surname",
	"company",
	"phone",
	"mobile",
	"email",
	"created_at",
	"updated_at",
}

// Member is a user account. Contacts link to it through Contact.MemberID.
type Member struct {
	BaseModel
	FirstName string  `json:"first_name"`
	Surname   string  `json:"surname"`
	Company   string  `json:"company"`
	Phone     string  `json:"phone" validate:"max=15"`
	Mobile    string  `json:"mobile" validate:"max=15"`
	Email     string  `json:"email" validate:"required,email" gorm:"index"`
	Password  string  `json:"password,omitempty" validate:"omitempty,password"`
	Groups    []Group `json:"groups,omitempty" gorm:"many2many:member_groups;"`

	changes changeTracker
}

// ---------------------------------------------------------------------------------//
// Hooks & change tracking
// --------------------------------------------------------------------------------//

func (member *Member) AfterFind(tx *gorm.DB) error {
	member.MarkClean()
	return nil
}

func (member *Member) syncFieldRefs() map[string]*string {
	return map[string]*string{
		shared.FIRST_NAME_FIELD: &member.FirstName,
		shared.SURNAME_FIELD:    &member.Surname,
		shared.COMPANY_FIELD:    &member.Company,
		shared.PHONE_FIELD:      &member.Phone,
		shared.MOBILE_FIELD:     &member.Mobile,
		shared.EMAIL_FIELD:      &member.Email,
	}
}

func (member *Member) SyncValue(field string) (string, bool) {
	return syncValue(member.syncFieldRefs(), field)
}

func (member *Member) SetSyncValue(field, value string) bool {
	return setSyncValue(member.syncFieldRefs(), field, value)
}

// ChangedFields lists the shared fields modified since the member was loaded or last persisted.
func (member *Member) ChangedFields() []string {
	return member.changes.changed(member.syncFieldRefs())
}

func (member *Member) MarkClean() {
	member.changes.snapshot(member.syncFieldRefs())
}

// ---------------------------------------------------------------------------------//
// Persistence
// --------------------------------------------------------------------------------//

// Save persists the member's own columns. The password is never written here,
// use CreateMember or SetPassword for that.
func (member *Member) Save() error {
	return db.Omit(clause.Associations, "password").Save(member).Error
}

func (member *Member) SetPassword(password string) error {
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	member.Password = passwordHash
	return db.Model(&Member{}).Where("id = ?", member.ID).Update("password", passwordHash).Error
}

func (member *Member) AddToGroup(group *Group) error {
	return db.Model(member).Association("Groups").Append(group)
}

// PermissionCodes returns every permission code granted through the member's groups.
func (member *Member) PermissionCodes() ([]string, error) {
	codes := []string{}
	err := db.Model(&Permission{}).
		Distinct("permissions.code").
		Joins("INNER JOIN member_groups ON member_groups.group_id = permissions.group_id").
		Where("member_groups.member_id = ?", member.ID).
		Pluck("permissions.code", &codes).Error
	if err != nil {
		return nil, err
	}

	return codes, nil
}

// Contact returns the member's linked contact with its relations, or an empty
// contact when none is linked.
func (member *Member) Contact() (*Contact, error) {
	contact := Contact{}
	err := withRelations(db).First(&contact, "member_id = ?", member.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Contact{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

func (member *Member) Locations() ([]ContactLocation, error) {
	contact, err := member.Contact()
	if err != nil {
		return nil, err
	}
	return contact.Locations, nil
}

// DefaultLocation is the default location of the member's contact.
func (member *Member) DefaultLocation() (ContactLocation, error) {
	contact, err := member.Contact()
	if err != nil {
		return ContactLocation{}, err
	}
	return contact.DefaultLocation(), nil
}

// ContactTitle is the title of the member's contact, empty when there is none.
func (member *Member) ContactTitle() (string, error) {
	contact, err := member.Contact()
	if err != nil {
		return "", err
	}
	return contact.Title(), nil
}

// GroupCodes returns the codes of every group the member belongs to.
func (member *Member) GroupCodes() ([]string, error) {
	codes := []string{}
	err := db.Model(&Group{}).
		Joins("INNER JOIN member_groups ON member_groups.group_id = `groups`.id").
		Where("member_groups.member_id = ?", member.ID).
		Order("`groups`.code ASC").
		Pluck("`groups`.code", &codes).Error
	if err != nil {
		return nil, err
	}

	return codes, nil
}

// CreateMember hashes the member's password (when set) before inserting it.
func CreateMember(member *Member) error {
	if member.Password != "" {
		passwordHash, err := auth.HashPassword(member.Password)
		if err != nil {
			return err
		}
		member.Password = passwordHash
	}

	return db.Omit(clause.Associations).Create(member).Error
}

func FindMember(id interface{}) (*Member, error) {
	return FindMemberBy("id", id)
}

func FindMemberBy(field string, value interface{}) (*Member, error) {
	member := Member{}
	err := db.Select(allFieldsExceptPassword).Order("id ASC").
		First(&member, fmt.Sprintf("%v = ?", field), value).Error
	if err != nil {
		return nil, err
	}

	return &member, nil
}

func FindMemberPassword(email string) (string, error) {
	member := &Member{}
	err := db.Select("Password").First(member, "email = ?", email).Error
	if err != nil {
		return "", err
	}

	return member.Password, nil
}

func AllMembers() ([]Member, error) {
	members := []Member{}
	err := db.Select(allFieldsExceptPassword).Order("id ASC").Find(&members).Error
	if err != nil {
		return nil, err
	}

	return members, nil
}

func AtLeastOneMemberExists() (bool, error) {
	err := db.First(&Member{}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}
