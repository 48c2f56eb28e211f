package models

import (
	"errors"

	"github.com/Daskott/rolodex/shared"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// DBStore exposes the package level gorm helpers as a persistence API.
type DBStore struct{}

func NewDBStore() *DBStore {
	return &DBStore{}
}

func (DBStore) FindMember(id uint) (*Member, error) {
	member, err := FindMember(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &shared.NotFoundError{Kind: "member", ID: id}
	}

	return member, pkgerrors.Wrapf(err, "unable to find member with id=%v", id)
}

// FindMemberBy returns (nil, nil) when no member matches.
func (DBStore) FindMemberBy(field, value string) (*Member, error) {
	column, ok := SyncColumn(field)
	if !ok {
		return nil, pkgerrors.Errorf("unknown member field '%v'", field)
	}

	member, err := FindMemberBy(column, value)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	return member, pkgerrors.Wrapf(err, "unable to find member by %v", field)
}

// FindContactBy returns (nil, nil) when no contact matches.
func (DBStore) FindContactBy(field, value string) (*Contact, error) {
	column, ok := SyncColumn(field)
	if !ok {
		return nil, pkgerrors.Errorf("unknown contact field '%v'", field)
	}

	contact, err := FindContactBy(column, value)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	return contact, pkgerrors.Wrapf(err, "unable to find contact by %v", field)
}

// FindContactByMemberID returns (nil, nil) when no contact is linked to the member.
func (DBStore) FindContactByMemberID(memberID uint) (*Contact, error) {
	contact, err := FindContactByMemberID(memberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	return contact, pkgerrors.Wrapf(err, "unable to find contact for member with id=%v", memberID)
}

func (DBStore) SaveMember(member *Member) error {
	return pkgerrors.Wrap(member.Save(), "unable to save member")
}

func (DBStore) SaveContact(contact *Contact) error {
	return pkgerrors.Wrap(contact.Save(), "unable to save contact")
}

// FindGroupByCode returns (nil, nil) when the group does not exist.
func (DBStore) FindGroupByCode(code string) (*Group, error) {
	group, err := FindGroupByCode(code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	return group, pkgerrors.Wrapf(err, "unable to find group '%v'", code)
}

func (DBStore) AddMemberToGroup(member *Member, group *Group) error {
	return pkgerrors.Wrapf(AddMemberToGroup(member, group), "unable to add member to group '%v'", group.Code)
}
