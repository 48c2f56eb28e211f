package contacthelper

import (
	"errors"
	"testing"

	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FindMember(id uint) (*models.Member, error) {
	args := m.Called(id)
	member, _ := args.Get(0).(*models.Member)
	return member, args.Error(1)
}

func (m *mockStore) FindMemberBy(field, value string) (*models.Member, error) {
	args := m.Called(field, value)
	member, _ := args.Get(0).(*models.Member)
	return member, args.Error(1)
}

func (m *mockStore) FindContactBy(field, value string) (*models.Contact, error) {
	args := m.Called(field, value)
	contact, _ := args.Get(0).(*models.Contact)
	return contact, args.Error(1)
}

func (m *mockStore) FindContactByMemberID(memberID uint) (*models.Contact, error) {
	args := m.Called(memberID)
	contact, _ := args.Get(0).(*models.Contact)
	return contact, args.Error(1)
}

func (m *mockStore) SaveMember(member *models.Member) error {
	return m.Called(member).Error(0)
}

func (m *mockStore) SaveContact(contact *models.Contact) error {
	return m.Called(contact).Error(0)
}

func (m *mockStore) FindGroupByCode(code string) (*models.Group, error) {
	args := m.Called(code)
	group, _ := args.Get(0).(*models.Group)
	return group, args.Error(1)
}

func (m *mockStore) AddMemberToGroup(member *models.Member, group *models.Group) error {
	return m.Called(member, group).Error(0)
}

func TestFindOrMakeMember_LinkWriteFails(t *testing.T) {
	store := &mockStore{}
	contact := &models.Contact{BaseModel: models.BaseModel{ID: 3}, FirstName: "Jane", Email: "jane@x.com"}

	store.On("FindMemberBy", shared.EMAIL_FIELD, "jane@x.com").Return(nil, nil)
	store.On("SaveMember", mock.AnythingOfType("*models.Member")).
		Run(func(args mock.Arguments) { args.Get(0).(*models.Member).ID = 7 }).
		Return(nil)
	store.On("SaveContact", contact).Return(errors.New("database is locked"))

	member, err := New(shared.DefaultContactsConfig(), store).SetContact(contact).FindOrMakeMember()

	assert.Nil(t, member)
	assert.EqualError(t, err, "database is locked")
	assert.Equal(t, uint(7), *contact.MemberID, "Link is set in memory even though it was not saved")
	store.AssertExpectations(t)
}

func TestLinkMemberToGroups_StopsOnError(t *testing.T) {
	store := &mockStore{}
	member := &models.Member{BaseModel: models.BaseModel{ID: 7}}
	group := &models.Group{Code: "contact-users"}

	store.On("FindGroupByCode", "contact-users").Return(group, nil)
	store.On("AddMemberToGroup", member, group).Return(errors.New("constraint failed"))

	count, err := New(shared.DefaultContactsConfig(), store).SetMember(member).LinkMemberToGroups()

	assert.Equal(t, 0, count)
	assert.Error(t, err)
	store.AssertExpectations(t)
}

func TestMember_DanglingLink(t *testing.T) {
	store := &mockStore{}
	memberID := uint(9)
	contact := &models.Contact{FirstName: "Jane", MemberID: &memberID}

	store.On("FindMember", memberID).Return(nil, &shared.NotFoundError{Kind: "member", ID: memberID})

	member, err := New(shared.DefaultContactsConfig(), store).SetContact(contact).Member()

	assert.Nil(t, err)
	assert.Nil(t, member)
	store.AssertExpectations(t)
}
