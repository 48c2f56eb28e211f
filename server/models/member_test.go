package models

import (
	"testing"

	"github.com/Daskott/rolodex/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberGroupsAndPermissions(t *testing.T) {
	InitializeTestDb()

	exists, err := AtLeastOneMemberExists()
	require.Nil(t, err)
	assert.False(t, exists)

	member := &Member{FirstName: "tony", Surname: "stark", Email: "stark@avengers.com"}
	require.Nil(t, CreateMember(member))

	exists, err = AtLeastOneMemberExists()
	require.Nil(t, err)
	assert.True(t, exists)

	codes, err := member.PermissionCodes()
	require.Nil(t, err)
	assert.Empty(t, codes)

	users, err := FindGroupByCode("contact-users")
	require.Nil(t, err)
	require.Nil(t, AddMemberToGroup(member, users))
	require.Nil(t, AddMemberToGroup(member, users), "Adding twice should be a no-op")

	codes, err = member.PermissionCodes()
	require.Nil(t, err)
	assert.Empty(t, codes, "Default groups grant no permissions")

	groupCodes, err := member.GroupCodes()
	require.Nil(t, err)
	assert.Equal(t, []string{"contact-users"}, groupCodes)

	managers, err := FindGroupByCode(CONTACT_MANAGERS_GROUP)
	require.Nil(t, err)
	require.Nil(t, AddMemberToGroup(member, managers))

	codes, err = member.PermissionCodes()
	require.Nil(t, err)
	assert.ElementsMatch(t, []string{
		string(auth.CONTACTS_MANAGE),
		string(auth.CONTACTS_LISTS_MANAGE),
		string(auth.CONTACTS_TAGS_MANAGE),
	}, codes)

	admins, err := FindGroupByCode(ADMINISTRATORS_GROUP)
	require.Nil(t, err)
	require.Nil(t, AddMemberToGroup(member, admins))

	codes, err = member.PermissionCodes()
	require.Nil(t, err)
	assert.Contains(t, codes, string(auth.ADMIN))
}

func TestMemberSaveKeepsPassword(t *testing.T) {
	InitializeTestDb()

	member := &Member{FirstName: "tony", Email: "stark@avengers.com", Password: "very-secure"}
	require.Nil(t, CreateMember(member))

	loaded, err := FindMemberBy("email", "stark@avengers.com")
	require.Nil(t, err)
	assert.Empty(t, loaded.Password, "Password should not be loaded")
	assert.Empty(t, loaded.ChangedFields())

	loaded.Company = "Stark Industries"
	require.Nil(t, loaded.Save())

	hash, err := FindMemberPassword("stark@avengers.com")
	require.Nil(t, err)
	assert.True(t, auth.CheckPasswordHash("very-secure", hash))

	reloaded, err := FindMember(member.ID)
	require.Nil(t, err)
	assert.Equal(t, "Stark Industries", reloaded.Company)
}

func TestMemberContactValues(t *testing.T) {
	InitializeTestDb()

	member := &Member{FirstName: "natasha", Surname: "romanoff", Email: "nat@avengers.com"}
	require.Nil(t, CreateMember(member))

	title, err := member.ContactTitle()
	require.Nil(t, err)
	assert.Equal(t, "", title, "Members without a contact have no title")

	locations, err := member.Locations()
	require.Nil(t, err)
	assert.Empty(t, locations)

	contact := &Contact{FirstName: "natasha", Surname: "romanoff", Email: "nat@avengers.com", MemberID: &member.ID}
	require.Nil(t, CreateContact(contact))
	require.Nil(t, contact.AddLocation(&ContactLocation{Address1: "1 Red Room", PostCode: "10001"}))
	require.Nil(t, contact.AddLocation(&ContactLocation{Address1: "2 Safe House", PostCode: "10002", Default: true}))

	title, err = member.ContactTitle()
	require.Nil(t, err)
	assert.Equal(t, "natasha romanoff (nat@avengers.com)", title)

	locations, err = member.Locations()
	require.Nil(t, err)
	assert.Len(t, locations, 2)

	location, err := member.DefaultLocation()
	require.Nil(t, err)
	assert.Equal(t, "2 Safe House", location.Address1)
}
