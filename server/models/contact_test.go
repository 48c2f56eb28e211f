package models

import (
	"testing"

	"github.com/Daskott/rolodex/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestContactDerivedValues(t *testing.T) {
	contact := Contact{
		FirstName: "Jane",
		Surname:   "Doe",
		Email:     "jane@x.com",
		Locations: []ContactLocation{
			{Address1: "1 Main St", PostCode: "AB1"},
			{Address1: "2 High St", City: "Leeds", Country: "UK", PostCode: "LS1", Default: true},
		},
		Notes: []ContactNote{{Content: "call back"}, {Content: "vip", Flag: true}},
		Tags:  []ContactTag{{Title: "friends"}, {Title: "work"}},
		Lists: []ContactList{{Title: "newsletter"}},
	}

	assert.Equal(t, "Jane Doe (jane@x.com)", contact.Title())
	assert.Equal(t, "Jane Doe", contact.FullName())
	assert.Equal(t, "Jane Doe", contact.Name())
	assert.True(t, contact.Flagged())
	assert.Equal(t, "2 High St", contact.DefaultLocation().Address1)
	assert.Equal(t, "2 High St,\nLeeds,\nUK,\nLS1", contact.DefaultAddress())
	assert.Equal(t, "friends, work", contact.TagsList())
	assert.Equal(t, "newsletter", contact.ListsList())

	noEmail := Contact{FirstName: "Jane"}
	assert.Equal(t, "Jane", noEmail.Title())
	assert.False(t, noEmail.Flagged())
	assert.Equal(t, uint(0), noEmail.DefaultLocation().ID)
	assert.Equal(t, "", noEmail.DefaultAddress())
	assert.Equal(t, "", noEmail.TagsList())

	noDefault := Contact{Locations: []ContactLocation{{BaseModel: BaseModel{ID: 4}, Address1: "1 Main St", PostCode: "AB1"}}}
	assert.Equal(t, "", noDefault.DefaultAddress(), "Saved locations only count when flagged default")
	assert.Equal(t, "", noDefault.DefaultLocation().Address1)
}

func TestContactChangedFields(t *testing.T) {
	InitializeTestDb()

	contact := &Contact{FirstName: "Jane", Email: "jane@x.com"}
	assert.Equal(t, []string{shared.FIRST_NAME_FIELD, shared.EMAIL_FIELD}, contact.ChangedFields())

	require.Nil(t, CreateContact(contact))

	loaded, err := FindContact(contact.ID)
	require.Nil(t, err)
	assert.Empty(t, loaded.ChangedFields(), "Freshly loaded contact should have no changes")

	loaded.Surname = "Doe"
	loaded.Email = ""
	assert.Equal(t, []string{shared.SURNAME_FIELD, shared.EMAIL_FIELD}, loaded.ChangedFields())

	loaded.MarkClean()
	assert.Empty(t, loaded.ChangedFields())

	value, ok := loaded.SyncValue(shared.SURNAME_FIELD)
	assert.True(t, ok)
	assert.Equal(t, "Doe", value)

	assert.True(t, loaded.SetSyncValue(shared.COMPANY_FIELD, "ACME"))
	assert.False(t, loaded.SetSyncValue("Source", "web"))
	assert.Equal(t, []string{shared.COMPANY_FIELD}, loaded.ChangedFields())
}

func TestContactLocationDefaultIsExclusive(t *testing.T) {
	InitializeTestDb()

	contact := &Contact{FirstName: "Jane", Surname: "Doe"}
	other := &Contact{FirstName: "John", Surname: "Doe"}
	require.Nil(t, CreateContact(contact))
	require.Nil(t, CreateContact(other))

	first := &ContactLocation{Address1: "1 Main St", Default: true}
	second := &ContactLocation{Address1: "2 High St"}
	otherDefault := &ContactLocation{Address1: "3 Low St", Default: true}
	require.Nil(t, contact.AddLocation(first))
	require.Nil(t, contact.AddLocation(second))
	require.Nil(t, other.AddLocation(otherDefault))

	second.Default = true
	require.Nil(t, second.Save())

	require.Nil(t, contact.LoadRelations())
	require.Len(t, contact.Locations, 2)
	assert.False(t, contact.Locations[0].Default, "Previous default should be cleared")
	assert.True(t, contact.Locations[1].Default)
	assert.Equal(t, "2 High St", contact.DefaultLocation().Address1)

	require.Nil(t, other.LoadRelations())
	assert.True(t, other.Locations[0].Default, "Other contacts' locations are untouched")
}

func TestFetchContacts(t *testing.T) {
	InitializeTestDb()

	jane := &Contact{FirstName: "Jane", Surname: "Doe", Email: "jane@x.com"}
	john := &Contact{FirstName: "John", Surname: "Smith", Email: "john@y.com"}
	require.Nil(t, CreateContact(jane))
	require.Nil(t, CreateContact(john))

	require.Nil(t, jane.AddLocation(&ContactLocation{Address1: "1 Main St", City: "Leeds", PostCode: "LS1"}))
	require.Nil(t, john.AddLocation(&ContactLocation{Address1: "9 Bay Rd", City: "Cardiff", PostCode: "CF1"}))

	tags, err := FindOrCreateTags([]string{"friends", " "})
	require.Nil(t, err)
	require.Len(t, tags, 1)
	require.Nil(t, jane.ReplaceTags(tags))

	list, err := FindOrCreateList("newsletter")
	require.Nil(t, err)
	require.Nil(t, list.AddContact(john))

	testCases := []struct {
		name     string
		filter   ContactFilter
		expected []string
	}{
		{"no filter", ContactFilter{}, []string{"Jane", "John"}},
		{"by first name", ContactFilter{FirstName: "jo"}, []string{"John"}},
		{"by email", ContactFilter{Email: "x.com"}, []string{"Jane"}},
		{"by city", ContactFilter{City: "leeds"}, []string{"Jane"}},
		{"by postcode", ContactFilter{PostCode: "CF"}, []string{"John"}},
		{"by tag", ContactFilter{Tag: "friend"}, []string{"Jane"}},
		{"by list", ContactFilter{List: "newsletter"}, []string{"John"}},
		{"no match", ContactFilter{Country: "France"}, []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			contacts, paging, err := FetchContacts(tc.filter, 1)
			require.Nil(t, err)

			names := []string{}
			for _, contact := range contacts {
				names = append(names, contact.FirstName)
			}
			assert.Equal(t, tc.expected, names)
			assert.Equal(t, int64(len(tc.expected)), paging.Total)
			assert.Equal(t, int64(1), paging.Pages)
		})
	}
}

func TestDeleteContact(t *testing.T) {
	InitializeTestDb()

	contact := &Contact{FirstName: "Jane", Surname: "Doe"}
	require.Nil(t, CreateContact(contact))
	require.Nil(t, contact.AddLocation(&ContactLocation{Address1: "1 Main St"}))
	require.Nil(t, contact.AddNote(&ContactNote{Content: "hello"}))

	tag, err := FindOrCreateTag("friends")
	require.Nil(t, err)
	require.Nil(t, contact.AddTag(tag))

	require.Nil(t, DeleteContact(contact.ID))

	_, err = FindContact(contact.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	db.Model(&ContactLocation{}).Where("contact_id = ?", contact.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	db.Model(&ContactNote{}).Where("contact_id = ?", contact.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	db.Table("contact_contact_tags").Where("contact_id = ?", contact.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	_, err = FindTag(tag.ID)
	assert.Nil(t, err, "Tag itself should survive")
}

func TestContactByMostLocations(t *testing.T) {
	InitializeTestDb()

	_, err := ContactByMostLocations()
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	jane := &Contact{FirstName: "Jane"}
	john := &Contact{FirstName: "John"}
	require.Nil(t, CreateContact(jane))
	require.Nil(t, CreateContact(john))

	require.Nil(t, jane.AddLocation(&ContactLocation{Address1: "1 Main St"}))
	require.Nil(t, john.AddLocation(&ContactLocation{Address1: "2 High St"}))
	require.Nil(t, john.AddLocation(&ContactLocation{Address1: "3 Low St"}))

	contact, err := ContactByMostLocations()
	require.Nil(t, err)
	assert.Equal(t, john.ID, contact.ID)
	assert.Len(t, contact.Locations, 2)
}

func TestContactTitle(t *testing.T) {
	testCases := []struct {
		contact  Contact
		expected string
	}{
		{Contact{FirstName: "Member", Surname: "One"}, "Member One"},
		{Contact{FirstName: "Member", Surname: "Two", Email: "member.two@notavaliddomain.com"}, "Member Two (member.two@notavaliddomain.com)"},
		{Contact{Email: "contact@notavaliddomain.com"}, "(contact@notavaliddomain.com)"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.contact.Title())
		})
	}
}

func TestLocationAddress(t *testing.T) {
	full := ContactLocation{
		Address1: "1 Main St",
		Address2: "Flat 2",
		City:     "Leeds",
		County:   "West Yorkshire",
		Country:  "UK",
		PostCode: "LS1",
	}
	assert.Equal(t, "1 Main St,\nFlat 2,\nLeeds,\nWest Yorkshire,\nUK,\nLS1", full.Address())
	assert.Equal(t, "1 Main St (LS1)", full.Title())

	short := ContactLocation{Address1: "1 Main St", City: "Leeds", Country: "UK", PostCode: "LS1"}
	assert.Equal(t, "1 Main St,\nLeeds,\nUK,\nLS1", short.Address())
}
