package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Daskott/rolodex/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const LIST_SEPARATOR = ", "

type Contact struct {
	BaseModel
	FirstName string            `json:"first_name" validate:"required"`
	Surname   string            `json:"surname" validate:"required"`
	Company   string            `json:"company"`
	Phone     string            `json:"phone" validate:"max=15"`
	Mobile    string            `json:"mobile" validate:"max=15"`
	Email     string            `json:"email" validate:"omitempty,email" gorm:"index"`
	Source    string            `json:"source"`
	MemberID  *uint             `json:"member_id,omitempty" gorm:"uniqueIndex"`
	Member    *Member           `json:"member,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Locations []ContactLocation `json:"locations,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Notes     []ContactNote     `json:"notes,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Tags      []ContactTag      `json:"tags,omitempty" gorm:"many2many:contact_contact_tags;"`
	Lists     []ContactList     `json:"lists,omitempty" gorm:"many2many:contact_list_contacts;"`

	changes changeTracker
}

// ContactFilter narrows FetchContacts. Empty fields are ignored.
type ContactFilter struct {
	FirstName string
	Surname   string
	Email     string
	City      string
	PostCode  string
	Country   string
	Tag       string
	List      string
}

// ---------------------------------------------------------------------------------//
// Hooks & change tracking
// --------------------------------------------------------------------------------//

func (contact *Contact) AfterFind(tx *gorm.DB) error {
	contact.MarkClean()
	return nil
}

func (contact *Contact) syncFieldRefs() map[string]*string {
	return map[string]*string{
		shared.FIRST_NAME_FIELD: &contact.FirstName,
		shared.SURNAME_FIELD:    &contact.Surname,
		shared.COMPANY_FIELD:    &contact.Company,
		shared.PHONE_FIELD:      &contact.Phone,
		shared.MOBILE_FIELD:     &contact.Mobile,
		shared.EMAIL_FIELD:      &contact.Email,
	}
}

func (contact *Contact) SyncValue(field string) (string, bool) {
	return syncValue(contact.syncFieldRefs(), field)
}

func (contact *Contact) SetSyncValue(field, value string) bool {
	return setSyncValue(contact.syncFieldRefs(), field, value)
}

// ChangedFields lists the shared fields modified since the contact was loaded or last persisted.
func (contact *Contact) ChangedFields() []string {
	return contact.changes.changed(contact.syncFieldRefs())
}

func (contact *Contact) MarkClean() {
	contact.changes.snapshot(contact.syncFieldRefs())
}

// ---------------------------------------------------------------------------------//
// Derived values
// --------------------------------------------------------------------------------//

// Title is the full name followed by the email in parentheses, e.g. "Jane Doe (jane@x.com)".
func (contact *Contact) Title() string {
	parts := contact.nameParts()
	if contact.Email != "" {
		parts = append(parts, fmt.Sprintf("(%s)", contact.Email))
	}

	return strings.Join(parts, " ")
}

func (contact *Contact) FullName() string {
	return strings.Join(contact.nameParts(), " ")
}

func (contact *Contact) Name() string {
	return contact.FullName()
}

func (contact *Contact) nameParts() []string {
	parts := []string{}
	if contact.FirstName != "" {
		parts = append(parts, contact.FirstName)
	}
	if contact.Surname != "" {
		parts = append(parts, contact.Surname)
	}
	return parts
}

// Flagged reports whether any loaded note is flagged.
func (contact *Contact) Flagged() bool {
	for _, note := range contact.Notes {
		if note.Flag {
			return true
		}
	}
	return false
}

// DefaultLocation returns the location flagged as default, or an empty
// location when there is none.
func (contact *Contact) DefaultLocation() ContactLocation {
	location, _ := contact.defaultLocation()
	return location
}

func (contact *Contact) DefaultAddress() string {
	location, ok := contact.defaultLocation()
	if !ok {
		return ""
	}
	return location.Address()
}

// defaultLocation reports whether a default is set, saved or not.
func (contact *Contact) defaultLocation() (ContactLocation, bool) {
	for _, location := range contact.Locations {
		if location.Default {
			return location, true
		}
	}
	return ContactLocation{}, false
}

func (contact *Contact) TagsList() string {
	titles := []string{}
	for _, tag := range contact.Tags {
		titles = append(titles, tag.Title)
	}
	return strings.Join(titles, LIST_SEPARATOR)
}

func (contact *Contact) ListsList() string {
	titles := []string{}
	for _, list := range contact.Lists {
		titles = append(titles, list.Title)
	}
	return strings.Join(titles, LIST_SEPARATOR)
}

// ---------------------------------------------------------------------------------//
// Persistence
// --------------------------------------------------------------------------------//

// Save persists the contact's own columns; associations are managed separately.
func (contact *Contact) Save() error {
	return db.Omit(clause.Associations).Save(contact).Error
}

// ReplaceTags swaps the contact's tags for the given ones.
func (contact *Contact) ReplaceTags(tags []ContactTag) error {
	return db.Model(contact).Association("Tags").Replace(tags)
}

func (contact *Contact) AddTag(tag *ContactTag) error {
	return db.Model(contact).Association("Tags").Append(tag)
}

// ReplaceLists swaps the contact's list memberships for the given ones.
func (contact *Contact) ReplaceLists(lists []ContactList) error {
	return db.Model(contact).Association("Lists").Replace(lists)
}

func (contact *Contact) AddLocation(location *ContactLocation) error {
	location.ContactID = contact.ID
	return db.Create(location).Error
}

func (contact *Contact) AddNote(note *ContactNote) error {
	note.ContactID = contact.ID
	return db.Create(note).Error
}

// LoadRelations (re)loads locations, notes, tags and lists.
func (contact *Contact) LoadRelations() error {
	return withRelations(db).First(contact, contact.ID).Error
}

func withRelations(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Locations", orderByID).
		Preload("Notes", orderByID).
		Preload("Tags", orderByID).
		Preload("Lists", orderByID)
}

func CreateContact(contact *Contact) error {
	return db.Omit(clause.Associations).Create(contact).Error
}

// FindContact loads a contact together with its relations.
func FindContact(id interface{}) (*Contact, error) {
	contact := Contact{}
	err := withRelations(db).First(&contact, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

// FindContactBy returns the first contact whose 'field' column equals 'value'.
func FindContactBy(field string, value interface{}) (*Contact, error) {
	contact := Contact{}
	err := db.Order("id ASC").First(&contact, fmt.Sprintf("%v = ?", field), value).Error
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

func FindContactByMemberID(memberID uint) (*Contact, error) {
	return FindContactBy("member_id", memberID)
}

// DeleteContact removes a contact with its locations, notes and tag/list memberships.
func DeleteContact(id interface{}) error {
	contact := Contact{}
	err := db.First(&contact, "id = ?", id).Error
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contact_id = ?", contact.ID).Delete(&ContactLocation{}).Error; err != nil {
			return err
		}

		if err := tx.Where("contact_id = ?", contact.ID).Delete(&ContactNote{}).Error; err != nil {
			return err
		}

		return tx.Select("Tags", "Lists").Delete(&contact).Error
	})
}

func FetchContacts(filter ContactFilter, page int) ([]Contact, *Paging, error) {
	var total int64
	contacts := []Contact{}

	query := filteredContacts(filter)
	err := query.Model(&Contact{}).Count(&total).Error
	if err != nil {
		return nil, nil, err
	}

	err = withRelations(filteredContacts(filter)).
		Scopes(paginate(page, DEFAULT_PAGE_SIZE)).
		Order("first_name ASC, surname ASC").
		Find(&contacts).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	return contacts, newPaging(int64(page), DEFAULT_PAGE_SIZE, total), nil
}

// AllContacts returns every contact with relations, in default sort order.
func AllContacts() ([]Contact, error) {
	contacts := []Contact{}
	err := withRelations(db).Order("first_name ASC, surname ASC").Find(&contacts).Error
	if err != nil {
		return nil, err
	}

	return contacts, nil
}

// ContactByMostLocations returns the contact owning the largest number of locations.
func ContactByMostLocations() (*Contact, error) {
	row := struct {
		ID             uint
		LocationsCount int64
	}{}

	err := db.Model(&Contact{}).
		Select("contacts.id AS id, COUNT(contact_locations.id) AS locations_count").
		Joins("LEFT JOIN contact_locations ON contact_locations.contact_id = contacts.id").
		Group("contacts.id").
		Order("locations_count DESC, contacts.id ASC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	if row.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return FindContact(row.ID)
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func filteredContacts(filter ContactFilter) *gorm.DB {
	query := db.Model(&Contact{})

	if filter.FirstName != "" {
		query = query.Where("contacts.first_name LIKE ?", like(filter.FirstName))
	}

	if filter.Surname != "" {
		query = query.Where("contacts.surname LIKE ?", like(filter.Surname))
	}

	if filter.Email != "" {
		query = query.Where("contacts.email LIKE ?", like(filter.Email))
	}

	locationFilters := map[string]string{
		"city":      filter.City,
		"post_code": filter.PostCode,
		"country":   filter.Country,
	}
	for column, value := range locationFilters {
		if value == "" {
			continue
		}

		query = query.Where(fmt.Sprintf(
			"EXISTS (SELECT 1 FROM contact_locations WHERE contact_locations.contact_id = contacts.id AND contact_locations.%s LIKE ?)",
			column), like(value))
	}

	if filter.Tag != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM contact_contact_tags "+
				"INNER JOIN contact_tags ON contact_tags.id = contact_contact_tags.contact_tag_id "+
				"WHERE contact_contact_tags.contact_id = contacts.id AND contact_tags.title LIKE ?)",
			like(filter.Tag))
	}

	if filter.List != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM contact_list_contacts "+
				"INNER JOIN contact_lists ON contact_lists.id = contact_list_contacts.contact_list_id "+
				"WHERE contact_list_contacts.contact_id = contacts.id AND contact_lists.title LIKE ?)",
			like(filter.List))
	}

	return query
}

func like(value string) string {
	return "%" + value + "%"
}
