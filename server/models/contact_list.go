package models

import (
	"strings"

	"gorm.io/gorm"
)

// ContactList is a mailing list contacts can be added to.
type ContactList struct {
	BaseModel
	Title    string    `json:"title" validate:"required" gorm:"not null;uniqueIndex"`
	Contacts []Contact `json:"-" gorm:"many2many:contact_list_contacts;"`
}

func (list *ContactList) Save() error {
	return db.Omit("Contacts").Save(list).Error
}

// AddContact adds a contact to the list; adding a contact twice is a no-op.
func (list *ContactList) AddContact(contact *Contact) error {
	return db.Model(list).Omit("Contacts.*").Association("Contacts").Append(contact)
}

func (list *ContactList) ContactsCount() (int64, error) {
	var count int64
	err := db.Table("contact_list_contacts").Where("contact_list_id = ?", list.ID).Count(&count).Error
	return count, err
}

func FindList(id interface{}) (*ContactList, error) {
	list := ContactList{}
	err := db.First(&list, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return &list, nil
}

func FindOrCreateList(title string) (*ContactList, error) {
	list := ContactList{}
	err := db.Where(ContactList{Title: strings.TrimSpace(title)}).FirstOrCreate(&list).Error
	if err != nil {
		return nil, err
	}

	return &list, nil
}

func FindOrCreateLists(titles []string) ([]ContactList, error) {
	lists := []ContactList{}
	for _, title := range titles {
		if strings.TrimSpace(title) == "" {
			continue
		}

		list, err := FindOrCreateList(title)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *list)
	}

	return lists, nil
}

func FetchLists(page int) ([]ContactList, *Paging, error) {
	var total int64
	lists := []ContactList{}

	err := db.Model(&ContactList{}).Count(&total).Error
	if err != nil {
		return nil, nil, err
	}

	err = db.Scopes(paginate(page, DEFAULT_PAGE_SIZE)).Order("title ASC").Find(&lists).Error
	if err != nil {
		return nil, nil, err
	}

	return lists, newPaging(int64(page), DEFAULT_PAGE_SIZE, total), nil
}

func DeleteList(id interface{}) error {
	list, err := FindList(id)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Select("Contacts").Delete(list).Error
	})
}
