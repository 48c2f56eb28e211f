package models

import (
	"strings"

	"gorm.io/gorm"
)

type ContactTag struct {
	BaseModel
	Title    string    `json:"title" validate:"required" gorm:"not null;uniqueIndex"`
	Contacts []Contact `json:"-" gorm:"many2many:contact_contact_tags;"`
}

func FindTag(id interface{}) (*ContactTag, error) {
	tag := ContactTag{}
	err := db.First(&tag, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return &tag, nil
}

// FindOrCreateTag looks a tag up by title, creating it when missing.
func FindOrCreateTag(title string) (*ContactTag, error) {
	tag := ContactTag{}
	err := db.Where(ContactTag{Title: strings.TrimSpace(title)}).FirstOrCreate(&tag).Error
	if err != nil {
		return nil, err
	}

	return &tag, nil
}

// FindOrCreateTags resolves every non-blank title, keeping their order.
func FindOrCreateTags(titles []string) ([]ContactTag, error) {
	tags := []ContactTag{}
	for _, title := range titles {
		if strings.TrimSpace(title) == "" {
			continue
		}

		tag, err := FindOrCreateTag(title)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}

	return tags, nil
}

func FetchTags(page int) ([]ContactTag, *Paging, error) {
	var total int64
	tags := []ContactTag{}

	err := db.Model(&ContactTag{}).Count(&total).Error
	if err != nil {
		return nil, nil, err
	}

	err = db.Scopes(paginate(page, DEFAULT_PAGE_SIZE)).Order("title ASC").Find(&tags).Error
	if err != nil {
		return nil, nil, err
	}

	return tags, newPaging(int64(page), DEFAULT_PAGE_SIZE, total), nil
}

// DeleteTag removes a tag and detaches it from every contact.
func DeleteTag(id interface{}) error {
	tag, err := FindTag(id)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Select("Contacts").Delete(tag).Error
	})
}
