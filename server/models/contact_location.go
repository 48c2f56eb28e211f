package models

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type ContactLocation struct {
	BaseModel
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	Country   string `json:"country"`
	County    string `json:"county"`
	PostCode  string `json:"post_code"`
	Default   bool   `json:"default" gorm:"column:is_default"`
	ContactID uint   `json:"contact_id" gorm:"index;not null"`
}

// AfterSave keeps at most one default location per contact.
func (location *ContactLocation) AfterSave(tx *gorm.DB) error {
	if !location.Default {
		return nil
	}

	return tx.Session(&gorm.Session{SkipHooks: true}).
		Model(&ContactLocation{}).
		Where("contact_id = ? AND id <> ? AND is_default = ?", location.ContactID, location.ID, true).
		Update("is_default", false).Error
}

// Address formats the location one part per line. Address2 and County are
// left out when empty.
func (location *ContactLocation) Address() string {
	parts := []string{location.Address1}
	if location.Address2 != "" {
		parts = append(parts, location.Address2)
	}

	parts = append(parts, location.City)
	if location.County != "" {
		parts = append(parts, location.County)
	}

	parts = append(parts, location.Country, location.PostCode)

	return strings.Join(parts, ",\n")
}

func (location *ContactLocation) Title() string {
	return fmt.Sprintf("%s (%s)", location.Address1, location.PostCode)
}

func (location *ContactLocation) Save() error {
	return db.Save(location).Error
}

// FindContactLocation returns a location owned by the given contact.
func FindContactLocation(contactID, id interface{}) (*ContactLocation, error) {
	location := ContactLocation{}
	err := db.First(&location, "id = ? AND contact_id = ?", id, contactID).Error
	if err != nil {
		return nil, err
	}

	return &location, nil
}

func DeleteContactLocation(contactID, id interface{}) error {
	location, err := FindContactLocation(contactID, id)
	if err != nil {
		return err
	}

	return db.Delete(location).Error
}
