package models

type ContactNote struct {
	BaseModel
	Content   string `json:"content" validate:"required"`
	Flag      bool   `json:"flag"`
	ContactID uint   `json:"contact_id" gorm:"index;not null"`
}

func (note *ContactNote) Save() error {
	return db.Save(note).Error
}

func FindContactNote(contactID, id interface{}) (*ContactNote, error) {
	note := ContactNote{}
	err := db.First(&note, "id = ? AND contact_id = ?", id, contactID).Error
	if err != nil {
		return nil, err
	}

	return &note, nil
}

func DeleteContactNote(contactID, id interface{}) error {
	note, err := FindContactNote(contactID, id)
	if err != nil {
		return err
	}

	return db.Delete(note).Error
}
