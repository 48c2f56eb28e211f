package contacthelper

import "github.com/Daskott/rolodex/server/models"

// Store is the persistence the helper needs. Lookups by field return (nil, nil)
// when nothing matches.
type Store interface {
	FindMember(id uint) (*models.Member, error)
	FindMemberBy(field, value string) (*models.Member, error)
	FindContactBy(field, value string) (*models.Contact, error)
	FindContactByMemberID(memberID uint) (*models.Contact, error)
	SaveMember(member *models.Member) error
	SaveContact(contact *models.Contact) error
	FindGroupByCode(code string) (*models.Group, error)
	AddMemberToGroup(member *models.Member, group *models.Group) error
}
