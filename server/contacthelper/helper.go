package contacthelper

import (
	"errors"

	"github.com/Daskott/rolodex/server/logger"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/shared"
)

var logg = logger.NewLogger()

// Helper keeps a contact and its member account consistent. A Helper is meant
// for a single request and is not safe for concurrent use.
type Helper struct {
	config shared.ContactsConfig
	store  Store
	hooks  *Hooks

	contact *models.Contact
	member  *models.Member
}

func New(config shared.ContactsConfig, store Store) *Helper {
	return &Helper{config: config, store: store, hooks: NewHooks()}
}

// WithHooks replaces the helper's callbacks with a shared set.
func (h *Helper) WithHooks(hooks *Hooks) *Helper {
	h.hooks = hooks
	return h
}

func (h *Helper) Hooks() *Hooks {
	return h.hooks
}

func (h *Helper) SetContact(contact *models.Contact) *Helper {
	h.contact = contact
	return h
}

func (h *Helper) SetMember(member *models.Member) *Helper {
	h.member = member
	return h
}

// Contact returns the contact set on the helper, falling back to the one
// linked to the helper's member.
func (h *Helper) Contact() (*models.Contact, error) {
	if h.contact != nil || h.member == nil || h.member.ID == 0 {
		return h.contact, nil
	}

	contact, err := h.store.FindContactByMemberID(h.member.ID)
	if err != nil {
		return nil, err
	}

	h.contact = contact
	return contact, nil
}

// Member returns the member set on the helper, falling back to the one
// linked to the helper's contact.
func (h *Helper) Member() (*models.Member, error) {
	if h.member != nil || h.contact == nil {
		return h.member, nil
	}

	member, err := h.linkedMember(h.contact)
	if err != nil {
		return nil, err
	}

	h.member = member
	return member, nil
}

// FindOrMakeMember returns the member linked to the contact, else the member
// matching the contact on the common field, else a new member copied from the
// contact. The contact's link is persisted in the last two cases.
func (h *Helper) FindOrMakeMember() (*models.Member, error) {
	contact, err := h.Contact()
	if err != nil {
		return nil, err
	}

	if contact == nil {
		return nil, &shared.PreconditionError{Op: "FindOrMakeMember", Missing: "Contact"}
	}

	member, err := h.linkedMember(contact)
	if err != nil {
		return nil, err
	}

	link := false
	if member == nil {
		link = true
		member, err = h.matchMember(contact)
		if err != nil {
			return nil, err
		}
	}

	if member == nil {
		member = &models.Member{}
		h.PushFields(contact, member)

		err = h.persistMember(member)
		if err != nil {
			return nil, err
		}

		logg.Infof("Created member with id=%v for contact with id=%v", member.ID, contact.ID)
		h.hooks.triggerMemberCreated(member)
	}

	if link {
		err = h.link(contact, member)
		if err != nil {
			return nil, err
		}
	}

	h.member = member
	return member, nil
}

// FindOrMakeContact is the inverse of FindOrMakeMember. It always leaves the
// contact linked to the helper's member.
func (h *Helper) FindOrMakeContact() (*models.Contact, error) {
	member, err := h.Member()
	if err != nil {
		return nil, err
	}

	if member == nil {
		return nil, &shared.PreconditionError{Op: "FindOrMakeContact", Missing: "Member"}
	}

	if member.ID == 0 {
		return nil, &shared.PreconditionError{Op: "FindOrMakeContact", Missing: "saved Member"}
	}

	contact, err := h.linkedContact(member)
	if err != nil {
		return nil, err
	}

	link := false
	if contact == nil {
		link = true
		contact, err = h.matchContact(member)
		if err != nil {
			return nil, err
		}
	}

	if contact == nil {
		contact = &models.Contact{}
		h.PushFields(member, contact)
	}

	if link {
		err = h.link(contact, member)
		if err != nil {
			return nil, err
		}
	}

	h.contact = contact
	return contact, nil
}

// SyncContactAndMember pushes pending changes from one side to the other.
// Pending contact changes are checked first, so the contact wins when both
// sides changed. With 'persist' the updated side is saved.
func (h *Helper) SyncContactAndMember(persist bool) (map[string]string, error) {
	contact, err := h.Contact()
	if err != nil {
		return nil, err
	}

	member, err := h.Member()
	if err != nil {
		return nil, err
	}

	if contact == nil || member == nil {
		return nil, &shared.PreconditionError{Op: "SyncContactAndMember", Missing: "Member and a Contact"}
	}

	h.hooks.triggerBeforeSync(contact, member)

	changes := map[string]string{}
	var save func() error

	switch {
	case len(pendingFields(h.config.SyncFields, contact)) > 0:
		changes = h.PushChangedFields(contact, member)
		save = func() error { return h.persistMember(member) }
	case len(pendingFields(h.config.SyncFields, member)) > 0:
		changes = h.PushChangedFields(member, contact)
		save = func() error { return h.persistContact(contact) }
	}

	if persist && len(changes) > 0 {
		if err := save(); err != nil {
			return changes, err
		}
	}

	return changes, nil
}

// PushChangedFields is PushChangedFields bound to the configured sync fields.
func (h *Helper) PushChangedFields(origin, destination Syncable) map[string]string {
	return PushChangedFields(h.config.SyncFields, origin, destination)
}

// PushFields is PushFields bound to the configured sync fields.
func (h *Helper) PushFields(origin, destination Syncable) map[string]string {
	return PushFields(h.config.SyncFields, origin, destination)
}

// LinkMemberToGroups adds the member to every configured default group that
// exists and returns how many groups it was added to.
func (h *Helper) LinkMemberToGroups() (int, error) {
	member, err := h.Member()
	if err != nil {
		return 0, err
	}

	if member == nil {
		return 0, &shared.PreconditionError{Op: "LinkMemberToGroups", Missing: "Member"}
	}

	count := 0
	for code := range h.config.DefaultUserGroups {
		group, err := h.store.FindGroupByCode(code)
		if err != nil {
			return count, err
		}

		if group == nil {
			continue
		}

		err = h.store.AddMemberToGroup(member, group)
		if err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// WriteMember saves the member. With auto sync on and pending field changes it
// then makes sure a contact exists and pushes those changes into it.
func (h *Helper) WriteMember(member *models.Member) error {
	pending := pendingFields(h.config.SyncFields, member)

	err := h.store.SaveMember(member)
	if err != nil {
		return err
	}
	h.SetMember(member)

	if h.config.AutoSync && len(pending) > 0 {
		contact, err := h.FindOrMakeContact()
		if err != nil {
			return err
		}

		if changes := h.PushChangedFields(member, contact); len(changes) > 0 {
			err = h.persistContact(contact)
			if err != nil {
				return err
			}
		}
	}

	member.MarkClean()
	return nil
}

// WriteContact saves the contact and pushes its pending changes into the linked
// member, if any. It never creates a member.
func (h *Helper) WriteContact(contact *models.Contact) error {
	pending := pendingFields(h.config.SyncFields, contact)

	err := h.store.SaveContact(contact)
	if err != nil {
		return err
	}
	h.SetContact(contact)

	if len(pending) > 0 {
		member, err := h.Member()
		if err != nil {
			return err
		}

		if member != nil {
			if changes := h.PushChangedFields(contact, member); len(changes) > 0 {
				err = h.persistMember(member)
				if err != nil {
					return err
				}
			}
		}
	}

	contact.MarkClean()
	return nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

// linkedMember resolves the contact's link. A link to a missing member counts as no link.
func (h *Helper) linkedMember(contact *models.Contact) (*models.Member, error) {
	if contact.MemberID == nil {
		return nil, nil
	}

	if h.member != nil && h.member.ID == *contact.MemberID {
		return h.member, nil
	}

	member, err := h.store.FindMember(*contact.MemberID)
	notFound := &shared.NotFoundError{}
	if errors.As(err, &notFound) {
		return nil, nil
	}

	return member, err
}

func (h *Helper) linkedContact(member *models.Member) (*models.Contact, error) {
	if h.contact != nil && h.contact.MemberID != nil && *h.contact.MemberID == member.ID {
		return h.contact, nil
	}

	return h.store.FindContactByMemberID(member.ID)
}

// matchMember looks a member up by the contact's common field. Empty values never match.
func (h *Helper) matchMember(contact *models.Contact) (*models.Member, error) {
	value, ok := contact.SyncValue(h.config.CommonField)
	if !ok || value == "" {
		return nil, nil
	}

	return h.store.FindMemberBy(h.config.CommonField, value)
}

func (h *Helper) matchContact(member *models.Member) (*models.Contact, error) {
	value, ok := member.SyncValue(h.config.CommonField)
	if !ok || value == "" {
		return nil, nil
	}

	return h.store.FindContactBy(h.config.CommonField, value)
}

func (h *Helper) link(contact *models.Contact, member *models.Member) error {
	memberID := member.ID
	contact.MemberID = &memberID
	contact.Member = nil

	err := h.persistContact(contact)
	if err != nil {
		return err
	}

	h.hooks.triggerAfterLink(contact, member)
	return nil
}

func (h *Helper) persistMember(member *models.Member) error {
	err := h.store.SaveMember(member)
	if err != nil {
		return err
	}

	member.MarkClean()
	return nil
}

func (h *Helper) persistContact(contact *models.Contact) error {
	err := h.store.SaveContact(contact)
	if err != nil {
		return err
	}

	contact.MarkClean()
	return nil
}
