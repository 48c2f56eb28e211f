package contacthelper

import (
	"sync"

	"github.com/Daskott/rolodex/server/models"
)

type (
	// BeforeSyncHook is called before a contact and member are reconciled
	BeforeSyncHook func(contact *models.Contact, member *models.Member)

	// AfterLinkHook is called once a contact's member link has been persisted
	AfterLinkHook func(contact *models.Contact, member *models.Member)

	// MemberCreatedHook is called when a member is created from a contact
	MemberCreatedHook func(member *models.Member)
)

// Hooks holds callbacks that can be shared by many helpers.
type Hooks struct {
	mu              sync.RWMutex
	onBeforeSync    []BeforeSyncHook
	onAfterLink     []AfterLinkHook
	onMemberCreated []MemberCreatedHook
}

func NewHooks() *Hooks {
	return &Hooks{}
}

func (h *Hooks) OnBeforeSync(fn BeforeSyncHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onBeforeSync = append(h.onBeforeSync, fn)
}

func (h *Hooks) OnAfterLink(fn AfterLinkHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onAfterLink = append(h.onAfterLink, fn)
}

func (h *Hooks) OnMemberCreated(fn MemberCreatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMemberCreated = append(h.onMemberCreated, fn)
}

func (h *Hooks) triggerBeforeSync(contact *models.Contact, member *models.Member) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, hook := range h.onBeforeSync {
		hook(contact, member)
	}
}

func (h *Hooks) triggerAfterLink(contact *models.Contact, member *models.Member) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, hook := range h.onAfterLink {
		hook(contact, member)
	}
}

func (h *Hooks) triggerMemberCreated(member *models.Member) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, hook := range h.onMemberCreated {
		hook(member)
	}
}
