package server

import (
	"net/http"

	"github.com/Daskott/rolodex/server/models"
	"github.com/gorilla/mux"
)

// Members manage the addresses of their own contact. A member without a
// contact gets one on first use.

type memberLocationsResponse struct {
	ContactTitle    string                   `json:"contact_title"`
	DefaultLocation *models.ContactLocation  `json:"default_location"`
	Locations       []models.ContactLocation `json:"locations"`
}

func fetchMemberLocations(rw http.ResponseWriter, r *http.Request) {
	contact, ok := memberContact(rw, r)
	if !ok {
		return
	}

	err := contact.LoadRelations()
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	response := memberLocationsResponse{
		ContactTitle: contact.Title(),
		Locations:    contact.Locations,
	}
	if location := contact.DefaultLocation(); location.ID != 0 {
		response.DefaultLocation = &location
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: response}, http.StatusOK)
}

func createMemberLocation(rw http.ResponseWriter, r *http.Request) {
	contact, ok := memberContact(rw, r)
	if !ok {
		return
	}

	addLocation(rw, r, contact)
}

func updateMemberLocation(rw http.ResponseWriter, r *http.Request) {
	contact, ok := memberContact(rw, r)
	if !ok {
		return
	}

	saveLocation(rw, r, contact.ID, mux.Vars(r)["lid"])
}

func deleteMemberLocation(rw http.ResponseWriter, r *http.Request) {
	contact, ok := memberContact(rw, r)
	if !ok {
		return
	}

	removeLocation(rw, contact.ID, mux.Vars(r)["lid"])
}

func addMemberToGroup(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	member, err := models.FindMember(vars["id"])
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	group, err := models.FindGroupByCode(vars["code"])
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	err = models.AddMemberToGroup(member, group)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	codes, err := member.GroupCodes()
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: map[string][]string{"groups": codes}}, http.StatusOK)
}

// memberContact resolves the contact of the member in the url, for the member
// themselves or an admin.
func memberContact(rw http.ResponseWriter, r *http.Request) (*models.Contact, bool) {
	if !canAccessMember(r) {
		writeResponse(rw, ResponsePayload{Errors: []string{"action is forbidden"}}, http.StatusForbidden)
		return nil, false
	}

	member, err := models.FindMember(mux.Vars(r)["id"])
	if err != nil {
		writeErrorResponse(rw, err)
		return nil, false
	}

	contact, err := newContactHelper().SetMember(member).FindOrMakeContact()
	if err != nil {
		writeErrorResponse(rw, err)
		return nil, false
	}

	return contact, true
}
