package server

import (
	"net/http"

	"github.com/Daskott/rolodex/server/models"
	"github.com/gorilla/mux"
)

// contactResponse adds the derived contact values to the stored ones.
type contactResponse struct {
	*models.Contact
	Title          string `json:"title"`
	Flagged        bool   `json:"flagged"`
	DefaultAddress string `json:"default_address"`
	TagsList       string `json:"tags_list"`
	ListsList      string `json:"lists_list"`
}

type titlesRequest struct {
	Titles []string `json:"titles"`
}

func newContactResponse(contact *models.Contact) contactResponse {
	return contactResponse{
		Contact:        contact,
		Title:          contact.Title(),
		Flagged:        contact.Flagged(),
		DefaultAddress: contact.DefaultAddress(),
		TagsList:       contact.TagsList(),
		ListsList:      contact.ListsList(),
	}
}

func fetchContacts(rw http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.ContactFilter{
		FirstName: query.Get("first_name"),
		Surname:   query.Get("surname"),
		Email:     query.Get("email"),
		City:      query.Get("city"),
		PostCode:  query.Get("postcode"),
		Country:   query.Get("country"),
		Tag:       query.Get("tag"),
		List:      query.Get("list"),
	}

	contacts, paging, err := models.FetchContacts(filter, pageParam(r))
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	results := []contactResponse{}
	for i := range contacts {
		results = append(results, newContactResponse(&contacts[i]))
	}

	writeResponse(rw, ResponsePayload{
		Success: true,
		Data:    map[string]interface{}{"contacts": results, "paging": paging},
	}, http.StatusOK)
}

func createContact(rw http.ResponseWriter, r *http.Request) {
	contact := models.Contact{}

	err := decodeBody(r, &contact)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}
	contact.ID, contact.MemberID = 0, nil
	clearContactRelations(&contact)

	errs := validate.Struct(contact)
	if errs != nil {
		writeValidationErrors(rw, errs)
		return
	}

	err = newContactHelper().WriteContact(&contact)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: newContactResponse(&contact)}, http.StatusCreated)
}

func findContact(rw http.ResponseWriter, r *http.Request) {
	contact, err := models.FindContact(mux.Vars(r)["id"])
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: newContactResponse(contact)}, http.StatusOK)
}

// updateContact saves the contact; changed shared fields flow into its member.
func updateContact(rw http.ResponseWriter, r *http.Request) {
	contact, err := models.FindContact(mux.Vars(r)["id"])
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}
	id, memberID := contact.ID, contact.MemberID

	err = decodeBody(r, contact)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}
	contact.ID, contact.MemberID = id, memberID
	clearContactRelations(contact)

	errs := validate.Struct(contact)
	if errs != nil {
		writeValidationErrors(rw, errs)
		return
	}

	err = newContactHelper().WriteContact(contact)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	respondWithContact(rw, contact, http.StatusOK)
}

func deleteContact(rw http.ResponseWriter, r *http.Request) {
	err := models.DeleteContact(mux.Vars(r)["id"])
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true}, http.StatusOK)
}

// makeContactMember gives the contact a member account, creating one when no
// member matches, and adds it to the default groups.
func makeContactMember(rw http.ResponseWriter, r *http.Request) {
	contact, err := models.FindContact(mux.Vars(r)["id"])
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	helper := newContactHelper().SetContact(contact)
	member, err := helper.FindOrMakeMember()
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	_, err = helper.LinkMemberToGroups()
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: member}, http.StatusOK)
}

func replaceContactTags(rw http.ResponseWriter, r *http.Request) {
	contact, data, ok := contactAndTitles(rw, r)
	if !ok {
		return
	}

	tags, err := models.FindOrCreateTags(data.Titles)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	err = contact.ReplaceTags(tags)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	respondWithContact(rw, contact, http.StatusOK)
}

func replaceContactLists(rw http.ResponseWriter, r *http.Request) {
	contact, data, ok := contactAndTitles(rw, r)
	if !ok {
		return
	}

	lists, err := models.FindOrCreateLists(data.Titles)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	err = contact.ReplaceLists(lists)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	respondWithContact(rw, contact, http.StatusOK)
}

// ---------------------------------------------------------------------------------//
// Locations
// --------------------------------------------------------------------------------//

func createLocation(rw http.ResponseWriter, r *http.Request) {
	contact, err := models.FindContactBy("id", mux.Vars(r)["id"])
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	addLocation(rw, r, contact)
}

func updateLocation(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	saveLocation(rw, r, vars["id"], vars["lid"])
}

func deleteLocation(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	removeLocation(rw, vars["id"], vars["lid"])
}

func addLocation(rw http.ResponseWriter, r *http.Request, contact *models.Contact) {
	location := models.ContactLocation{}
	err := decodeBody(r, &location)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}
	location.ID = 0

	err = contact.AddLocation(&location)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: location}, http.StatusCreated)
}

// saveLocation updates a location, only when it belongs to the contact.
func saveLocation(rw http.ResponseWriter, r *http.Request, contactID, locationID interface{}) {
	location, err := models.FindContactLocation(contactID, locationID)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}
	id, ownerID := location.ID, location.ContactID

	err = decodeBody(r, location)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}
	location.ID, location.ContactID = id, ownerID

	err = location.Save()
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: location}, http.StatusOK)
}

func removeLocation(rw http.ResponseWriter, contactID, locationID interface{}) {
	err := models.DeleteContactLocation(contactID, locationID)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true}, http.StatusOK)
}

// ---------------------------------------------------------------------------------//
// Notes
// --------------------------------------------------------------------------------//

func createNote(rw http.ResponseWriter, r *http.Request) {
	contact, err := models.FindContactBy("id", mux.Vars(r)["id"])
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	note := models.ContactNote{}
	err = decodeBody(r, &note)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}
	note.ID = 0

	errs := validate.Struct(note)
	if errs != nil {
		writeValidationErrors(rw, errs)
		return
	}

	err = contact.AddNote(&note)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: note}, http.StatusCreated)
}

func updateNote(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	note, err := models.FindContactNote(vars["id"], vars["nid"])
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}
	id, contactID := note.ID, note.ContactID

	err = decodeBody(r, note)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}
	note.ID, note.ContactID = id, contactID

	errs := validate.Struct(note)
	if errs != nil {
		writeValidationErrors(rw, errs)
		return
	}

	err = note.Save()
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: note}, http.StatusOK)
}

func deleteNote(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := models.DeleteContactNote(vars["id"], vars["nid"])
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true}, http.StatusOK)
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

// clearContactRelations drops relations sent in a request body; they have their own routes.
func clearContactRelations(contact *models.Contact) {
	contact.Member = nil
	contact.Locations = nil
	contact.Notes = nil
	contact.Tags = nil
	contact.Lists = nil
}

func contactAndTitles(rw http.ResponseWriter, r *http.Request) (*models.Contact, *titlesRequest, bool) {
	contact, err := models.FindContactBy("id", mux.Vars(r)["id"])
	if err != nil {
		writeErrorResponse(rw, err)
		return nil, nil, false
	}

	data := titlesRequest{}
	err = decodeBody(r, &data)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return nil, nil, false
	}

	return contact, &data, true
}

func respondWithContact(rw http.ResponseWriter, contact *models.Contact, statusCode int) {
	err := contact.LoadRelations()
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: newContactResponse(contact)}, statusCode)
}
