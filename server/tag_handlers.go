package server

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Daskott/rolodex/server/bulkaction"
	"github.com/Daskott/rolodex/server/importer"
	"github.com/Daskott/rolodex/server/models"
	"github.com/gorilla/mux"
)

type bulkTagsRequest struct {
	IDs    []uint   `json:"ids" validate:"required"`
	Titles []string `json:"titles"`
}

type bulkListRequest struct {
	IDs    []uint `json:"ids" validate:"required"`
	ListID uint   `json:"list_id"`
}

func fetchTags(rw http.ResponseWriter, r *http.Request) {
	tags, paging, err := models.FetchTags(pageParam(r))
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{
		Success: true,
		Data:    map[string]interface{}{"tags": tags, "paging": paging},
	}, http.StatusOK)
}

func createTag(rw http.ResponseWriter, r *http.Request) {
	tag := models.ContactTag{}

	err := decodeBody(r, &tag)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	errs := validate.Struct(tag)
	if errs != nil {
		writeValidationErrors(rw, errs)
		return
	}

	created, err := models.FindOrCreateTag(tag.Title)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: created}, http.StatusOK)
}

func deleteTag(rw http.ResponseWriter, r *http.Request) {
	err := models.DeleteTag(mux.Vars(r)["id"])
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true}, http.StatusOK)
}

func fetchLists(rw http.ResponseWriter, r *http.Request) {
	lists, paging, err := models.FetchLists(pageParam(r))
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{
		Success: true,
		Data:    map[string]interface{}{"lists": lists, "paging": paging},
	}, http.StatusOK)
}

func createList(rw http.ResponseWriter, r *http.Request) {
	list := models.ContactList{}

	err := decodeBody(r, &list)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	errs := validate.Struct(list)
	if errs != nil {
		writeValidationErrors(rw, errs)
		return
	}

	created, err := models.FindOrCreateList(list.Title)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: created}, http.StatusOK)
}

func deleteList(rw http.ResponseWriter, r *http.Request) {
	err := models.DeleteList(mux.Vars(r)["id"])
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true}, http.StatusOK)
}

// ---------------------------------------------------------------------------------//
// Bulk actions
// --------------------------------------------------------------------------------//

func bulkAddTags(rw http.ResponseWriter, r *http.Request) {
	data := bulkTagsRequest{}

	err := decodeBody(r, &data)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	errs := validate.Struct(data)
	if errs != nil {
		writeValidationErrors(rw, errs)
		return
	}

	result, err := bulkaction.AddTags(data.IDs, data.Titles)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: result, Errors: result.ErrorMessages()}, http.StatusOK)
}

func bulkAddToList(rw http.ResponseWriter, r *http.Request) {
	data := bulkListRequest{}

	err := decodeBody(r, &data)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	errs := validate.Struct(data)
	if errs != nil {
		writeValidationErrors(rw, errs)
		return
	}

	result, err := bulkaction.AddToList(data.IDs, data.ListID)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: result, Errors: result.ErrorMessages()}, http.StatusOK)
}

// ---------------------------------------------------------------------------------//
// Import & export
// --------------------------------------------------------------------------------//

// importContacts reads a CSV request body. Rows that fail are reported in 'errors'
// while the rest are still imported.
func importContacts(rw http.ResponseWriter, r *http.Request) {
	result, err := importer.New(contactsConfig, models.NewDBStore()).
		WithHooks(helperHooks).
		Import(r.Body)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: result, Errors: result.ErrorMessages()}, http.StatusOK)
}

func exportContacts(rw http.ResponseWriter, r *http.Request) {
	buf := &bytes.Buffer{}

	err := importer.Export(buf)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	fileName := fmt.Sprintf("contacts-%s.csv", time.Now().Format("2006-01-02"))
	rw.Header().Set("Content-Type", "text/csv")
	rw.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	rw.WriteHeader(http.StatusOK)
	rw.Write(buf.Bytes())
}
