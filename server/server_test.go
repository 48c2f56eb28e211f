package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Daskott/rolodex/server/auth/key"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/shared"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testResponse struct {
	Errors  []string        `json:"errors"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func setupTestServer(t *testing.T) *mux.Router {
	t.Helper()
	models.InitializeTestDb()

	var err error
	authKeyPair, err = key.GenerateKeyPair()
	require.Nil(t, err)
	contactsConfig = shared.DefaultContactsConfig()

	return newRouter()
}

func doRequest(router http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, testResponse) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	payload := testResponse{}
	json.Unmarshal(rec.Body.Bytes(), &payload)
	return rec, payload
}

func loginAs(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()
	rec, payload := doRequest(router, "POST", "/api/v1/login", "",
		fmt.Sprintf(`{"email": %q, "password": %q}`, email, password))
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)

	data := map[string]string{}
	require.Nil(t, json.Unmarshal(payload.Data, &data))
	return data["token"]
}

// registerMembers creates an admin (the first member) and a contact manager,
// returning their tokens.
func registerMembers(t *testing.T, router http.Handler) (string, string) {
	t.Helper()
	rec, payload := doRequest(router, "POST", "/api/v1/members", "",
		`{"first_name": "tony", "surname": "stark", "email": "stark@avengers.com", "password": "i-am-ironman"}`)
	require.Equal(t, http.StatusCreated, rec.Code, payload.Errors)
	adminToken := loginAs(t, router, "stark@avengers.com", "i-am-ironman")

	rec, payload = doRequest(router, "POST", "/api/v1/members", adminToken,
		`{"first_name": "peter", "surname": "parker", "email": "parker@avengers.com", "password": "spidey-sense"}`)
	require.Equal(t, http.StatusCreated, rec.Code, payload.Errors)

	rec, payload = doRequest(router, "PUT", "/api/v1/members/2/groups/contact-managers", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)
	userToken := loginAs(t, router, "parker@avengers.com", "spidey-sense")

	return adminToken, userToken
}

func TestMemberRegistration(t *testing.T) {
	router := setupTestServer(t)
	adminToken, userToken := registerMembers(t, router)

	rec, _ := doRequest(router, "POST", "/api/v1/members", "",
		`{"first_name": "bruce", "email": "banner@avengers.com", "password": "hulk-smash"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "Only the first member can register without a token")

	rec, _ = doRequest(router, "POST", "/api/v1/members", userToken,
		`{"first_name": "bruce", "email": "banner@avengers.com", "password": "hulk-smash"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, payload := doRequest(router, "POST", "/api/v1/members", adminToken,
		`{"first_name": "peter", "email": "parker@avengers.com", "password": "another-one"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, payload.Errors, "email is already in use")

	admin, err := models.FindMemberBy("email", "stark@avengers.com")
	require.Nil(t, err)
	codes, err := admin.PermissionCodes()
	require.Nil(t, err)
	assert.Contains(t, codes, "ADMIN")

	// new members get a linked contact
	member, err := models.FindMemberBy("email", "parker@avengers.com")
	require.Nil(t, err)
	contact, err := models.FindContactByMemberID(member.ID)
	require.Nil(t, err)
	assert.Equal(t, "peter", contact.FirstName)
	assert.Equal(t, "parker@avengers.com", contact.Email)
}

func TestLogin(t *testing.T) {
	router := setupTestServer(t)
	registerMembers(t, router)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"valid credentials", `{"email": "stark@avengers.com", "password": "i-am-ironman"}`, http.StatusOK},
		{"wrong password", `{"email": "stark@avengers.com", "password": "i-am-hulk"}`, http.StatusUnauthorized},
		{"unknown email", `{"email": "thor@avengers.com", "password": "i-am-ironman"}`, http.StatusUnauthorized},
		{"missing password", `{"email": "stark@avengers.com"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := doRequest(router, "POST", "/api/v1/login", "", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestMemberAccess(t *testing.T) {
	router := setupTestServer(t)
	adminToken, userToken := registerMembers(t, router)

	tests := []struct {
		name     string
		token    string
		method   string
		path     string
		wantCode int
	}{
		{"member reads self", userToken, "GET", "/api/v1/members/2", http.StatusOK},
		{"member reads another member", userToken, "GET", "/api/v1/members/1", http.StatusForbidden},
		{"member lists members", userToken, "GET", "/api/v1/members", http.StatusForbidden},
		{"admin reads member", adminToken, "GET", "/api/v1/members/2", http.StatusOK},
		{"admin lists members", adminToken, "GET", "/api/v1/members", http.StatusOK},
		{"no token", "", "GET", "/api/v1/members/2", http.StatusUnauthorized},
		{"bad token", "not-a-token", "GET", "/api/v1/members/2", http.StatusUnauthorized},
		{"unknown member", adminToken, "GET", "/api/v1/members/99", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := doRequest(router, tt.method, tt.path, tt.token, "")
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestUpdateMemberSyncsContact(t *testing.T) {
	router := setupTestServer(t)
	_, userToken := registerMembers(t, router)

	rec, payload := doRequest(router, "PUT", "/api/v1/members/2", userToken,
		`{"first_name": "peter", "surname": "parker", "company": "Daily Bugle", "email": "parker@avengers.com", "password": "new-password"}`)
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)

	contact, err := models.FindContactByMemberID(2)
	require.Nil(t, err)
	assert.Equal(t, "Daily Bugle", contact.Company)

	loginAs(t, router, "parker@avengers.com", "new-password")
}

func TestContactRoutes(t *testing.T) {
	router := setupTestServer(t)
	adminToken, userToken := registerMembers(t, router)

	rec, payload := doRequest(router, "POST", "/api/v1/contacts", userToken,
		`{"first_name": "natasha", "surname": "romanoff", "email": "widow@avengers.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code, payload.Errors)

	created := map[string]interface{}{}
	require.Nil(t, json.Unmarshal(payload.Data, &created))
	assert.Equal(t, "natasha romanoff (widow@avengers.com)", created["title"])
	contactPath := fmt.Sprintf("/api/v1/contacts/%v", created["id"])

	rec, payload = doRequest(router, "POST", "/api/v1/contacts", userToken, `{"first_name": "clint"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "Surname is required")

	rec, payload = doRequest(router, "PUT", contactPath, userToken,
		`{"first_name": "natasha", "surname": "romanoff", "company": "S.H.I.E.L.D", "email": "widow@avengers.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)

	rec, payload = doRequest(router, "POST", contactPath+"/locations", userToken,
		`{"address1": "1 Red Room", "city": "Moscow", "country": "Russia", "post_code": "101000", "default": true}`)
	require.Equal(t, http.StatusCreated, rec.Code, payload.Errors)

	rec, payload = doRequest(router, "POST", contactPath+"/notes", userToken, `{"content": "Check in weekly", "flag": true}`)
	require.Equal(t, http.StatusCreated, rec.Code, payload.Errors)

	rec, payload = doRequest(router, "PUT", contactPath+"/tags", userToken, `{"titles": ["spy", "avenger"]}`)
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)

	rec, payload = doRequest(router, "GET", contactPath, userToken, "")
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)

	found := map[string]interface{}{}
	require.Nil(t, json.Unmarshal(payload.Data, &found))
	assert.Equal(t, "S.H.I.E.L.D", found["company"])
	assert.Equal(t, true, found["flagged"])
	assert.Equal(t, "spy, avenger", found["tags_list"])
	assert.Equal(t, "1 Red Room,\nMoscow,\nRussia,\n101000", found["default_address"])

	rec, payload = doRequest(router, "GET", "/api/v1/contacts?tag=spy", userToken, "")
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)

	fetched := struct {
		Contacts []map[string]interface{} `json:"contacts"`
		Paging   models.Paging             `json:"paging"`
	}{}
	require.Nil(t, json.Unmarshal(payload.Data, &fetched))
	assert.Len(t, fetched.Contacts, 1)
	assert.Equal(t, int64(1), fetched.Paging.Total)

	rec, _ = doRequest(router, "DELETE", contactPath, userToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code, "Default members can't delete contacts")

	rec, _ = doRequest(router, "DELETE", contactPath, adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(router, "GET", contactPath, adminToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateContactSyncsMember(t *testing.T) {
	router := setupTestServer(t)
	_, userToken := registerMembers(t, router)

	contact, err := models.FindContactByMemberID(2)
	require.Nil(t, err)

	rec, payload := doRequest(router, "PUT", fmt.Sprintf("/api/v1/contacts/%v", contact.ID), userToken,
		`{"first_name": "peter", "surname": "parker", "mobile": "555-0100", "email": "parker@avengers.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)

	member, err := models.FindMember(2)
	require.Nil(t, err)
	assert.Equal(t, "555-0100", member.Mobile)
}

func TestMakeContactMember(t *testing.T) {
	router := setupTestServer(t)
	adminToken, _ := registerMembers(t, router)

	contact := &models.Contact{FirstName: "wanda", Surname: "maximoff", Email: "wanda@avengers.com"}
	require.Nil(t, models.CreateContact(contact))

	rec, payload := doRequest(router, "POST", fmt.Sprintf("/api/v1/contacts/%v/member", contact.ID), adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)

	member, err := models.FindMemberBy("email", "wanda@avengers.com")
	require.Nil(t, err)

	linked, err := models.FindContactByMemberID(member.ID)
	require.Nil(t, err)
	assert.Equal(t, contact.ID, linked.ID)

	codes, err := member.PermissionCodes()
	require.Nil(t, err)
	assert.Empty(t, codes, "Default groups carry no permissions")

	groups, err := member.GroupCodes()
	require.Nil(t, err)
	assert.Equal(t, []string{"contact-users"}, groups)
}

func TestDefaultGroupMembersCannotManageContacts(t *testing.T) {
	router := setupTestServer(t)
	adminToken, _ := registerMembers(t, router)

	rec, payload := doRequest(router, "POST", "/api/v1/members", adminToken,
		`{"first_name": "bruce", "surname": "banner", "email": "banner@avengers.com", "password": "hulk-smash"}`)
	require.Equal(t, http.StatusCreated, rec.Code, payload.Errors)
	token := loginAs(t, router, "banner@avengers.com", "hulk-smash")

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
	}{
		{"list contacts", "GET", "/api/v1/contacts", http.StatusForbidden},
		{"create contact", "POST", "/api/v1/contacts", http.StatusForbidden},
		{"list tags", "GET", "/api/v1/tags", http.StatusForbidden},
		{"list lists", "GET", "/api/v1/lists", http.StatusForbidden},
		{"own record", "GET", "/api/v1/members/3", http.StatusOK},
		{"own addresses", "GET", "/api/v1/members/3/locations", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := doRequest(router, tt.method, tt.path, token, "")
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}

	rec, _ = doRequest(router, "PUT", "/api/v1/members/3/groups/contact-managers", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code, "Only admins change group membership")

	rec, _ = doRequest(router, "PUT", "/api/v1/members/3/groups/unknown", adminToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMemberLocations(t *testing.T) {
	router := setupTestServer(t)
	adminToken, userToken := registerMembers(t, router)

	rec, payload := doRequest(router, "POST", "/api/v1/members/2/locations", userToken,
		`{"address1": "20 Ingram St", "city": "Queens", "country": "USA", "post_code": "11375", "default": true}`)
	require.Equal(t, http.StatusCreated, rec.Code, payload.Errors)

	created := models.ContactLocation{}
	require.Nil(t, json.Unmarshal(payload.Data, &created))
	locationPath := fmt.Sprintf("/api/v1/members/2/locations/%v", created.ID)

	rec, payload = doRequest(router, "PUT", locationPath, userToken,
		`{"address1": "20 Ingram Street", "city": "Queens", "country": "USA", "post_code": "11375", "default": true}`)
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)

	rec, payload = doRequest(router, "GET", "/api/v1/members/2/locations", userToken, "")
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)

	listed := memberLocationsResponse{}
	require.Nil(t, json.Unmarshal(payload.Data, &listed))
	assert.Equal(t, "peter parker (parker@avengers.com)", listed.ContactTitle)
	require.Len(t, listed.Locations, 1)
	require.NotNil(t, listed.DefaultLocation)
	assert.Equal(t, "20 Ingram Street", listed.DefaultLocation.Address1)

	rec, payload = doRequest(router, "GET", "/api/v1/members/2", userToken, "")
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)
	member := map[string]interface{}{}
	require.Nil(t, json.Unmarshal(payload.Data, &member))
	assert.Equal(t, "peter parker (parker@avengers.com)", member["contact_title"])

	rec, _ = doRequest(router, "GET", "/api/v1/members/1/locations", userToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code, "Members only see their own addresses")

	adminLocation := fmt.Sprintf("/api/v1/members/1/locations/%v", created.ID)
	rec, _ = doRequest(router, "DELETE", adminLocation, adminToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "Locations of another contact can't be reached")

	rec, payload = doRequest(router, "DELETE", locationPath, userToken, "")
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)

	parker, err := models.FindMember(2)
	require.Nil(t, err)
	locations, err := parker.Locations()
	require.Nil(t, err)
	assert.Empty(t, locations)
}

func TestBulkActions(t *testing.T) {
	router := setupTestServer(t)
	_, userToken := registerMembers(t, router)

	first := &models.Contact{FirstName: "sam", Surname: "wilson"}
	second := &models.Contact{FirstName: "bucky", Surname: "barnes"}
	require.Nil(t, models.CreateContact(first))
	require.Nil(t, models.CreateContact(second))

	body := fmt.Sprintf(`{"ids": [%v, %v, 999], "titles": ["veteran"]}`, first.ID, second.ID)
	rec, payload := doRequest(router, "POST", "/api/v1/contacts/bulk/tags", userToken, body)
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)
	assert.Len(t, payload.Errors, 1, "Unknown contact ids are reported")

	list, err := models.FindOrCreateList("newsletter")
	require.Nil(t, err)

	body = fmt.Sprintf(`{"ids": [%v, %v], "list_id": %v}`, first.ID, second.ID, list.ID)
	rec, payload = doRequest(router, "POST", "/api/v1/contacts/bulk/list", userToken, body)
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)

	count, err := list.ContactsCount()
	require.Nil(t, err)
	assert.Equal(t, int64(2), count)
}

func TestImportAndExportRoutes(t *testing.T) {
	router := setupTestServer(t)
	adminToken, _ := registerMembers(t, router)

	csvBody := "FirstName,Surname,Email,TagsList\n" +
		"steve,rogers,cap@avengers.com,\"captain, leader\"\n"
	rec, payload := doRequest(router, "POST", "/api/v1/contacts/import", adminToken, csvBody)
	require.Equal(t, http.StatusOK, rec.Code, payload.Errors)

	contact, err := models.FindContactBy("email", "cap@avengers.com")
	require.Nil(t, err)
	require.Nil(t, contact.LoadRelations())
	assert.Equal(t, "captain, leader", contact.TagsList())

	rec, _ = doRequest(router, "GET", "/api/v1/contacts/export", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "cap@avengers.com")
}
