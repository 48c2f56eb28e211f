package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Daskott/rolodex/server/auth"
	"github.com/Daskott/rolodex/server/auth/key"
	"github.com/Daskott/rolodex/server/models"
	"github.com/golang-jwt/jwt"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

const TOKEN_TTL = 24 * time.Hour

// memberResponse adds the title of the member's contact.
type memberResponse struct {
	*models.Member
	ContactTitle string `json:"contact_title"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func login(rw http.ResponseWriter, r *http.Request) {
	data := loginRequest{}

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

	passwordHash, err := models.FindMemberPassword(data.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		writeErrorResponse(rw, err)
		return
	}

	if err != nil || !auth.CheckPasswordHash(data.Password, passwordHash) {
		writeResponse(rw, ResponsePayload{Errors: []string{"invalid email or password"}}, http.StatusUnauthorized)
		return
	}

	member, err := models.FindMemberBy("email", data.Email)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	codes, err := member.PermissionCodes()
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	now := time.Now()
	token, err := auth.EncodeJWT(auth.RolodexTokenClaims{
		FirstName:   member.FirstName,
		Surname:     member.Surname,
		Permissions: codes,
		StandardClaims: jwt.StandardClaims{
			Subject:   fmt.Sprint(member.ID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(TOKEN_TTL).Unix(),
		},
	}, authKeyPair)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: map[string]string{"token": token}}, http.StatusOK)
}

func jwks(rw http.ResponseWriter, r *http.Request) {
	keyPairJWK, err := authKeyPair.JWK()
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: key.ExportJWKAsJWKS(keyPairJWK)}, http.StatusOK)
}

func createMember(rw http.ResponseWriter, r *http.Request) {
	member := models.Member{}

	err := decodeBody(r, &member)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}
	member.ID = 0
	member.Groups = nil

	errs := validate.Struct(member)
	if errs != nil {
		writeValidationErrors(rw, errs)
		return
	}

	if emailTaken(member.Email, 0) {
		writeResponse(rw, ResponsePayload{Errors: []string{"email is already in use"}}, http.StatusBadRequest)
		return
	}

	err = models.CreateMember(&member)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	helper := newContactHelper()
	err = helper.WriteMember(&member)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	_, err = helper.LinkMemberToGroups()
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	if isBootstrap(r.Context()) {
		err = makeAdmin(&member)
		if err != nil {
			writeErrorResponse(rw, err)
			return
		}
	}

	member.Password = ""
	writeResponse(rw, ResponsePayload{Success: true, Data: member}, http.StatusCreated)
}

func fetchMembers(rw http.ResponseWriter, r *http.Request) {
	members, err := models.AllMembers()
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: members}, http.StatusOK)
}

func findMember(rw http.ResponseWriter, r *http.Request) {
	if !canAccessMember(r) {
		writeResponse(rw, ResponsePayload{Errors: []string{"action is forbidden"}}, http.StatusForbidden)
		return
	}

	member, err := models.FindMember(mux.Vars(r)["id"])
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	contactTitle, err := member.ContactTitle()
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: memberResponse{Member: member, ContactTitle: contactTitle}}, http.StatusOK)
}

// updateMember saves the member, which syncs the changes into its contact.
func updateMember(rw http.ResponseWriter, r *http.Request) {
	if !canAccessMember(r) {
		writeResponse(rw, ResponsePayload{Errors: []string{"action is forbidden"}}, http.StatusForbidden)
		return
	}

	member, err := models.FindMember(mux.Vars(r)["id"])
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}
	id := member.ID

	err = decodeBody(r, member)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}
	member.ID = id
	member.Groups = nil

	errs := validate.Struct(member)
	if errs != nil {
		writeValidationErrors(rw, errs)
		return
	}

	if emailTaken(member.Email, member.ID) {
		writeResponse(rw, ResponsePayload{Errors: []string{"email is already in use"}}, http.StatusBadRequest)
		return
	}

	password := member.Password
	member.Password = ""

	err = newContactHelper().WriteMember(member)
	if err != nil {
		writeErrorResponse(rw, err)
		return
	}

	if password != "" {
		err = member.SetPassword(password)
		if err != nil {
			writeErrorResponse(rw, err)
			return
		}
		member.Password = ""
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: member}, http.StatusOK)
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func emailTaken(email string, memberID uint) bool {
	existing, err := models.FindMemberBy("email", email)
	return err == nil && existing.ID != memberID
}

func isBootstrap(ctx context.Context) bool {
	bootstrap, _ := ctx.Value(RequestContextKey("bootstrap")).(bool)
	return bootstrap
}

func makeAdmin(member *models.Member) error {
	group, err := models.FindGroupByCode(models.ADMINISTRATORS_GROUP)
	if err != nil {
		return err
	}

	logg.Infof("Adding first member %v to '%v'", member.Email, group.Code)
	return models.AddMemberToGroup(member, group)
}
