package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Daskott/rolodex/server/auth"
	"github.com/Daskott/rolodex/server/contacthelper"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/shared"
	"github.com/go-co-op/gocron"
	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func writeResponse(rw http.ResponseWriter, payLoad ResponsePayload, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		logg.Error(payLoad.Errors)
	} else if statusCode >= http.StatusBadRequest {
		logg.Info(payLoad.Errors)
	}

	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payLoad)
}

func writeErrorResponse(rw http.ResponseWriter, err error) {
	writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, errorStatus(err))
}

func writeValidationErrors(rw http.ResponseWriter, errs error) {
	writeResponse(rw, ResponsePayload{Errors: strings.Split(errs.Error(), "\n")}, http.StatusBadRequest)
}

// errorStatus maps an error to the http status it should be reported with.
func errorStatus(err error) int {
	notFound := &shared.NotFoundError{}
	validationErrs := validator.ValidationErrors{}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func RegisterValidators(validate *validator.Validate) error {
	return validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		// if whitespace in password return false
		err := validate.Var(fl.Field().String(), "contains= ")
		if err == nil {
			return false
		}
		return len(fl.Field().String()) > 0
	})
}

func decodeBody(r *http.Request, data interface{}) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(data)
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func newContactHelper() *contacthelper.Helper {
	return contacthelper.New(contactsConfig, models.NewDBStore()).WithHooks(helperHooks)
}

func registerHelperHooks(hooks *contacthelper.Hooks) {
	hooks.OnAfterLink(func(contact *models.Contact, member *models.Member) {
		logg.Infof("Linked contact with id=%v to member with id=%v", contact.ID, member.ID)
	})

	hooks.OnMemberCreated(func(member *models.Member) {
		logg.Infof("Created member account for %v", member.Email)
	})
}

// ---------------------------------------------------------------------------------//
// Middleware Helper functions
// --------------------------------------------------------------------------------//

func decodeAndVerifyAuthHeader(authHeaderValue string) DecodedJWT {
	authHeaderList := strings.Split(authHeaderValue, "Bearer ")
	if len(authHeaderList) < 2 {
		return DecodedJWT{ErrorMsg: "no token provided"}
	}

	tokenClaims, err := auth.DecodeJWT(authHeaderList[1], authKeyPair)
	if err != nil {
		return DecodedJWT{ErrorMsg: "invalid token provided"}
	}

	// validate that the member account still exists
	member, err := models.FindMember(tokenClaims.Subject)
	if err != nil {
		return DecodedJWT{ErrorMsg: "invalid token provided"}
	}

	// permissions are read on every request, so group changes apply immediately
	codes, err := member.PermissionCodes()
	if err != nil {
		return DecodedJWT{ErrorMsg: "unable to load permissions"}
	}

	return DecodedJWT{Claims: tokenClaims, Principal: auth.NewPrincipal(tokenClaims.Subject, codes...)}
}

func principalFromRequest(r *http.Request) auth.Principal {
	decodedJWT, ok := r.Context().Value(RequestContextKey("decodedJWT")).(DecodedJWT)
	if !ok {
		return nil
	}
	return decodedJWT.Principal
}

// canAccessMember lets members see and edit their own record. Admins can access any member.
func canAccessMember(r *http.Request) bool {
	principal := principalFromRequest(r)
	if principal == nil {
		return false
	}

	return mux.Vars(r)["id"] == principal.ID() || principal.HasPermission(auth.ADMIN)
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func serve(server *http.Server) {
	logg.Infof("Rolodex server is listening on port:%v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

func cleanup(scheduler *gocron.Scheduler, server *http.Server, backup func()) {
	scheduler.Stop()

	if backup != nil {
		backup()
	}

	// Shutdown server gracefully
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Fatalf("Rolodex server shutdown failed:%+s", err)
	}

	logg.Infof("Rolodex server stopped properly")
}

func fatalOnError(err error) {
	if err != nil {
		logg.Fatal(err)
	}
}
