package server

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Daskott/rolodex/colors"
	"github.com/Daskott/rolodex/server/auth"
	"github.com/Daskott/rolodex/server/auth/key"
	"github.com/Daskott/rolodex/server/contacthelper"
	"github.com/Daskott/rolodex/server/cron"
	"github.com/Daskott/rolodex/server/logger"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/shared"
	"github.com/Daskott/rolodex/utils"
	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
)

type RequestContextKey string

type DecodedJWT struct {
	Claims    *auth.RolodexTokenClaims
	Principal auth.Principal
	ErrorMsg  string
}

type ResponsePayload struct {
	Errors  []string    `json:"errors"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

var (
	logg           = logger.NewLogger()
	validate       = validator.New()
	authKeyPair    *key.KeyPair
	contactsConfig = shared.DefaultContactsConfig()
	helperHooks    = contacthelper.NewHooks()
)

func init() {
	fatalOnError(RegisterValidators(validate))
	registerHelperHooks(helperHooks)
}

// Start opens the db, schedules backups and serves the API until the process is interrupted.
func Start(config *shared.ServerConfig, devMode bool) {
	var err error

	err = validate.Struct(config)
	fatalOnError(err)

	contactsConfig = config.Contacts

	authKeyPair, err = loadKeyPair(config.Rolodex.PrivateKeyPem)
	fatalOnError(err)

	configDir, err := utils.ConfigDirectory(devMode)
	fatalOnError(err)

	dbFilePath, err := models.DbFilePath(configDir)
	fatalOnError(err)

	backups, err := newBackupJob(config.Google, dbFilePath)
	fatalOnError(err)

	if backups != nil {
		fatalOnError(backups.restore())
	}

	err = models.AutoMigrate(config.Sqlite.PassPhrase, configDir, config.Contacts.DefaultUserGroups)
	fatalOnError(err)

	scheduler := cron.NewScheduler(config.Rolodex.Cron.TimeZone)
	var backup func()
	if backups != nil {
		fatalOnError(backups.schedule(scheduler))
		backup = backups.run
	}
	scheduler.StartAsync()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%v", config.Rolodex.Listener.Port),
		Handler: newRouter(),
	}

	go serve(server)

	// Wait for an interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	cleanup(scheduler, server, backup)
}

func loadKeyPair(privateKeyPem string) (*key.KeyPair, error) {
	if privateKeyPem != "" {
		return key.NewKeyPairFromRSAPrivateKeyPem(privateKeyPem)
	}

	logg.Warn(colors.Yellow("No 'rolodex.privateKeyPem' set, generating a key. Tokens will not survive a restart."))
	return key.GenerateKeyPair()
}

func newRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(initialContextMiddleware)

	// Public routes
	api.HandleFunc("/login", login).Methods("POST")
	api.HandleFunc("/.well-known/jwks.json", jwks).Methods("GET")
	api.HandleFunc("/members", memberRegistrationMiddleware(createMember)).Methods("POST")

	// Routes below need a valid token
	protected := func(path string, handler http.HandlerFunc) *mux.Route {
		return api.Handle(path, protectedRouteMiddleware(handler))
	}

	// Members
	protected("/members", adminOnly(fetchMembers)).Methods("GET")
	protected("/members/{id:[0-9]+}", findMember).Methods("GET")
	protected("/members/{id:[0-9]+}", updateMember).Methods("PUT")
	protected("/members/{id:[0-9]+}/groups/{code}", adminOnly(addMemberToGroup)).Methods("PUT")
	protected("/members/{id:[0-9]+}/locations", fetchMemberLocations).Methods("GET")
	protected("/members/{id:[0-9]+}/locations", createMemberLocation).Methods("POST")
	protected("/members/{id:[0-9]+}/locations/{lid:[0-9]+}", updateMemberLocation).Methods("PUT")
	protected("/members/{id:[0-9]+}/locations/{lid:[0-9]+}", deleteMemberLocation).Methods("DELETE")

	// Contacts
	protected("/contacts", allow(auth.VIEW, auth.CONTACT_KIND, fetchContacts)).Methods("GET")
	protected("/contacts", allow(auth.CREATE, auth.CONTACT_KIND, createContact)).Methods("POST")
	protected("/contacts/export", allow(auth.VIEW, auth.CONTACT_KIND, exportContacts)).Methods("GET")
	protected("/contacts/import", allow(auth.CREATE, auth.CONTACT_KIND, importContacts)).Methods("POST")
	protected("/contacts/bulk/tags", allow(auth.EDIT, auth.TAG_KIND, bulkAddTags)).Methods("POST")
	protected("/contacts/bulk/list", allow(auth.EDIT, auth.LIST_KIND, bulkAddToList)).Methods("POST")
	protected("/contacts/{id:[0-9]+}", allow(auth.VIEW, auth.CONTACT_KIND, findContact)).Methods("GET")
	protected("/contacts/{id:[0-9]+}", allow(auth.EDIT, auth.CONTACT_KIND, updateContact)).Methods("PUT")
	protected("/contacts/{id:[0-9]+}", allow(auth.DELETE, auth.CONTACT_KIND, deleteContact)).Methods("DELETE")
	protected("/contacts/{id:[0-9]+}/member", allow(auth.EDIT, auth.CONTACT_KIND, makeContactMember)).Methods("POST")
	protected("/contacts/{id:[0-9]+}/tags", allow(auth.EDIT, auth.TAG_KIND, replaceContactTags)).Methods("PUT")
	protected("/contacts/{id:[0-9]+}/lists", allow(auth.EDIT, auth.LIST_KIND, replaceContactLists)).Methods("PUT")

	// Locations
	protected("/contacts/{id:[0-9]+}/locations", allow(auth.CREATE, auth.LOCATION_KIND, createLocation)).Methods("POST")
	protected("/contacts/{id:[0-9]+}/locations/{lid:[0-9]+}", allow(auth.EDIT, auth.LOCATION_KIND, updateLocation)).Methods("PUT")
	protected("/contacts/{id:[0-9]+}/locations/{lid:[0-9]+}", allow(auth.DELETE, auth.LOCATION_KIND, deleteLocation)).Methods("DELETE")

	// Notes
	protected("/contacts/{id:[0-9]+}/notes", allow(auth.CREATE, auth.NOTE_KIND, createNote)).Methods("POST")
	protected("/contacts/{id:[0-9]+}/notes/{nid:[0-9]+}", allow(auth.EDIT, auth.NOTE_KIND, updateNote)).Methods("PUT")
	protected("/contacts/{id:[0-9]+}/notes/{nid:[0-9]+}", allow(auth.DELETE, auth.NOTE_KIND, deleteNote)).Methods("DELETE")

	// Tags & lists
	protected("/tags", allow(auth.VIEW, auth.TAG_KIND, fetchTags)).Methods("GET")
	protected("/tags", allow(auth.CREATE, auth.TAG_KIND, createTag)).Methods("POST")
	protected("/tags/{id:[0-9]+}", allow(auth.DELETE, auth.TAG_KIND, deleteTag)).Methods("DELETE")
	protected("/lists", allow(auth.VIEW, auth.LIST_KIND, fetchLists)).Methods("GET")
	protected("/lists", allow(auth.CREATE, auth.LIST_KIND, createList)).Methods("POST")
	protected("/lists/{id:[0-9]+}", allow(auth.DELETE, auth.LIST_KIND, deleteList)).Methods("DELETE")

	return router
}
