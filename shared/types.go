package shared

const (
	FIRST_NAME_FIELD = "FirstName"
	SURNAME_FIELD    = "Surname"
	COMPANY_FIELD    = "Company"
	PHONE_FIELD      = "Phone"
	MOBILE_FIELD     = "Mobile"
	EMAIL_FIELD      = "Email"
)

// SyncableFields lists, in canonical order, every field a Contact and a Member share.
var SyncableFields = []string{
	FIRST_NAME_FIELD,
	SURNAME_FIELD,
	COMPANY_FIELD,
	PHONE_FIELD,
	MOBILE_FIELD,
	EMAIL_FIELD,
}

type ServerConfig struct {
	Sqlite   SqliteConfig   `mapstructure:"sqlite" validate:"required"`
	Rolodex  RolodexConfig  `mapstructure:"rolodex" validate:"required"`
	Contacts ContactsConfig `mapstructure:"contacts"`
	Google   GoogleConfig   `mapstructure:"google"`
}

type SqliteConfig struct {
	PassPhrase string `mapstructure:"passPhrase" validate:"required"`
}

type RolodexConfig struct {
	PrivateKeyPem string         `mapstructure:"privateKeyPem"`
	Cron          CronConfig     `mapstructure:"cron" validate:"required"`
	Listener      ListenerConfig `mapstructure:"listener" validate:"required"`
}

// ContactsConfig drives contact/member reconciliation.
type ContactsConfig struct {
	CommonField       string            `mapstructure:"commonField" validate:"required,oneof=FirstName Surname Company Phone Mobile Email"`
	SyncFields        []string          `mapstructure:"syncFields" validate:"dive,oneof=FirstName Surname Company Phone Mobile Email"`
	AutoSync          bool              `mapstructure:"autoSync"`
	DefaultUserGroups map[string]string `mapstructure:"defaultUserGroups"`
}

type GoogleConfig struct {
	ApplicationCredentials string        `mapstructure:"applicationCredentials"`
	Storage                StorageConfig `mapstructure:"storage"`
}

type CronConfig struct {
	TimeZone string `mapstructure:"timeZone" validate:"required"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required"`
}

type StorageConfig struct {
	Bucket                    string `mapstructure:"bucket" validate:"required_with=EnableSqliteBackupAndSync"`
	Prefix                    string `mapstructure:"prefix" validate:"required_with=EnableSqliteBackupAndSync"`
	SqliteBackupSchedule      string `mapstructure:"sqliteBackupSchedule" validate:"required_with=EnableSqliteBackupAndSync"`
	EnableSqliteBackupAndSync bool   `mapstructure:"enableSqliteBackupAndSync"`
}

// DefaultContactsConfig returns the reconciliation settings used when none are configured.
func DefaultContactsConfig() ContactsConfig {
	syncFields := make([]string, len(SyncableFields))
	copy(syncFields, SyncableFields)

	return ContactsConfig{
		CommonField:       EMAIL_FIELD,
		SyncFields:        syncFields,
		AutoSync:          true,
		DefaultUserGroups: map[string]string{"contact-users": "Contact Users"},
	}
}
