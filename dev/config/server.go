package config

// SERVER_YML is the config used with '--dev'. The key is generated on start up.
const SERVER_YML = `
rolodex:
  privateKeyPem:
  cron:
    timeZone: "America/Toronto"
  listener:
    port: 3000

sqlite:
  passPhrase: passphrase

contacts:
  commonField: Email
  syncFields: [FirstName, Surname, Company, Phone, Mobile, Email]
  autoSync: true
  defaultUserGroups:
    contact-users: Contact Users

google:
  storage:
    bucket: "rolodex"
    prefix: "rolodex-dev"
    sqliteBackupSchedule: "*/30 * * * *"
    enableSqliteBackupAndSync: false
  applicationCredentials:
`
