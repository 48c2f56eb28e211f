/*
Copyright © 2021 Edmond Cotterell

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/Daskott/rolodex/colors"
	devConfig "github.com/Daskott/rolodex/dev/config"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/shared"
	"github.com/Daskott/rolodex/utils"
	"github.com/Daskott/rolodex/version"
	"github.com/go-playground/validator"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const CONFIG_FILE_NAME = "rolodex.yml"

var (
	cfgFile  string
	config   *viper.Viper
	isDevEnv bool

	warningLabel = colors.Yellow("Warning:")
)

// rootCmd represents the base command when called without any subcommands
var rootCmd *cobra.Command

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd = createRootCmd()
	rootCmd.Version = fmt.Sprintf("v%s", version.Version)
}

func createRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "rolodex",
		Short: `rolodex keeps your contacts, their addresses, notes, tags and mailing lists.

Contacts can be given member accounts, and the details they share
with their member are kept in sync both ways.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rolodex/rolodex.yml)")
	cmd.PersistentFlags().BoolVarP(&isDevEnv, "dev", "", false, "run in development mode")

	return cmd
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config = viper.New()
	setConfigDefaults(config)

	if isDevEnv {
		// .env is optional, values in it only fill unset env vars
		godotenv.Load()
	}

	switch {
	case cfgFile != "":
		config.SetConfigFile(cfgFile)
	case isDevEnv:
		config.SetConfigType("yaml")
		cobra.CheckErr(config.ReadConfig(strings.NewReader(devConfig.SERVER_YML)))
	default:
		configDir, err := utils.ConfigDirectory(false)
		cobra.CheckErr(err)

		// If config file is not found, create one using defaultConfigValue
		configFilePath := filepath.Join(configDir, CONFIG_FILE_NAME)
		if !utils.FileExist(configFilePath) {
			err = ioutil.WriteFile(configFilePath, []byte(defaultConfigValue()), 0600)
			cobra.CheckErr(err)
			fmt.Fprintln(os.Stderr, warningLabel, "created a default config at", configFilePath)
		}

		config.SetConfigFile(configFilePath)
	}

	// Secrets can be kept out of the config file
	// FYI: The env var overrides whatever is in the config file
	config.BindEnv("sqlite.passPhrase", "ROLODEX_SQLITE_PASSPHRASE")
	config.BindEnv("rolodex.privateKeyPem", "ROLODEX_PRIVATE_KEY_PEM")
	config.BindEnv("google.applicationCredentials", "GOOGLE_APPLICATION_CREDENTIALS")

	config.AutomaticEnv() // read in environment variables that match

	if config.ConfigFileUsed() == "" {
		return
	}

	if err := config.ReadInConfig(); err != nil {
		cobra.CheckErr(formattedError("error reading config file %s: %v", config.ConfigFileUsed(), err))
	}
	fmt.Fprintln(os.Stderr, "Using config file:", config.ConfigFileUsed())
}

func setConfigDefaults(config *viper.Viper) {
	contacts := shared.DefaultContactsConfig()

	config.SetDefault("contacts.commonField", contacts.CommonField)
	config.SetDefault("contacts.syncFields", contacts.SyncFields)
	config.SetDefault("contacts.autoSync", contacts.AutoSync)
	config.SetDefault("contacts.defaultUserGroups", contacts.DefaultUserGroups)
	config.SetDefault("rolodex.cron.timeZone", "UTC")
	config.SetDefault("rolodex.listener.port", 3000)
}

// serverConfig decodes and validates the loaded config.
func serverConfig() (*shared.ServerConfig, error) {
	serverConfig := shared.ServerConfig{}

	err := config.Unmarshal(&serverConfig)
	if err != nil {
		return nil, formattedError("unable to decode config: %v", err)
	}

	err = validator.New().Struct(serverConfig)
	if err != nil {
		return nil, formattedError("invalid config in %s:\n%v", config.ConfigFileUsed(), err)
	}

	return &serverConfig, nil
}

// openDatabase loads the config and opens the rolodex db, for commands that run
// without the server.
func openDatabase() (*shared.ServerConfig, error) {
	serverConfig, err := serverConfig()
	if err != nil {
		return nil, err
	}

	configDir, err := utils.ConfigDirectory(isDevEnv)
	if err != nil {
		return nil, err
	}

	err = models.AutoMigrate(serverConfig.Sqlite.PassPhrase, configDir, serverConfig.Contacts.DefaultUserGroups)
	if err != nil {
		return nil, err
	}

	return serverConfig, nil
}

// defaultConfigValue returns the default content for rolodex.yml
func defaultConfigValue() string {
	return `rolodex:
  # PEM encoded RSA private key used to sign tokens.
  # When empty a key is generated on start up, and tokens stop working after a restart.
  privateKeyPem:
  cron:
    timeZone: "America/Toronto"
  listener:
    port: 3000

sqlite:
  # Passphrase used to encrypt the db. Can also be set with ROLODEX_SQLITE_PASSPHRASE
  passPhrase:

# How contacts and members are matched & kept in sync
contacts:
  commonField: Email
  syncFields: [FirstName, Surname, Company, Phone, Mobile, Email]
  autoSync: true
  defaultUserGroups:
    contact-users: Contact Users

google:
  applicationCredentials: <Path to the JSON file that contains your service account key>
  storage:
    bucket:
    prefix:
    sqliteBackupSchedule: "0 * * * *"
    enableSqliteBackupAndSync: false
`
}

func formattedError(format string, a ...interface{}) error {
	return fmt.Errorf(colors.Red(format), a...)
}
