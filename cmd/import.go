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
	"os"

	"github.com/Daskott/rolodex/colors"
	"github.com/Daskott/rolodex/server/importer"
	"github.com/Daskott/rolodex/server/models"
	"github.com/spf13/cobra"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import contacts from a CSV file",
	Long: `Import contacts from a CSV file with a header row.

Columns are named after contact fields (FirstName, Surname, Company, Phone, Mobile, Email, Source).
Rows with an ID update that contact, the rest are created. TagsList & ListsList take comma
separated titles, Address{N}_{Field} columns fill locations, e.g. Address0_PostCode,
and a truthy CreateMember column gives the contact a member account.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		serverConfig, err := openDatabase()
		cobra.CheckErr(err)

		file, err := os.Open(args[0])
		cobra.CheckErr(err)
		defer file.Close()

		result, err := importer.New(serverConfig.Contacts, models.NewDBStore()).Import(file)
		cobra.CheckErr(err)

		fmt.Println(colors.Green(fmt.Sprintf("%v created, %v updated, %v skipped",
			len(result.Created), len(result.Updated), result.Skipped)))

		for _, message := range result.ErrorMessages() {
			fmt.Println(colors.Red(message))
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
