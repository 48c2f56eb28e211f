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

	"github.com/Daskott/rolodex/colors"
	"github.com/Daskott/rolodex/server/contacthelper"
	"github.com/Daskott/rolodex/server/models"
	"github.com/spf13/cobra"
)

// syncMembersCmd represents the sync-members command
var syncMembersCmd = &cobra.Command{
	Use:   "sync-members",
	Short: "Make sure every member has a contact",
	Long: `Link every member to a contact, creating contacts for members that match none,
and add every member to the default user groups.`,
	Run: func(cmd *cobra.Command, args []string) {
		serverConfig, err := openDatabase()
		cobra.CheckErr(err)

		members, err := models.AllMembers()
		cobra.CheckErr(err)

		store := models.NewDBStore()
		failed := 0
		for i := range members {
			member := &members[i]

			helper := contacthelper.New(serverConfig.Contacts, store).SetMember(member)
			contact, err := helper.FindOrMakeContact()
			if err != nil {
				failed++
				fmt.Println(colors.Red(fmt.Sprintf("%v: %v", member.Email, err)))
				continue
			}

			_, err = helper.LinkMemberToGroups()
			if err != nil {
				failed++
				fmt.Println(colors.Red(fmt.Sprintf("%v: %v", member.Email, err)))
				continue
			}

			fmt.Printf("%v -> %v\n", member.Email, colors.Blue(contact.Title()))
		}

		fmt.Println(colors.Green(fmt.Sprintf("Synced %v of %v members", len(members)-failed, len(members))))
	},
}

func init() {
	rootCmd.AddCommand(syncMembersCmd)
}
