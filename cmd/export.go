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
	"io"
	"os"

	"github.com/Daskott/rolodex/colors"
	"github.com/Daskott/rolodex/server/importer"
	"github.com/spf13/cobra"
)

var outputArg string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all contacts as CSV",
	Long: `Export all contacts, with their tags, mailing lists and locations, as CSV.
The file can be edited and imported again.`,
	Run: func(cmd *cobra.Command, args []string) {
		_, err := openDatabase()
		cobra.CheckErr(err)

		var out io.Writer = os.Stdout
		if outputArg != "" {
			file, err := os.Create(outputArg)
			cobra.CheckErr(err)
			defer file.Close()
			out = file
		}

		cobra.CheckErr(importer.Export(out))

		if outputArg != "" {
			fmt.Fprintln(os.Stderr, colors.Green("Contacts exported to ", outputArg))
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&outputArg, "out", "o", "", "file to write to (default is stdout)")
}
