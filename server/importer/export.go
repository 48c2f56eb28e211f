package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Daskott/rolodex/server/models"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

var exportFields = []string{
	ID_COLUMN,
	"FirstName",
	"Surname",
	"Company",
	"Phone",
	"Mobile",
	"Email",
	"Source",
	TAGS_LIST_COLUMN,
	LISTS_LIST_COLUMN,
}

var locationExportFields = []string{
	"Address1",
	"Address2",
	"City",
	"Country",
	"County",
	"PostCode",
	"Default",
}

// Export writes every contact as CSV. There is one set of Address{i}_ columns
// per location of the contact owning the most locations.
func Export(w io.Writer) error {
	contacts, err := models.AllContacts()
	if err != nil {
		return pkgerrors.Wrap(err, "unable to load contacts")
	}

	locationCount, err := maxLocationCount()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)

	err = writer.Write(exportHeader(locationCount))
	if err != nil {
		return pkgerrors.WithStack(err)
	}

	for i := range contacts {
		err = writer.Write(exportRow(&contacts[i], locationCount))
		if err != nil {
			return pkgerrors.WithStack(err)
		}
	}

	writer.Flush()
	return pkgerrors.WithStack(writer.Error())
}

func maxLocationCount() (int, error) {
	contact, err := models.ContactByMostLocations()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}

	if err != nil {
		return 0, pkgerrors.Wrap(err, "unable to count locations")
	}

	return len(contact.Locations), nil
}

func exportHeader(locationCount int) []string {
	header := append([]string{}, exportFields...)
	for i := 0; i < locationCount; i++ {
		for _, field := range locationExportFields {
			header = append(header, fmt.Sprintf("%v%d_%v", ADDRESS_PREFIX, i, field))
		}
	}
	return header
}

func exportRow(contact *models.Contact, locationCount int) []string {
	row := []string{
		strconv.FormatUint(uint64(contact.ID), 10),
		contact.FirstName,
		contact.Surname,
		contact.Company,
		contact.Phone,
		contact.Mobile,
		contact.Email,
		contact.Source,
		contact.TagsList(),
		contact.ListsList(),
	}

	for i := 0; i < locationCount; i++ {
		if i >= len(contact.Locations) {
			row = append(row, make([]string, len(locationExportFields))...)
			continue
		}

		location := contact.Locations[i]
		row = append(row,
			location.Address1,
			location.Address2,
			location.City,
			location.Country,
			location.County,
			location.PostCode,
			strconv.FormatBool(location.Default),
		)
	}

	return row
}
