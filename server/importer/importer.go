package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/Daskott/rolodex/server/contacthelper"
	"github.com/Daskott/rolodex/server/logger"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/shared"
	"github.com/Daskott/rolodex/utils"
	"github.com/go-playground/validator"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	ADDRESS_PREFIX       = "Address"
	ID_COLUMN            = "ID"
	TAGS_LIST_COLUMN     = "TagsList"
	LISTS_LIST_COLUMN    = "ListsList"
	CREATE_MEMBER_COLUMN = "CreateMember"
)

var logg = logger.NewLogger()

// RowError is a failure to import a single CSV line.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

type Result struct {
	Created []uint      `json:"created"`
	Updated []uint      `json:"updated"`
	Skipped int         `json:"skipped"`
	Errors  []*RowError `json:"-"`
}

func (result *Result) ErrorMessages() []string {
	messages := []string{}
	for _, err := range result.Errors {
		messages = append(messages, err.Error())
	}
	return messages
}

// Importer loads contacts from CSV. Each row is saved through a contact helper,
// so changes reach linked members.
type Importer struct {
	config   shared.ContactsConfig
	store    contacthelper.Store
	hooks    *contacthelper.Hooks
	validate *validator.Validate

	findContact func(id uint64) (*models.Contact, error)
}

func New(config shared.ContactsConfig, store contacthelper.Store) *Importer {
	return &Importer{
		config:      config,
		store:       store,
		hooks:       contacthelper.NewHooks(),
		validate:    validator.New(),
		findContact: findContactByID,
	}
}

func findContactByID(id uint64) (*models.Contact, error) {
	return models.FindContactBy("id", id)
}

func (imp *Importer) WithHooks(hooks *contacthelper.Hooks) *Importer {
	imp.hooks = hooks
	return imp
}

// Import reads a header row followed by one contact per row. A failing row is
// recorded in the result and the import carries on.
func (imp *Importer) Import(r io.Reader) (*Result, error) {
	result := &Result{Created: []uint{}, Updated: []uint{}}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return result, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to read csv header")
	}
	columns := normalizeHeader(header)

	lineNum := 1
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		lineNum++

		parseErr := &csv.ParseError{}
		if errors.As(readErr, &parseErr) {
			result.Errors = append(result.Errors, &RowError{Line: lineNum, Err: parseErr})
			continue
		}
		if readErr != nil {
			return result, errors.WithStack(readErr)
		}

		row := toRow(columns, record)
		if isBlank(row) {
			result.Skipped++
			continue
		}

		contact, created, err := imp.importRow(row)
		if err != nil {
			logg.Warnf("Unable to import line %v: %v", lineNum, err)
			result.Errors = append(result.Errors, &RowError{Line: lineNum, Err: err})
			continue
		}

		if created {
			result.Created = append(result.Created, contact.ID)
		} else {
			result.Updated = append(result.Updated, contact.ID)
		}
	}

	logg.Infof("Imported contacts: %v created, %v updated, %v skipped, %v failed",
		len(result.Created), len(result.Updated), result.Skipped, len(result.Errors))

	return result, nil
}

func (imp *Importer) importRow(row map[string]string) (*models.Contact, bool, error) {
	contact, created, err := imp.findOrNewContact(row[ID_COLUMN])
	if err != nil {
		return nil, false, err
	}

	applyContactFields(contact, row)

	// Names may be blank; the contact title falls back to the email.
	err = imp.validate.StructExcept(contact, "FirstName", "Surname")
	if err != nil {
		return nil, false, err
	}

	helper := contacthelper.New(imp.config, imp.store).WithHooks(imp.hooks)
	err = helper.WriteContact(contact)
	if err != nil {
		return nil, false, err
	}

	if value, ok := row[TAGS_LIST_COLUMN]; ok {
		tags, err := models.FindOrCreateTags(utils.SplitList(value))
		if err != nil {
			return nil, false, errors.Wrap(err, "unable to import tags")
		}

		err = contact.ReplaceTags(tags)
		if err != nil {
			return nil, false, errors.Wrap(err, "unable to import tags")
		}
	}

	if value, ok := row[LISTS_LIST_COLUMN]; ok {
		lists, err := models.FindOrCreateLists(utils.SplitList(value))
		if err != nil {
			return nil, false, errors.Wrap(err, "unable to import lists")
		}

		err = contact.ReplaceLists(lists)
		if err != nil {
			return nil, false, errors.Wrap(err, "unable to import lists")
		}
	}

	err = importLocations(contact, row)
	if err != nil {
		return nil, false, err
	}

	if utils.IsTruthy(row[CREATE_MEMBER_COLUMN]) {
		member, err := helper.FindOrMakeMember()
		if err != nil {
			return nil, false, err
		}

		_, err = helper.SetMember(member).LinkMemberToGroups()
		if err != nil {
			return nil, false, err
		}
	}

	return contact, created, nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func (imp *Importer) findOrNewContact(idValue string) (*models.Contact, bool, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(idValue), 10, 64)
	if err != nil || id == 0 {
		return &models.Contact{}, true, nil
	}

	contact, err := imp.findContact(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Contact{}, true, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "unable to look up contact %v", id)
	}

	return contact, false, nil
}

func applyContactFields(contact *models.Contact, row map[string]string) {
	for column, field := range contactColumns(contact) {
		if value, ok := row[column]; ok {
			*field = value
		}
	}
}

func contactColumns(contact *models.Contact) map[string]*string {
	return map[string]*string{
		shared.FIRST_NAME_FIELD: &contact.FirstName,
		shared.SURNAME_FIELD:    &contact.Surname,
		shared.COMPANY_FIELD:    &contact.Company,
		shared.PHONE_FIELD:      &contact.Phone,
		shared.MOBILE_FIELD:     &contact.Mobile,
		shared.EMAIL_FIELD:      &contact.Email,
		"Source":                &contact.Source,
	}
}

// importLocations maps Address{N}_{Field} columns onto the contact's locations
// in position order. Addresses without Address1 and PostCode are ignored.
func importLocations(contact *models.Contact, row map[string]string) error {
	addresses := collateAddressData(row)
	if len(addresses) == 0 {
		return nil
	}

	err := contact.LoadRelations()
	if err != nil {
		return errors.Wrap(err, "unable to load locations")
	}

	positions := []int{}
	for pos := range addresses {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	i := 0
	for _, pos := range positions {
		data := addresses[pos]
		if data["Address1"] == "" && data["PostCode"] == "" {
			continue
		}

		if i < len(contact.Locations) {
			location := &contact.Locations[i]
			applyLocationFields(location, data)
			err = location.Save()
		} else {
			location := &models.ContactLocation{}
			applyLocationFields(location, data)
			err = contact.AddLocation(location)
		}

		if err != nil {
			return errors.Wrapf(err, "unable to import address %v", pos)
		}
		i++
	}

	return nil
}

func collateAddressData(row map[string]string) map[int]map[string]string {
	addresses := map[int]map[string]string{}

	for column, value := range row {
		if !strings.HasPrefix(column, ADDRESS_PREFIX) {
			continue
		}

		parts := strings.SplitN(column[len(ADDRESS_PREFIX):], "_", 2)
		if len(parts) != 2 {
			continue
		}

		pos, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}

		if _, ok := addresses[pos]; !ok {
			addresses[pos] = map[string]string{}
		}
		addresses[pos][parts[1]] = value
	}

	return addresses
}

func applyLocationFields(location *models.ContactLocation, data map[string]string) {
	fields := map[string]*string{
		"Address1": &location.Address1,
		"Address2": &location.Address2,
		"City":     &location.City,
		"Country":  &location.Country,
		"County":   &location.County,
		"PostCode": &location.PostCode,
	}

	for name, field := range fields {
		if value, ok := data[name]; ok {
			*field = value
		}
	}

	if value, ok := data["Default"]; ok {
		location.Default = utils.IsTruthy(value)
	}
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, column := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))
	}
	return columns
}

func toRow(columns []string, record []string) map[string]string {
	row := map[string]string{}
	for i, column := range columns {
		if i < len(record) {
			row[column] = strings.TrimSpace(record[i])
		}
	}
	return row
}

func isBlank(row map[string]string) bool {
	for _, value := range row {
		if value != "" {
			return false
		}
	}
	return true
}
