package bulkaction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Daskott/rolodex/server/logger"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/shared"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

var logg = logger.NewLogger()

// Result describes what a bulk action did. Errors holds the per record
// failures, e.g. ids that could not be resolved.
type Result struct {
	Applied []uint  `json:"applied"`
	Errors  []error `json:"-"`
	Message string  `json:"message"`
}

func (result *Result) ErrorMessages() []string {
	messages := []string{}
	for _, err := range result.Errors {
		messages = append(messages, err.Error())
	}
	return messages
}

// AddTags attaches every named tag to each contact in 'ids', creating tags that
// don't exist yet. A persistence error stops the batch; contacts already
// tagged stay tagged.
func AddTags(ids []uint, tagNames []string) (*Result, error) {
	result := &Result{Applied: []uint{}}

	tags, err := models.FindOrCreateTags(tagNames)
	if err != nil {
		return result, pkgerrors.Wrap(err, "unable to load tags")
	}

	if len(tags) == 0 {
		result.Message = "No tags selected"
		return result, nil
	}

	for _, id := range ids {
		contact, err := findContact(id)
		if err != nil {
			if recordErr := recordNotFound(result, err); recordErr != nil {
				return result, recordErr
			}
			continue
		}

		for i := range tags {
			err = contact.AddTag(&tags[i])
			if err != nil {
				return result, pkgerrors.Wrapf(err, "unable to tag contact with id=%v", id)
			}
		}

		result.Applied = append(result.Applied, contact.ID)
	}

	titles := []string{}
	for _, tag := range tags {
		titles = append(titles, tag.Title)
	}

	result.Message = fmt.Sprintf("Added %v contacts to tags '%v'", len(result.Applied), strings.Join(titles, ","))
	logg.Info(result.Message)

	return result, nil
}

// AddToList adds each contact in 'ids' to the list. A listID of 0 means no list
// was chosen and nothing is done.
func AddToList(ids []uint, listID uint) (*Result, error) {
	result := &Result{Applied: []uint{}}

	if listID == 0 {
		result.Message = "No list selected"
		return result, nil
	}

	list, err := models.FindList(listID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return result, &shared.NotFoundError{Kind: "list", ID: listID}
	}

	if err != nil {
		return result, pkgerrors.Wrapf(err, "unable to find list with id=%v", listID)
	}

	for _, id := range ids {
		contact, err := findContact(id)
		if err != nil {
			if recordErr := recordNotFound(result, err); recordErr != nil {
				return result, recordErr
			}
			continue
		}

		err = list.AddContact(contact)
		if err != nil {
			return result, pkgerrors.Wrapf(err, "unable to add contact with id=%v to list", id)
		}

		result.Applied = append(result.Applied, contact.ID)
	}

	result.Message = fmt.Sprintf("Added %v contacts to mailing list '%v'", len(result.Applied), list.Title)
	logg.Info(result.Message)

	return result, nil
}

func findContact(id uint) (*models.Contact, error) {
	contact, err := models.FindContactBy("id", id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &shared.NotFoundError{Kind: "contact", ID: id}
	}

	return contact, pkgerrors.Wrapf(err, "unable to find contact with id=%v", id)
}

// recordNotFound adds a not found error to the result, any other error is returned.
func recordNotFound(result *Result, err error) error {
	notFound := &shared.NotFoundError{}
	if errors.As(err, &notFound) {
		result.Errors = append(result.Errors, notFound)
		return nil
	}

	return err
}
