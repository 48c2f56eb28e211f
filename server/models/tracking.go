package models

import "github.com/Daskott/rolodex/shared"

// syncColumns maps a shared field name to its column on both the contacts and members tables.
var syncColumns = map[string]string{
	shared.FIRST_NAME_FIELD: "first_name",
	shared.SURNAME_FIELD:    "surname",
	shared.COMPANY_FIELD:    "company",
	shared.PHONE_FIELD:      "phone",
	shared.MOBILE_FIELD:     "mobile",
	shared.EMAIL_FIELD:      "email",
}

// SyncColumn returns the column backing a shared field.
func SyncColumn(field string) (string, bool) {
	column, ok := syncColumns[field]
	return column, ok
}

// changeTracker remembers the shared field values a record had when it was
// last loaded or persisted.
type changeTracker struct {
	original map[string]string
}

func (ct *changeTracker) snapshot(refs map[string]*string) {
	ct.original = make(map[string]string, len(refs))
	for field, ref := range refs {
		ct.original[field] = *ref
	}
}

// changed lists fields whose value moved since the last snapshot. A record
// without a snapshot has never been loaded, so every non-empty field counts.
func (ct *changeTracker) changed(refs map[string]*string) []string {
	fields := []string{}
	for _, field := range shared.SyncableFields {
		ref, ok := refs[field]
		if !ok {
			continue
		}

		if ct.original == nil {
			if *ref != "" {
				fields = append(fields, field)
			}
			continue
		}

		if ct.original[field] != *ref {
			fields = append(fields, field)
		}
	}

	return fields
}

func syncValue(refs map[string]*string, field string) (string, bool) {
	ref, ok := refs[field]
	if !ok {
		return "", false
	}
	return *ref, true
}

func setSyncValue(refs map[string]*string, field, value string) bool {
	ref, ok := refs[field]
	if !ok {
		return false
	}
	*ref = value
	return true
}
