package contacthelper

// Syncable is a record exposing the fields shared by contacts and members.
type Syncable interface {
	SyncValue(field string) (string, bool)
	SetSyncValue(field, value string) bool
	ChangedFields() []string
}

// PushChangedFields copies every field in 'fields' that changed on origin, is
// not empty and differs from destination. It returns the copied values.
func PushChangedFields(fields []string, origin, destination Syncable) map[string]string {
	changes := map[string]string{}
	allowed := toSet(fields)

	for _, field := range origin.ChangedFields() {
		if !allowed[field] {
			continue
		}

		value, ok := origin.SyncValue(field)
		if !ok || value == "" {
			continue
		}

		current, ok := destination.SyncValue(field)
		if !ok || current == value {
			continue
		}

		destination.SetSyncValue(field, value)
		changes[field] = value
	}

	return changes
}

// PushFields copies every field in 'fields' whose value differs between origin
// and destination, regardless of what changed.
func PushFields(fields []string, origin, destination Syncable) map[string]string {
	changes := map[string]string{}

	for _, field := range fields {
		value, ok := origin.SyncValue(field)
		if !ok {
			continue
		}

		current, ok := destination.SyncValue(field)
		if !ok || current == value {
			continue
		}

		destination.SetSyncValue(field, value)
		changes[field] = value
	}

	return changes
}

// pendingFields returns the changed fields of 'record' that are also in 'fields'.
func pendingFields(fields []string, record Syncable) []string {
	allowed := toSet(fields)
	pending := []string{}

	for _, field := range record.ChangedFields() {
		if allowed[field] {
			pending = append(pending, field)
		}
	}

	return pending
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, value := range values {
		set[value] = true
	}
	return set
}
