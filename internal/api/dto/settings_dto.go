package dto

// VocabularyValueRequest payload for adding or deleting one value.
type VocabularyValueRequest struct {
	Value string `json:"value"`
}

// VocabularyUpdateRequest payload for renaming a value in place.
type VocabularyUpdateRequest struct {
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

// SettingsResponse carries the three ordered vocabularies.
type SettingsResponse struct {
	Departments []string `json:"departments"`
	Statuses    []string `json:"statuses"`
	Roles       []string `json:"roles"`
}
