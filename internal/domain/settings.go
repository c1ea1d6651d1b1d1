package domain

// VocabularyType identifies one of the three configurable value lists.
type VocabularyType string

const (
	VocabularyDepartments VocabularyType = "departments"
	VocabularyStatuses    VocabularyType = "statuses"
	VocabularyRoles       VocabularyType = "roles"
)

// Settings holds the three ordered vocabularies. Order is meaningful for
// statuses: index 0 is the default status for new escalations.
type Settings struct {
	Departments []string
	Statuses    []string
	Roles       []string
}

// DefaultSettings returns the hardcoded fallback vocabularies used when the
// settings record cannot be fetched or has not been seeded yet.
func DefaultSettings() Settings {
	return Settings{
		Departments: []string{"Technical", "Documentation", "Finance", "Maintenance", "Legal", "Operations", "CRM", "Management"},
		Statuses:    []string{"New", "In Progress", "Resolved", "Closed"},
		Roles:       []string{"HOD", "Team Member", "CRM", "Admin"},
	}
}

// List returns the vocabulary for the given type. The returned slice is the
// caller's to read, not mutate.
func (s Settings) List(t VocabularyType) []string {
	switch t {
	case VocabularyDepartments:
		return s.Departments
	case VocabularyStatuses:
		return s.Statuses
	case VocabularyRoles:
		return s.Roles
	}
	return nil
}

// Contains reports membership of value in the given vocabulary.
func (s Settings) Contains(t VocabularyType, value string) bool {
	for _, v := range s.List(t) {
		if v == value {
			return true
		}
	}
	return false
}

// DefaultStatus returns the creation default for new escalations.
func (s Settings) DefaultStatus() string {
	if len(s.Statuses) == 0 {
		return "New"
	}
	return s.Statuses[0]
}

// Clone deep-copies the settings so callers can read-modify-write safely.
func (s Settings) Clone() Settings {
	out := Settings{
		Departments: make([]string, len(s.Departments)),
		Statuses:    make([]string, len(s.Statuses)),
		Roles:       make([]string, len(s.Roles)),
	}
	copy(out.Departments, s.Departments)
	copy(out.Statuses, s.Statuses)
	copy(out.Roles, s.Roles)
	return out
}
