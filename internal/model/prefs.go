package model

// DefaultPageSize is the number of entries listed per page.
const DefaultPageSize = 20

// UserPrefs are the per-user settings persisted next to the health book.
type UserPrefs struct {
	HealthBookFilePath string `json:"healthBookFilePath"`
	PageSize           int    `json:"pageSize"`
}

func DefaultUserPrefs(healthBookFilePath string) UserPrefs {
	return UserPrefs{
		HealthBookFilePath: healthBookFilePath,
		PageSize:           DefaultPageSize,
	}
}

// Normalize fills zero values from defaults.
func (p UserPrefs) Normalize(defaultPath string) UserPrefs {
	if p.HealthBookFilePath == "" {
		p.HealthBookFilePath = defaultPath
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}
