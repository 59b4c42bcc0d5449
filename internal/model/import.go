package model

// LocationImportRow is one parsed row of a location bulk-import file.
type LocationImportRow struct {
	RowNum  int    `json:"row_num"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Country string `json:"country"`
	Error   string `json:"error,omitempty"`
}

// ImportResult is the live state of an import task.
type ImportResult struct {
	TaskID       string        `json:"task_id"`
	Status       string        `json:"status"` // processing, completed
	TotalCount   int           `json:"total_count"`
	SuccessCount int           `json:"success_count"`
	ErrorCount   int           `json:"error_count"`
	Errors       []ImportError `json:"errors,omitempty"`
	Progress     int           `json:"progress"` // 0-100
}

// ImportError is one failed row of an import task.
type ImportError struct {
	RowNum int    `json:"row_num"`
	Error  string `json:"error"`
}

// ImportTemplateColumn describes one column of the import template.
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Key         string `json:"key"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// LocationImportColumns defines the location import template.
func LocationImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{
			Name:        "name",
			Key:         "name",
			Required:    true,
			Description: "Display name of the location",
			Example:     "Port Harcourt",
		},
		{
			Name:        "slug",
			Key:         "slug",
			Required:    false,
			Description: "URL-safe identifier; derived from name when left empty",
			Example:     "port-harcourt",
		},
		{
			Name:        "country",
			Key:         "country",
			Required:    true,
			Description: "Country the location belongs to",
			Example:     "Nigeria",
		},
	}
}
