package mcp

// Tool input types. Every catalogue entry maps onto one of these five
// shapes; the schema the SDK derives from the struct tags is what the
// assistant sees. Argument validation proper stays in the dispatcher so
// it also covers callers that bypass the protocol layer.

// LanguageInput is the shape for tools that take only the optional
// response language.
type LanguageInput struct {
	Language string `json:"language,omitempty" jsonschema:"Response language such as en-US or uz-UZ"`
}

// SemesterInput is the shape for semester-scoped tools
type SemesterInput struct {
	Semester string `json:"semester" jsonschema:"Semester code (e.g. 14 for the 4th semester)"`
	Language string `json:"language,omitempty" jsonschema:"Response language such as en-US or uz-UZ"`
}

// SubjectInput is the shape for tools scoped to one subject in a semester
type SubjectInput struct {
	Subject  string `json:"subject" jsonschema:"Subject identifier from the subject list"`
	Semester string `json:"semester" jsonschema:"Semester code (e.g. 14 for the 4th semester)"`
	Language string `json:"language,omitempty" jsonschema:"Response language such as en-US or uz-UZ"`
}

// ScheduleInput is the shape for the class schedule tool
type ScheduleInput struct {
	Semester string `json:"semester" jsonschema:"Semester code (e.g. 14 for the 4th semester)"`
	Week     string `json:"week,omitempty" jsonschema:"Week identifier to narrow the schedule to one week"`
	Language string `json:"language,omitempty" jsonschema:"Response language such as en-US or uz-UZ"`
}

// TaskListInput is the shape for the paginated task list tool
type TaskListInput struct {
	Semester string `json:"semester" jsonschema:"Semester code (e.g. 14 for the 4th semester)"`
	Page     int    `json:"page,omitempty" jsonschema:"Zero-based page number"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Number of tasks per page"`
	Language string `json:"language,omitempty" jsonschema:"Response language such as en-US or uz-UZ"`
}

func (in LanguageInput) args() map[string]any {
	m := make(map[string]any)
	putString(m, "language", in.Language)
	return m
}

func (in SemesterInput) args() map[string]any {
	m := make(map[string]any)
	putString(m, "semester", in.Semester)
	putString(m, "language", in.Language)
	return m
}

func (in SubjectInput) args() map[string]any {
	m := make(map[string]any)
	putString(m, "subject", in.Subject)
	putString(m, "semester", in.Semester)
	putString(m, "language", in.Language)
	return m
}

func (in ScheduleInput) args() map[string]any {
	m := make(map[string]any)
	putString(m, "semester", in.Semester)
	putString(m, "week", in.Week)
	putString(m, "language", in.Language)
	return m
}

func (in TaskListInput) args() map[string]any {
	m := make(map[string]any)
	putString(m, "semester", in.Semester)
	putString(m, "language", in.Language)
	if in.Page > 0 {
		m["page"] = in.Page
	}
	if in.Limit > 0 {
		m["limit"] = in.Limit
	}
	return m
}

func putString(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}
