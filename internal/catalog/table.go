package catalog

// Shared parameter declarations. Every endpoint accepts the upstream "l"
// language selector; student-scoped education endpoints key on semester
// codes and subject identifiers exactly as the HEMIS API expects them.
var (
	paramLanguage = Parameter{Name: "language", Wire: "l", Location: InQuery, Default: "en-US"}
	paramSemester = Parameter{Name: "semester", Required: true, Location: InQuery}
	paramSubject  = Parameter{Name: "subject", Required: true, Location: InQuery}
	paramWeek     = Parameter{Name: "week", Location: InQuery}
	paramPage     = Parameter{Name: "page", Location: InQuery, Default: "0"}
	paramLimit    = Parameter{Name: "limit", Location: InQuery, Default: "10"}
)

var specs = []EndpointSpec{
	{
		Tool:        "get_student_profile",
		Description: "Get the authenticated student's profile: personal details, university, faculty, group and current education status.",
		Method:      "GET",
		Path:        "account/me",
		Auth:        true,
		Envelope:    EnvelopeObject,
		Parameters:  []Parameter{paramLanguage},
	},
	{
		Tool:        "get_student_gpa_list",
		Description: "Get the student's GPA records across academic years, including credits and debt subject counts.",
		Method:      "GET",
		Path:        "education/gpa-list",
		Auth:        true,
		Envelope:    EnvelopeList,
		Parameters:  []Parameter{paramLanguage},
	},
	{
		Tool:        "get_student_semesters",
		Description: "List the student's semesters with codes, names and the education years they belong to.",
		Method:      "GET",
		Path:        "education/semesters",
		Auth:        true,
		Envelope:    EnvelopeList,
		Parameters:  []Parameter{paramLanguage},
	},
	{
		Tool:        "get_student_subjects",
		Description: "Get the student's subjects for a semester together with grades and overall scores.",
		Method:      "GET",
		Path:        "education/subject-list",
		Auth:        true,
		Envelope:    EnvelopeList,
		Parameters:  []Parameter{paramSemester, paramLanguage},
	},
	{
		Tool:        "get_student_subjects_list",
		Description: "List the subjects taught in a semester without grade details.",
		Method:      "GET",
		Path:        "education/subjects",
		Auth:        true,
		Envelope:    EnvelopeList,
		Parameters:  []Parameter{paramSemester, paramLanguage},
	},
	{
		Tool:        "get_subject_details",
		Description: "Get detailed information about one subject in a semester, including curriculum, instructor, tasks and resources.",
		Method:      "GET",
		Path:        "education/subject",
		Auth:        true,
		Envelope:    EnvelopeObject,
		Parameters:  []Parameter{paramSubject, paramSemester, paramLanguage},
	},
	{
		Tool:        "get_student_attendance",
		Description: "Get the student's attendance records for a subject in a semester, including absences with and without reason.",
		Method:      "GET",
		Path:        "education/attendance",
		Auth:        true,
		Envelope:    EnvelopeList,
		Parameters:  []Parameter{paramSubject, paramSemester, paramLanguage},
	},
	{
		Tool:        "get_student_performance",
		Description: "Get the student's performance results for a subject in a semester: marks per exam type and totals.",
		Method:      "GET",
		Path:        "education/performance",
		Auth:        true,
		Envelope:    EnvelopeList,
		Parameters:  []Parameter{paramSubject, paramSemester, paramLanguage},
	},
	{
		Tool:        "get_student_resources",
		Description: "Get study resources published for a subject in a semester: files, links and training materials.",
		Method:      "GET",
		Path:        "education/resources",
		Auth:        true,
		Envelope:    EnvelopeList,
		Parameters:  []Parameter{paramSubject, paramSemester, paramLanguage},
	},
	{
		Tool:        "get_student_exams",
		Description: "Get the student's exam table for a semester with dates, rooms and exam types.",
		Method:      "GET",
		Path:        "education/exam-table",
		Auth:        true,
		Envelope:    EnvelopeList,
		Parameters:  []Parameter{paramSemester, paramLanguage},
	},
	{
		Tool:        "get_student_schedule",
		Description: "Get the student's class schedule for a semester, optionally narrowed to one week.",
		Method:      "GET",
		Path:        "education/schedule",
		Auth:        true,
		Envelope:    EnvelopeList,
		Parameters:  []Parameter{paramSemester, paramWeek, paramLanguage},
	},
	{
		Tool:        "get_student_task_list",
		Description: "Get the student's tasks and assignments for a semester, paginated.",
		Method:      "GET",
		Path:        "education/task-list",
		Auth:        true,
		Envelope:    EnvelopeList,
		Parameters:  []Parameter{paramSemester, paramPage, paramLimit, paramLanguage},
	},
	{
		Tool:        "get_student_contract",
		Description: "Get the student's current tuition contract with amounts and payment details.",
		Method:      "GET",
		Path:        "student/contract",
		Auth:        true,
		Envelope:    EnvelopeObject,
		Parameters:  []Parameter{paramLanguage},
	},
	{
		Tool:        "get_student_contract_list",
		Description: "Get the student's tuition contracts across years as a paginated list.",
		Method:      "GET",
		Path:        "student/contract-list",
		Auth:        true,
		Envelope:    EnvelopePaginated,
		Parameters:  []Parameter{paramLanguage},
	},
	{
		Tool:        "get_student_decrees",
		Description: "Get university decrees and orders concerning the student.",
		Method:      "GET",
		Path:        "student/decree",
		Auth:        true,
		Envelope:    EnvelopeList,
		Parameters:  []Parameter{paramLanguage},
	},
	{
		Tool:        "get_student_documents",
		Description: "Get the student's own documents issued by the university.",
		Method:      "GET",
		Path:        "student/document",
		Auth:        true,
		Envelope:    EnvelopeList,
		Parameters:  []Parameter{paramLanguage},
	},
	{
		Tool:        "get_all_student_documents",
		Description: "Get every document available to the student, including archived ones.",
		Method:      "GET",
		Path:        "student/document-all",
		Auth:        true,
		Envelope:    EnvelopeList,
		Parameters:  []Parameter{paramLanguage},
	},
	{
		Tool:        "get_student_references",
		Description: "Get the student's study references (enrollment certificates) issued so far.",
		Method:      "GET",
		Path:        "student/reference",
		Auth:        true,
		Envelope:    EnvelopeList,
		Parameters:  []Parameter{paramLanguage},
	},
	{
		Tool:        "generate_student_reference",
		Description: "Generate a new study reference for the student. Creates a document on the upstream side.",
		Method:      "GET",
		Path:        "student/reference-generate",
		Auth:        true,
		Mutating:    true,
		Envelope:    EnvelopeObject,
		Parameters:  []Parameter{paramLanguage},
	},
	{
		Tool:        "get_employee_statistics",
		Description: "Get public employee statistics of the university.",
		Method:      "GET",
		Path:        "public/stat-employee",
		Envelope:    EnvelopeObject,
		Parameters:  []Parameter{paramLanguage},
	},
	{
		Tool:        "get_university_structure",
		Description: "Get the public structure of the university: faculties, departments and divisions.",
		Method:      "GET",
		Path:        "public/stat-structure",
		Envelope:    EnvelopeObject,
		Parameters:  []Parameter{paramLanguage},
	},
	{
		Tool:        "get_student_statistics",
		Description: "Get public student statistics of the university.",
		Method:      "GET",
		Path:        "public/stat-student",
		Envelope:    EnvelopeObject,
		Parameters:  []Parameter{paramLanguage},
	},
	{
		Tool:        "get_universities",
		Description: "List the universities registered in the HEMIS system.",
		Method:      "GET",
		Path:        "public/universities",
		Envelope:    EnvelopeList,
		Parameters:  []Parameter{paramLanguage},
	},
	{
		Tool:        "get_university_profile",
		Description: "Get the public profile of the university this bridge is configured against.",
		Method:      "GET",
		Path:        "public/university-profile",
		Envelope:    EnvelopeObject,
		Parameters:  []Parameter{paramLanguage},
	},
}
