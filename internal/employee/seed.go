package employee

// Seed returns the built-in TinyTech directory used when no data file is configured.
// Each call returns a fresh slice.
func Seed() []Employee {
	return []Employee{
		{ID: 1, Name: "Lin Chang", Title: "Marketing Assistant", Email: "lin.chang@tinytech.com", StartDate: MustParseDate("2024-02-01")},
		{ID: 2, Name: "Marcus Johnson", Title: "Senior Developer", Email: "marcus.johnson@tinytech.com", StartDate: MustParseDate("2023-03-15")},
		{ID: 3, Name: "Sarah Williams", Title: "Product Manager", Email: "sarah.williams@tinytech.com", StartDate: MustParseDate("2023-08-10")},
		{ID: 4, Name: "Ahmed Hassan", Title: "UI/UX Designer", Email: "ahmed.hassan@tinytech.com", StartDate: MustParseDate("2024-01-20")},
		{ID: 5, Name: "Emily Rodriguez", Title: "DevOps Engineer", Email: "emily.rodriguez@tinytech.com", StartDate: MustParseDate("2023-06-05")},
		{ID: 6, Name: "David Kim", Title: "Data Analyst", Email: "david.kim@tinytech.com", StartDate: MustParseDate("2024-03-12")},
		{ID: 7, Name: "Jessica Brown", Title: "HR Manager", Email: "jessica.brown@tinytech.com", StartDate: MustParseDate("2023-01-08")},
		{ID: 8, Name: "Carlos Mendez", Title: "Sales Representative", Email: "carlos.mendez@tinytech.com", StartDate: MustParseDate("2023-11-22")},
		{ID: 9, Name: "Anna Kowalski", Title: "Quality Assurance", Email: "anna.kowalski@tinytech.com", StartDate: MustParseDate("2024-04-08")},
		{ID: 10, Name: "Michael Thompson", Title: "Technical Writer", Email: "michael.thompson@tinytech.com", StartDate: MustParseDate("2023-09-30")},
	}
}
