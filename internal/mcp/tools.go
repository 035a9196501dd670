package mcp

import "github.com/mark3labs/mcp-go/mcp"

var searchToolDef = mcp.NewTool("employee_search",
	mcp.WithDescription("Search the employee directory. Matches the query against names and job titles, "+
		"case-insensitively, ignoring surrounding whitespace. A blank query lists everyone. "+
		"Each result carries the start date, a tenure label such as \"1y 2m\" and a tier "+
		"(newcomer, experienced, veteran)."),
	mcp.WithString("query",
		mcp.Description("Substring to match against name or title. Optional."),
	),
)

var getToolDef = mcp.NewTool("employee_get",
	mcp.WithDescription("Fetch one employee by id, including email and the tenure badge shown in the "+
		"detail view (e.g. \"1y 2m with TinyTech\")."),
	mcp.WithNumber("id",
		mcp.Required(),
		mcp.Description("Employee id (positive integer)."),
	),
)

var statsToolDef = mcp.NewTool("employee_stats",
	mcp.WithDescription("Directory counters: total employees, how many match the query, and the "+
		"number of matching employees per tenure tier."),
	mcp.WithString("query",
		mcp.Description("Substring to match against name or title. Optional."),
	),
)
