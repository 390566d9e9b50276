// Package http implements the HTTP handlers of the hours report service.
//
// Handlers stay thin: they decode and validate the request, call the report
// service, and either render a {"status":"success","data":...} envelope or
// pass the error to the shared ErrorHandler, which answers with RFC 7807
// problem details.
//
//	GET    /                          server-rendered report page
//	POST   /api/report/upload         multipart "file" (CSV or XLSX)
//	GET    /api/report                session summary
//	DELETE /api/report                discard the session
//	GET    /api/report/table?search=  pivot table view
//	PUT    /api/report/threshold      {"threshold": n}
//	POST   /api/report/highlight      apply highlighting
//	PUT    /api/report/view           {"view": "table" | "dashboard"}
//	GET    /api/report/dashboard      chart series
//	GET    /api/report/export.xlsx    workbook download
//	GET    /api/report/export.csv     CSV download
//	GET    /api/health[/live|/ready]  health checks
//	GET    /api/version               build information
package http
