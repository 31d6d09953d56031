// Package server keeps calendars fresh on a cron schedule and serves them over HTTP.
//
// Routes:
//
//	GET  /                  service information
//	GET  /health            last run status
//	GET  /report            last run report
//	GET  /calendars         exported calendar file names
//	GET  /calendars/:name   one calendar file (text/calendar)
//	POST /refresh           run the pipeline now
//	GET  /metrics           Prometheus metrics
//
// Runs never overlap: a scheduled run that fires while another is in progress is
// skipped, and POST /refresh answers 409.
package server
