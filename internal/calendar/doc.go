// Package calendar serializes events to iCalendar documents, one per category.
package calendar
