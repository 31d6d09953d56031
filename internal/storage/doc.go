// Package storage manages the output directory that calendar files are written to.
//
// Files are replaced in full on every write; there is no merge with earlier runs.
// A leading "~/" in the directory is expanded to the user's home directory and the
// directory is created on first use.
package storage
