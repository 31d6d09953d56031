// Package config holds the run configuration for expat-events.
//
// The built-in configuration lists the ExpatInfoHolland table pages and the category
// to file name table. A YAML file can replace any part of it; missing values are
// filled from the defaults.
package config
