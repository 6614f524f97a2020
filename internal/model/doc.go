// Package model defines the storage-facing types shared by the writers.
//
// All timestamps are integer microseconds since the Unix epoch.
package model
