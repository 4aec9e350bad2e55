// Package domain defines the data structures and collaborator contracts of the ramjet controller.
// It contains the configuration record and its default values, the local store and worker
// registrar interfaces, and the element type frames render into.
//
// The package has no knowledge of how the store is implemented or how workers are installed,
// keeping the controller independent of sqlite, HTTP or any browser facility.
package domain
