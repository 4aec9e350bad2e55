// Package worker provides domain.WorkerRegistrar implementations: an in-process
// registrar with the browser's registration semantics, and an HTTP registrar
// that asks a remote worker host to register the script.
package worker
