// Package compilations is the public entry point of the module: the release
// version and the factory that opens a compilation store.
package compilations

// Version is the current release of the compilations module and CLI.
const Version = "v0.3.0"
