// Package dialog implements the add/edit dialog for software modules: it
// builds the form from an embedded OpenAPI descriptor, populates it from a
// fetched entity, rejects duplicate (name, version, type) triples and
// creates or updates the module, notifying the user and publishing an event
// on success.
//
// A Dialog is not safe for concurrent use; create one per request or
// terminal session. The repository and event bus it is wired to are shared.
package dialog
