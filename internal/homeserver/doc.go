// Package homeserver loads, patches, and rewrites a Synapse homeserver.yaml.
//
// The file is held as a yaml.Node tree rather than a Go map so that keys the
// patch does not touch keep their order, tags, and comments when the file is
// written back. Only the top level of the document is ever modified.
package homeserver
