// Package jsonstore loads and saves whole JSON documents on disk.
//
// Every read decodes the complete file and every write replaces it with an
// indented encoding of the complete document. There is no partial write and
// no atomic rename. A File adds an in-process mutex so that concurrent tool
// calls served by one process do not interleave their read-modify-write
// cycles; separate processes sharing the same file are not coordinated.
package jsonstore
