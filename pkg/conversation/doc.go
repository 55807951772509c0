// Package conversation keeps chat history and persists it.
//
// Persistence model:
//   - A conversation is a JSON array of {role, content} records, written whole on save.
//   - Notes are a plain-text file that only ever grows.
package conversation
