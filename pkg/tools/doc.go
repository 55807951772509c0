// Package tools defines the agent's tools and their registry.
//
// Includes:
//   - Tool: name, description, handler taking a single string input.
//   - calculator: arithmetic over a small grammar, no evaluation of code.
//   - datetime, search_knowledge, save_note.
//   - GenerateSchema[T](): JSON Schema for the agent's decision format.
package tools
