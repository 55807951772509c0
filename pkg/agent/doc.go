// Package agent drives tool use and multi-agent pipelines over a chat model.
//
// Includes:
//   - Agent: asks the model for a JSON decision, runs at most one tool, then
//     asks for a final answer grounded on the tool result.
//   - Task: a single prompt that advertises a chosen subset of tools.
//   - Pipeline: Researcher, Writer, Critic and Manager run strictly in order,
//     each seeing the previous stage's output.
package agent
