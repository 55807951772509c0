package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xhad/journey/internal/models"
	"github.com/xhad/journey/internal/types"
	"github.com/xhad/journey/pkg/tools"
)

var (
	ErrUnknownTool = errors.New("unknown tool")
	ErrNoDecision  = errors.New("model reply contains no JSON decision")
)

const Fallback = "I could not process that request."

// Decision is what the model returns when asked whether to use a tool.
type Decision struct {
	UseTool      bool   `json:"use_tool" jsonschema_description:"true when a tool is needed to answer"`
	ToolName     string `json:"tool_name,omitempty" jsonschema_description:"name of the tool to call"`
	ToolInput    string `json:"tool_input,omitempty" jsonschema_description:"input passed to the tool"`
	DirectAnswer string `json:"direct_answer,omitempty" jsonschema_description:"answer when no tool is needed"`
}

var decisionSchema = tools.GenerateSchema[Decision]()

type Result struct {
	Decision   Decision
	ToolResult string
	Answer     string
}

type Agent struct {
	Engine types.Completer
	Tools  tools.Set
	// OnTool, when set, is called after a tool runs.
	OnTool func(name, input, result string)
}

func New(engine types.Completer, set tools.Set) *Agent {
	return &Agent{Engine: engine, Tools: set}
}

func (a *Agent) decisionPrompt(input string) string {
	return fmt.Sprintf(`You are an AI Agent with these tools:
%s

User message: %s

Decide if you need a tool or can answer directly.
Respond ONLY in this JSON format:
{
  "use_tool": true or false,
  "tool_name": "tool name or null",
  "tool_input": "input for tool or null",
  "direct_answer": "answer if no tool needed or null"
}

The JSON must satisfy this schema:
%s`, a.Tools.Describe(), input, decisionSchema)
}

// Decide asks the model whether input needs a tool.
func (a *Agent) Decide(ctx context.Context, input string) (Decision, error) {
	reply, err := a.Engine.Complete(ctx, []models.Message{models.User(a.decisionPrompt(input))})
	if err != nil {
		return Decision{}, err
	}
	return ParseDecision(reply)
}

// ParseDecision reads the outermost {...} of a model reply.
func ParseDecision(reply string) (Decision, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return Decision{}, ErrNoDecision
	}

	raw := reply[start : end+1]
	if !gjson.Valid(raw) {
		return Decision{}, fmt.Errorf("%w: invalid JSON", ErrNoDecision)
	}

	fields := gjson.GetMany(raw, "use_tool", "tool_name", "tool_input", "direct_answer")
	return Decision{
		UseTool:      fields[0].Bool(),
		ToolName:     fields[1].String(),
		ToolInput:    fields[2].String(),
		DirectAnswer: fields[3].String(),
	}, nil
}

// Run decides, runs the chosen tool if any, and returns the final answer.
func (a *Agent) Run(ctx context.Context, input string) (Result, error) {
	decision, err := a.Decide(ctx, input)
	if err != nil {
		return Result{}, err
	}

	if !decision.UseTool {
		answer := decision.DirectAnswer
		if answer == "" {
			answer = Fallback
		}
		return Result{Decision: decision, Answer: answer}, nil
	}

	tool, ok := a.Tools.Lookup(decision.ToolName)
	if !ok {
		return Result{Decision: decision}, fmt.Errorf("%w: %q", ErrUnknownTool, decision.ToolName)
	}

	toolResult, err := tool.Run(ctx, decision.ToolInput)
	if err != nil {
		return Result{Decision: decision}, fmt.Errorf("failed to run tool %s: %w", tool.Name, err)
	}
	if a.OnTool != nil {
		a.OnTool(tool.Name, decision.ToolInput, toolResult)
	}

	answer, err := a.Engine.Complete(ctx, []models.Message{
		models.User(input),
		models.Assistant("Tool result: " + toolResult),
		models.User("Now give me a clear final answer based on this."),
	})
	if err != nil {
		return Result{Decision: decision, ToolResult: toolResult}, err
	}

	return Result{Decision: decision, ToolResult: toolResult, Answer: answer}, nil
}
