package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/journey/internal/llmtest"
	"github.com/xhad/journey/pkg/agent"
	"github.com/xhad/journey/pkg/llm"
	"github.com/xhad/journey/pkg/tools"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    agent.Decision
		wantErr bool
	}{
		{
			name:  "tool call wrapped in prose",
			reply: "Sure!\n```json\n{\"use_tool\": true, \"tool_name\": \"calculator\", \"tool_input\": \"25 * 4\", \"direct_answer\": null}\n```",
			want:  agent.Decision{UseTool: true, ToolName: "calculator", ToolInput: "25 * 4"},
		},
		{
			name:  "direct answer",
			reply: `{"use_tool": false, "tool_name": null, "tool_input": null, "direct_answer": "Hello!"}`,
			want:  agent.Decision{DirectAnswer: "Hello!"},
		},
		{
			name:  "numeric tool input",
			reply: `{"use_tool": true, "tool_name": "calculator", "tool_input": 42}`,
			want:  agent.Decision{UseTool: true, ToolName: "calculator", ToolInput: "42"},
		},
		{
			name:  "nested braces in answer",
			reply: `{"use_tool": false, "direct_answer": "use {braces}"}`,
			want:  agent.Decision{DirectAnswer: "use {braces}"},
		},
		{name: "no JSON", reply: "I think you should use the calculator.", wantErr: true},
		{name: "broken JSON", reply: `{"use_tool": tru}`, wantErr: true},
		{name: "reversed braces", reply: "} nothing {", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := agent.ParseDecision(tt.reply)
			if tt.wantErr {
				assert.ErrorIs(t, err, agent.ErrNoDecision)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_UsesTool(t *testing.T) {
	model := llmtest.NewModel(
		`{"use_tool": true, "tool_name": "calculator", "tool_input": "25 * 4", "direct_answer": null}`,
		"25 times 4 is 100.",
	)
	a := agent.New(llm.NewWithModel(model, llm.ChatConfig{}), tools.Set{tools.CalculatorDefinition})

	var used []string
	a.OnTool = func(name, input, result string) { used = append(used, name, input, result) }

	res, err := a.Run(context.Background(), "what is 25 times 4?")
	require.NoError(t, err)
	assert.Equal(t, "25 times 4 is 100.", res.Answer)
	assert.Equal(t, "Calculator result: 100", res.ToolResult)
	assert.Equal(t, []string{"calculator", "25 * 4", "Calculator result: 100"}, used)

	calls := model.Calls()
	require.Len(t, calls, 2)
	prompt := llmtest.Text(calls[0][0])
	assert.Contains(t, prompt, "- calculator: Performs math calculations.")
	assert.Contains(t, prompt, "User message: what is 25 times 4?")
	assert.Contains(t, prompt, `"use_tool"`)

	final := calls[1]
	require.Len(t, final, 3)
	assert.Equal(t, "what is 25 times 4?", llmtest.Text(final[0]))
	assert.Equal(t, "Tool result: Calculator result: 100", llmtest.Text(final[1]))
	assert.Equal(t, "Now give me a clear final answer based on this.", llmtest.Text(final[2]))
}

func TestRun_DirectAnswer(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"answer", `{"use_tool": false, "direct_answer": "Hi there."}`, "Hi there."},
		{"null answer", `{"use_tool": false, "direct_answer": null}`, agent.Fallback},
		{"missing answer", `{"use_tool": false}`, agent.Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := llmtest.NewModel(tt.reply)
			a := agent.New(llm.NewWithModel(model, llm.ChatConfig{}), tools.Registry("unused.txt"))

			res, err := a.Run(context.Background(), "hello")
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Answer)
			assert.Len(t, model.Calls(), 1)
		})
	}
}

func TestRun_Errors(t *testing.T) {
	t.Run("unknown tool", func(t *testing.T) {
		model := llmtest.NewModel(`{"use_tool": true, "tool_name": "browser", "tool_input": "x"}`)
		a := agent.New(llm.NewWithModel(model, llm.ChatConfig{}), tools.Registry("unused.txt"))

		_, err := a.Run(context.Background(), "open google")
		assert.ErrorIs(t, err, agent.ErrUnknownTool)
	})

	t.Run("tool failure", func(t *testing.T) {
		failing := tools.Tool{Name: "boom", Run: func(context.Context, string) (string, error) {
			return "", errors.New("disk full")
		}}
		model := llmtest.NewModel(`{"use_tool": true, "tool_name": "boom", "tool_input": "x"}`)
		a := agent.New(llm.NewWithModel(model, llm.ChatConfig{}), tools.Set{failing})

		_, err := a.Run(context.Background(), "go")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("model failure", func(t *testing.T) {
		a := agent.New(llm.NewWithModel(&llmtest.Model{Err: errors.New("down")}, llm.ChatConfig{}), nil)
		_, err := a.Run(context.Background(), "go")
		assert.Error(t, err)
	})
}

func TestTask(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		wantTools []string
		wantDesc  string
	}{
		{
			name:      "defaults",
			wantTools: []string{"calculator", "datetime"},
			wantDesc:  "- calculator: performs math calculations\n- datetime: gets current date and time\n",
		},
		{
			name:      "filters unknown and keeps table order",
			requested: []string{"search", "browser", "calculator"},
			wantTools: []string{"calculator", "search"},
			wantDesc:  "- calculator: performs math calculations\n- search: searches knowledge base\n",
		},
		{
			name:      "empty list",
			requested: []string{},
			wantTools: []string{},
			wantDesc:  "tools:\n\nComplete",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := llmtest.NewModel("Done.")
			engine := llm.NewWithModel(model, llm.ChatConfig{})

			result, available, err := agent.Task(context.Background(), engine, "plan my week", tt.requested)
			require.NoError(t, err)
			assert.Equal(t, "Done.", result)
			assert.Equal(t, tt.wantTools, available)

			call := model.LastCall()
			require.Len(t, call, 2)
			assert.Contains(t, llmtest.Text(call[0]), tt.wantDesc)
			assert.Equal(t, "plan my week", llmtest.Text(call[1]))
		})
	}
}
