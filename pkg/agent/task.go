package agent

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/prompts"
	"github.com/xhad/journey/internal/types"
	"github.com/xhad/journey/pkg/chain"
)

// TaskTools are the tools a task may advertise, in prompt order.
var TaskTools = []struct {
	Name        string
	Description string
}{
	{"calculator", "performs math calculations"},
	{"datetime", "gets current date and time"},
	{"search", "searches knowledge base"},
}

var DefaultTaskTools = []string{"calculator", "datetime"}

func taskTemplate() prompts.ChatPromptTemplate {
	return prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.NewSystemMessagePromptTemplate(`You are an AI Agent with these tools:
{{.tools}}
Complete the task using available tools. Be specific and actionable.`, []string{"tools"}),
		prompts.NewHumanMessagePromptTemplate("{{.task}}", []string{"task"}),
	})
}

// Task completes task with the requested tools described in the prompt.
// Unknown names are ignored; nil requested means DefaultTaskTools.
// It returns the reply and the tool names that were advertised.
func Task(ctx context.Context, engine types.Generator, task string, requested []string) (string, []string, error) {
	if requested == nil {
		requested = DefaultTaskTools
	}
	want := make(map[string]bool, len(requested))
	for _, name := range requested {
		want[name] = true
	}

	available := []string{}
	var desc string
	for _, t := range TaskTools {
		if !want[t.Name] {
			continue
		}
		if desc != "" {
			desc += "\n"
		}
		desc += fmt.Sprintf("- %s: %s", t.Name, t.Description)
		available = append(available, t.Name)
	}

	result, err := chain.New(taskTemplate(), engine).Invoke(ctx, map[string]any{
		"tools": desc,
		"task":  task,
	})
	if err != nil {
		return "", nil, err
	}
	return result, available, nil
}
