package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/xhad/journey/pkg/conversation"
)

// Func runs a tool on the model-supplied input and returns text for the model.
type Func func(ctx context.Context, input string) (string, error)

type Tool struct {
	Name        string
	Description string
	Run         Func
}

// Set is an ordered list of tools. Order is the order they are advertised in.
type Set []Tool

// Registry returns the agent's tools, saving notes to notesPath.
func Registry(notesPath string) Set {
	return Set{
		CalculatorDefinition,
		Datetime(time.Now),
		SearchKnowledgeDefinition,
		SaveNote(notesPath, time.Now),
	}
}

func (s Set) Lookup(name string) (Tool, bool) {
	for _, t := range s {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, t := range s {
		names[i] = t.Name
	}
	return names
}

// Describe renders one "- name: description" line per tool.
func (s Set) Describe() string {
	lines := make([]string, len(s))
	for i, t := range s {
		lines[i] = fmt.Sprintf("- %s: %s", t.Name, t.Description)
	}
	return strings.Join(lines, "\n")
}

const DatetimeLayout = "Monday, 02 January 2006 — 03:04 PM"

func Datetime(now func() time.Time) Tool {
	return Tool{
		Name:        "datetime",
		Description: "Gets current date and time. Input: any string",
		Run: func(context.Context, string) (string, error) {
			return "Current date and time: " + now().Format(DatetimeLayout), nil
		},
	}
}

type entry struct {
	Key   string
	Value string
}

// knowledgeTable is checked in order; the first key found in the query wins.
var knowledgeTable = []entry{
	{"groq", "Groq is a free ultra-fast LLM API. Used on Day 1."},
	{"rag", "RAG is Retrieval Augmented Generation. Built on Day 4."},
	{"chatbot", "Memory chatbot was built on Day 2."},
	{"persistent", "Persistent memory tutor was built on Day 3."},
	{"salary", "AI Architect salary goal: Year 1-2: 12-25 LPA, Year 5-7: 70-120 LPA, Year 8-10: 1.5 CR+"},
	{"agent", "AI Agent uses tools to take actions. Built on Day 5."},
	{"langchain", "LangChain is a framework for building AI apps and agents."},
	{"pytorch", "PyTorch is a deep learning framework for building neural networks."},
}

const NoKnowledge = "No specific knowledge found. Try asking differently."

func SearchKnowledge(query string) string {
	q := strings.ToLower(query)
	for _, e := range knowledgeTable {
		if strings.Contains(q, e.Key) {
			return e.Value
		}
	}
	return NoKnowledge
}

var SearchKnowledgeDefinition = Tool{
	Name:        "search_knowledge",
	Description: "Searches AI learning knowledge base. Input: topic to search",
	Run: func(_ context.Context, input string) (string, error) {
		return SearchKnowledge(input), nil
	},
}

func SaveNote(path string, now func() time.Time) Tool {
	return Tool{
		Name:        "save_note",
		Description: "Saves important notes to file. Input: the note to save",
		Run: func(_ context.Context, note string) (string, error) {
			if err := conversation.AppendNote(path, note, now()); err != nil {
				return "", err
			}
			return "Note saved: " + note, nil
		},
	}
}

// GenerateSchema derives an inline JSON Schema document from T.
func GenerateSchema[T any]() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("tools: cannot marshal schema: %v", err))
	}
	return string(out)
}
