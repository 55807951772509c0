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
)

type recorder struct {
	events []string
}

func (r *recorder) StageStarted(spec agent.Spec) {
	r.events = append(r.events, "start "+spec.Name)
}

func (r *recorder) StageFinished(spec agent.Spec, output string) {
	r.events = append(r.events, "done "+spec.Name+": "+output)
}

func TestSpec_SystemPrompt(t *testing.T) {
	want := "You are CriticAgent.\nRole: Quality Reviewer\n" +
		"Goal: Review content for accuracy, clarity, and completeness. Give improvement suggestions\n" +
		"Be concise, professional, and focused only on your role."
	assert.Equal(t, want, agent.Critic.SystemPrompt())
}

func TestRunStage(t *testing.T) {
	model := llmtest.NewModel("a", "b")
	engine := llm.NewWithModel(model, llm.ChatConfig{})

	_, err := agent.RunStage(context.Background(), engine, agent.Writer, "Write it", "")
	require.NoError(t, err)
	assert.Equal(t, "Write it", llmtest.Text(model.LastCall()[1]))

	_, err = agent.RunStage(context.Background(), engine, agent.Writer, "Write it", "facts")
	require.NoError(t, err)
	assert.Equal(t, "Context from previous agent:\nfacts\n\nYour task: Write it", llmtest.Text(model.LastCall()[1]))
	assert.Equal(t, agent.Writer.SystemPrompt(), llmtest.Text(model.LastCall()[0]))
}

func TestPipeline_Run(t *testing.T) {
	model := llmtest.NewModel("research notes", "draft article", "needs examples", "final answer")
	rec := &recorder{}

	report, err := agent.NewPipeline(llm.NewWithModel(model, llm.ChatConfig{})).Run(context.Background(), "vector databases", rec)
	require.NoError(t, err)

	assert.Equal(t, agent.Report{
		Research: "research notes",
		Written:  "draft article",
		Review:   "needs examples",
		Final:    "final answer",
	}, report)

	assert.Equal(t, []string{
		"start ResearchAgent", "done ResearchAgent: research notes",
		"start WriterAgent", "done WriterAgent: draft article",
		"start CriticAgent", "done CriticAgent: needs examples",
		"start ManagerAgent", "done ManagerAgent: final answer",
	}, rec.events)

	calls := model.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, "Research this topic thoroughly: vector databases", llmtest.Text(calls[0][1]))
	assert.Equal(t, "Context from previous agent:\nresearch notes\n\nYour task: Write professional content about: vector databases", llmtest.Text(calls[1][1]))
	assert.Equal(t, "Context from previous agent:\ndraft article\n\nYour task: Review this content about: vector databases", llmtest.Text(calls[2][1]))
	assert.Equal(t,
		"Context from previous agent:\nResearch:\nresearch notes\n\nWritten Content:\ndraft article\n\nReview:\nneeds examples\n\n"+
			"Your task: Deliver the best final answer for: vector databases",
		llmtest.Text(calls[3][1]))
}

func TestPipeline_StopsOnError(t *testing.T) {
	model := &llmtest.Model{Responses: []string{"research notes"}}
	rec := &recorder{}

	report, err := agent.NewPipeline(llm.NewWithModel(model, llm.ChatConfig{})).Run(context.Background(), "x", rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, llmtest.ErrNoResponses))
	assert.Contains(t, err.Error(), "WriterAgent failed")
	assert.Equal(t, "research notes", report.Research)
	assert.Empty(t, report.Final)
	assert.Len(t, model.Calls(), 2)
}
