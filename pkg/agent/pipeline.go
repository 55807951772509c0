package agent

import (
	"context"
	"fmt"

	"github.com/xhad/journey/internal/models"
	"github.com/xhad/journey/internal/types"
)

// Spec describes one specialised agent.
type Spec struct {
	Name string
	Role string
	Goal string
}

func (s Spec) SystemPrompt() string {
	return fmt.Sprintf(`You are %s.
Role: %s
Goal: %s
Be concise, professional, and focused only on your role.`, s.Name, s.Role, s.Goal)
}

var (
	Researcher = Spec{
		Name: "ResearchAgent",
		Role: "AI Research Specialist",
		Goal: "Research topics thoroughly and extract key facts, data points, and insights",
	}
	Writer = Spec{
		Name: "WriterAgent",
		Role: "Technical Content Writer",
		Goal: "Transform research into clear, structured, professional content",
	}
	Critic = Spec{
		Name: "CriticAgent",
		Role: "Quality Reviewer",
		Goal: "Review content for accuracy, clarity, and completeness. Give improvement suggestions",
	}
	Manager = Spec{
		Name: "ManagerAgent",
		Role: "Project Manager",
		Goal: "Coordinate agents, summarize their work, and deliver final polished answer to user",
	}
)

// RunStage sends message to the agent described by spec. A non-empty
// prior is passed along as the previous agent's output.
func RunStage(ctx context.Context, engine types.Completer, spec Spec, message, prior string) (string, error) {
	if prior != "" {
		message = fmt.Sprintf("Context from previous agent:\n%s\n\nYour task: %s", prior, message)
	}

	reply, err := engine.Complete(ctx, []models.Message{
		models.System(spec.SystemPrompt()),
		models.User(message),
	})
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", spec.Name, err)
	}
	return reply, nil
}

type Report struct {
	Research string
	Written  string
	Review   string
	Final    string
}

type Pipeline struct {
	Engine types.Completer
}

func NewPipeline(engine types.Completer) *Pipeline {
	return &Pipeline{Engine: engine}
}

// Run executes Researcher, Writer, Critic and Manager in order. observer,
// if non-nil, is called before each stage starts and after it finishes.
func (p *Pipeline) Run(ctx context.Context, request string, observer Observer) (Report, error) {
	var report Report

	stages := []struct {
		spec    Spec
		message string
		prior   func() string
		out     *string
	}{
		{Researcher, "Research this topic thoroughly: " + request, func() string { return "" }, &report.Research},
		{Writer, "Write professional content about: " + request, func() string { return report.Research }, &report.Written},
		{Critic, "Review this content about: " + request, func() string { return report.Written }, &report.Review},
		{Manager, "Deliver the best final answer for: " + request, func() string {
			return fmt.Sprintf("Research:\n%s\n\nWritten Content:\n%s\n\nReview:\n%s", report.Research, report.Written, report.Review)
		}, &report.Final},
	}

	for _, stage := range stages {
		if observer != nil {
			observer.StageStarted(stage.spec)
		}
		out, err := RunStage(ctx, p.Engine, stage.spec, stage.message, stage.prior())
		if err != nil {
			return report, err
		}
		*stage.out = out
		if observer != nil {
			observer.StageFinished(stage.spec, out)
		}
	}

	return report, nil
}

// Observer receives pipeline progress.
type Observer interface {
	StageStarted(spec Spec)
	StageFinished(spec Spec, output string)
}
