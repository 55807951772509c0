package finetune_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/xhad/journey/internal/llmtest"
	"github.com/xhad/journey/pkg/finetune"
	"github.com/xhad/journey/pkg/llm"
)

// answerByQuestion echoes the question back so replies can be matched to topics
// regardless of the order requests arrive in.
func answerByQuestion(messages []llms.MessageContent) (string, error) {
	human := llmtest.Text(messages[len(messages)-1])
	q := strings.TrimPrefix(strings.SplitN(human, "\n", 2)[0], "Question: ")
	return "answer to " + q, nil
}

func TestGenerate_KeepsTopicOrder(t *testing.T) {
	model := &llmtest.Model{Respond: answerByQuestion}
	gen := finetune.NewGenerator(llm.NewWithModel(model, llm.ChatConfig{}), 3)

	var done []string
	pairs, err := gen.Generate(context.Background(), finetune.Topics, func(topic string) {
		done = append(done, topic)
	})
	require.NoError(t, err)
	require.Len(t, pairs, len(finetune.Topics))

	for i, topic := range finetune.Topics {
		assert.Equal(t, finetune.Instruction, pairs[i].Instruction)
		assert.Equal(t, topic, pairs[i].Input)
		assert.Equal(t, "answer to "+topic, pairs[i].Output)
	}
	assert.ElementsMatch(t, finetune.Topics, done)

	system := llmtest.Text(model.LastCall()[0])
	assert.Contains(t, system, "Under 150 words")
}

type slowModel struct {
	*llmtest.Model
	active, peak atomic.Int32
}

func (m *slowModel) GenerateContent(ctx context.Context, msgs []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	n := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return m.Model.GenerateContent(ctx, msgs, opts...)
}

func TestGenerate_RespectsConcurrency(t *testing.T) {
	model := &slowModel{Model: &llmtest.Model{Respond: answerByQuestion}}
	gen := finetune.NewGenerator(llm.NewWithModel(model, llm.ChatConfig{}), 2)

	topics := []string{"a", "b", "c", "d", "e", "f"}
	_, err := gen.Generate(context.Background(), topics, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, model.peak.Load(), int32(2))
}

func TestGenerate_Error(t *testing.T) {
	model := &llmtest.Model{Respond: func(messages []llms.MessageContent) (string, error) {
		if strings.Contains(llmtest.Text(messages[1]), "RAG") {
			return "", errors.New("rate limited")
		}
		return "ok", nil
	}}
	gen := finetune.NewGenerator(llm.NewWithModel(model, llm.ChatConfig{}), 1)

	pairs, err := gen.Generate(context.Background(), finetune.Topics, nil)
	require.Error(t, err)
	assert.Nil(t, pairs)
	assert.Contains(t, err.Error(), "Explain RAG in simple terms")
}

func TestCompare(t *testing.T) {
	model := llmtest.NewModel("It depends.", "With your 12 projects, 6-12 months.")
	engine := llm.NewWithModel(model, llm.ChatConfig{})

	generic, specialised, err := finetune.Compare(context.Background(), engine, finetune.CompareQuestion)
	require.NoError(t, err)
	assert.Equal(t, "It depends.", generic)
	assert.Equal(t, "With your 12 projects, 6-12 months.", specialised)

	calls := model.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, finetune.GenericPrompt, llmtest.Text(calls[0][0]))
	assert.Equal(t, finetune.SpecialisedPrompt, llmtest.Text(calls[1][0]))
	assert.Equal(t, finetune.CompareQuestion, llmtest.Text(calls[1][1]))
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "training_data.json")
	pairs := []finetune.TrainingPair{{Instruction: "i", Input: "₹1CR <goal>", Output: "o & more"}}

	require.NoError(t, finetune.WriteJSON(path, pairs))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "[\n  {\n    \"instruction\": \"i\",\n    \"input\": \"₹1CR <goal>\",\n    \"output\": \"o & more\"\n  }\n]\n"
	assert.Equal(t, want, string(b))
}

func TestTables(t *testing.T) {
	names := make([]string, len(finetune.Approaches))
	for i, a := range finetune.Approaches {
		names[i] = a.Name
	}
	assert.Equal(t, []string{"Prompt Engineering", "RAG", "Fine-tuning"}, names)
	assert.Len(t, finetune.Scenarios, 8)
	assert.Len(t, finetune.DefaultGuide.FineTuningSteps, 7)
}
