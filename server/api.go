package server

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/xhad/journey/pkg/agent"
	"github.com/xhad/journey/pkg/conversation"
	"github.com/xhad/journey/pkg/rag"
	"github.com/xhad/journey/pkg/session"
)

const (
	ProfileLocal = "local"
	ProfileCloud = "cloud"
)

type APIConfig struct {
	Profile   string  // local or cloud
	RateLimit float64 // requests per second, <= 0 for none
	Now       func() time.Time
}

// API is the REST surface: chat with per-session memory, RAG over
// caller-supplied documents and, in the local profile, a task agent.
type API struct {
	config   APIConfig
	engine   Engine
	sessions *session.Store
	index    *template.Template
}

func NewAPI(engine Engine, config APIConfig) (*API, error) {
	if config.Profile == "" {
		config.Profile = ProfileLocal
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	var prompt string
	switch config.Profile {
	case ProfileLocal:
		prompt = conversation.APITutorPrompt
	case ProfileCloud:
		prompt = conversation.CloudTutorPrompt
	default:
		return nil, fmt.Errorf("unknown profile %q", config.Profile)
	}

	index, err := template.ParseFS(static, "static/api.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse index page: %w", err)
	}

	return &API{
		config:   config,
		engine:   engine,
		sessions: session.NewStore(prompt),
		index:    index,
	}, nil
}

func (api *API) cloud() bool {
	return api.config.Profile == ProfileCloud
}

func (api *API) version() string {
	if api.cloud() {
		return "2.0.0"
	}
	return "1.0.0"
}

func (api *API) Sessions() *session.Store {
	return api.sessions
}

func (api *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", api.handleIndex)
	mux.HandleFunc("GET /health", api.handleHealth)
	mux.HandleFunc("POST /chat", api.handleChat)
	mux.HandleFunc("POST /rag", api.handleRAG)
	if !api.cloud() {
		mux.HandleFunc("POST /agent", api.handleAgent)
	}
	mux.HandleFunc("GET /sessions", api.handleListSessions)
	mux.HandleFunc("DELETE /sessions/{id}", api.handleDeleteSession)

	return withRequestLog(withCORS(withRateLimit(api.config.RateLimit, mux)))
}

type endpoint struct {
	Method      string
	Path        string
	Description string
}

func (api *API) handleIndex(w http.ResponseWriter, r *http.Request) {
	endpoints := []endpoint{
		{"GET", "/health", "API health check"},
		{"POST", "/chat", "AI chat with memory"},
		{"POST", "/rag", "RAG document Q&A"},
	}
	if !api.cloud() {
		endpoints = append(endpoints, endpoint{"POST", "/agent", "AI agent with tools"})
	}
	endpoints = append(endpoints,
		endpoint{"GET", "/sessions", "List active sessions"},
		endpoint{"DELETE", "/sessions/{id}", "Delete a session"},
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := api.index.Execute(w, map[string]any{
		"Version":   api.version(),
		"Cloud":     api.cloud(),
		"Endpoints": endpoints,
	})
	if err != nil {
		log.Printf("Error rendering index: %v", err)
	}
}

type HealthResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
	Timestamp      string `json:"timestamp"`
	Model          string `json:"model"`
	ActiveSessions int    `json:"active_sessions"`
	Version        string `json:"version"`
	Deployed       string `json:"deployed,omitempty"`
}

func (api *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:         "healthy",
		Timestamp:      timestamp(api.config.Now()),
		Model:          api.engine.ModelName(),
		ActiveSessions: api.sessions.Count(),
		Version:        api.version(),
	}
	if api.cloud() {
		resp.Message = "AI Architect API is live!"
		resp.Deployed = "cloud"
	}
	writeJSON(w, http.StatusOK, resp)
}

type ChatRequest struct {
	Message   *string `json:"message"`
	SessionID string  `json:"session_id"`
}

type ChatResponse struct {
	Reply      string `json:"reply"`
	SessionID  string `json:"session_id"`
	Timestamp  string `json:"timestamp"`
	TokensUsed *int   `json:"tokens_used,omitempty"`
}

func (api *API) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.Message == nil {
		writeError(w, http.StatusUnprocessableEntity, "field required: message")
		return
	}
	if strings.TrimSpace(*req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}
	if req.SessionID == "" {
		req.SessionID = session.DefaultID
	}

	reply, err := api.sessions.Get(req.SessionID).Send(r.Context(), api.engine, *req.Message)
	if err != nil {
		log.Printf("Error from model: %v", err)
		writeError(w, http.StatusBadGateway, "Model request failed")
		return
	}

	resp := ChatResponse{
		Reply:     reply,
		SessionID: req.SessionID,
		Timestamp: timestamp(api.config.Now()),
	}
	if !api.cloud() {
		tokens := WordCount(*req.Message) + WordCount(reply)
		resp.TokensUsed = &tokens
	}
	writeJSON(w, http.StatusOK, resp)
}

// WordCount approximates token usage by whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

type RAGRequest struct {
	Question  *string   `json:"question"`
	Documents *[]string `json:"documents"`
}

type RAGResponse struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	SourcesUsed int    `json:"sources_used"`
	Timestamp   string `json:"timestamp"`
}

func (api *API) handleRAG(w http.ResponseWriter, r *http.Request) {
	var req RAGRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.Question == nil {
		writeError(w, http.StatusUnprocessableEntity, "field required: question")
		return
	}
	if req.Documents == nil {
		writeError(w, http.StatusUnprocessableEntity, "field required: documents")
		return
	}
	documents := *req.Documents

	answer, err := rag.AnswerFromDocuments(r.Context(), api.engine, *req.Question, documents)
	if errors.Is(err, rag.ErrNoDocuments) {
		writeError(w, http.StatusBadRequest, "No documents provided")
		return
	}
	if err != nil {
		log.Printf("Error from model: %v", err)
		writeError(w, http.StatusBadGateway, "Model request failed")
		return
	}

	writeJSON(w, http.StatusOK, RAGResponse{
		Question:    *req.Question,
		Answer:      answer,
		SourcesUsed: len(documents),
		Timestamp:   timestamp(api.config.Now()),
	})
}

type AgentRequest struct {
	Task  *string  `json:"task"`
	Tools []string `json:"tools"`
}

type AgentResponse struct {
	Task           string   `json:"task"`
	Result         string   `json:"result"`
	ToolsAvailable []string `json:"tools_available"`
	Timestamp      string   `json:"timestamp"`
}

func (api *API) handleAgent(w http.ResponseWriter, r *http.Request) {
	var req AgentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.Task == nil {
		writeError(w, http.StatusUnprocessableEntity, "field required: task")
		return
	}

	result, available, err := agent.Task(r.Context(), api.engine, *req.Task, req.Tools)
	if err != nil {
		log.Printf("Error from model: %v", err)
		writeError(w, http.StatusBadGateway, "Model request failed")
		return
	}

	writeJSON(w, http.StatusOK, AgentResponse{
		Task:           *req.Task,
		Result:         result,
		ToolsAvailable: available,
		Timestamp:      timestamp(api.config.Now()),
	})
}

type SessionsResponse struct {
	ActiveSessions int      `json:"active_sessions"`
	SessionIDs     []string `json:"session_ids"`
	TotalMessages  int      `json:"total_messages"`
}

func (api *API) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SessionsResponse{
		ActiveSessions: api.sessions.Count(),
		SessionIDs:     api.sessions.IDs(),
		TotalMessages:  api.sessions.TotalMessages(),
	})
}

func (api *API) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !api.sessions.Delete(id) {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Session %s deleted", id)})
}
