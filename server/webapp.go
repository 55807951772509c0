package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/xhad/journey/pkg/conversation"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Frame is a websocket message in either direction.
type Frame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

const (
	FrameStream   = "stream"
	FrameResponse = "response"
	FrameError    = "error"
)

type WebAppConfig struct {
	SystemPrompt string
	Streaming    bool
}

// WebApp is a single-user chat page. Every request shares one conversation.
type WebApp struct {
	config WebAppConfig
	engine Engine
	conv   *conversation.Conversation
}

func NewWebApp(engine Engine, config WebAppConfig) *WebApp {
	if config.SystemPrompt == "" {
		config.SystemPrompt = conversation.WebTutorPrompt
	}
	return &WebApp{
		config: config,
		engine: engine,
		conv:   conversation.New(config.SystemPrompt),
	}
}

func (app *WebApp) Conversation() *conversation.Conversation {
	return app.conv
}

func (app *WebApp) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", app.handleWebSocket)
	mux.HandleFunc("GET /", app.handleIndex)
	mux.HandleFunc("POST /", app.handleChat)
	return withRequestLog(mux)
}

func (app *WebApp) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

type webChatRequest struct {
	Message string `json:"message"`
}

type webChatResponse struct {
	Reply string `json:"reply"`
}

func (app *WebApp) handleChat(w http.ResponseWriter, r *http.Request) {
	var req webChatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}

	reply, err := app.conv.Send(r.Context(), app.engine, req.Message)
	if err != nil {
		log.Printf("Error from model: %v", err)
		writeError(w, http.StatusBadGateway, "Model request failed")
		return
	}

	writeJSON(w, http.StatusOK, webChatResponse{Reply: reply})
}

func (app *WebApp) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Error reading message: %v", err)
			}
			return
		}

		var msg Frame
		if err := json.Unmarshal(data, &msg); err != nil {
			app.send(conn, FrameError, "invalid message")
			continue
		}
		if strings.TrimSpace(msg.Content) == "" {
			app.send(conn, FrameError, "Message cannot be empty")
			continue
		}

		// Messages on one connection are answered in order.
		app.answer(r, conn, msg.Content)
	}
}

func (app *WebApp) answer(r *http.Request, conn *websocket.Conn, message string) {
	if !app.config.Streaming {
		reply, err := app.conv.Send(r.Context(), app.engine, message)
		if err != nil {
			log.Printf("Error from model: %v", err)
			app.send(conn, FrameError, "Model request failed")
			return
		}
		app.send(conn, FrameResponse, reply)
		return
	}

	reply, err := app.conv.SendStream(r.Context(), app.engine, message, func(chunk string) error {
		return conn.WriteJSON(Frame{Type: FrameStream, Content: chunk})
	})
	if err != nil {
		log.Printf("Error from model: %v", err)
		app.send(conn, FrameError, "Model request failed")
		return
	}
	app.send(conn, FrameResponse, reply)
}

func (app *WebApp) send(conn *websocket.Conn, frameType, content string) {
	if err := conn.WriteJSON(Frame{Type: frameType, Content: content}); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
