package web

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/peterkuimelis/genesys/internal/catalog"
	"github.com/peterkuimelis/genesys/internal/deck"
	"github.com/peterkuimelis/genesys/internal/session"
)

// maxDeckUpload bounds the size of an uploaded .ydk body.
const maxDeckUpload = 1 << 20

// CardInfo is the JSON representation of a card for the /api/cards endpoints.
type CardInfo struct {
	GameID    int               `json:"game_id"`
	CatalogID string            `json:"catalog_id"`
	Name      string            `json:"name"`
	Names     map[string]string `json:"names,omitempty"`
	Types     string            `json:"types"`
	Desc      string            `json:"desc,omitempty"`
	Point     int               `json:"point"`
	ExtraDeck bool              `json:"extra_deck"`
}

// AddRequest is the body of POST /api/sessions/{id}/cards. An empty Deck
// sends the card to the deck its type belongs in.
type AddRequest struct {
	Deck   string `json:"deck"`
	GameID int    `json:"game_id"`
}

// Server is the deck builder's HTTP API. Each client works on its own
// session, created by POST /api/sessions.
type Server struct {
	opts   session.Options
	router chi.Router

	mu       sync.RWMutex
	catalog  *catalog.Catalog
	sessions map[string]*session.Session
}

// NewServer creates a server over catalog c. Every new session gets opts.
func NewServer(c *catalog.Catalog, opts session.Options) *Server {
	s := &Server{
		opts:     opts,
		router:   chi.NewRouter(),
		catalog:  c,
		sessions: make(map[string]*session.Session),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// SetCatalog swaps the catalog for new sessions and every open one.
func (s *Server) SetCatalog(c *catalog.Catalog, source string) {
	s.mu.Lock()
	s.catalog = c
	open := make([]*session.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()

	for _, sess := range open {
		sess.SetCatalog(c, source)
	}
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/cards", s.handleSearchCards)
		r.Get("/cards/{gameID}", s.handleGetCard)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Post("/cards", s.handleAddCard)
			r.Delete("/cards/{deck}/{gameID}", s.handleRemoveCard)
			r.Post("/new", s.handleNewDeck)
			r.Put("/ydk", s.handleImport)
			r.Get("/ydk", s.handleExport)
			r.Get("/ws", s.handleWebSocket)
		})
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (s *Server) currentCatalog() *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// session looks up the session named in the URL, writing a 404 if it is gone.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		respondError(w, http.StatusNotFound, "Session not found")
	}
	return sess, ok
}

// --- Catalog handlers ---

func (s *Server) handleSearchCards(w http.ResponseWriter, r *http.Request) {
	key := s.opts.NameKey
	if name := r.URL.Query().Get("name"); name != "" {
		if !catalog.ValidNameKey(catalog.NameKey(name)) {
			respondError(w, http.StatusBadRequest, "Unknown name variant")
			return
		}
		key = catalog.NameKey(name)
	}

	hits := s.currentCatalog().Search(r.URL.Query().Get("q"), key)
	cards := make([]CardInfo, 0, len(hits))
	for _, card := range hits {
		cards = append(cards, cardInfo(card, key, false))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cards":       cards,
		"total_count": len(cards),
	})
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.Atoi(chi.URLParam(r, "gameID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game id")
		return
	}
	card, ok := s.currentCatalog().ResolveByGameID(gameID)
	if !ok {
		respondError(w, http.StatusNotFound, "Card not found")
		return
	}
	respondJSON(w, http.StatusOK, cardInfo(card, s.opts.NameKey, true))
}

// --- Session handlers ---

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	sess := session.New(s.currentCatalog(), s.opts)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req AddRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var err error
	if req.Deck == "" {
		_, err = sess.AddPreferred(req.GameID)
	} else {
		var d deck.Name
		d, err = deck.ParseName(req.Deck)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		err = sess.Add(d, req.GameID)
	}

	var v *deck.Violation
	switch {
	case errors.Is(err, deck.ErrUnknownCard):
		respondError(w, http.StatusNotFound, err.Error())
		return
	case errors.As(err, &v):
		respondJSON(w, http.StatusConflict, map[string]string{
			"error": v.Error(),
			"kind":  v.Kind.String(),
		})
		return
	case err != nil:
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleRemoveCard(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	d, err := deck.ParseName(chi.URLParam(r, "deck"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	gameID, err := strconv.Atoi(chi.URLParam(r, "gameID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game id")
		return
	}

	amount := 1
	if a := r.URL.Query().Get("amount"); a == "all" {
		amount = deck.All
	} else if a != "" {
		amount, err = strconv.Atoi(a)
		if err != nil || amount < 1 {
			respondError(w, http.StatusBadRequest, "amount must be a positive number or 'all'")
			return
		}
	}

	sess.Remove(d, gameID, amount)
	respondJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleNewDeck(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.NewDeck()
	respondJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxDeckUpload)
	if err := sess.Import(body, "upload"); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	text, err := sess.Export()
	var illegal *session.IllegalDeckError
	if errors.As(err, &illegal) {
		problems := make([]string, len(illegal.Violations))
		for i, v := range illegal.Violations {
			problems[i] = v.Error()
		}
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":      "Deck is not legal",
			"violations": problems,
		})
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="deck.ydk"`)
	io.WriteString(w, text)
}

// handleWebSocket pushes the session snapshot on connect and after every
// change until the client goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	changes, cancel := sess.Subscribe()
	defer cancel()

	// The client never sends anything; CloseRead cancels ctx when it leaves.
	ctx := wsConn.CloseRead(r.Context())

	for {
		if err := wsjson.Write(ctx, wsConn, sess.Snapshot()); err != nil {
			if ctx.Err() == nil {
				log.Printf("WebSocket write error: %v", err)
			}
			return
		}
		select {
		case <-ctx.Done():
			wsConn.Close(websocket.StatusNormalClosure, "")
			return
		case <-changes:
		}
	}
}

// --- Response helpers ---

func cardInfo(card *catalog.Card, key catalog.NameKey, full bool) CardInfo {
	ci := CardInfo{
		GameID:    card.GameID,
		CatalogID: card.CatalogID,
		Types:     card.TypeText,
		Point:     card.Point,
		ExtraDeck: card.IsExtraDeckType(),
	}
	ci.Name, _ = card.DisplayName(key)
	if full {
		ci.Desc = card.Desc
		ci.Names = make(map[string]string, len(card.Names))
		for k, v := range card.Names {
			if v != "" {
				ci.Names[string(k)] = v
			}
		}
	}
	return ci
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
