package rpc

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"luminashare/core"
	"luminashare/core/events"
	"luminashare/crypto"
	"luminashare/fhe"
	"luminashare/native/content"
	"luminashare/native/payout"
	"luminashare/native/subscription"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
	codeNotFound       = -32004
	codeForbidden      = -32005
	codeRateLimited    = -32020
)

// Server exposes the ledger's operation surface over JSON-RPC plus a
// websocket event stream. Mutating methods require a bearer token when a JWT
// secret is configured and share a token-bucket rate limit; reads are open.
type Server struct {
	node      *core.Node
	bus       *events.Bus
	jwtSecret []byte
	limiter   *rate.Limiter
}

// NewServer constructs a server over the node. The bus may be nil when event
// streaming is not wanted.
func NewServer(node *core.Node, bus *events.Bus, jwtSecret string) *Server {
	return &Server{
		node:      node,
		bus:       bus,
		jwtSecret: []byte(strings.TrimSpace(jwtSecret)),
		limiter:   rate.NewLimiter(rate.Limit(50), 100),
	}
}

// Router assembles the HTTP surface: JSON-RPC at /, the websocket event
// stream, prometheus metrics and a liveness probe.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/", s.handle)
	r.Get("/ws/events", s.handleEventsWS)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Start serves the router on addr. It blocks until the listener fails.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeNodeError maps the ledger's error taxonomy onto RPC codes: invalid
// input, not-found and unauthorized each get their own code, anything else is
// surfaced verbatim as a server error (engine failures included).
func writeNodeError(w http.ResponseWriter, id interface{}, err error) {
	switch {
	case errors.Is(err, content.ErrNotFound),
		errors.Is(err, subscription.ErrNotFound),
		errors.Is(err, payout.ErrContentNotFound):
		writeError(w, http.StatusNotFound, id, codeNotFound, err.Error(), nil)
	case errors.Is(err, payout.ErrUnauthorized):
		writeError(w, http.StatusForbidden, id, codeForbidden, err.Error(), nil)
	case errors.Is(err, content.ErrTitleRequired),
		errors.Is(err, content.ErrInactive),
		errors.Is(err, content.ErrInvalidContentType),
		errors.Is(err, content.ErrInvalidAccessType),
		errors.Is(err, subscription.ErrInvalidDuration),
		errors.Is(err, fhe.ErrScopeMismatch),
		errors.Is(err, fhe.ErrUnknownHandle),
		errors.Is(err, fhe.ErrInvalidProof):
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, id, codeServerError, err.Error(), nil)
	}
}

type rpcHandler struct {
	fn       func(http.ResponseWriter, *http.Request, *RPCRequest)
	mutating bool
}

func (s *Server) methods() map[string]rpcHandler {
	return map[string]rpcHandler{
		"lumina_register":                  {fn: s.handleRegister, mutating: true},
		"lumina_purchase":                  {fn: s.handlePurchase, mutating: true},
		"lumina_tip":                       {fn: s.handleTip, mutating: true},
		"lumina_subscribe":                 {fn: s.handleSubscribe, mutating: true},
		"lumina_renewSubscription":         {fn: s.handleRenewSubscription, mutating: true},
		"lumina_cancelSubscription":        {fn: s.handleCancelSubscription, mutating: true},
		"lumina_recordView":                {fn: s.handleRecordView, mutating: true},
		"lumina_authorizeDecrypt":          {fn: s.handleAuthorizeDecrypt, mutating: true},
		"lumina_withdraw":                  {fn: s.handleWithdraw, mutating: true},
		"lumina_getContent":                {fn: s.handleGetContent},
		"lumina_getContentCount":           {fn: s.handleGetContentCount},
		"lumina_listByCreator":             {fn: s.handleListByCreator},
		"lumina_checkAccess":               {fn: s.handleCheckAccess},
		"lumina_earningsOf":                {fn: s.handleEarningsOf},
		"lumina_creatorEarnings":           {fn: s.handleCreatorEarnings},
		"lumina_creatorEarningsByCategory": {fn: s.handleCreatorEarningsByCategory},
		"lumina_getPaymentCount":           {fn: s.handleGetPaymentCount},
		"lumina_getTipCount":               {fn: s.handleGetTipCount},
		"lumina_getSubscription":           {fn: s.handleGetSubscription},
		"lumina_userSubscriptions":         {fn: s.handleUserSubscriptions},
	}
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "failed to read request body", nil)
		return
	}
	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", nil)
		return
	}
	handler, ok := s.methods()[req.Method]
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, "method not found", req.Method)
		return
	}
	if handler.mutating {
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, codeUnauthorized, authErr.Error(), nil)
			return
		}
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, req.ID, codeRateLimited, "rate limit exceeded", nil)
			return
		}
	}
	handler.fn(w, r, &req)
}

// requireAuth validates the bearer token against the configured HMAC secret.
// With no secret configured the surface is open (local development).
func (s *Server) requireAuth(r *http.Request) error {
	if len(s.jwtSecret) == 0 {
		return nil
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return errors.New("missing bearer token")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return errors.New("malformed authorization header")
	}
	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}

func decodeParams(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return errors.New("exactly one parameter object expected")
	}
	return json.Unmarshal(req.Params[0], out)
}

func decodeAddressParam(value string) ([20]byte, error) {
	addr, err := crypto.DecodeAddress(value)
	if err != nil {
		return [20]byte{}, err
	}
	return addr.Array(), nil
}

func formatAddress(addr [20]byte) string {
	return crypto.MustNewAddress(crypto.LuminaPrefix, addr[:]).String()
}

func decodeHandleParam(value string) (fhe.Handle, error) {
	return fhe.ParseHandle(value)
}
