// Package rest serves the read-only AMM queries over HTTP.
//
// Routes:
//   - GET /api/v1/pools?limit=N           - list pools
//   - GET /api/v1/pools/{address}         - pool by address
//   - GET /api/v1/pairs/{assetA}/{assetB} - pool by ordered asset pair
//   - GET /api/v1/quote?pool=&input=&amount= - price a swap at current reserves
//   - GET /api/v1/accounts/{address}/sequence - next sequence to sign at
package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/gorilla/mux"
	"github.com/spf13/cast"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// ContextFn returns a context over the state queries should read.
type ContextFn func() sdk.Context

// Handler handles AMM query requests.
type Handler struct {
	queries types.QueryServer
	newCtx  ContextFn
	logger  log.Logger
}

// NewHandler creates a new query handler.
func NewHandler(queries types.QueryServer, newCtx ContextFn, logger log.Logger) *Handler {
	return &Handler{
		queries: queries,
		newCtx:  newCtx,
		logger:  logger,
	}
}

// RegisterRoutes registers all query routes.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/v1/pools", h.handlePools).Methods("GET")
	r.HandleFunc("/api/v1/pools/{address}", h.handlePool).Methods("GET")
	r.HandleFunc("/api/v1/pairs/{assetA}/{assetB}", h.handlePair).Methods("GET")
	r.HandleFunc("/api/v1/quote", h.handleQuote).Methods("GET")
	r.HandleFunc("/api/v1/accounts/{address}/sequence", h.handleSequence).Methods("GET")
}

func (h *Handler) handlePools(w http.ResponseWriter, r *http.Request) {
	var limit uint64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := cast.ToUint64E(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	resp, err := h.queries.Pools(h.newCtx(), &types.QueryPoolsRequest{Limit: limit})
	if err != nil {
		h.writeQueryError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSequence(w http.ResponseWriter, r *http.Request) {
	resp, err := h.queries.Sequence(h.newCtx(), &types.QuerySequenceRequest{Address: mux.Vars(r)["address"]})
	if err != nil {
		h.writeQueryError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePool(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	resp, err := h.queries.Pool(h.newCtx(), &types.QueryPoolRequest{Address: vars["address"]})
	if err != nil {
		h.writeQueryError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePair(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	resp, err := h.queries.Pool(h.newCtx(), &types.QueryPoolRequest{AssetA: vars["assetA"], AssetB: vars["assetB"]})
	if err != nil {
		h.writeQueryError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amount, err := cast.ToUint64E(q.Get("amount"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	resp, err := h.queries.QuoteSwap(h.newCtx(), &types.QuoteSwapRequest{
		Pool:       q.Get("pool"),
		InputAsset: q.Get("input"),
		AmountIn:   amount,
	})
	if err != nil {
		h.writeQueryError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeQueryError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrPoolNotFound):
		status = http.StatusNotFound
	case errors.Is(err, sdkerrors.ErrInvalidRequest),
		errors.Is(err, types.ErrInvalidAddress),
		errors.Is(err, types.ErrInvalidAmount),
		errors.Is(err, types.ErrWrongInputToken),
		errors.Is(err, types.ErrInsufficientLiquidity),
		errors.Is(err, types.ErrArithmeticOverflow):
		status = http.StatusBadRequest
	default:
		h.logger.Error("query failed", "error", err)
	}
	h.writeError(w, status, err.Error())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}
