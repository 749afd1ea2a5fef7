package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/blackspyek/cryptosim-backend/internal/domain"
	"github.com/blackspyek/cryptosim-backend/internal/usecase/asset"
	"github.com/blackspyek/cryptosim-backend/internal/usecase/trade"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type tradeRequest struct {
	AssetTicker string          `json:"asset_ticker" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

type transactionResponse struct {
	ID         uuid.UUID       `json:"id"`
	Ticker     string          `json:"ticker"`
	Side       string          `json:"type"`
	Quantity   decimal.Decimal `json:"amount"`
	Price      decimal.Decimal `json:"price_at_transaction"`
	ExecutedAt time.Time       `json:"timestamp"`
}

// --- Helpers ---

func (s *Server) fail(cn *gin.Context, where string, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("internal_error", zap.String("where", where), zap.Error(err))
		cn.JSON(status, apiError{Code: code, Message: "internal server error"})
		return
	}
	cn.JSON(status, apiError{Code: code, Message: err.Error()})
}

// statusFor maps the trade error taxonomy onto HTTP statuses in one place.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownAsset):
		return http.StatusNotFound, "unknown_asset"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "account_not_found"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, domain.ErrAssetInactive):
		return http.StatusBadRequest, "asset_inactive"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, "insufficient_funds"
	case errors.Is(err, domain.ErrInsufficientHoldings):
		return http.StatusBadRequest, "insufficient_holdings"
	case errors.Is(err, domain.ErrAssetInUse):
		return http.StatusBadRequest, "asset_in_use"
	case errors.Is(err, domain.ErrPriceUnavailable):
		return http.StatusServiceUnavailable, "price_unavailable"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return http.StatusConflict, "concurrency_conflict"
	default:
		return http.StatusInternalServerError, "internal_server_error"
	}
}

func (s *Server) badRequest(cn *gin.Context, msg string) {
	cn.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: msg})
}

func parseID(cn *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(cn.Param("id"))
	if err != nil {
		cn.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: "invalid asset id"})
		return uuid.Nil, false
	}
	return id, true
}

func toTransactionResponse(tx *domain.Transaction, ticker string) transactionResponse {
	return transactionResponse{
		ID:         tx.ID,
		Ticker:     ticker,
		Side:       string(tx.Side),
		Quantity:   tx.Quantity,
		Price:      tx.Price,
		ExecutedAt: tx.ExecutedAt,
	}
}

// --- Trade handlers ---

func (s *Server) buy(cn *gin.Context) {
	s.executeTrade(cn, s.Trades.Buy, "Buy")
}

func (s *Server) sell(cn *gin.Context) {
	s.executeTrade(cn, s.Trades.Sell, "Sell")
}

func (s *Server) executeTrade(cn *gin.Context, exec func(ctx context.Context, in trade.Input) (*domain.Transaction, error), where string) {
	var req tradeRequest
	if err := cn.ShouldBindJSON(&req); err != nil {
		s.badRequest(cn, "invalid trade request body")
		return
	}

	tx, err := exec(cn.Request.Context(), trade.Input{
		AccountID: accountID(cn),
		Ticker:    req.AssetTicker,
		Quantity:  req.Amount,
	})
	if err != nil {
		s.fail(cn, where, err)
		return
	}

	cn.JSON(http.StatusOK, toTransactionResponse(tx, req.AssetTicker))
}

func (s *Server) getWallet(cn *gin.Context) {
	wallet, err := s.Trades.GetWallet(cn.Request.Context(), accountID(cn))
	if err != nil {
		s.fail(cn, "GetWallet", err)
		return
	}
	cn.JSON(http.StatusOK, wallet)
}

func (s *Server) resetAccount(cn *gin.Context) {
	result, err := s.Trades.Reset(cn.Request.Context(), accountID(cn))
	if err != nil {
		s.fail(cn, "Reset", err)
		return
	}
	cn.JSON(http.StatusOK, result)
}

// --- Asset handlers ---

func (s *Server) listActiveAssets(cn *gin.Context) {
	quotes, err := s.Assets.ListActive(cn.Request.Context())
	if err != nil {
		s.fail(cn, "ListActive", err)
		return
	}
	cn.JSON(http.StatusOK, quotes)
}

func (s *Server) listAllAssets(cn *gin.Context) {
	assets, err := s.Assets.ListAll(cn.Request.Context())
	if err != nil {
		s.fail(cn, "ListAll", err)
		return
	}
	cn.JSON(http.StatusOK, assets)
}

func (s *Server) getAsset(cn *gin.Context) {
	id, ok := parseID(cn)
	if !ok {
		return
	}

	a, err := s.Assets.Get(cn.Request.Context(), id)
	if err != nil {
		s.fail(cn, "Get", err)
		return
	}
	cn.JSON(http.StatusOK, a)
}

func (s *Server) getAssetKlines(cn *gin.Context) {
	id, ok := parseID(cn)
	if !ok {
		return
	}

	interval := cn.DefaultQuery("interval", "1h")
	limit, err := strconv.Atoi(cn.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		s.badRequest(cn, "invalid limit")
		return
	}

	klines, err := s.Assets.GetKlines(cn.Request.Context(), id, interval, limit)
	if err != nil {
		s.fail(cn, "GetKlines", err)
		return
	}
	cn.JSON(http.StatusOK, klines)
}

type createAssetRequest struct {
	Ticker     string `json:"ticker" binding:"required"`
	Name       string `json:"name" binding:"required"`
	FeedSymbol string `json:"feed_symbol" binding:"required"`
}

func (s *Server) createAsset(cn *gin.Context) {
	var req createAssetRequest
	if err := cn.ShouldBindJSON(&req); err != nil {
		s.badRequest(cn, "invalid asset body")
		return
	}

	a, err := s.Assets.Create(cn.Request.Context(), asset.CreateInput{
		Ticker:     req.Ticker,
		Name:       req.Name,
		FeedSymbol: req.FeedSymbol,
	})
	if err != nil {
		s.fail(cn, "Create", err)
		return
	}
	cn.JSON(http.StatusCreated, a)
}

type updateAssetRequest struct {
	Name       string `json:"name" binding:"required"`
	FeedSymbol string `json:"feed_symbol" binding:"required"`
	Active     bool   `json:"active"`
}

func (s *Server) updateAsset(cn *gin.Context) {
	id, ok := parseID(cn)
	if !ok {
		return
	}

	var req updateAssetRequest
	if err := cn.ShouldBindJSON(&req); err != nil {
		s.badRequest(cn, "invalid asset body")
		return
	}

	a, err := s.Assets.Update(cn.Request.Context(), id, asset.UpdateInput{
		Name:       req.Name,
		FeedSymbol: req.FeedSymbol,
		Active:     req.Active,
	})
	if err != nil {
		s.fail(cn, "Update", err)
		return
	}
	cn.JSON(http.StatusOK, a)
}

func (s *Server) toggleAsset(cn *gin.Context) {
	id, ok := parseID(cn)
	if !ok {
		return
	}

	a, err := s.Assets.Toggle(cn.Request.Context(), id)
	if err != nil {
		s.fail(cn, "Toggle", err)
		return
	}
	cn.JSON(http.StatusOK, a)
}

func (s *Server) deleteAsset(cn *gin.Context) {
	id, ok := parseID(cn)
	if !ok {
		return
	}

	if err := s.Assets.Delete(cn.Request.Context(), id); err != nil {
		s.fail(cn, "Delete", err)
		return
	}
	cn.Status(http.StatusNoContent)
}
