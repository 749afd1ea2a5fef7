// Package httpapi exposes the trade and asset services over JSON HTTP and
// upgrades the realtime channel to a websocket bound to the broadcast hub.
package httpapi

import (
	"context"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blackspyek/cryptosim-backend/internal/domain"
	"github.com/blackspyek/cryptosim-backend/internal/usecase/asset"
	"github.com/blackspyek/cryptosim-backend/internal/usecase/trade"
	"github.com/blackspyek/cryptosim-backend/internal/ws"
)

// TradeService is the trade API consumed by the presentation layer.
type TradeService interface {
	Buy(ctx context.Context, in trade.Input) (*domain.Transaction, error)
	Sell(ctx context.Context, in trade.Input) (*domain.Transaction, error)
	GetWallet(ctx context.Context, accountID uuid.UUID) (*trade.Wallet, error)
	Reset(ctx context.Context, accountID uuid.UUID) (*trade.ResetResult, error)
}

// AssetService is the admin asset API.
type AssetService interface {
	ListActive(ctx context.Context) ([]asset.Quote, error)
	ListAll(ctx context.Context) ([]*domain.Asset, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Asset, error)
	Create(ctx context.Context, in asset.CreateInput) (*domain.Asset, error)
	Update(ctx context.Context, id uuid.UUID, in asset.UpdateInput) (*domain.Asset, error)
	Toggle(ctx context.Context, id uuid.UUID) (*domain.Asset, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetKlines(ctx context.Context, id uuid.UUID, interval string, limit int) ([]domain.Kline, error)
}

type Server struct {
	R      *gin.Engine
	Trades TradeService
	Assets AssetService
	Hub    *ws.Hub
	Logger *zap.Logger
}

// NewServer wires the router, services, hub, and middleware.
func NewServer(trades TradeService, assets AssetService, hub *ws.Hub, logger *zap.Logger, apiToken, corsOrigin string) *Server {
	g := gin.New()

	g.Use(requestLogger(logger))
	g.Use(gin.Recovery())
	g.Use(cors(corsOrigin))

	s := &Server{
		R:      g,
		Trades: trades,
		Assets: assets,
		Hub:    hub,
		Logger: logger,
	}

	g.GET("/health", func(cn *gin.Context) { cn.JSON(http.StatusOK, gin.H{"status": "healthy"}) })
	g.GET("/ws", s.serveWS)

	api := g.Group("/api", tokenAuth(apiToken))
	{
		tradeAPI := api.Group("/trade", requireAccount())
		tradeAPI.POST("/buy", s.buy)
		tradeAPI.POST("/sell", s.sell)
		tradeAPI.GET("/wallet", s.getWallet)
		tradeAPI.POST("/reset-account", s.resetAccount)

		assetAPI := api.Group("/assets")
		assetAPI.GET("", s.listActiveAssets)
		assetAPI.GET("/admin/all", s.listAllAssets)
		assetAPI.GET("/:id", s.getAsset)
		assetAPI.GET("/:id/klines", s.getAssetKlines)
		assetAPI.POST("", s.createAsset)
		assetAPI.PUT("/:id", s.updateAsset)
		assetAPI.PATCH("/:id/toggle", s.toggleAsset)
		assetAPI.DELETE("/:id", s.deleteAsset)
	}

	return s
}
