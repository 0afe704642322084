package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/delivery"
	"github.com/mintbay/goapi/domain"
	"github.com/mintbay/goapi/domain/auction"
	authMiddleware "github.com/mintbay/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	auction auction.Usecase
}

func New(e *echo.Echo, auction auction.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{auction}

	e.GET("/auctions", h.getAuctions)

	g := e.Group("/token/:tokenId/auction")
	g.GET("", h.getAuction)
	g.POST("", h.start, authMiddleware.Auth())
	g.POST("/bid", h.bid, authMiddleware.Auth())
}

func bindTokenId(c echo.Context) (domain.TokenId, error) {
	id, err := strconv.ParseInt(c.Param("tokenId"), 10, 64)
	if err != nil || id < 0 {
		return 0, domain.ErrBadParamInput
	}
	return domain.TokenId(id), nil
}

func (h *handler) start(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := c.Get("address").(domain.Address)

	tokenId, err := bindTokenId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	type params struct {
		ReservePrice string `json:"reservePrice" validate:"required"`
		EndTime      int64  `json:"endTime" validate:"required"` // unix seconds
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	reservePrice, err := domain.ParseAmount(p.ReservePrice)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	a, err := h.auction.Start(ctx, address, tokenId, reservePrice, time.Unix(p.EndTime, 0))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, a)
}

func (h *handler) bid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := c.Get("address").(domain.Address)

	tokenId, err := bindTokenId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	type params struct {
		Value string `json:"value" validate:"required"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	amount, err := domain.ParseAmount(p.Value)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	a, err := h.auction.PlaceBid(ctx, address, tokenId, amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, a)
}

func (h *handler) getAuction(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	tokenId, err := bindTokenId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	a, err := h.auction.GetAuction(ctx, tokenId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, a)
}

func (h *handler) getAuctions(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Offset  int32           `query:"offset"`
		Limit   int32           `query:"limit"`
		Seller  *domain.Address `query:"seller"`
		Settled *bool           `query:"settled"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	opts := []auction.FindAllOptions{
		auction.WithPagination(p.Offset, p.Limit),
	}
	if p.Seller != nil {
		opts = append(opts, auction.WithSeller(*p.Seller))
	}
	if p.Settled != nil {
		opts = append(opts, auction.WithSettled(*p.Settled))
	}

	auctions, err := h.auction.GetAuctions(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, auctions)
}
