package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/delivery"
	"github.com/mintbay/goapi/domain"
	"github.com/mintbay/goapi/domain/marketplace"
	authMiddleware "github.com/mintbay/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	marketplace marketplace.Usecase
}

func New(e *echo.Echo, marketplace marketplace.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{marketplace}

	e.GET("/listings", h.getListings)

	g := e.Group("/token/:tokenId/listing")
	g.GET("", h.getListing)
	g.POST("", h.list, authMiddleware.Auth())
	g.PUT("", h.update, authMiddleware.Auth())
	g.DELETE("", h.cancel, authMiddleware.Auth())

	e.POST("/token/:tokenId/buy", h.buy, authMiddleware.Auth())
}

func bindTokenId(c echo.Context) (domain.TokenId, error) {
	id, err := strconv.ParseInt(c.Param("tokenId"), 10, 64)
	if err != nil || id < 0 {
		return 0, domain.ErrBadParamInput
	}
	return domain.TokenId(id), nil
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := c.Get("address").(domain.Address)

	tokenId, err := bindTokenId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	type params struct {
		Price string `json:"price" validate:"required"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	price, err := domain.ParseAmount(p.Price)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	listing, err := h.marketplace.List(ctx, address, tokenId, price)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, listing)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := c.Get("address").(domain.Address)

	tokenId, err := bindTokenId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	type params struct {
		Price string `json:"price" validate:"required"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	price, err := domain.ParseAmount(p.Price)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	listing, err := h.marketplace.Update(ctx, address, tokenId, price)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, listing)
}

func (h *handler) cancel(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := c.Get("address").(domain.Address)

	tokenId, err := bindTokenId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.marketplace.Cancel(ctx, address, tokenId); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) buy(c echo.Context) error {
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
	payment, err := domain.ParseAmount(p.Value)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.marketplace.Buy(ctx, address, tokenId, payment); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) getListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	tokenId, err := bindTokenId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	listing, err := h.marketplace.GetListing(ctx, tokenId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, listing)
}

func (h *handler) getListings(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Offset int32           `query:"offset"`
		Limit  int32           `query:"limit"`
		Seller *domain.Address `query:"seller"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	opts := []marketplace.FindAllOptions{
		marketplace.WithPagination(p.Offset, p.Limit),
	}
	if p.Seller != nil {
		opts = append(opts, marketplace.WithSeller(*p.Seller))
	}

	listings, err := h.marketplace.GetListings(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, listings)
}
