package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/delivery"
	"github.com/mintbay/goapi/domain"
	"github.com/mintbay/goapi/domain/nftitem"
	authMiddleware "github.com/mintbay/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	token nftitem.Usecase
}

func New(e *echo.Echo, token nftitem.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{token}

	gs := e.Group("/tokens")
	gs.GET("", h.getItems)
	gs.GET("/currentTokenId", h.getCurrentTokenId)
	gs.GET("/mine", h.getUserItems, authMiddleware.Auth())
	gs.POST("/mint", h.mint, authMiddleware.Auth())

	g := e.Group("/token/:tokenId")
	g.GET("", h.get)
	g.POST("/transfer", h.transfer, authMiddleware.Auth())
}

func bindTokenId(c echo.Context) (domain.TokenId, error) {
	id, err := strconv.ParseInt(c.Param("tokenId"), 10, 64)
	if err != nil || id < 0 {
		return 0, domain.ErrBadParamInput
	}
	return domain.TokenId(id), nil
}

func (h *handler) mint(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := c.Get("address").(domain.Address)

	type params struct {
		TokenUri string `json:"tokenUri" validate:"required"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	item, err := h.token.Mint(ctx, address, p.TokenUri)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, item)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	tokenId, err := bindTokenId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	item, err := h.token.Get(ctx, tokenId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, item)
}

func (h *handler) getItems(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Offset int32              `query:"offset"`
		Limit  int32              `query:"limit"`
		Owner  *domain.Address    `query:"owner"`
		Status *domain.SaleStatus `query:"status"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	opts := []nftitem.FindAllOptions{
		nftitem.WithPagination(p.Offset, p.Limit),
	}
	if p.Owner != nil {
		opts = append(opts, nftitem.WithOwner(*p.Owner))
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		opts = append(opts, nftitem.WithStatus(*p.Status))
	}

	items, err := h.token.GetItems(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, items)
}

func (h *handler) getUserItems(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := c.Get("address").(domain.Address)

	items, err := h.token.GetUserItems(ctx, address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, items)
}

func (h *handler) getCurrentTokenId(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	tokenId, err := h.token.GetCurrentTokenId(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, tokenId)
}

func (h *handler) transfer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := c.Get("address").(domain.Address)

	tokenId, err := bindTokenId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	type params struct {
		To domain.Address `json:"to" validate:"required"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	if err := h.token.Transfer(ctx, address, p.To, tokenId); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
