package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/delivery"
	"github.com/mintbay/goapi/domain"
	"github.com/mintbay/goapi/domain/account"
	authMiddleware "github.com/mintbay/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	account account.Usecase
}

func New(e *echo.Echo, account account.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{account}

	g := e.Group("/account")
	g.GET("/:address", h.get)
	g.GET("/:address/nonce", h.getNonce)
	g.PUT("", h.update, authMiddleware.Auth())
}

func bindAddress(c echo.Context) (domain.Address, error) {
	address := domain.Address(c.Param("address")).ToLower()
	if address.IsEmpty() {
		return "", domain.ErrInvalidAddress
	}
	return address, nil
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	address, err := bindAddress(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	a, err := h.account.Get(ctx, address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, a)
}

func (h *handler) getNonce(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	address, err := bindAddress(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	nonce, err := h.account.GetNonce(ctx, address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nonce)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := c.Get("address").(domain.Address)

	updater := &account.Updater{}
	if err := c.Bind(updater); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	a, err := h.account.Update(ctx, address, updater)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, a)
}
