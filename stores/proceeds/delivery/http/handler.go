package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/delivery"
	"github.com/mintbay/goapi/domain"
	"github.com/mintbay/goapi/domain/proceeds"
	authMiddleware "github.com/mintbay/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	proceeds proceeds.Usecase
}

func New(e *echo.Echo, proceeds proceeds.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{proceeds}

	e.GET("/proceeds/:address", h.getBalance)
	e.GET("/proceeds/:address/withdrawals", h.getWithdrawals)
	e.POST("/proceeds/withdraw", h.withdraw, authMiddleware.Auth())
}

func (h *handler) getBalance(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	address := domain.Address(c.Param("address")).ToLower()
	if address.IsEmpty() {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}

	balance, err := h.proceeds.GetBalance(ctx, address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, balance)
}

func (h *handler) getWithdrawals(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	address := domain.Address(c.Param("address")).ToLower()
	if address.IsEmpty() {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}

	withdrawals, err := h.proceeds.GetWithdrawals(ctx, address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, withdrawals)
}

func (h *handler) withdraw(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := c.Get("address").(domain.Address)

	amount, err := h.proceeds.Withdraw(ctx, address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, amount)
}
