package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mintbay/goapi/domain"
	"github.com/mintbay/goapi/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

// statusOfErr maps every marketplace reason code onto its http status, so
// handlers can hand errors straight through
func statusOfErr(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, query.ErrNotFound),
		errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrNotListed),
		errors.Is(err, domain.ErrAuctionNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden, true
	case errors.Is(err, domain.ErrAlreadyListed),
		errors.Is(err, domain.ErrAlreadyOnAuction),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, true
	case errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidEndTime),
		errors.Is(err, domain.ErrInsufficientPayment),
		errors.Is(err, domain.ErrInvalidBid),
		errors.Is(err, domain.ErrNothingToWithdraw),
		errors.Is(err, domain.ErrTokenEscrowed),
		errors.Is(err, domain.ErrInvalidAmountFormat),
		errors.Is(err, domain.ErrBadParamInput),
		errors.Is(err, domain.ErrInvalidAddress):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusUnauthorized, true
	}
	return 0, false
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		if mapped, ok := statusOfErr(err); ok {
			status = mapped
		}
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
