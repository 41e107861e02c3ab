package handlers

import (
	"net/http"
	"strconv"

	"gps-monitor/internal/dashboard"
	"gps-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// UnitQuery is the filter of the units list and CSV export.
type UnitQuery struct {
	Q      string `form:"q" validate:"max=100"`
	Status string `form:"status" validate:"omitempty,oneof=all active offline maintenance inactive"`
}

func (q UnitQuery) Filter() (dashboard.StatusFilter, error) {
	return dashboard.ParseStatusFilter(q.Status)
}

type AlertQuery struct {
	Unacknowledged string `form:"unacknowledged" validate:"omitempty,boolean"`
}

func (q AlertQuery) UnacknowledgedOnly() bool {
	only, _ := strconv.ParseBool(q.Unacknowledged)
	return only
}

// bindQuery binds and validates query parameters into dst, writing the error
// response on failure.
func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters", err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.ValidationErrorResponse(c, err)
		return false
	}
	return true
}
