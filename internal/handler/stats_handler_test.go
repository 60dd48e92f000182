package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"smartinvoice/internal/domain"
	"smartinvoice/internal/handler"
	"smartinvoice/internal/service"
	"smartinvoice/mocks"
)

func statsTestRouter(svc service.StatsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewStatsHandler(svc)
	r.GET("/api/v1/dashboard", h.Dashboard)
	return r
}

func TestStatsHandler_Dashboard(t *testing.T) {
	svc := new(mocks.MockStatsService)
	svc.On("Dashboard", mock.Anything).Return(&domain.DashboardStats{
		TotalSpend:   142.75,
		InvoiceCount: 3,
	}, nil)

	r := statsTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "142.75")
	assert.Contains(t, w.Body.String(), `"invoice_count":3`)
}

func TestStatsHandler_Dashboard_NoData(t *testing.T) {
	svc := new(mocks.MockStatsService)
	svc.On("Dashboard", mock.Anything).Return(nil, domain.ErrNoDashboardData)

	r := statsTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NO_DASHBOARD_DATA")
}
