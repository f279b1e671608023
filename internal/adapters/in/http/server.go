// Package http exposes the scheduling use cases over a REST surface.
package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler  commands.CreateOrderCommandHandler
	changeStatusHandler commands.ChangeOrderStatusCommandHandler
	assignOrderHandler  commands.AssignOrderCommandHandler

	// Query handlers
	queueStatisticsHandler queries.GetQueueStatisticsQueryHandler
	staffWorkloadHandler   queries.GetStaffWorkloadQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	assignOrderHandler commands.AssignOrderCommandHandler,
	queueStatisticsHandler queries.GetQueueStatisticsQueryHandler,
	staffWorkloadHandler queries.GetStaffWorkloadQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		changeStatusHandler:    changeStatusHandler,
		assignOrderHandler:     assignOrderHandler,
		queueStatisticsHandler: queueStatisticsHandler,
		staffWorkloadHandler:   staffWorkloadHandler,
	}
}

// RegisterRoutes binds all REST endpoints on the given Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:orderId/status", s.ChangeOrderStatus)
	api.POST("/orders/:orderId/assign", s.AssignOrder)
	api.GET("/queue/statistics", s.GetQueueStatistics)
	api.GET("/staff/:staffId/workload", s.GetStaffWorkload)
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type newOrderRequest struct {
	TableNumber            int     `json:"tableNumber"`
	Items                  []item  `json:"items"`
	TotalAmount            float64 `json:"totalAmount"`
	HasSpecialInstructions bool    `json:"hasSpecialInstructions"`
}

type item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type orderCreatedResponse struct {
	OrderID string `json:"orderId"`
}

type statusChangeRequest struct {
	Status string `json:"status"`
}

// CreateOrder handles POST /api/v1/orders - registers a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request newOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	items := make([]order.Item, 0, len(request.Items))
	for _, line := range request.Items {
		items = append(items, order.Item{Name: line.Name, Quantity: line.Quantity})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, request.TableNumber, items, request.TotalAmount, request.HasSpecialInstructions)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.writeError(ctx, handleErr, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, orderCreatedResponse{OrderID: orderID.String()})
}

// ChangeOrderStatus handles POST /api/v1/orders/:orderId/status - moves an
// order through its lifecycle.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	var request statusChangeRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	next, err := order.StatusFromString(request.Status)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Unknown status: " + request.Status,
		})
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, next)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid status change: " + err.Error(),
		})
	}

	if handleErr := s.changeStatusHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.writeError(ctx, handleErr, "Failed to change order status")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignOrder handles POST /api/v1/orders/:orderId/assign - picks the best
// available staff member for the order.
func (s *Server) AssignOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewAssignOrderCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid assignment request: " + err.Error(),
		})
	}

	if handleErr := s.assignOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		if errors.Is(handleErr, commands.ErrNoCandidatesAvailable) ||
			errors.Is(handleErr, commands.ErrNoCandidateAboveThreshold) {
			return ctx.JSON(http.StatusConflict, errorResponse{
				Code:    http.StatusConflict,
				Message: handleErr.Error(),
			})
		}
		return s.writeError(ctx, handleErr, "Failed to assign order")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetQueueStatistics handles GET /api/v1/queue/statistics.
func (s *Server) GetQueueStatistics(ctx echo.Context) error {
	stats, err := s.queueStatisticsHandler.Handle(ctx.Request().Context(), queries.NewGetQueueStatisticsQuery())
	if err != nil {
		return s.writeError(ctx, err, "Failed to retrieve queue statistics")
	}

	return ctx.JSON(http.StatusOK, stats)
}

// GetStaffWorkload handles GET /api/v1/staff/:staffId/workload.
func (s *Server) GetStaffWorkload(ctx echo.Context) error {
	staffID, err := kernel.UUIDFromString(ctx.Param("staffId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid staff id",
		})
	}

	query, err := queries.NewGetStaffWorkloadQuery(staffID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid workload request: " + err.Error(),
		})
	}

	response, err := s.staffWorkloadHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err, "Failed to retrieve staff workload")
	}

	return ctx.JSON(http.StatusOK, response)
}

// writeError maps application error families onto HTTP status codes.
func (s *Server) writeError(ctx echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, errorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrVersionIsInvalid):
		return ctx.JSON(http.StatusConflict, errorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: fallback,
		})
	}
}
