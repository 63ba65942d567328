package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"lab-courier/internal/dto"
	"lab-courier/internal/entities"
	"lab-courier/internal/services"
	"lab-courier/pkg/api"
	"lab-courier/pkg/constants"
	"lab-courier/pkg/contextkeys"
	apperrors "lab-courier/pkg/errors"
)

type OrderController struct {
	orderService    services.OrderServiceInterface
	workflowService services.WorkflowServiceInterface
	logger          *zap.Logger
}

func NewOrderController(
	orderService services.OrderServiceInterface,
	workflowService services.WorkflowServiceInterface,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		orderService:    orderService,
		workflowService: workflowService,
		logger:          logger,
	}
}

func (ctrl *OrderController) Create(c echo.Context) error {
	var req dto.OrderRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	order, err := ctrl.orderService.Create(c.Request().Context(), req.ToEntity())
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusCreated, "order created", order)
}

// List returns every order for manager-tier callers and only assigned
// orders for couriers.
func (ctrl *OrderController) List(c echo.Context) error {
	ctx := c.Request().Context()

	role, _ := ctx.Value(contextkeys.RoleKey).(string)
	if constants.Role(role).IsManagerTier() {
		if phlebotomistID := c.QueryParam("phlebotomist_id"); phlebotomistID != "" {
			orders, err := ctrl.orderService.ListForPhlebotomist(ctx, phlebotomistID)
			if err != nil {
				return api.ErrorResponse(c, err)
			}
			return api.SuccessList(c, "orders", orders)
		}
		orders, err := ctrl.orderService.List(ctx)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		return api.SuccessList(c, "orders", orders)
	}

	userID, ok := ctx.Value(contextkeys.UserIDKey).(string)
	if !ok {
		return api.ErrorResponse(c, apperrors.ErrUserIDNotFoundInContext)
	}
	orders, err := ctrl.orderService.ListForPhlebotomist(ctx, userID)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessList(c, "orders", orders)
}

func (ctrl *OrderController) GetByID(c echo.Context) error {
	order, err := ctrl.orderService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "order", order)
}

func (ctrl *OrderController) Update(c echo.Context) error {
	var req dto.OrderRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	ctx := c.Request().Context()
	existing, err := ctrl.orderService.GetByID(ctx, c.Param("id"))
	if err != nil {
		return api.ErrorResponse(c, err)
	}

	// Whole-record replace, except history and assignment fields which only
	// change through their dedicated endpoints.
	order := req.ToEntity()
	order.ID = existing.ID
	order.Status = existing.Status
	order.Note = existing.Note
	order.CollectionTubes = existing.CollectionTubes
	order.Phlebotomist = existing.Phlebotomist
	order.Logistic = existing.Logistic
	order.Distance = existing.Distance

	updated, err := ctrl.orderService.Update(ctx, order)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "order updated", updated)
}

func (ctrl *OrderController) Delete(c echo.Context) error {
	if err := ctrl.orderService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "order deleted", c.Param("id"))
}

func (ctrl *OrderController) Assign(c echo.Context) error {
	var req dto.AssignOrderRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	order, err := ctrl.orderService.Assign(c.Request().Context(), c.Param("id"), req.Phlebotomist, req.Logistic)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "order assigned", order)
}

func (ctrl *OrderController) AppendStatus(c echo.Context) error {
	var req dto.AppendStatusRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	order, err := ctrl.workflowService.AppendStatus(c.Request().Context(), c.Param("id"), req.Status, dto.RequestTime(req.Timestamp))
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "status appended", order)
}

func (ctrl *OrderController) AddNote(c echo.Context) error {
	var req dto.AddNoteRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	order, err := ctrl.workflowService.AddNote(c.Request().Context(), c.Param("id"), req.Note, dto.RequestTime(req.Timestamp))
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "note added", order)
}

// Complete accepts a multipart form: a "payload" JSON part with note, tubes,
// collection date/time and timestamp, any number of "pictures" file parts,
// and an optional single "attachment" part.
func (ctrl *OrderController) Complete(c echo.Context) error {
	var req dto.CompleteOrderRequest
	if raw := c.FormValue("payload"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return api.ErrorResponse(c, apperrors.NewInvalidInputError("malformed payload: %v", err))
		}
		if err := c.Validate(&req); err != nil {
			return api.ErrorResponse(c, err)
		}
	}

	input := services.CompleteInput{
		Note:           req.Note,
		CollectionDate: dto.OptionalTime(req.CollectionDate),
		CollectionTime: dto.OptionalTime(req.CollectionTime),
		CompletedAt:    dto.RequestTime(req.Timestamp),
	}
	for _, tube := range req.Tubes {
		input.Tubes = append(input.Tubes, entities.NewCollectionTube(tube.Name, tube.Quantity))
	}

	form, err := c.MultipartForm()
	if err == nil && form != nil {
		for _, fileHeader := range form.File["pictures"] {
			src, err := fileHeader.Open()
			if err != nil {
				ctrl.logger.Warn("cannot open uploaded picture", zap.Error(err))
				continue
			}
			defer src.Close()
			input.Pictures = append(input.Pictures, services.Upload{
				FileName: fileHeader.Filename,
				Content:  src,
			})
		}
		if attachments := form.File["attachment"]; len(attachments) > 0 {
			src, err := attachments[0].Open()
			if err != nil {
				ctrl.logger.Warn("cannot open uploaded attachment", zap.Error(err))
			} else {
				defer src.Close()
				input.Attachment = &services.Upload{
					FileName: attachments[0].Filename,
					Content:  src,
				}
			}
		}
	}

	order, err := ctrl.workflowService.Complete(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "order completed", order)
}

func (ctrl *OrderController) Fail(c echo.Context) error {
	var req dto.FailOrderRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	order, err := ctrl.workflowService.Fail(c.Request().Context(), c.Param("id"), req.Note, dto.RequestTime(req.Timestamp))
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "order marked failed", order)
}
