package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brbanco/go-account-opening/internal/requests"
	"github.com/brbanco/go-account-opening/internal/validation"
)

// RequestStore is the slice of the request store the API needs.
type RequestStore interface {
	Create(ctx context.Context, rec requests.Record) (*requests.Record, error)
	Get(ctx context.Context, id int64) (*requests.Record, error)
	GetByCPF(ctx context.Context, cpf string) (*requests.Record, error)
	ExistsActiveByCPF(ctx context.Context, cpf string) (bool, error)
}

// PipelineStarter triggers the validation pipeline after creation.
type PipelineStarter interface {
	StartAsync(ctx context.Context, requestID int64)
}

// HandlerConfig groups dependencies for the requests handler.
type HandlerConfig struct {
	Store        RequestStore
	Orchestrator PipelineStarter
}

// requestResponse is the API representation of a request record.
type requestResponse struct {
	ID              int64  `json:"id"`
	CPF             string `json:"cpf"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Brand           string `json:"brand"`
	Status          string `json:"status"`
	AccountNumber   string `json:"accountNumber,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

func toResponse(rec *requests.Record) requestResponse {
	return requestResponse{
		ID:              rec.ID,
		CPF:             rec.CPF,
		Name:            rec.Name,
		Email:           rec.Email,
		Phone:           rec.Phone,
		Brand:           string(rec.Brand),
		Status:          rec.Status,
		AccountNumber:   rec.AccountNumber,
		RejectionReason: rec.RejectionReason,
		CreatedAt:       rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       rec.UpdatedAt.Format(time.RFC3339),
	}
}

// RegisterRequestRoutes registers routes for the account-opening API.
func RegisterRequestRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.POST("/requests", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateAccountRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		// Duplicate check is advisory; the window between check and
		// create is accepted.
		exists, err := cfg.Store.ExistsActiveByCPF(ctx, req.CPF)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cpf_check_failed", "detail": err.Error()})
			return
		}
		if exists {
			c.JSON(http.StatusConflict, gin.H{
				"error": "account_already_exists",
				"msg":   "an active account already exists for this cpf",
			})
			return
		}

		rec, err := cfg.Store.Create(ctx, requests.Record{
			CPF:   req.CPF,
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
			Brand: requests.ParseBrand(req.Brand),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create_failed", "detail": err.Error()})
			return
		}

		// Validation runs after the creating write is durable; the
		// response never waits on the pipeline.
		cfg.Orchestrator.StartAsync(ctx, rec.ID)

		c.Header("Location", "/requests/"+strconv.FormatInt(rec.ID, 10))
		c.JSON(http.StatusCreated, toResponse(rec))
	})

	r.GET("/requests/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_id"})
			return
		}

		rec, err := cfg.Store.Get(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get_failed", "detail": err.Error()})
			return
		}
		if rec == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "request_not_found"})
			return
		}
		c.JSON(http.StatusOK, toResponse(rec))
	})

	r.GET("/requests/cpf/:cpf", func(c *gin.Context) {
		rec, err := cfg.Store.GetByCPF(c.Request.Context(), c.Param("cpf"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get_failed", "detail": err.Error()})
			return
		}
		if rec == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "request_not_found"})
			return
		}
		c.JSON(http.StatusOK, toResponse(rec))
	})

	r.GET("/requests/cpf/:cpf/exists", func(c *gin.Context) {
		exists, err := cfg.Store.ExistsActiveByCPF(c.Request.Context(), c.Param("cpf"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cpf_check_failed", "detail": err.Error()})
			return
		}
		// Body is a bare JSON boolean, not an object.
		c.JSON(http.StatusOK, exists)
	})
}
