package v1

import (
	"errors"
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

const (
	msgFieldErrors     = "Please correct the highlighted fields."
	msgMalformedBody   = "Request body must be a JSON object."
	msgBodyTooLarge    = "Message is too large."
	msgUnavailable     = "Contact service temporarily unavailable"
	msgSendFailed      = "Failed to send message. Please try again later."
	defaultMaxBodySize = 64 << 10
)

type ContactHandler struct {
	contactUC    domain.ContactUsecase
	validator    *validation.Validator
	maxBodyBytes int64
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, validator *validation.Validator, maxBodyBytes int64) {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodySize
	}
	handler := &ContactHandler{
		contactUC:    contactUC,
		validator:    validator,
		maxBodyBytes: maxBodyBytes,
	}

	public.POST("/contact", handler.SubmitContact)
	public.GET("/contact/schema", handler.GetSchema)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Validate a contact form submission, store it and email the site owner.
// @Description  201 means stored and relayed, 202 means stored but the email could not be sent.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactSubmission  true  "Contact Form Data"
// @Success      201      {object}  response.Response{data=domain.SubmitResult}
// @Success      202      {object}  response.Response{data=domain.SubmitResult}
// @Failure      400      {object}  response.Response
// @Failure      413      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	// Decoded loosely so that wrong field types surface as field errors
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.PayloadTooLarge(msgBodyTooLarge))
			return
		}
		c.Error(apperror.BadRequest(msgMalformedBody))
		return
	}
	if raw == nil {
		c.Error(apperror.BadRequest(msgMalformedBody))
		return
	}

	meta := domain.RequestMeta{
		RequestID: c.GetString(response.RequestIDKey),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	result, err := h.contactUC.Submit(c.Request.Context(), raw, meta)
	if err != nil {
		c.Error(contactError(err))
		return
	}

	status := http.StatusCreated
	if !result.Notified {
		status = http.StatusAccepted
	}
	response.Success(c, status, result.Message, result)
}

// GetSchema godoc
// @Summary      Contact Form Rules
// @Description  Field rules the contact form is validated against, for client-side hints.
// @Tags         contact
// @Produce      json
// @Success      200  {object}  response.Response{data=[]validation.FieldRule}
// @Router       /contact/schema [get]
func (h *ContactHandler) GetSchema(c *gin.Context) {
	response.Success(c, http.StatusOK, "Contact form rules", h.validator.Schema())
}

// contactError maps pipeline failures to client-safe errors
func contactError(err error) *apperror.AppError {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return apperror.BadRequest(msgFieldErrors).WithDetails(ve.Fields)
	case errors.Is(err, domain.ErrMailNotConfigured):
		return apperror.ServiceUnavailable(msgUnavailable, err)
	case errors.Is(err, domain.ErrStorage):
		return apperror.New(http.StatusInternalServerError, msgSendFailed, err)
	case errors.Is(err, domain.ErrMailTransport):
		return apperror.BadGateway(msgSendFailed, err)
	}
	return apperror.New(http.StatusInternalServerError, msgSendFailed, err)
}
