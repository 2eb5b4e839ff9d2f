package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nexiot/site-backend/internal/core/domain"
	"github.com/nexiot/site-backend/internal/core/ports"
)

const acceptedMessage = "Thank you for contacting us. We will get back to you shortly."

// ContactHandler handles the public contact form and its admin listing.
type ContactHandler struct {
	service ports.ContactService
}

func NewContactHandler(service ports.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// Submit handles POST /contact.
//
// @Summary      Submit the contact form
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest  true  "Contact form"
// @Success      200   {object}  contactResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /contact [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrMalformedRequest
	}

	res, err := h.service.Submit(c.Request().Context(), ports.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, contactResponse{Message: acceptedMessage, ID: res.ID})
}

// List handles GET /admin/contacts.
//
// @Summary      List contact submissions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (max 100)"
// @Param        offset  query     int  false  "Rows to skip"
// @Success      200     {object}  listContactsResponse
// @Failure      401     {object}  messageResponse
// @Failure      500     {object}  messageResponse
// @Router       /admin/contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	opts := domain.ContactListOptions{
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	}.Normalize()

	items, err := h.service.List(c.Request().Context(), opts)
	if err != nil {
		return err
	}

	data := make([]contactItemResponse, len(items))
	for i, s := range items {
		data[i] = contactItemResponse{
			ID:        s.ID,
			Name:      s.Name,
			Email:     s.Email,
			Phone:     s.Phone,
			Subject:   s.Subject,
			Message:   s.Message,
			CreatedAt: s.CreatedAt.UTC(),
		}
	}

	return c.JSON(http.StatusOK, listContactsResponse{
		Data: data,
		Pagination: paginationResponse{
			Limit:  opts.Limit,
			Offset: opts.Offset,
			Count:  len(data),
		},
	})
}

// queryInt returns 0 for absent or unparsable values; the service applies defaults.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}
