package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterContactRoutes(g *echo.Group) {
	g.GET("", s.handleListContacts)
	g.POST("", s.handleAddContact)
	g.PUT("/:id", s.handleUpdateContact)
	g.DELETE("/:id", s.handleDeleteContact)
}

// handleListContacts godoc
// @Summary List contacts
// @Description List the caller's contacts, newest first
// @Tags contacts
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} contact.Contact
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/contacts [get]
func (s *Server) handleListContacts(c echo.Context) error {
	contacts, err := s.ContactService.ListContacts(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, contacts)
}

// handleAddContact godoc
// @Summary Add contact
// @Tags contacts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param payload body ContactRequest true "Contact"
// @Success 200 {object} contact.Contact
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/contacts [post]
func (s *Server) handleAddContact(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}

	created, err := s.ContactService.AddContact(c.Request().Context(), currentUser(c), req.ToInput())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, created)
}

// handleUpdateContact godoc
// @Summary Update contact
// @Description Replace name, email and phone of a contact the caller owns
// @Tags contacts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Contact id"
// @Param payload body ContactRequest true "Contact"
// @Success 200 {object} contact.Contact
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/contacts/{id} [put]
func (s *Server) handleUpdateContact(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}

	updated, err := s.ContactService.UpdateContact(c.Request().Context(), currentUser(c), c.Param("id"), req.ToInput())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

// handleDeleteContact godoc
// @Summary Delete contact
// @Tags contacts
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Contact id"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/contacts/{id} [delete]
func (s *Server) handleDeleteContact(c echo.Context) error {
	if err := s.ContactService.DeleteContact(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MessageResponse{Msg: "Contact removed"})
}
