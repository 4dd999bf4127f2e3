package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/schoolhub/school-api/internal/core/domain"
	"github.com/schoolhub/school-api/internal/core/ports"
)

// ResourceHandler serves the CRUD endpoints of one school entity. Bodies
// are decoded strictly: a field the entity does not declare is a 400.
type ResourceHandler[T any, P any] struct {
	service ports.ResourceService[T, P]
	label   string
}

// NewResourceHandler wraps service; label is the singular entity name used
// in error messages ("class not found").
func NewResourceHandler[T any, P any](service ports.ResourceService[T, P], label string) *ResourceHandler[T, P] {
	return &ResourceHandler[T, P]{service: service, label: label}
}

func (h *ResourceHandler[T, P]) List(c echo.Context) error {
	c.Set(ResourceKey, h.label)

	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ResourceHandler[T, P]) Get(c echo.Context) error {
	c.Set(ResourceKey, h.label)

	id, err := pathID(c)
	if err != nil {
		return err
	}

	item, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ResourceHandler[T, P]) Create(c echo.Context) error {
	c.Set(ResourceKey, h.label)

	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	item := new(T)
	if err := decodeStrict(c, item); err != nil {
		return err
	}
	if err := c.Validate(item); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), principal, item)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update serves both PUT and PATCH: only the fields present in the body
// are written.
func (h *ResourceHandler[T, P]) Update(c echo.Context) error {
	c.Set(ResourceKey, h.label)

	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	patch := new(P)
	if err := decodeStrict(c, patch); err != nil {
		return err
	}
	if err := c.Validate(patch); err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), principal, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *ResourceHandler[T, P]) Delete(c echo.Context) error {
	c.Set(ResourceKey, h.label)

	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", domain.ErrValidation)
	}
	return id, nil
}

func decodeStrict(c echo.Context, dst any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		// Body limit and similar read failures keep their own status.
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", domain.ErrValidation)
		}
		return fmt.Errorf("%w: invalid payload: %v", domain.ErrValidation, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: invalid payload: trailing data", domain.ErrValidation)
	}
	return nil
}
