package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hrmanager/hrm-api/internal/api/metrics"
	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
)

// ResourceHandler exposes the uniform resource contract of one kind over HTTP.
// The same handler type serves every kind; the route table decides which of
// its methods are reachable.
type ResourceHandler[T any] struct {
	service ports.ResourceService[T]
}

func NewResourceHandler[T any](service ports.ResourceService[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{service: service}
}

// Kind reports the resource kind served by h.
func (h *ResourceHandler[T]) Kind() domain.Kind { return h.service.Kind() }

// List handles GET /api/<kind>.
//
// @Summary      List resources of a kind, newest first
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        kind    path      string  true   "Resource kind"
// @Param        limit   query     int     false  "Maximum number of items"
// @Param        offset  query     int     false  "Number of items to skip"
// @Success      200     {object}  DataEnvelope
// @Failure      400     {object}  ErrorEnvelope
// @Failure      401     {object}  ErrorEnvelope
// @Router       /api/{kind} [get]
func (h *ResourceHandler[T]) List(c echo.Context) error {
	opts, err := listOptions(c)
	if err != nil {
		return err
	}
	items, err := h.service.List(c.Request().Context(), opts)
	if err != nil {
		return err
	}
	return ok(c, items)
}

// Get handles GET /api/<kind>/:id.
//
// @Summary      Get one resource
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "Resource kind"
// @Param        id    path      string  true  "Resource id"
// @Success      200   {object}  DataEnvelope
// @Failure      401   {object}  ErrorEnvelope
// @Failure      404   {object}  ErrorEnvelope
// @Router       /api/{kind}/{id} [get]
func (h *ResourceHandler[T]) Get(c echo.Context) error {
	entity, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, entity)
}

// Create handles POST /api/<kind>.
//
// @Summary      Create a resource
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "Resource kind"
// @Success      201   {object}  DataEnvelope
// @Failure      400   {object}  ErrorEnvelope
// @Failure      401   {object}  ErrorEnvelope
// @Failure      409   {object}  ErrorEnvelope
// @Router       /api/{kind} [post]
func (h *ResourceHandler[T]) Create(c echo.Context) error {
	entity := new(T)
	if err := bindBody(c, entity); err != nil {
		return err
	}
	out, err := h.service.Create(c.Request().Context(), entity)
	if err != nil {
		return err
	}
	return created(c, out)
}

// Update handles PUT /api/<kind>/:id. The body replaces the stored entity.
//
// @Summary      Replace a resource
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "Resource kind"
// @Param        id    path      string  true  "Resource id"
// @Success      200   {object}  DataEnvelope
// @Failure      400   {object}  ErrorEnvelope
// @Failure      401   {object}  ErrorEnvelope
// @Failure      404   {object}  ErrorEnvelope
// @Router       /api/{kind}/{id} [put]
func (h *ResourceHandler[T]) Update(c echo.Context) error {
	entity := new(T)
	if err := bindBody(c, entity); err != nil {
		return err
	}
	out, err := h.service.Update(c.Request().Context(), c.Param("id"), entity)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Delete handles DELETE /api/<kind>/:ids where ids is a comma separated list.
//
// @Summary      Delete resources by a comma separated id list
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "Resource kind"
// @Param        ids   path      string  true  "Comma separated ids"
// @Success      200   {object}  DataEnvelope
// @Failure      400   {object}  ErrorEnvelope
// @Failure      401   {object}  ErrorEnvelope
// @Failure      404   {object}  ErrorEnvelope
// @Router       /api/{kind}/{ids} [delete]
func (h *ResourceHandler[T]) Delete(c echo.Context) error {
	res, err := h.service.BatchDelete(c.Request().Context(), c.Param("ids"))
	if err != nil {
		return err
	}
	kind := string(h.service.Kind())
	metrics.BatchDeleteIDsTotal.WithLabelValues(kind, "deleted").Add(float64(len(res.Deleted)))
	metrics.BatchDeleteIDsTotal.WithLabelValues(kind, "not_found").Add(float64(len(res.NotFound)))
	return ok(c, res)
}

func listOptions(c echo.Context) (domain.ListOptions, error) {
	var opts domain.ListOptions
	for name, dst := range map[string]*int{"limit": &opts.Limit, "offset": &opts.Offset} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opts, domain.Validationf("%s must be a non-negative integer", name)
		}
		*dst = n
	}
	return opts, nil
}

// bindBody decodes the JSON body only; path and query parameters never reach
// the entity.
func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return domain.Validationf("invalid payload")
	}
	return nil
}
