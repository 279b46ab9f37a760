package handler

import (
	"errors"
	"runtime"

	"github.com/labstack/echo/v4"

	"github.com/hrmanager/hrm-api/internal/api/metrics"
	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
)

// InstallHandler serves the first-run endpoints. None of them require a token.
type InstallHandler struct {
	service ports.InstallService
	version string
}

func NewInstallHandler(service ports.InstallService, version string) *InstallHandler {
	return &InstallHandler{service: service, version: version}
}

type versionResponse struct {
	// NodeVersion keeps the key the front-end reads; it carries the Go runtime version.
	NodeVersion string `json:"node_version"`
	Version     string `json:"version"`
}

type installResponse struct {
	User     *domain.User      `json:"user"`
	Settings []*domain.Setting `json:"settings"`
}

// Version reports the runtime and application versions.
//
// @Summary      Version
// @Tags         system
// @Produce      json
// @Success      200  {object}  DataEnvelope{data=versionResponse}
// @Router       /api/version [get]
func (h *InstallHandler) Version(c echo.Context) error {
	return ok(c, versionResponse{NodeVersion: runtime.Version(), Version: h.version})
}

// Initial reports whether the system has been installed.
//
// @Summary      Installation state
// @Tags         system
// @Produce      json
// @Success      200  {object}  DataEnvelope{data=domain.InstallationStatus}
// @Failure      500  {object}  ErrorEnvelope
// @Router       /api/initial [get]
func (h *InstallHandler) Initial(c echo.Context) error {
	status, err := h.service.CheckInitialState(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, status)
}

// Install creates the first administrator and the settings.
//
// @Summary      Install
// @Tags         system
// @Accept       json
// @Produce      json
// @Param        body  body      ports.InstallInput  true  "Administrator and settings"
// @Success      201   {object}  DataEnvelope{data=installResponse}
// @Failure      400   {object}  ErrorEnvelope
// @Failure      409   {object}  ErrorEnvelope
// @Router       /api/install [post]
func (h *InstallHandler) Install(c echo.Context) error {
	var in ports.InstallInput
	if err := bindBody(c, &in); err != nil {
		metrics.InstallAttemptsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	res, err := h.service.Install(c.Request().Context(), in)
	if err != nil {
		metrics.InstallAttemptsTotal.WithLabelValues(installResult(err)).Inc()
		return err
	}

	metrics.InstallAttemptsTotal.WithLabelValues("installed").Inc()
	return created(c, installResponse{User: res.Admin, Settings: res.Settings})
}

func installResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyInstalled):
		return "already_installed"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
