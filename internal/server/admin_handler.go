package server

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/candidhq/intake/internal/core/domain"
	"github.com/candidhq/intake/internal/infra/storage"
	"github.com/candidhq/intake/internal/metrics"
)

// handleCountries serves the selector data for the public form.
func (s *Server) handleCountries(c *gin.Context) {
	type entry struct {
		ISO         string `json:"iso"`
		CallingCode string `json:"calling_code"`
		Name        string `json:"name"`
		Flag        string `json:"flag"`
		Hint        string `json:"hint"`
	}

	all := s.registry.All()
	out := make([]entry, 0, len(all))
	for _, ce := range all {
		out = append(out, entry{
			ISO:         ce.ISO,
			CallingCode: ce.CallingCode,
			Name:        ce.Name,
			Flag:        ce.Flag,
			Hint:        s.registry.FormatHint(ce.CallingCode),
		})
	}
	c.JSON(http.StatusOK, gin.H{"countries": out})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	token, err := s.authSvc.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// requireAdmin authenticates admin routes with a bearer token.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := s.authSvc.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("admin", claims.Email)
		c.Next()
	}
}

func listFilterFromQuery(c *gin.Context) storage.ListFilter {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return storage.ListFilter{
		Status:   domain.ApplicationStatus(c.Query("status")),
		Position: c.Query("position"),
		Search:   c.Query("q"),
		Limit:    limit,
		Offset:   offset,
	}
}

func (s *Server) handleList(c *gin.Context) {
	filter := listFilterFromQuery(c)
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	apps, err := s.repo.List(c.Request.Context(), filter)
	if err != nil {
		s.log.Error("Failed to list applications", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applications"})
		return
	}
	total, err := s.repo.Count(c.Request.Context(), filter)
	if err != nil {
		s.log.Error("Failed to count applications", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total, "items": apps})
}

func (s *Server) handleGet(c *gin.Context) {
	app, err := s.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err == storage.ErrApplicationNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}
	if err != nil {
		s.log.Error("Failed to get application", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get application"})
		return
	}
	c.JSON(http.StatusOK, app)
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	var req struct {
		Status domain.ApplicationStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if !domain.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	app, err := s.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err == storage.ErrApplicationNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}
	if err != nil {
		s.log.Error("Failed to get application", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get application"})
		return
	}

	if !domain.CanTransition(app.Status, req.Status) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "illegal transition from " + string(app.Status) + " to " + string(req.Status),
		})
		return
	}

	if err := s.repo.UpdateStatus(c.Request.Context(), app.ID, req.Status); err != nil {
		s.log.Error("Failed to update status", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}

	previous := app.Status
	app.Status = req.Status
	metrics.StatusChangesTotal.WithLabelValues(string(req.Status)).Inc()
	s.log.Info("Status updated", "id", app.ID, "from", previous, "to", req.Status, "by", c.GetString("admin"))

	if s.mailer != nil {
		go func(app domain.Application, previous domain.ApplicationStatus) {
			if err := s.mailer.StatusChanged(&app, previous); err != nil {
				metrics.MailSendsTotal.WithLabelValues("error").Inc()
				s.log.Warn("Failed to send status mail", "id", app.ID, "error", err)
				return
			}
			metrics.MailSendsTotal.WithLabelValues("ok").Inc()
		}(*app, previous)
	}

	c.JSON(http.StatusOK, app)
}

// handleExport streams the filtered applications as CSV.
func (s *Server) handleExport(c *gin.Context) {
	filter := listFilterFromQuery(c)
	filter.Limit = 0
	filter.Offset = 0

	apps, err := s.repo.List(c.Request.Context(), filter)
	if err != nil {
		s.log.Error("Failed to export applications", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export applications"})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="applications.csv"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"id", "full_name", "email", "phone", "country", "position", "channels", "status", "created_at"})
	for _, app := range apps {
		_ = w.Write([]string{
			app.ID, app.FullName, app.Email, app.Phone, app.CountryISO,
			app.Position, app.Channels, string(app.Status),
			app.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	w.Flush()
}
