package server

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/candidhq/intake/internal/core/domain"
	"github.com/candidhq/intake/internal/infra/storage"
	"github.com/candidhq/intake/internal/intake/validate"
	"github.com/candidhq/intake/internal/metrics"
)

// Legacy wire messages the deployed form matches on. The duplicate
// wording must keep the "ya aplicó anteriormente" substring; changing it
// breaks the client's error classification.
const (
	duplicateWireMessage = "El candidato ya aplicó anteriormente para esta posición"
	validationPrefix     = "⚠ "
)

const dedupeTTL = 24 * time.Hour

const maxUploadBytes = 12 << 20

// handleSubmit is the public intake endpoint: a multipart POST carrying
// the form fields plus attachments. The server re-runs the same field
// validation the client performs.
func (s *Server) handleSubmit(c *gin.Context) {
	start := time.Now()
	defer func() {
		metrics.SubmissionDuration.Observe(time.Since(start).Seconds())
	}()

	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid multipart payload"})
		return
	}

	form, fileHeader := s.parseForm(c)
	country := s.lookupCountry(form.Values["country"])

	valid, first := s.validator.All(s.specs, validate.Form{
		Values:  form.Values,
		Files:   form.Files,
		Country: country,
	})
	if !valid {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": validationPrefix + first.Message,
			"field":   first.FieldID,
		})
		return
	}

	email := form.Values["email"]
	position := form.Values["position"]

	// Fast-path duplicate check; the DB unique index is the authority.
	if s.dedupe != nil {
		fresh, err := s.dedupe.MarkSubmission(c.Request.Context(), email, position, dedupeTTL)
		if err != nil {
			s.log.Warn("Dedupe guard unavailable", "error", err)
		} else if !fresh {
			exists, err := s.repo.ExistsByEmailPosition(c.Request.Context(), email, position)
			if err == nil && exists {
				metrics.DuplicatesTotal.Inc()
				metrics.SubmissionsTotal.WithLabelValues("duplicate").Inc()
				c.JSON(http.StatusConflict, gin.H{"success": false, "message": duplicateWireMessage})
				return
			}
		}
	}

	app := &domain.Application{
		ID:         uuid.NewString(),
		FullName:   form.Values["full_name"],
		Email:      email,
		Phone:      form.Values["phone"],
		CountryISO: strings.ToUpper(form.Values["country"]),
		Position:   position,
		CoverNote:  form.Values["cover_note"],
		Channels:   form.Values["channels"],
		Status:     domain.StatusReceived,
	}

	if fileHeader != nil {
		key, err := s.storeCV(c, app.ID, fileHeader)
		if err != nil {
			s.log.Error("Failed to store attachment", "error", err)
			metrics.SubmissionsTotal.WithLabelValues("error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not store attachment"})
			return
		}
		app.CVKey = key
	}

	if err := s.repo.Save(c.Request.Context(), app); err != nil {
		if err == storage.ErrDuplicateApplication {
			metrics.DuplicatesTotal.Inc()
			metrics.SubmissionsTotal.WithLabelValues("duplicate").Inc()
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": duplicateWireMessage})
			return
		}
		s.log.Error("Failed to save application", "error", err)
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not save application"})
		return
	}

	s.log.Info("Application received",
		"id", app.ID, "position", app.Position, "country", app.CountryISO)
	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()

	if s.mailer != nil {
		go func(app domain.Application) {
			if err := s.mailer.ApplicationReceived(&app); err != nil {
				metrics.MailSendsTotal.WithLabelValues("error").Inc()
				s.log.Warn("Failed to send confirmation mail", "id", app.ID, "error", err)
				return
			}
			metrics.MailSendsTotal.WithLabelValues("ok").Inc()
		}(*app)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Application received", "id": app.ID})
}

type parsedForm struct {
	Values map[string]string
	Files  map[string]*validate.FileInfo
}

// parseForm flattens the multipart form: scalar fields by name, the
// channels multi-select joined into one field, and the cv part described
// for validation without loading it.
func (s *Server) parseForm(c *gin.Context) (parsedForm, *fileRef) {
	form := parsedForm{
		Values: make(map[string]string),
		Files:  make(map[string]*validate.FileInfo),
	}

	for key, vals := range c.Request.MultipartForm.Value {
		if len(vals) == 0 {
			continue
		}
		if key == "channels" {
			form.Values[key] = strings.Join(vals, ", ")
			continue
		}
		form.Values[key] = strings.TrimSpace(vals[0])
	}

	var ref *fileRef
	if headers := c.Request.MultipartForm.File["cv"]; len(headers) > 0 {
		h := headers[0]
		form.Files["cv"] = &validate.FileInfo{
			Name:        h.Filename,
			Size:        h.Size,
			ContentType: h.Header.Get("Content-Type"),
		}
		ref = &fileRef{header: h}
	}
	return form, ref
}

type fileRef struct {
	header *multipart.FileHeader
}

func (s *Server) lookupCountry(iso string) *domain.CountryEntry {
	if iso == "" {
		return nil
	}
	entry, err := s.registry.Resolve(iso)
	if err != nil {
		return nil
	}
	return &entry
}

func (s *Server) storeCV(c *gin.Context, appID string, ref *fileRef) (string, error) {
	f, err := ref.header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := "cv/" + appID + strings.ToLower(filepath.Ext(ref.header.Filename))
	if err := s.blobs.Put(c.Request.Context(), key, f); err != nil {
		return "", err
	}
	metrics.UploadBytes.Observe(float64(ref.header.Size))
	return key, nil
}
