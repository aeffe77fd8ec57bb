package cli

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/candidhq/intake/internal/core/config"
	"github.com/candidhq/intake/internal/core/domain"
	"github.com/candidhq/intake/internal/infra/endpoint"
	"github.com/candidhq/intake/internal/intake/countries"
	"github.com/candidhq/intake/internal/intake/retry"
	"github.com/candidhq/intake/internal/intake/submit"
	"github.com/candidhq/intake/internal/intake/validate"
)

var submitFlags struct {
	name     string
	email    string
	country  string
	phone    string
	position string
	note     string
	channels []string
	cvPath   string
	endpoint string
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a job application from the command line",
	Run:   runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitFlags.name, "name", "", "full name")
	submitCmd.Flags().StringVar(&submitFlags.email, "email", "", "email address")
	submitCmd.Flags().StringVar(&submitFlags.country, "country", "", "ISO country code, e.g. HR")
	submitCmd.Flags().StringVar(&submitFlags.phone, "phone", "", "national phone number")
	submitCmd.Flags().StringVar(&submitFlags.position, "position", "", "position applied for")
	submitCmd.Flags().StringVar(&submitFlags.note, "note", "", "cover note")
	submitCmd.Flags().StringSliceVar(&submitFlags.channels, "channel", nil, "how you heard about the position (repeatable)")
	submitCmd.Flags().StringVar(&submitFlags.cvPath, "cv", "", "path to the CV file")
	submitCmd.Flags().StringVar(&submitFlags.endpoint, "endpoint", "", "override the intake endpoint URL")
	rootCmd.AddCommand(submitCmd)
}

// terminalSink renders submission progress to stderr.
type terminalSink struct{}

func (terminalSink) StateChanged(s submit.State) {
	slog.Debug("State changed", "state", s)
}

func (terminalSink) FieldInvalid(res validate.Result) {
	fmt.Fprintf(os.Stderr, "  field %s: %s\n", res.FieldID, res.Message)
}

func (terminalSink) ShowMessage(kind submit.MessageKind, msg string) {
	switch kind {
	case submit.MessageSuccess:
		fmt.Fprintln(os.Stderr, "✓ "+msg)
	default:
		fmt.Fprintln(os.Stderr, "✗ "+msg)
	}
}

func runSubmit(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		setupLogging(config.LoggingConfig{})
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg.Logging)

	url := cfg.Submit.EndpointURL
	if submitFlags.endpoint != "" {
		url = submitFlags.endpoint
	}

	form := submit.Form{
		Values: map[string]string{
			"full_name":  submitFlags.name,
			"email":      submitFlags.email,
			"country":    submitFlags.country,
			"phone":      submitFlags.phone,
			"position":   submitFlags.position,
			"cover_note": submitFlags.note,
		},
		Channels: submitFlags.channels,
	}

	if submitFlags.cvPath != "" {
		data, err := os.ReadFile(submitFlags.cvPath)
		if err != nil {
			slog.Error("Failed to read CV file", "path", submitFlags.cvPath, "error", err)
			os.Exit(1)
		}
		name := filepath.Base(submitFlags.cvPath)
		form.Files = append(form.Files, domain.FilePart{
			FieldID:     "cv",
			Filename:    name,
			ContentType: mime.TypeByExtension(filepath.Ext(name)),
			Data:        data,
		})
	}

	registry := countries.NewRegistry()
	warnStrictPhone(registry, form.Values["phone"], form.Values["country"])

	policy := retry.Policy{
		MaxRetries: cfg.Submit.MaxRetries,
		BaseDelay:  cfg.Submit.BaseDelay,
		MaxDelay:   cfg.Submit.MaxDelay,
	}
	transport := endpoint.NewClient(url, cfg.Submit.Timeout)
	orch := submit.New(submit.DefaultFieldSpecs(), registry, transport, policy, terminalSink{})

	outcome := orch.Submit(context.Background(), form)
	if outcome.State != submit.StateSucceeded {
		os.Exit(1)
	}
}

// warnStrictPhone runs the carrier-grade number check. It is advisory
// only; a number the lenient pattern accepts is still submitted.
func warnStrictPhone(registry *countries.Registry, phone, iso string) {
	if phone == "" || iso == "" {
		return
	}
	valid, checked := registry.StrictValidate(phone, iso)
	if checked && !valid {
		slog.Warn("Phone number failed strict validation, submitting anyway", "phone", phone, "country", iso)
	}
}
