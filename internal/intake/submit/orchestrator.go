package submit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/candidhq/intake/internal/core/domain"
	"github.com/candidhq/intake/internal/intake/countries"
	"github.com/candidhq/intake/internal/intake/retry"
	"github.com/candidhq/intake/internal/intake/validate"
)

// State is one step of the submission state machine.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateInvalid    State = "invalid"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Transport sends one assembled payload to the intake endpoint.
// The orchestrator wraps it with the retry executor.
type Transport interface {
	Send(ctx context.Context, payload *domain.SubmissionPayload) error
}

// StatusSink receives state transitions and user-facing messages.
// Exactly one message is delivered per terminal outcome.
type StatusSink interface {
	StateChanged(s State)
	FieldInvalid(res validate.Result)
	ShowMessage(kind MessageKind, msg string)
}

// Form is the raw user input for one submission attempt.
type Form struct {
	Values   map[string]string
	Channels []string // auxiliary multi-select, joined into one field
	Files    []domain.FilePart
}

// Outcome is the terminal result of one Submit call.
type Outcome struct {
	State      State
	Kind       MessageKind
	Message    string
	FieldError *validate.Result
}

// Orchestrator drives one form submission end to end: validate, assemble
// the payload, send through the retry executor, classify the terminal
// result. At most one submission is in flight at a time.
type Orchestrator struct {
	specs     []validate.FieldSpec
	registry  *countries.Registry
	validator *validate.Validator
	transport Transport
	exec      *retry.Executor
	policy    retry.Policy
	sink      StatusSink
	log       *slog.Logger

	mu   sync.Mutex
	busy bool
}

// New creates an orchestrator. A nil sink discards status updates and a
// zero executor sleeps for real.
func New(specs []validate.FieldSpec, reg *countries.Registry, transport Transport, policy retry.Policy, sink StatusSink) *Orchestrator {
	if sink == nil {
		sink = nopSink{}
	}
	return &Orchestrator{
		specs:     specs,
		registry:  reg,
		validator: validate.New(reg),
		transport: transport,
		exec:      &retry.Executor{},
		policy:    policy,
		sink:      sink,
		log:       slog.Default().With("component", "submit"),
	}
}

// Submit runs the full pipeline for one form. A call made while another
// submission is in flight is a no-op returning a busy outcome; no second
// network call is issued.
func (o *Orchestrator) Submit(ctx context.Context, form Form) Outcome {
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		o.log.Debug("Submit ignored, submission already in flight")
		return Outcome{State: StateSubmitting, Kind: MessageNone}
	}
	o.busy = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.busy = false
		o.mu.Unlock()
	}()

	o.sink.StateChanged(StateValidating)

	country := o.resolveCountry(form)
	valid, first := o.validator.All(o.specs, validate.Form{
		Values:  form.Values,
		Files:   fileInfos(form.Files),
		Country: country,
	})
	if !valid {
		o.sink.StateChanged(StateInvalid)
		o.sink.FieldInvalid(*first)
		o.sink.ShowMessage(MessageValidation, first.Message)
		return Outcome{State: StateInvalid, Kind: MessageValidation, Message: first.Message, FieldError: first}
	}

	payload := BuildPayload(form, country)

	o.sink.StateChanged(StateSubmitting)
	attempt := &domain.SubmissionAttempt{Payload: payload}

	err := o.exec.Do(ctx, o.policy, func(ctx context.Context) error {
		attempt.AttemptNumber++
		sendErr := o.transport.Send(ctx, payload)
		if sendErr != nil {
			attempt.LastError = sendErr
			o.log.Debug("Submission attempt failed", "attempt", attempt.AttemptNumber, "error", sendErr)
		}
		return sendErr
	})

	if err == nil {
		o.sink.StateChanged(StateSucceeded)
		o.sink.ShowMessage(MessageSuccess, successMessage)
		return Outcome{State: StateSucceeded, Kind: MessageSuccess, Message: successMessage}
	}

	kind, msg := Classify(err)
	o.log.Warn("Submission failed", "attempts", attempt.AttemptNumber, "kind", kind, "error", err)
	o.sink.StateChanged(StateFailed)
	o.sink.ShowMessage(kind, msg)
	return Outcome{State: StateFailed, Kind: kind, Message: msg}
}

// resolveCountry maps the form's country selection to an entry. Every
// resolution failure yields nil, which the validator reports on the
// phone field rather than blocking the whole form silently.
func (o *Orchestrator) resolveCountry(form Form) *domain.CountryEntry {
	iso := form.Values["country"]
	if iso == "" {
		return nil
	}
	entry, err := o.registry.Resolve(iso)
	if err != nil {
		o.log.Debug("Country resolution failed", "iso", iso, "error", err)
		return nil
	}
	return &entry
}

func fileInfos(files []domain.FilePart) map[string]*validate.FileInfo {
	infos := make(map[string]*validate.FileInfo, len(files))
	for _, f := range files {
		infos[f.FieldID] = &validate.FileInfo{
			Name:        f.Filename,
			Size:        int64(len(f.Data)),
			ContentType: f.ContentType,
		}
	}
	return infos
}

type nopSink struct{}

func (nopSink) StateChanged(State)              {}
func (nopSink) FieldInvalid(validate.Result)    {}
func (nopSink) ShowMessage(MessageKind, string) {}
