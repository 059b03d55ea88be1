package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/domain"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/parser"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/prompt"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/repository"
	"github.com/seniordesign-sys/ideagen-backend/internal/llm"
	"github.com/seniordesign-sys/ideagen-backend/internal/logging"
)

// ErrCancelled is surfaced in State after Cancel stops a running generation.
var ErrCancelled = errors.New("generation cancelled")

type Step string

const (
	StepCredentials Step = "credentials"
	StepConstraints Step = "constraints"
	StepGenerating  Step = "generating"
	StepResult      Step = "result"
)

// Number is the step as shown to the user. Generating and Result share step 3.
func (s Step) Number() int {
	switch s {
	case StepCredentials:
		return 1
	case StepConstraints:
		return 2
	default:
		return 3
	}
}

// ModelClient produces raw completion text for a prompt.
type ModelClient interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// SettingsStore persists the credential and chosen model.
type SettingsStore interface {
	Load(ctx context.Context) (repository.Settings, error)
	SaveCredentials(ctx context.Context, apiKey, model string) error
}

// ProjectRepository stores generated batches. CommitIf stores a batch only while
// the collection is still at epoch and current holds, checked atomically with
// the write.
type ProjectRepository interface {
	Epoch() uint64
	CommitIf(ctx context.Context, epoch uint64, current func() bool, ideas []domain.Idea, constraints domain.ConstraintSet) ([]domain.Project, error)
	Get(id int64) (domain.Project, error)
}

type Config struct {
	DefaultModel     string
	MaxTokens        int
	Timeout          time.Duration
	ProgressInterval time.Duration
}

// State is a snapshot of a wizard.
type State struct {
	Step          Step                  `json:"step"`
	StepNumber    int                   `json:"step_number"`
	HasCredential bool                  `json:"has_credential"`
	Model         string                `json:"model"`
	Technologies  []string              `json:"technologies"`
	Constraints   *domain.ConstraintSet `json:"constraints,omitempty"`
	Generating    bool                  `json:"generating"`
	Progress      Stage                 `json:"progress"`
	Err           error                 `json:"-"`
	Error         string                `json:"error,omitempty"`
	Projects      []domain.Project      `json:"projects"`
	Fallback      bool                  `json:"fallback"`
	ActiveProject int64                 `json:"active_project,omitempty"`
}

type WizardOption func(*Wizard)

// WithStepListener registers fn to run after every step change and after each
// generation settles. fn is called without the wizard lock held.
func WithStepListener(fn func(State)) WizardOption {
	return func(w *Wizard) { w.onStep = fn }
}

// WithProgressListener registers fn to run on every loading stage.
func WithProgressListener(fn func(Stage)) WizardOption {
	return func(w *Wizard) { w.onProgress = fn }
}

func WithMetrics(m *Metrics) WizardOption {
	return func(w *Wizard) { w.metrics = m }
}

// Wizard drives one user through credentials, constraints and generation.
type Wizard struct {
	model    ModelClient
	settings SettingsStore
	projects ProjectRepository
	metrics  *Metrics
	cfg      Config

	onStep     func(State)
	onProgress func(Stage)

	mu          sync.Mutex
	step        Step
	credential  string
	modelName   string
	techs       *domain.TechSet
	constraints *domain.ConstraintSet
	generating  bool
	seq         uint64
	cancel      context.CancelFunc
	done        chan struct{}
	err         error
	result      []domain.Project
	fallback    bool
	progress    Stage
	active      int64
}

// NewWizard creates a wizard at the credentials step with the saved credential
// and model preloaded.
func NewWizard(ctx context.Context, model ModelClient, settings SettingsStore, projects ProjectRepository, cfg Config, opts ...WizardOption) *Wizard {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = llm.DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = llm.DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = llm.DefaultTimeout
	}

	w := &Wizard{
		model:    model,
		settings: settings,
		projects: projects,
		cfg:      cfg,
		step:     StepCredentials,
		techs:    domain.NewTechSet(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.metrics == nil {
		w.metrics = NewMetrics()
	}
	w.loadSettings(ctx)
	return w
}

func (w *Wizard) loadSettings(ctx context.Context) {
	w.modelName = w.cfg.DefaultModel
	w.credential = ""

	s, err := w.settings.Load(ctx)
	if err != nil {
		logging.NewLogger(ctx).LogWarnf("load_settings", "using defaults: %v", err)
		return
	}
	w.credential = s.APIKey
	if s.Model != "" {
		w.modelName = s.Model
	}
}

// SubmitCredentials validates and saves the credential, then moves to the
// constraints step. An invalid credential leaves the wizard unchanged.
func (w *Wizard) SubmitCredentials(ctx context.Context, credential, model string) error {
	credential = strings.TrimSpace(credential)
	model = strings.TrimSpace(model)
	if model == "" {
		model = w.cfg.DefaultModel
	}

	if !strings.HasPrefix(credential, domain.CredentialPrefix) {
		return &domain.ValidationError{
			Field:   "api_key",
			Message: fmt.Sprintf("must start with %q", domain.CredentialPrefix),
		}
	}

	w.mu.Lock()
	if w.step != StepCredentials {
		w.mu.Unlock()
		return fmt.Errorf("%w: credentials can only be submitted from step 1", domain.ErrInvalidTransition)
	}
	w.mu.Unlock()

	if err := w.settings.SaveCredentials(ctx, credential, model); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	w.mu.Lock()
	w.credential = credential
	w.modelName = model
	w.step = StepConstraints
	st := w.stateLocked()
	w.mu.Unlock()

	w.notify(st)
	return nil
}

// Back moves one step back. From generating or result it returns to the
// constraints step and abandons any running generation.
func (w *Wizard) Back() error {
	w.mu.Lock()
	switch w.step {
	case StepConstraints:
		w.step = StepCredentials
	case StepGenerating, StepResult:
		w.abortLocked()
		w.err = nil
		w.step = StepConstraints
	default:
		w.mu.Unlock()
		return fmt.Errorf("%w: already at the first step", domain.ErrInvalidTransition)
	}
	st := w.stateLocked()
	w.mu.Unlock()

	w.notify(st)
	return nil
}

// ToggleTechnology adds name to the preferred technologies, or removes it if it
// is already there. It reports whether name is selected afterwards.
func (w *Wizard) ToggleTechnology(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, &domain.ValidationError{Field: "name", Message: "must not be empty"}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.generating {
		return false, domain.ErrGenerationInFlight
	}
	return w.techs.Toggle(name), nil
}

// Generate validates constraints, moves to the generating step and starts the
// pipeline in the background. When constraints carry no technologies the
// current selection is used.
func (w *Wizard) Generate(ctx context.Context, constraints domain.ConstraintSet) error {
	epoch := w.projects.Epoch()

	w.mu.Lock()

	if w.generating {
		w.mu.Unlock()
		return domain.ErrGenerationInFlight
	}
	if w.step != StepConstraints {
		w.mu.Unlock()
		return fmt.Errorf("%w: generation starts from step 2", domain.ErrInvalidTransition)
	}
	if w.credential == "" {
		w.mu.Unlock()
		return domain.ErrNoCredential
	}

	cs := constraints.Clone()
	if len(cs.Technologies) == 0 {
		cs.Technologies = w.techs.Items()
	}
	cs.ProblemStatement = strings.TrimSpace(cs.ProblemStatement)
	if err := cs.Validate(); err != nil {
		w.mu.Unlock()
		return err
	}

	w.seq++
	seq := w.seq
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.cfg.Timeout)
	done := make(chan struct{})

	w.cancel = cancel
	w.done = done
	w.generating = true
	w.step = StepGenerating
	w.constraints = &cs
	w.err = nil
	w.result = nil
	w.fallback = false
	w.active = 0
	w.progress = Stages[0]

	req := llm.Request{
		Credential: w.credential,
		Model:      w.modelName,
		Prompt:     prompt.Build(cs),
		MaxTokens:  w.cfg.MaxTokens,
	}
	st := w.stateLocked()
	w.mu.Unlock()

	w.notify(st)
	w.emitProgress(Stages[0])

	go runProgress(pctx, w.cfg.ProgressInterval, func(s Stage) { w.setProgress(seq, s) })
	go w.run(pctx, cancel, done, seq, epoch, req, cs)
	return nil
}

func (w *Wizard) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}, seq, epoch uint64, req llm.Request, cs domain.ConstraintSet) {
	defer close(done)
	defer cancel()

	logger := logging.NewLogger(ctx)

	start := time.Now()
	raw, err := w.model.Complete(ctx, req)
	w.metrics.recordModelCall(time.Since(start), err)
	if err != nil {
		logger.LogError("generate", err)
		w.finish(ctx, seq, nil, false, err)
		return
	}

	res := parser.Parse(raw)
	if res.Fallback {
		w.metrics.recordFallback()
		logger.LogWarnf("generate", "model reply could not be parsed, using fallback idea: %v", res.Err)
	}

	current := func() bool { return w.isCurrent(seq) }
	projects, err := w.projects.CommitIf(ctx, epoch, current, res.Ideas, cs)
	if err != nil {
		if !errors.Is(err, repository.ErrStaleBatch) {
			logger.LogError("generate", err)
		}
		w.finish(ctx, seq, nil, false, err)
		return
	}
	w.finish(ctx, seq, projects, res.Fallback, nil)
}

func (w *Wizard) finish(ctx context.Context, seq uint64, projects []domain.Project, fallback bool, err error) {
	w.mu.Lock()
	if seq != w.seq || !w.generating {
		w.mu.Unlock()
		logging.NewLogger(ctx).LogInfof("generate", "dropping result of superseded generation %d", seq)
		return
	}

	w.generating = false
	w.cancel = nil
	if err != nil {
		w.err = err
	} else {
		w.step = StepResult
		w.result = projects
		w.fallback = fallback
		w.progress = Stages[len(Stages)-1]
	}
	st := w.stateLocked()
	w.mu.Unlock()

	w.metrics.recordGeneration(err)
	w.notify(st)
}

func (w *Wizard) isCurrent(seq uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return seq == w.seq && w.generating
}

func (w *Wizard) setProgress(seq uint64, s Stage) {
	w.mu.Lock()
	if seq != w.seq || !w.generating {
		w.mu.Unlock()
		return
	}
	w.progress = s
	w.mu.Unlock()

	w.emitProgress(s)
}

// Retry returns to the constraints step after a failed generation.
func (w *Wizard) Retry() error {
	w.mu.Lock()
	if w.step != StepGenerating || w.generating || w.err == nil {
		w.mu.Unlock()
		return fmt.Errorf("%w: nothing to retry", domain.ErrInvalidTransition)
	}
	w.err = nil
	w.step = StepConstraints
	st := w.stateLocked()
	w.mu.Unlock()

	w.notify(st)
	return nil
}

// StartNew abandons everything and returns to the credentials step. The saved
// credential is reloaded.
func (w *Wizard) StartNew(ctx context.Context) {
	w.mu.Lock()
	w.abortLocked()
	w.step = StepCredentials
	w.techs.Reset()
	w.constraints = nil
	w.err = nil
	w.result = nil
	w.fallback = false
	w.active = 0
	w.progress = Stage{}
	w.loadSettings(ctx)
	st := w.stateLocked()
	w.mu.Unlock()

	w.notify(st)
}

// Cancel stops a running generation. The wizard stays at the generating step
// with ErrCancelled so Retry or Back can follow.
func (w *Wizard) Cancel() {
	w.mu.Lock()
	if !w.generating {
		w.mu.Unlock()
		return
	}
	w.abortLocked()
	w.err = ErrCancelled
	st := w.stateLocked()
	w.mu.Unlock()

	w.notify(st)
}

func (w *Wizard) abortLocked() {
	if !w.generating {
		return
	}
	w.seq++
	w.generating = false
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

// Wait blocks until the most recent pipeline goroutine has exited.
func (w *Wizard) Wait(ctx context.Context) error {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SelectProject marks a stored project as the one being viewed.
func (w *Wizard) SelectProject(id int64) (domain.Project, error) {
	p, err := w.projects.Get(id)
	if err != nil {
		return domain.Project{}, err
	}

	w.mu.Lock()
	w.active = id
	w.mu.Unlock()
	return p, nil
}

// ActiveProject returns the project last passed to SelectProject.
func (w *Wizard) ActiveProject() (domain.Project, error) {
	w.mu.Lock()
	id := w.active
	w.mu.Unlock()

	if id == 0 {
		return domain.Project{}, domain.ErrProjectNotFound
	}
	return w.projects.Get(id)
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Wizard) stateLocked() State {
	st := State{
		Step:          w.step,
		StepNumber:    w.step.Number(),
		HasCredential: w.credential != "",
		Model:         w.modelName,
		Technologies:  w.techs.Items(),
		Generating:    w.generating,
		Progress:      w.progress,
		Err:           w.err,
		Projects:      append([]domain.Project{}, w.result...),
		Fallback:      w.fallback,
		ActiveProject: w.active,
	}
	if w.constraints != nil {
		cs := w.constraints.Clone()
		st.Constraints = &cs
	}
	if w.err != nil {
		st.Error = w.err.Error()
	}
	return st
}

func (w *Wizard) notify(st State) {
	if w.onStep != nil {
		w.onStep(st)
	}
}

func (w *Wizard) emitProgress(s Stage) {
	if w.onProgress != nil {
		w.onProgress(s)
	}
}
