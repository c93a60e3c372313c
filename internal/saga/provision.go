package saga

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"isl_signage/internal/models"
	"isl_signage/internal/store"
	"isl_signage/internal/translate"
)

// Step identifies the phase a provisioning run is in.
type Step string

const (
	StepCreatingRoute      Step = "creating_route"
	StepTranslating        Step = "translating"
	StepSavingTranslations Step = "saving_translations"
	StepCompleted          Step = "completed"
	StepFailed             Step = "error"
)

// Source and target languages for route field translation.
const SourceLanguage = "en"

var TargetLanguages = []string{"hi", "mr", "gu"}

// Progress is one report emitted while a provisioning run advances.
// Percent never decreases within a single run.
type Progress struct {
	Step    Step   `json:"step"`
	Message string `json:"message"`
	Percent int    `json:"percent"`
	Error   string `json:"error,omitempty"`
}

// ProgressSink receives progress reports. A nil sink is allowed.
type ProgressSink func(Progress)

// Result holds both records created by a successful run.
type Result struct {
	Route  *models.TrainRoute            `json:"route"`
	Bundle *models.TrainRouteTranslation `json:"translation"`
}

// Translator is the slice of the translation gateway the saga needs.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang string, targetLangs []string) (map[string]translate.Translation, error)
}

// StepError reports which step a run failed at and how compensation went.
// The original step failure is never masked by a compensation failure.
type StepError struct {
	Step            Step
	Err             error
	CompensationErr error
}

func (e *StepError) Error() string {
	if e.CompensationErr != nil {
		return fmt.Sprintf("provisioning failed at step %q: %v (compensation also failed: %v)", e.Step, e.Err, e.CompensationErr)
	}
	return fmt.Sprintf("provisioning failed at step %q: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Saga provisions a fully translated train route across three independent
// collaborators with no shared transaction: the route store, the translation
// gateway, and the translation store. On a later-step failure the earlier
// side effects are undone by compensating deletes.
type Saga struct {
	routes     store.RouteStore
	bundles    store.TranslationStore
	translator Translator
}

// New builds a provisioning saga over the given collaborators.
func New(routes store.RouteStore, bundles store.TranslationStore, translator Translator) *Saga {
	return &Saga{routes: routes, bundles: bundles, translator: translator}
}

// compensation undoes one completed step.
type compensation struct {
	describe string
	undo     func(ctx context.Context) error
}

// step is one unit of the run: it performs its work and, on success, may
// register a compensation for later rollback.
type step struct {
	name Step
	run  func(ctx context.Context) (compensation, error)
}

// provisionRun carries the mutable state threaded through the steps.
type provisionRun struct {
	saga    *Saga
	req     store.RouteRequest
	sink    ProgressSink
	lastPct int

	route  *models.TrainRoute
	bundle *models.TrainRouteTranslation
}

func (r *provisionRun) report(s Step, msg string, pct int) {
	if pct < r.lastPct {
		pct = r.lastPct
	}
	r.lastPct = pct
	r.sink(Progress{Step: s, Message: msg, Percent: pct})
}

// Provision runs the saga: create route, translate the three route fields,
// persist the bundle. Steps execute strictly in order; the first failure
// aborts the run and triggers compensations in reverse order of completion.
// The saga is not retry-safe — re-invocation creates a new route.
func (s *Saga) Provision(ctx context.Context, req store.RouteRequest, sink ProgressSink) (*Result, error) {
	if sink == nil {
		sink = func(Progress) {}
	}
	run := &provisionRun{saga: s, req: req, sink: sink}

	steps := []step{
		{name: StepCreatingRoute, run: run.createRoute},
		{name: StepTranslating, run: run.translateFields},
		{name: StepSavingTranslations, run: run.saveBundle},
	}

	var undo []compensation
	for _, st := range steps {
		comp, err := st.run(ctx)
		if err != nil {
			sink(Progress{Step: StepFailed, Message: fmt.Sprintf("Failed while %s", st.name), Percent: run.lastPct, Error: err.Error()})
			compErr := rollback(ctx, undo)
			return nil, &StepError{Step: st.name, Err: err, CompensationErr: compErr}
		}
		if comp.undo != nil {
			undo = append(undo, comp)
		}
	}

	run.report(StepCompleted, "Route provisioned with translations", 100)
	return &Result{Route: run.route, Bundle: run.bundle}, nil
}

// rollback runs compensations in reverse order. Failures are logged and
// collected but never retried; the caller reports them alongside the
// original error so an operator can decide whether manual cleanup is needed.
func rollback(ctx context.Context, comps []compensation) error {
	var errs []error
	for i := len(comps) - 1; i >= 0; i-- {
		c := comps[i]
		if err := c.undo(ctx); err != nil {
			logrus.WithError(err).WithField("compensation", c.describe).Error("Compensation failed; manual cleanup may be required")
			errs = append(errs, fmt.Errorf("%s: %w", c.describe, err))
			continue
		}
		logrus.WithField("compensation", c.describe).Info("Compensation applied")
	}
	return errors.Join(errs...)
}

func (r *provisionRun) createRoute(ctx context.Context) (compensation, error) {
	r.report(StepCreatingRoute, "Creating train route", 10)

	route, err := r.saga.routes.Create(ctx, r.req)
	if err != nil {
		return compensation{}, fmt.Errorf("route creation failed: %w", err)
	}
	r.route = route

	r.report(StepCreatingRoute, "Train route created", 20)
	return compensation{
		describe: fmt.Sprintf("delete route %d", route.ID),
		undo: func(ctx context.Context) error {
			return r.saga.routes.Delete(ctx, route.ID)
		},
	}, nil
}

// translateFields translates train name, origin and destination one at a
// time. The first failed field aborts the whole step; remaining fields are
// not attempted.
func (r *provisionRun) translateFields(ctx context.Context) (compensation, error) {
	r.report(StepTranslating, "Translating route fields", 30)

	fields := []struct {
		label string
		text  string
		pct   int
		store func(lang, translated string)
	}{
		{"train name", r.req.TrainName, 40, func(lang, t string) { r.setTrainName(lang, t) }},
		{"origin station", r.req.FromStationName, 50, func(lang, t string) { r.setFromStation(lang, t) }},
		{"destination station", r.req.ToStationName, 60, func(lang, t string) { r.setToStation(lang, t) }},
	}

	r.bundle = &models.TrainRouteTranslation{
		TrainRouteID:      r.route.ID,
		TrainNameEn:       r.req.TrainName,
		FromStationNameEn: r.req.FromStationName,
		ToStationNameEn:   r.req.ToStationName,
	}

	for _, f := range fields {
		translations, err := r.saga.translator.Translate(ctx, f.text, SourceLanguage, TargetLanguages)
		if err != nil {
			return compensation{}, fmt.Errorf("translating %s: %w", f.label, err)
		}
		for _, lang := range TargetLanguages {
			t, ok := translations[lang]
			if !ok || t.TranslatedText == "" {
				return compensation{}, fmt.Errorf("translating %s: no %q translation returned", f.label, lang)
			}
			f.store(lang, t.TranslatedText)
		}
		r.report(StepTranslating, fmt.Sprintf("Translated %s", f.label), f.pct)
	}

	r.report(StepTranslating, "All route fields translated", 70)
	// Nothing persisted in this step, so nothing to compensate.
	return compensation{}, nil
}

func (r *provisionRun) saveBundle(ctx context.Context) (compensation, error) {
	r.report(StepSavingTranslations, "Saving translation bundle", 80)

	bundle, err := r.saga.bundles.Create(ctx, r.bundle)
	if err != nil {
		return compensation{}, fmt.Errorf("saving translation bundle failed: %w", err)
	}
	r.bundle = bundle
	return compensation{
		describe: fmt.Sprintf("delete translation bundle %d", bundle.ID),
		undo: func(ctx context.Context) error {
			return r.saga.bundles.Delete(ctx, bundle.ID)
		},
	}, nil
}

func (r *provisionRun) setTrainName(lang, translated string) {
	switch lang {
	case "hi":
		r.bundle.TrainNameHi = translated
	case "mr":
		r.bundle.TrainNameMr = translated
	case "gu":
		r.bundle.TrainNameGu = translated
	}
}

func (r *provisionRun) setFromStation(lang, translated string) {
	switch lang {
	case "hi":
		r.bundle.FromStationNameHi = translated
	case "mr":
		r.bundle.FromStationNameMr = translated
	case "gu":
		r.bundle.FromStationNameGu = translated
	}
}

func (r *provisionRun) setToStation(lang, translated string) {
	switch lang {
	case "hi":
		r.bundle.ToStationNameHi = translated
	case "mr":
		r.bundle.ToStationNameMr = translated
	case "gu":
		r.bundle.ToStationNameGu = translated
	}
}
