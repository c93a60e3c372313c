package saga

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isl_signage/internal/models"
	"isl_signage/internal/store"
	"isl_signage/internal/translate"
)

type fakeRouteStore struct {
	nextID    uint
	created   []uint
	deleted   []uint
	createErr error
	deleteErr error
}

func (f *fakeRouteStore) Create(ctx context.Context, req store.RouteRequest) (*models.TrainRoute, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	f.created = append(f.created, f.nextID)
	route := &models.TrainRoute{
		TrainNumber:     req.TrainNumber,
		TrainName:       req.TrainName,
		FromStationName: req.FromStationName,
		FromStationCode: req.FromStationCode,
		ToStationName:   req.ToStationName,
		ToStationCode:   req.ToStationCode,
	}
	route.ID = f.nextID
	return route, nil
}

func (f *fakeRouteStore) Delete(ctx context.Context, id uint) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRouteStore) List(ctx context.Context) ([]models.TrainRoute, error) { return nil, nil }

func (f *fakeRouteStore) GetByID(ctx context.Context, id uint) (*models.TrainRoute, error) {
	return nil, errors.New("not implemented")
}

type fakeTranslationStore struct {
	nextID    uint
	saved     []*models.TrainRouteTranslation
	deleted   []uint
	createErr error
}

func (f *fakeTranslationStore) Create(ctx context.Context, bundle *models.TrainRouteTranslation) (*models.TrainRouteTranslation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	bundle.ID = f.nextID
	f.saved = append(f.saved, bundle)
	return bundle, nil
}

func (f *fakeTranslationStore) Delete(ctx context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTranslationStore) GetByRouteID(ctx context.Context, routeID uint) (*models.TrainRouteTranslation, error) {
	return nil, errors.New("not implemented")
}

// fakeTranslator echoes "<lang>:<text>" for every requested language, with
// optional per-language omission and per-call failure.
type fakeTranslator struct {
	calls    int
	failCall int    // 1-based call number that returns an error; 0 = never
	omitLang string // language left out of every response
	err      error
}

func (f *fakeTranslator) Translate(ctx context.Context, text, sourceLang string, targetLangs []string) (map[string]translate.Translation, error) {
	f.calls++
	if f.failCall != 0 && f.calls == f.failCall {
		if f.err != nil {
			return nil, f.err
		}
		return nil, errors.New("translation backend unavailable")
	}
	out := make(map[string]translate.Translation, len(targetLangs))
	for _, lang := range targetLangs {
		if lang == f.omitLang {
			continue
		}
		out[lang] = translate.Translation{TranslatedText: fmt.Sprintf("%s:%s", lang, text)}
	}
	return out, nil
}

func testRequest() store.RouteRequest {
	return store.RouteRequest{
		TrainNumber:     "12951",
		TrainName:       "Mumbai Rajdhani",
		FromStationName: "Mumbai Central",
		FromStationCode: "MMCT",
		ToStationName:   "New Delhi",
		ToStationCode:   "NDLS",
	}
}

func TestProvision_Success(t *testing.T) {
	routes := &fakeRouteStore{}
	bundles := &fakeTranslationStore{}
	translator := &fakeTranslator{}
	s := New(routes, bundles, translator)

	var progress []Progress
	result, err := s.Provision(context.Background(), testRequest(), func(p Progress) {
		progress = append(progress, p)
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, result.Route)
	require.NotNil(t, result.Bundle)

	// All twelve bundle fields are populated.
	b := result.Bundle
	assert.Equal(t, "Mumbai Rajdhani", b.TrainNameEn)
	assert.Equal(t, "hi:Mumbai Rajdhani", b.TrainNameHi)
	assert.Equal(t, "mr:Mumbai Rajdhani", b.TrainNameMr)
	assert.Equal(t, "gu:Mumbai Rajdhani", b.TrainNameGu)
	assert.Equal(t, "Mumbai Central", b.FromStationNameEn)
	assert.Equal(t, "hi:Mumbai Central", b.FromStationNameHi)
	assert.Equal(t, "mr:Mumbai Central", b.FromStationNameMr)
	assert.Equal(t, "gu:Mumbai Central", b.FromStationNameGu)
	assert.Equal(t, "New Delhi", b.ToStationNameEn)
	assert.Equal(t, "hi:New Delhi", b.ToStationNameHi)
	assert.Equal(t, "mr:New Delhi", b.ToStationNameMr)
	assert.Equal(t, "gu:New Delhi", b.ToStationNameGu)

	assert.Equal(t, result.Route.ID, b.TrainRouteID)
	assert.Equal(t, 3, translator.calls)
	assert.Empty(t, routes.deleted)
	assert.Empty(t, bundles.deleted)

	// Percent never decreases and the run ends at 100.
	require.NotEmpty(t, progress)
	last := -1
	for _, p := range progress {
		assert.GreaterOrEqual(t, p.Percent, last, "progress went backwards at step %s", p.Step)
		last = p.Percent
	}
	final := progress[len(progress)-1]
	assert.Equal(t, StepCompleted, final.Step)
	assert.Equal(t, 100, final.Percent)
}

func TestProvision_TranslationFailureRollsBackRoute(t *testing.T) {
	t.Run("backend error", func(t *testing.T) {
		routes := &fakeRouteStore{}
		bundles := &fakeTranslationStore{}
		translator := &fakeTranslator{failCall: 2}
		s := New(routes, bundles, translator)

		result, err := s.Provision(context.Background(), testRequest(), nil)
		require.Error(t, err)
		assert.Nil(t, result)

		var stepErr *StepError
		require.ErrorAs(t, err, &stepErr)
		assert.Equal(t, StepTranslating, stepErr.Step)
		assert.NoError(t, stepErr.CompensationErr)

		// The created route was compensated; no bundle was ever written.
		assert.Equal(t, routes.created, routes.deleted)
		assert.Empty(t, bundles.saved)
	})

	t.Run("missing target language", func(t *testing.T) {
		routes := &fakeRouteStore{}
		bundles := &fakeTranslationStore{}
		translator := &fakeTranslator{omitLang: "gu"}
		s := New(routes, bundles, translator)

		_, err := s.Provision(context.Background(), testRequest(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"gu"`)

		var stepErr *StepError
		require.ErrorAs(t, err, &stepErr)
		assert.Equal(t, StepTranslating, stepErr.Step)
		assert.Equal(t, routes.created, routes.deleted)
		assert.Empty(t, bundles.saved)
	})
}

func TestProvision_SaveFailureRollsBackRoute(t *testing.T) {
	routes := &fakeRouteStore{}
	bundles := &fakeTranslationStore{createErr: errors.New("disk full")}
	translator := &fakeTranslator{}
	s := New(routes, bundles, translator)

	var progress []Progress
	_, err := s.Provision(context.Background(), testRequest(), func(p Progress) {
		progress = append(progress, p)
	})
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepSavingTranslations, stepErr.Step)
	assert.Equal(t, routes.created, routes.deleted)

	final := progress[len(progress)-1]
	assert.Equal(t, StepFailed, final.Step)
	assert.NotEmpty(t, final.Error)
}

func TestProvision_CompensationFailureDoesNotMaskError(t *testing.T) {
	routes := &fakeRouteStore{deleteErr: errors.New("route locked")}
	bundles := &fakeTranslationStore{}
	translator := &fakeTranslator{failCall: 1}
	s := New(routes, bundles, translator)

	_, err := s.Provision(context.Background(), testRequest(), nil)
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepTranslating, stepErr.Step)
	assert.ErrorContains(t, stepErr.Err, "translation backend unavailable")
	require.Error(t, stepErr.CompensationErr)
	assert.ErrorContains(t, stepErr.CompensationErr, "route locked")
}

func TestProvision_RouteCreateFailure(t *testing.T) {
	routes := &fakeRouteStore{createErr: errors.New("duplicate train number")}
	s := New(routes, &fakeTranslationStore{}, &fakeTranslator{})

	_, err := s.Provision(context.Background(), testRequest(), nil)
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepCreatingRoute, stepErr.Step)
	// Nothing completed, nothing to compensate.
	assert.NoError(t, stepErr.CompensationErr)
	assert.Empty(t, routes.deleted)
}
