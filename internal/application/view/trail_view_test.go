package view

import (
	"errors"
	"testing"

	"github.com/penwyp/go-vessel-trail/internal/core/maphost"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/core/theme"
	"github.com/penwyp/go-vessel-trail/internal/core/trail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSamples() []model.Sample {
	return []model.Sample{
		{Position: model.Position{Lon: 0, Lat: 0}, Power: 10, Consumption: 5},
		{Position: model.Position{Lon: 1, Lat: 1}, Power: 75, Consumption: 20},
		{Position: model.Position{Lon: 2, Lat: 2}, Power: 150, Consumption: 40},
	}
}

// failingHost wraps a canvas host and fails one acquisition step on demand.
type failingHost struct {
	inner    *maphost.CanvasHost
	failStep string
	maps     []*failingMap
}

type failingMap struct {
	*maphost.Canvas
	failStep   string
	releases   int
	unregister int
}

type countingRegistration struct {
	inner maphost.Registration
	owner *failingMap
}

func (r *countingRegistration) Unregister() error {
	r.owner.unregister++
	return r.inner.Unregister()
}

func (h *failingHost) CreateMap(v trail.View, tokens theme.Tokens) (maphost.Map, error) {
	if h.failStep == "create" {
		return nil, errors.New("widget failed to mount")
	}
	mp, err := h.inner.CreateMap(v, tokens)
	if err != nil {
		return nil, err
	}
	fm := &failingMap{Canvas: mp.(*maphost.Canvas), failStep: h.failStep}
	h.maps = append(h.maps, fm)
	return fm, nil
}

func (m *failingMap) AddOverlay(o *maphost.Overlay) error {
	if m.failStep == "overlay" {
		return errors.New("overlay rejected")
	}
	return m.Canvas.AddOverlay(o)
}

func (m *failingMap) OnPointerMove(fn maphost.PointerMoveFunc) (maphost.Registration, error) {
	if m.failStep == "handler" {
		return nil, errors.New("handler rejected")
	}
	reg, err := m.Canvas.OnPointerMove(fn)
	if err != nil {
		return nil, err
	}
	return &countingRegistration{inner: reg, owner: m}, nil
}

func (m *failingMap) Release() error {
	m.releases++
	return m.Canvas.Release()
}

func TestRenderMountsAndHovers(t *testing.T) {
	host := maphost.NewCanvasHost(800, 600)
	var hovers []trail.HoverResult
	v := New(host, WithHoverListener(func(r trail.HoverResult) { hovers = append(hovers, r) }))

	m, err := v.Render(testSamples(), model.ModeLight)
	require.NoError(t, err)
	assert.Len(t, m.Markers, 3)
	assert.Equal(t, 1, host.LiveMaps())
	assert.Same(t, m, v.Model())
	assert.NotEmpty(t, v.ID())

	canvas := v.Map().(*maphost.Canvas)
	px := canvas.Project(m.Markers[2].At)

	got := v.Hover(px)
	assert.Equal(t, trail.HoverResult{Power: 150, Consumption: 40, OK: true}, got)

	tip := v.Tooltip()
	assert.True(t, tip.Visible)
	assert.Equal(t, "Power: 150.00\nConsumption: 40.00", tip.Content)
	assert.Equal(t, model.Pixel{X: px.X + 10, Y: px.Y}, tip.Position)

	assert.Equal(t, trail.NoHover, v.Hover(model.Pixel{X: 1, Y: 1}))
	assert.False(t, v.Tooltip().Visible, "tooltip hides when the pointer leaves the trail")
	assert.Len(t, hovers, 2)
}

func TestHoverEveryMarker(t *testing.T) {
	v := New(maphost.NewCanvasHost(800, 600))
	m, err := v.Render(testSamples(), model.ModeDark)
	require.NoError(t, err)
	canvas := v.Map().(*maphost.Canvas)

	want := []string{
		"Power: 10.00\nConsumption: 5.00",
		"Power: 75.00\nConsumption: 20.00",
		"Power: 150.00\nConsumption: 40.00",
	}
	for i, mk := range m.Markers {
		got := v.Hover(canvas.Project(mk.At))
		require.True(t, got.OK, "marker %d", i)
		assert.Equal(t, testSamples()[i].Power, got.Power)
		assert.Equal(t, testSamples()[i].Consumption, got.Consumption)

		tip := v.Tooltip()
		assert.True(t, tip.Visible, "marker %d", i)
		assert.Equal(t, want[i], tip.Content)
	}

	// the middle of a segment is on the trail but shows nothing
	a := canvas.Project(m.Segments[1].From)
	b := canvas.Project(m.Segments[1].To)
	assert.Equal(t, trail.NoHover, v.Hover(model.Pixel{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}))
	assert.False(t, v.Tooltip().Visible)
}

func TestRenderReplacesPrevious(t *testing.T) {
	host := maphost.NewCanvasHost(800, 600)
	v := New(host)

	_, err := v.Render(testSamples(), model.ModeLight)
	require.NoError(t, err)
	first := v.Map().(*maphost.Canvas)

	_, err = v.Render(testSamples()[:2], model.ModeDark)
	require.NoError(t, err)
	second := v.Map().(*maphost.Canvas)

	assert.True(t, first.Released())
	assert.False(t, second.Released())
	assert.Equal(t, 1, host.LiveMaps())
	assert.Equal(t, 1, second.HandlerCount())
	assert.Len(t, v.Model().Markers, 2)
	assert.Equal(t, model.ModeDark, second.Tokens().Mode)
}

func TestRenderEmptyShowsBaseMap(t *testing.T) {
	host := maphost.NewCanvasHost(800, 600)
	v := New(host)

	m, err := v.Render(nil, model.ModeLight)
	require.NoError(t, err)
	assert.True(t, m.IsEmpty())
	assert.Equal(t, 1, host.LiveMaps(), "empty trail still mounts the base map")

	assert.Equal(t, trail.NoHover, v.Hover(model.Pixel{X: 400, Y: 300}))
	assert.False(t, v.Tooltip().Visible)
}

func TestHoverBeforeMount(t *testing.T) {
	v := New(maphost.NewCanvasHost(10, 10))
	assert.Equal(t, trail.NoHover, v.Hover(model.Pixel{}))
	assert.Nil(t, v.Map())
	assert.Nil(t, v.Model())
	assert.Equal(t, maphost.OverlayState{}, v.Tooltip())
}

func TestUnmountReleasesEverything(t *testing.T) {
	host := &failingHost{inner: maphost.NewCanvasHost(800, 600)}
	v := New(host)

	_, err := v.Render(testSamples(), model.ModeLight)
	require.NoError(t, err)
	require.Len(t, host.maps, 1)
	mp := host.maps[0]
	overlays := mp.Overlays()
	require.Len(t, overlays, 1)

	require.NoError(t, v.Unmount())
	require.NoError(t, v.Unmount())

	assert.Equal(t, 1, mp.releases)
	assert.Equal(t, 1, mp.unregister)
	assert.Empty(t, mp.Overlays())
	assert.Equal(t, 0, mp.HandlerCount())
	assert.Equal(t, 0, host.inner.LiveMaps())
	assert.Nil(t, v.Map())
}

func TestRenderReleasesPartialAcquisitionOnError(t *testing.T) {
	for _, step := range []string{"overlay", "handler"} {
		t.Run(step, func(t *testing.T) {
			host := &failingHost{inner: maphost.NewCanvasHost(800, 600), failStep: step}
			v := New(host)

			_, err := v.Render(testSamples(), model.ModeLight)
			require.Error(t, err)

			require.Len(t, host.maps, 1)
			assert.Equal(t, 1, host.maps[0].releases)
			assert.Equal(t, 0, host.inner.LiveMaps())
			assert.Nil(t, v.Map())
		})
	}
}

func TestRenderCreateFailureReleasesPrevious(t *testing.T) {
	host := &failingHost{inner: maphost.NewCanvasHost(800, 600)}
	v := New(host)

	_, err := v.Render(testSamples(), model.ModeLight)
	require.NoError(t, err)

	host.failStep = "create"
	_, err = v.Render(testSamples(), model.ModeDark)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create map")

	assert.Equal(t, 1, host.maps[0].releases, "old trail is gone even though the new one failed")
	assert.Equal(t, 0, host.inner.LiveMaps())
}

func TestNewerRenderSupersedesOlder(t *testing.T) {
	host := maphost.NewCanvasHost(800, 600)
	v := New(host)

	newer := []model.Sample{{Position: model.Position{Lon: 9, Lat: 9}, Power: 99}}
	var innerErr error
	fired := false
	v.afterBuild = func() {
		if fired {
			return
		}
		fired = true
		_, innerErr = v.Render(newer, model.ModeDark)
	}

	m, err := v.Render(testSamples(), model.ModeLight)
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Nil(t, m)
	require.NoError(t, innerErr)

	require.NotNil(t, v.Model())
	assert.Len(t, v.Model().Markers, 1, "only the newer trail is mounted")
	assert.Equal(t, 1, host.LiveMaps())
}
