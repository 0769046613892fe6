package trail

import "github.com/penwyp/go-vessel-trail/internal/core/model"

// HitTester is the part of a map host that answers "what is drawn here".
// Implementations return the topmost feature whose rendered hit area contains p.
type HitTester interface {
	HitTest(p model.Pixel) (Feature, bool)
}

// QueryAt resolves a hover at p into the payload of the topmost feature,
// delegating hit-testing to the host. It allocates nothing.
func QueryAt(m *Model, host HitTester, p model.Pixel) HoverResult {
	if m.IsEmpty() || host == nil {
		return NoHover
	}

	f, ok := host.HitTest(p)
	if !ok || f == nil {
		return NoHover
	}

	payload, ok := f.Payload()
	if !ok {
		return NoHover
	}
	return HoverResult{
		Power:       payload.Power,
		Consumption: payload.Consumption,
		OK:          true,
	}
}
