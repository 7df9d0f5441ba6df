package planner

import (
	"context"
	"io"
	"log"
	"math"
	"testing"
	"time"

	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/catalog"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/config"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/predict"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/ws"
)

// fakeSource serves a fixed set of passes with a linear range-rate ramp
// from -maxRate at AOS to +maxRate at LOS, which is roughly what a high
// overhead pass looks like.
type fakeSource struct {
	passes  []predict.Pass
	maxRate float64
}

func (f *fakeSource) HighPasses(_ catalog.Satellite, limit int) ([]predict.Pass, error) {
	if limit > len(f.passes) {
		limit = len(f.passes)
	}
	return f.passes[:limit], nil
}

func (f *fakeSource) RangeRate(_ catalog.Satellite, at time.Time) (float64, error) {
	for _, p := range f.passes {
		if at.Before(p.AOS) || at.After(p.LOS) {
			continue
		}
		frac := at.Sub(p.AOS).Seconds() / p.LOS.Sub(p.AOS).Seconds()
		return -f.maxRate + 2*f.maxRate*frac, nil
	}
	return f.maxRate, nil
}

func makePasses(n int, dur time.Duration) []predict.Pass {
	sat := catalog.Satellite{Name: "AO-91", NoradID: 43017}
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	passes := make([]predict.Pass, n)
	for i := range passes {
		aos := base.Add(time.Duration(i) * 100 * time.Minute)
		passes[i] = predict.Pass{
			Satellite: sat,
			AOS:       aos,
			LOS:       aos.Add(dur),
			MaxElev:   45,
			Duration:  dur,
		}
	}
	return passes
}

func newTestPlanner(src Source) *Planner {
	cfg := config.Default()
	logger := log.New(io.Discard, "", 0)
	return New(src, cfg, ws.NewHub(), logger)
}

var fmVoice = catalog.Transmitter{
	Description: "Mode V/U FM Voice",
	UplinkHz:    145.880e6,
	DownlinkHz:  435.350e6,
	Alive:       true,
}

func TestPlanSatellite(t *testing.T) {
	src := &fakeSource{passes: makePasses(3, 10*time.Minute), maxRate: 3500}
	p := newTestPlanner(src)
	sat := src.passes[0].Satellite

	plans, err := p.PlanSatellite(context.Background(), sat, []catalog.Transmitter{fmVoice}, 5, 3)
	if err != nil {
		t.Fatalf("PlanSatellite: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("got %d plans, want 1", len(plans))
	}

	plan := plans[0]
	if len(plan.Channels) != 5 {
		t.Errorf("channels = %d, want 5", len(plan.Channels))
	}
	if plan.PassesUsed != 3 {
		t.Errorf("passes used = %d, want 3", plan.PassesUsed)
	}
	if !plan.AOS.Equal(src.passes[0].AOS) {
		t.Errorf("plan targets AOS %v, want soonest pass %v", plan.AOS, src.passes[0].AOS)
	}

	// The downlink is at 435 MHz and the bird starts approaching, so the
	// first channel must sit above nominal and the last below.
	if plan.Channels[0].RxHz <= fmVoice.DownlinkHz {
		t.Errorf("first rx channel %f not above nominal", plan.Channels[0].RxHz)
	}
	if plan.Channels[4].RxHz >= fmVoice.DownlinkHz {
		t.Errorf("last rx channel %f not below nominal", plan.Channels[4].RxHz)
	}

	// One switch per channel for a clean linear ramp, in order, within the
	// pass window.
	if len(plan.Switches) != 5 {
		t.Fatalf("switches = %d, want 5", len(plan.Switches))
	}
	for i, s := range plan.Switches {
		if s.Channel != i {
			t.Errorf("switch %d selects channel %d", i, s.Channel)
		}
		if s.At.Before(plan.AOS) || s.At.After(plan.LOS) {
			t.Errorf("switch %d at %v outside pass", i, s.At)
		}
	}
	if !plan.Switches[0].At.Equal(plan.AOS) {
		t.Errorf("first switch at %v, want AOS %v", plan.Switches[0].At, plan.AOS)
	}
}

func TestPlanAveragingIsStable(t *testing.T) {
	// Identical passes must average to the same table a single pass gives.
	src := &fakeSource{passes: makePasses(3, 10*time.Minute), maxRate: 3000}
	p := newTestPlanner(src)
	sat := src.passes[0].Satellite

	one, err := p.PlanSatellite(context.Background(), sat, []catalog.Transmitter{fmVoice}, 5, 1)
	if err != nil {
		t.Fatal(err)
	}
	three, err := p.PlanSatellite(context.Background(), sat, []catalog.Transmitter{fmVoice}, 5, 3)
	if err != nil {
		t.Fatal(err)
	}

	for i := range one[0].Channels {
		diff := math.Abs(one[0].Channels[i].RxHz - three[0].Channels[i].RxHz)
		if diff > 1e-6 {
			t.Errorf("channel %d differs by %f Hz between 1-pass and 3-pass averages", i, diff)
		}
	}
}

func TestPlanSkipsUnusableTransmitters(t *testing.T) {
	src := &fakeSource{passes: makePasses(1, 10*time.Minute), maxRate: 3000}
	p := newTestPlanner(src)
	sat := src.passes[0].Satellite

	dead := catalog.Transmitter{Description: "Decommissioned"}
	plans, err := p.PlanSatellite(context.Background(), sat, []catalog.Transmitter{dead, fmVoice}, 5, 1)
	if err != nil {
		t.Fatalf("PlanSatellite: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("got %d plans, want 1 (zero-frequency transmitter skipped)", len(plans))
	}
	if plans[0].Transmitter.Description != fmVoice.Description {
		t.Errorf("planned %q, want %q", plans[0].Transmitter.Description, fmVoice.Description)
	}
}

func TestPlanNoUsableTransmitters(t *testing.T) {
	src := &fakeSource{passes: makePasses(1, 10*time.Minute), maxRate: 3000}
	p := newTestPlanner(src)
	sat := src.passes[0].Satellite

	if _, err := p.PlanSatellite(context.Background(), sat, nil, 5, 1); err == nil {
		t.Error("expected error with no transmitters")
	}
}

func TestPlanNoPasses(t *testing.T) {
	src := &fakeSource{passes: nil, maxRate: 3000}
	p := newTestPlanner(src)

	sat := catalog.Satellite{Name: "AO-7", NoradID: 7530}
	if _, err := p.PlanSatellite(context.Background(), sat, []catalog.Transmitter{fmVoice}, 5, 3); err == nil {
		t.Error("expected error with no qualifying passes")
	}
}

func TestProfile(t *testing.T) {
	src := &fakeSource{passes: makePasses(1, 5*time.Minute), maxRate: 3000}
	p := newTestPlanner(src)
	sat := src.passes[0].Satellite

	pts, pass, err := p.Profile(sat, fmVoice)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if pass == nil || !pass.AOS.Equal(src.passes[0].AOS) {
		t.Errorf("profile pass = %+v, want soonest", pass)
	}
	if len(pts) != 300 {
		t.Fatalf("points = %d, want 300", len(pts))
	}

	// Approaching at AOS: positive rx shift. Receding by LOS: negative.
	if pts[0].RxShiftHz <= 0 {
		t.Errorf("rx shift at AOS = %f, want positive", pts[0].RxShiftHz)
	}
	if pts[len(pts)-1].RxShiftHz >= 0 {
		t.Errorf("rx shift at LOS = %f, want negative", pts[len(pts)-1].RxShiftHz)
	}
}

func TestPlanRespectsContextCancel(t *testing.T) {
	src := &fakeSource{passes: makePasses(1, 10*time.Minute), maxRate: 3000}
	p := newTestPlanner(src)
	sat := src.passes[0].Satellite

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.PlanSatellite(ctx, sat, []catalog.Transmitter{fmVoice}, 5, 1); err == nil {
		t.Error("expected context error")
	}
}
