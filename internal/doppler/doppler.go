// Package doppler implements the Doppler-shift arithmetic behind channel
// planning: shift computation from a range rate, rescaling a shift to a
// different carrier, channel table interpolation across a pass, and the
// second-by-second scan that picks channel switch times. Everything here is
// closed-form math on float64 values; orbital propagation lives elsewhere.
package doppler

// C is the speed of light in m/s.
const C = 299792458.0

// Shift returns the Doppler shift in Hz for an emitted frequency f0Hz and a
// range rate in m/s (positive = receding). The received frequency is
// f0·c/(c+v) and the shift is f0 − f. A zero f0Hz marks an unused side and
// yields a zero shift.
func Shift(f0Hz, rangeRate float64) float64 {
	f := (C / (C + rangeRate)) * f0Hz
	return f0Hz - f
}

// ConvertShift rescales a shift computed for one carrier onto another by
// the ratio (fOrig+shift)/fOrig, avoiding a second propagation step. Only
// valid when the same range rate applies to both carriers at the same
// instant.
func ConvertShift(origHz, shiftHz, newHz float64) float64 {
	if origHz == 0 {
		return 0
	}
	scale := (origHz + shiftHz) / origHz
	return scale*newHz - newHz
}

// Sample holds the receive and transmit shifts at one instant, in Hz.
type Sample struct {
	RxHz float64
	TxHz float64
}

// At computes both shifts for a single range rate. The receive side uses
// the negated rate and the transmit side the raw rate, so a receding
// satellite yields a negative receive shift (tune down) and a positive
// transmit shift (transmit up).
func At(rangeRate, rxHz, txHz float64) Sample {
	return Sample{
		RxHz: Shift(rxHz, -rangeRate),
		TxHz: Shift(txHz, rangeRate),
	}
}

// Channel is one stored radio memory: the compensated receive and transmit
// frequencies in Hz. An unused side is zero.
type Channel struct {
	RxHz float64 `json:"rx_hz"`
	TxHz float64 `json:"tx_hz"`
}

// Table builds n memory channels for a pass by linearly interpolating the
// shifts between the AOS and LOS samples. Channel 0 is the AOS end, channel
// n−1 the LOS end. n is clamped to a minimum of 2.
func Table(aos, los Sample, n int, rxHz, txHz float64) []Channel {
	if n < 2 {
		n = 2
	}

	rxStep := (los.RxHz - aos.RxHz) / float64(n-1)
	txStep := (los.TxHz - aos.TxHz) / float64(n-1)

	chans := make([]Channel, n)
	for i := range chans {
		chans[i] = Channel{
			RxHz: rxHz + aos.RxHz + rxStep*float64(i),
			TxHz: txHz + aos.TxHz + txStep*float64(i),
		}
	}
	return chans
}

// Average combines channel tables from several passes of the same
// transmitter into their element-wise mean. All tables must have the same
// length; extra channels in longer tables are ignored. Returns nil for an
// empty input.
func Average(tables [][]Channel) []Channel {
	if len(tables) == 0 {
		return nil
	}

	n := len(tables[0])
	for _, t := range tables {
		if len(t) < n {
			n = len(t)
		}
	}

	avg := make([]Channel, n)
	for _, t := range tables {
		for i := 0; i < n; i++ {
			avg[i].RxHz += t[i].RxHz
			avg[i].TxHz += t[i].TxHz
		}
	}
	for i := range avg {
		avg[i].RxHz /= float64(len(tables))
		avg[i].TxHz /= float64(len(tables))
	}
	return avg
}

// Nearest returns the index of the channel whose receive frequency is
// closest to rxHz, or -1 for an empty table. Ties keep the earlier channel.
func Nearest(rxHz float64, chans []Channel) int {
	best := -1
	bestDiff := 0.0
	for i := range chans {
		diff := chans[i].RxHz - rxHz
		if diff < 0 {
			diff = -diff
		}
		if best == -1 || diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	return best
}

// Switch records a recommended channel change during a pass.
type Switch struct {
	Channel int     `json:"channel"`           // index into the channel table
	Second  int     `json:"second"`            // seconds after AOS
	RxHz    float64 `json:"rx_hz"`             // instantaneous shifted rx frequency
	TxHz    float64 `json:"tx_hz"`             // instantaneous shifted tx frequency
}

// SwitchTimes walks a pass second by second and records a switch whenever
// the stored channel nearest the instantaneous shifted receive frequency
// changes. rates[i] is the range rate in m/s at AOS+i seconds. The first
// entry is the starting channel at second 0. Once the last channel is
// reached no further switches are recorded.
func SwitchTimes(rates []float64, chans []Channel, rxHz, txHz float64) []Switch {
	var out []Switch
	cur := -1

	for i, v := range rates {
		s := At(v, rxHz, txHz)
		shiftedRx := rxHz + s.RxHz
		shiftedTx := txHz + s.TxHz

		best := Nearest(shiftedRx, chans)
		if cur < len(chans)-1 && best != cur {
			cur = best
			out = append(out, Switch{
				Channel: cur,
				Second:  i,
				RxHz:    shiftedRx,
				TxHz:    shiftedTx,
			})
		}
	}
	return out
}

// Point is one second of a pass's shift profile.
type Point struct {
	Second    int     `json:"second"`
	RxShiftHz float64 `json:"rx_shift_hz"`
	TxShiftHz float64 `json:"tx_shift_hz"`
}

// Profile computes the per-second rx/tx shifts across a pass for graphing.
// rates[i] is the range rate in m/s at AOS+i seconds.
func Profile(rates []float64, rxHz, txHz float64) []Point {
	out := make([]Point, len(rates))
	for i, v := range rates {
		s := At(v, rxHz, txHz)
		out[i] = Point{Second: i, RxShiftHz: s.RxHz, TxShiftHz: s.TxHz}
	}
	return out
}
