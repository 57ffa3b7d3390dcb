// Package pulse estimates a periodic rate, such as a heart rate, from a
// stream of timestamped three-channel color samples.
//
// A [Processor] buffers the most recent samples and, on every
// [Processor.MeasureFrequency] call once at least half the buffer is
// filled, runs the full pipeline from scratch:
//
//  1. resample the buffer onto a uniform time grid (dsp/resample),
//  2. separate the channels into 1-D signals (dsp/separate),
//  3. estimate the rate of every signal from its power spectrum (dsp/spectrum),
//  4. forward all peak rates to a robust [Tracker] (stats/robust by default).
//
// The first separated signal is authoritative for [Processor.Estimate].
//
// # Usage
//
//	p, _ := pulse.New(256, pulse.WithMode(separate.MultiChannel))
//	for frame := range frames {
//		_ = p.AddMeasure(frame.Millis, timeseries.Vec3{frame.R, frame.G, frame.B})
//		if _, err := p.MeasureFrequency(1000); err != nil {
//			log.Print(err)
//		}
//	}
//	fmt.Printf("%.0f bpm\n", p.Freq())
package pulse
