// Package timeseries provides a fixed-capacity, time-ordered window of
// three-component samples with interpolated lookup by time.
//
// The window is a ring buffer over a pre-allocated slice: once full, every
// insertion evicts the oldest sample in O(1) without allocating.
//
//	buf, _ := timeseries.NewBuffer(256)
//	_ = buf.Add(ts, timeseries.Vec3{r, g, b})
//	v, err := buf.FindValueForTime(float64(ts) - 12.5)
package timeseries
