// Package spectrum estimates the dominant rate of a 1-D signal from its
// power spectrum.
//
// The pipeline is: power spectrum ([PowerSpectrum]), band mask ([MaskBand])
// to drop DC and implausibly high bins, min-max normalization, a single-pass
// top-2 peak search ([TopTwo]) and conversion of peak bins to a per-minute
// rate. [Estimator] bundles these steps and reuses its scratch memory between
// calls.
//
// # Usage
//
//	est, _ := spectrum.NewEstimator()
//	res, err := est.Estimate(signal, dt, tracker)
//	fmt.Printf("%.1f bpm in [%.1f, %.1f]\n", res.Current, res.Min, res.Max)
package spectrum
