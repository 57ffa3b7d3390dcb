// Package separate turns a uniform multi-channel color signal into one or
// more 1-D signals suitable for rate estimation.
//
// Two strategies share the [Separator] contract and are chosen once at
// construction:
//
//   - [Single] wraps a [Projector] (default [PCA]) and yields one combined row.
//   - [Multi] wraps an [Unmixer] (default [FastICA]) and yields one row per
//     source, each sign-corrected from the diagonal of the demixing matrix.
//
// Every returned row is min-max normalized to [0,1].
package separate
