// Package stats implements the per-table statistics of the inflammation
// study: the daily mean, maximum and minimum across patients, and
// per-patient normalisation.
//
// Rows are patients and columns are days. Every daily reduction returns a
// vector with one value per day:
//
//	mean, err := stats.DailyMean(tbl)
//	summary, err := stats.Summarise(tbl) // mean, max and min together
//
// Reductions accept any table.Matrix. A table.Text grid holding a
// non-numeric cell fails with errors.ErrTypeKind; empty inputs fail with
// errors.ErrValidation.
package stats
