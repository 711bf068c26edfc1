// Package analysis computes statistics across a collection of patient
// tables, such as the spread of daily mean inflammation between datasets.
package analysis
