// Package reconcile attaches free-text style labels to the canonical model
// names of a make.
//
// A Matcher picks at most one model for a label in two tiers: models whose
// normalized name starts the normalized label, then models whose normalized
// name appears anywhere in it. When a tier produces several candidates the
// longest normalized name wins, with ties broken lexicographically. The
// Accumulator folds matched labels into per-model style maps and collects
// unmatched labels as orphans.
package reconcile
