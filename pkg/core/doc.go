// Package core defines the shared record model of the mod maker.
//
// This package contains:
//   - Corpus records (Dilemma, Policy, Slider, SimulationVariable)
//   - The Effect tagged union (GrudgeEffect, KeyValueEffect, RawToken)
//   - Closed enumerations and their classifiers
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// Parsers, codecs and serializers depend on core, not the reverse.
//
// Records produced by parsing are snapshots of the corpus at load time and
// must be treated as read-only. Authored records are copied with Clone
// before they are edited.
package core
