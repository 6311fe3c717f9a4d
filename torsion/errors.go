package torsion

import "errors"

var (
	// ErrLengthMismatch is returned when the angle, baseline and reference
	// series do not have the same number of samples.
	ErrLengthMismatch = errors.New("torsion: series length mismatch")
	// ErrEmptySeries is returned for energy series without samples.
	ErrEmptySeries = errors.New("torsion: empty energy series")
	// ErrEmptyCatalog is returned when a search is requested without terms.
	ErrEmptyCatalog = errors.New("torsion: empty term catalog")
	// ErrBadWeights is returned for negative or wrongly sized weights.
	ErrBadWeights = errors.New("torsion: invalid weights")
	// ErrBadTerm is returned for terms without a unit sign or with a negative
	// multiplicity.
	ErrBadTerm = errors.New("torsion: invalid term")
	// ErrBadOptions is returned for search options that cannot produce a fit,
	// such as an iteration cap below one or a negative tolerance.
	ErrBadOptions = errors.New("torsion: invalid search options")
	// ErrNoResults is returned when selecting from an empty result set.
	ErrNoResults = errors.New("torsion: no fit results")
)
