// Package opltypes defines the packed, copy-cheap value types used throughout
// the database engine: dates, ages, weights, points, and the closed
// enumerations (sex, equipment, federation, ruleset) that describe a
// competition entry.
package opltypes
