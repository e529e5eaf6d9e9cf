// Package filter narrows and orders a vocabulary list. Filtering is a pure
// function of the entries and a Spec; sorting is stable so equal keys keep
// their input order.
package filter
