// Package slug derives URL and DNS friendly identifiers from display names.
//
// The registry uses it to turn a tenant name into the slug that request
// resolution matches against:
//
//	slug.Make("Café Ünïcode Ltd.", slug.MaxLength(63)) // "cafe-unicode-ltd"
//
// Accents are removed with golang.org/x/text Unicode decomposition, a few
// letters without a decomposition are transliterated, and every other run of
// non-alphanumeric characters collapses into one separator. Results are
// always lowercase ASCII, so two names differing only in case produce the
// same slug.
package slug
