// Package fplan parses the line-oriented plan format into features and tasks.
//
// A document is a sequence of trimmed lines. Blank lines and lines starting
// with "//" are ignored. Every "feature:" line opens a feature block that
// runs up to the next one; inside a feature, lines before the first "task:"
// are document links ("docs:" headers are skipped), and every "task:" line
// opens a task block:
//
//	feature: Checkout
//	docs:
//	- Spec: https://wiki/checkout
//	task: Payment form
//	effort: web 3
//	by: alice sprint2
//	ticket: SHOP-12
//	notes:
//	remember the 3DS flow
//	links:
//	- Mock: https://figma/x
//	dependencies:
//	payments 2024-01-01 api-key
//
// Malformed field lines are dropped silently; parsing never fails on content.
package fplan
