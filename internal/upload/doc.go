// Package upload implements the single-shot PDF upload that precedes a
// generation session when the request carries source material.
package upload
