// Package publisher uploads the packaged consolidated file to its final
// destination. Publishing is optional: without a configured bucket New
// returns a Noop publisher.
package publisher
