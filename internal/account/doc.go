// Package account contains the pure, network-free rules applied to a bank
// account before and after name resolution: structural validation of the
// account number, canonicalization of holder names, and the deterministic
// synthetic name generator used when no authoritative source answers.
//
// Nothing in this package performs I/O or reads the clock.
package account
