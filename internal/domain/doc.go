// Package domain contains shared domain types used across aggregate sub-packages.
// Aggregates live in sub-packages (domain/match, domain/roster, domain/inning),
// the event vocabulary in domain/event and the undo history in domain/undo.
// This root package holds sentinel errors and validation types that are shared
// across all of them.
package domain
