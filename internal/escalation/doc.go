// Package escalation provides the business boundary for Handoff's escalation
// intake and triage system. It defines the Normalizer (canonical record
// construction), the Store interface (append-only persistence), the
// age-derived priority rules, the query pipeline, and the Service that ties
// them together.
package escalation
