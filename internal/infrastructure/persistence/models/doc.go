// Package models contains GORM persistence models that map to database tables.
// They are kept apart from domain entities so the domain layer stays free of
// ORM tags.
//
// Layout:
//   - base.go: shared id, timestamp and version columns
//   - network.go: neighborhoods, poles and customers
//   - plan.go: payment methods, connection types, plans and subscribers
//   - workorder.go: work requests, follow-ups and contracts
//   - legacy.go: local copies of the federated billing tables
package models
