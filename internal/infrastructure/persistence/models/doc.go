// Package models contains the GORM persistence models that map to database tables.
// Domain aggregates stay free of ORM tags; each model converts with ToDomain and
// a ...ModelFromDomain constructor.
package models
