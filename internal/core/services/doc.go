// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// TransformService is the main entry point: it parses a document with the
// source adapter, runs the zone engine with a named transformer, converts to
// the target dialect and records the run. AnalysisService, CatalogService
// and SettingsService answer read-only questions, and BatchRunner applies
// TransformService to whole site exports.
package services
