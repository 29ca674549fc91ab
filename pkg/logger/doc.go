// Package logger builds *slog.Logger values with functional options and
// injects request-scoped attributes from context.Context on every record.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// result in ContextHandler, which runs the registered ContextExtractor
// callbacks right before a record is handled. The tenant package ships an
// extractor that adds tenant_id, so every log line written with a
// tenant-scoped context is attributed without extra arguments.
//
// # Usage
//
//	import "github.com/dmitrymomot/helpdesk/pkg/logger"
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "helpdesk"),
//		logger.WithConfig(cfg.Log),
//		logger.WithContextExtractors(tenant.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.ErrorContext(ctx, "provisioning failed",
//		logger.Schema(schema),
//		logger.Changeset(version, source),
//		logger.Error(err),
//	)
//
// # Configuration
//
//   - WithDevelopment, WithStaging, WithProduction and WithEnvironment apply per-stage defaults.
//   - WithFormat, WithTextFormatter and WithJSONFormatter override the output format.
//   - WithLevel sets the minimum level; WithAttr attaches static attributes.
//   - WithConfig applies LOG_LEVEL and LOG_FORMAT over the preset.
//   - WithContextExtractors injects attributes from context.
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally.
package logger
