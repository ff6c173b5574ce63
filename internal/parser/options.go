package parser

import "log/slog"

// Option configures a Parser, following the functional-options pattern the
// teacher uses for its own ParserOpt (runtime/parser/options.go).
type Option func(*Parser)

// WithLogger attaches a structured logger used for debug-level trace
// output (SPEC_FULL.md §3 "Ambient stack / logging").
func WithLogger(lg *slog.Logger) Option {
	return func(p *Parser) { p.logger = lg }
}
