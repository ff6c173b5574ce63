package parser

import (
	"github.com/aledsdavies/gosh/internal/ast"
	"github.com/aledsdavies/gosh/internal/lexer"
)

// ParseCommandSubstitution implements lexer.SubParser for both `$(...)`
// (lx is the Parser's own active lexer, already in InCommandSubstitution
// state) and backquoted `` `...` `` (lx is an independently materialized
// lexer over the pre-unescaped body; see lexer.lexBacktick). Either way the
// body is a complete logical_commands list with its own here-document
// queue, isolated from whatever is pending in the enclosing parse.
func (p *Parser) ParseCommandSubstitution(lx *lexer.Lexer) ([]*ast.LogicalCommand, error) {
	savedLex, savedPending, savedFT := p.lex, p.pending, p.ftPushed
	p.lex, p.pending, p.ftPushed = lx, nil, false
	defer func() { p.lex, p.pending, p.ftPushed = savedLex, savedPending, savedFT }()

	cmds, err := p.parseLogicalCommands(nil)
	if err != nil {
		return cmds, err
	}
	// Best-effort drain of any here-docs whose closing newline never
	// arrived before the substitution's own end-of-stream (spec §7).
	if perr := p.drainHereDocs(); perr != nil {
		return cmds, perr
	}
	return cmds, nil
}
