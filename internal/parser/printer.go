package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aledsdavies/gosh/internal/ast"
)

// Printer renders a command tree back to syntactically valid shell source
// (spec §4.3 "Pretty-printer"), used for `alias` listing and trace output.
// Here-document bodies are buffered separately and flushed after the
// statement line that opened them, matching real shell source layout.
type Printer struct {
	out      strings.Builder
	heredocs []*ast.HereDoc
}

// Print renders a full logical-command list.
func Print(cmds []*ast.LogicalCommand) string {
	p := &Printer{}
	for _, c := range cmds {
		p.logicalCommand(c)
		p.out.WriteByte('\n')
		p.flushHereDocs()
	}
	return p.out.String()
}

// PrintLogicalCommand renders a single statement without a trailing
// here-doc flush, for embedding inline (e.g. inside a command
// substitution's textual form).
func PrintLogicalCommand(c *ast.LogicalCommand) string {
	p := &Printer{}
	p.logicalCommand(c)
	return p.out.String()
}

func (p *Printer) flushHereDocs() {
	pending := p.heredocs
	p.heredocs = nil
	for _, hd := range pending {
		p.wordElements(hd.Elements)
		p.out.WriteByte('\n')
		p.out.WriteString(hd.Delim)
		p.out.WriteByte('\n')
	}
}

func (p *Printer) logicalCommand(c *ast.LogicalCommand) {
	p.pipeCommand(c.First)
	for _, pair := range c.Pairs {
		if pair.Op == ast.LogicalAnd {
			p.out.WriteString(" && ")
		} else {
			p.out.WriteString(" || ")
		}
		p.pipeCommand(pair.Pipe)
	}
	if c.IsBackground {
		p.out.WriteString(" &")
	}
}

func (p *Printer) pipeCommand(pc *ast.PipeCommand) {
	if pc.IsNegated {
		p.out.WriteString("! ")
	}
	for i, cmd := range pc.Commands {
		if i > 0 {
			p.out.WriteString(" | ")
		}
		p.command(cmd)
	}
}

func (p *Printer) command(c *ast.Command) {
	switch c.Kind {
	case ast.CmdSimple:
		p.simpleCommand(c.Simple)
	case ast.CmdCompound:
		p.compoundCommand(c.Compound)
		p.redirects(c.Redirects)
	case ast.CmdFunctionDefinition:
		p.word(c.FuncName)
		p.out.WriteString("() ")
		p.command(c.FuncBody.Command)
		p.redirects(c.FuncBody.Redirects)
	}
}

func (p *Printer) simpleCommand(sc *ast.SimpleCommand) {
	for i, w := range sc.Words {
		if i > 0 {
			p.out.WriteByte(' ')
		}
		p.word(w)
	}
	if len(sc.Redirects) > 0 {
		if len(sc.Words) > 0 {
			p.out.WriteByte(' ')
		}
		p.redirects(sc.Redirects)
	}
}

func (p *Printer) redirects(rs []*ast.Redirect) {
	for i, r := range rs {
		if i > 0 {
			p.out.WriteByte(' ')
		}
		p.redirect(r)
	}
}

func (p *Printer) redirect(r *ast.Redirect) {
	if r.FD != -1 {
		fmt.Fprintf(&p.out, "%d", r.FD)
	}
	switch r.Op {
	case ast.RedirIn:
		p.out.WriteString("<")
	case ast.RedirOut:
		p.out.WriteString(">")
	case ast.RedirHereDoc:
		p.out.WriteString("<<")
	case ast.RedirHereDocTab:
		p.out.WriteString("<<-")
	case ast.RedirInOut:
		p.out.WriteString("<>")
	case ast.RedirDupIn:
		p.out.WriteString("<&")
	case ast.RedirAppend:
		p.out.WriteString(">>")
	case ast.RedirDupOut:
		p.out.WriteString(">&")
	case ast.RedirClobber:
		p.out.WriteString(">|")
	}
	if r.HereDoc != nil {
		p.out.WriteString(r.HereDoc.Delim)
		p.heredocs = append(p.heredocs, r.HereDoc)
		return
	}
	if r.Word != nil {
		p.out.WriteByte(' ')
		p.word(r.Word)
	}
}

func (p *Printer) compoundCommand(c *ast.CompoundCommand) {
	switch c.Kind {
	case ast.CompoundBrace:
		p.out.WriteString("{ ")
		p.logicalCommands(c.Body)
		p.out.WriteString("; }")
	case ast.CompoundSubshell:
		p.out.WriteString("(")
		p.logicalCommands(c.Body)
		p.out.WriteString(")")
	case ast.CompoundFor:
		fmt.Fprintf(&p.out, "for %s", c.Name)
		if c.HasIn {
			p.out.WriteString(" in")
			for _, w := range c.Words {
				p.out.WriteByte(' ')
				p.word(w)
			}
		}
		p.out.WriteString("; do ")
		p.logicalCommands(c.Body)
		p.out.WriteString("; done")
	case ast.CompoundCase:
		p.out.WriteString("case ")
		p.word(c.CaseWord)
		p.out.WriteString(" in ")
		for _, item := range c.Cases {
			for i, pat := range item.Patterns {
				if i > 0 {
					p.out.WriteString("|")
				}
				p.word(pat)
			}
			p.out.WriteString(") ")
			p.logicalCommands(item.Commands)
			p.out.WriteString(";; ")
		}
		p.out.WriteString("esac")
	case ast.CompoundIf:
		p.out.WriteString("if ")
		p.logicalCommands(c.Cond)
		p.out.WriteString("; then ")
		p.logicalCommands(c.Then)
		for _, elif := range c.Elifs {
			p.out.WriteString("; elif ")
			p.logicalCommands(elif.Cond)
			p.out.WriteString("; then ")
			p.logicalCommands(elif.Then)
		}
		if c.Else != nil {
			p.out.WriteString("; else ")
			p.logicalCommands(c.Else)
		}
		p.out.WriteString("; fi")
	case ast.CompoundWhile:
		p.out.WriteString("while ")
		p.logicalCommands(c.Cond)
		p.out.WriteString("; do ")
		p.logicalCommands(c.Then)
		p.out.WriteString("; done")
	case ast.CompoundUntil:
		p.out.WriteString("until ")
		p.logicalCommands(c.Cond)
		p.out.WriteString("; do ")
		p.logicalCommands(c.Then)
		p.out.WriteString("; done")
	}
}

func (p *Printer) logicalCommands(cmds []*ast.LogicalCommand) {
	for i, c := range cmds {
		if i > 0 {
			p.out.WriteString("; ")
		}
		p.logicalCommand(c)
	}
}

func (p *Printer) word(w *ast.Word) {
	p.wordElements(w.Elements)
}

func (p *Printer) wordElements(elems []ast.WordElement) {
	for _, e := range elems {
		p.wordElement(e)
	}
}

func (p *Printer) wordElement(e ast.WordElement) {
	switch v := e.(type) {
	case ast.Literal:
		p.out.WriteString(v.Value)
	case ast.SingleQuoted:
		p.out.WriteByte('\'')
		p.out.WriteString(v.Value)
		p.out.WriteByte('\'')
	case ast.DoubleQuoted:
		p.out.WriteByte('"')
		p.wordElements(v.Parts)
		p.out.WriteByte('"')
	case ast.Parameter:
		p.parameter(v)
	case ast.CommandSubstitution:
		if v.Backtick {
			p.out.WriteByte('`')
			p.logicalCommands(v.Commands)
			p.out.WriteByte('`')
		} else {
			p.out.WriteString("$(")
			p.logicalCommands(v.Commands)
			p.out.WriteByte(')')
		}
	case ast.ArithmeticSubstitution:
		p.out.WriteString("$((")
		p.arithExpr(v.Expr)
		p.out.WriteString("))")
	}
}

func (p *Printer) parameter(v ast.Parameter) {
	if !v.Braced && v.Modifier == ast.ModNone && !v.IsLength {
		p.out.WriteByte('$')
		p.out.WriteString(v.Name)
		return
	}
	p.out.WriteString("${")
	if v.IsLength {
		p.out.WriteByte('#')
	}
	p.out.WriteString(v.Name)
	if v.Modifier != ast.ModNone {
		p.out.WriteString(modifierText(v.Modifier))
		p.wordElements(v.Arg)
	}
	p.out.WriteByte('}')
}

func modifierText(m ast.ParamModifier) string {
	switch m {
	case ast.ModDefault:
		return ":-"
	case ast.ModDefaultUnset:
		return "-"
	case ast.ModAssign:
		return ":="
	case ast.ModAssignUnset:
		return "="
	case ast.ModError:
		return ":?"
	case ast.ModErrorUnset:
		return "?"
	case ast.ModAlt:
		return ":+"
	case ast.ModAltUnset:
		return "+"
	case ast.ModSuffixShort:
		return "%"
	case ast.ModSuffixLong:
		return "%%"
	case ast.ModPrefixShort:
		return "#"
	case ast.ModPrefixLong:
		return "##"
	default:
		return ""
	}
}

func (p *Printer) arithExpr(e ast.ArithExpr) {
	switch v := e.(type) {
	case ast.ArithNumber:
		p.out.WriteString(strconv.FormatInt(v.Value, 10))
	case ast.ArithParam:
		p.out.WriteString(v.Name)
	case ast.ArithUnary:
		p.out.WriteString(v.Op)
		p.arithExpr(v.X)
	case ast.ArithBinary:
		p.arithExpr(v.X)
		p.out.WriteString(" " + v.Op + " ")
		p.arithExpr(v.Y)
	case ast.ArithAssign:
		p.out.WriteString(v.Name + " " + v.Op + " ")
		p.arithExpr(v.X)
	case ast.ArithConditional:
		p.arithExpr(v.Cond)
		p.out.WriteString(" ? ")
		p.arithExpr(v.Then)
		p.out.WriteString(" : ")
		p.arithExpr(v.ElseX)
	}
}
