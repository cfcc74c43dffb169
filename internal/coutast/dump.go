package coutast

import (
	"fmt"
	"sort"
	"strings"
)

// Dump renders fn as an indented structural trace: node kinds and their
// children, never valid C. It exists so tests can assert on AST shape
// without pulling in a pretty printer, which is out of this repo's scope.
func (t *Tree) Dump(fn DeclID) string {
	var b strings.Builder
	decl := t.Decl(fn)
	if decl == nil || decl.Kind != DeclFunctionDefinition {
		return "<invalid function>"
	}
	fmt.Fprintf(&b, "func %s\n", decl.Function.Name)
	t.dumpStmt(&b, decl.Function.Body, 1)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func (t *Tree) dumpStmt(b *strings.Builder, id StmtID, depth int) {
	s := t.Stmt(id)
	if s == nil {
		indent(b, depth)
		b.WriteString("<nil stmt>\n")
		return
	}
	switch s.Kind {
	case StmtBlock:
		indent(b, depth)
		b.WriteString("block\n")
		for _, d := range s.Block.Decls {
			indent(b, depth+1)
			if decl := t.Decl(d); decl != nil {
				fmt.Fprintf(b, "decl %s\n", decl.Variable.Name)
			}
		}
		for _, c := range s.Block.Stmts {
			t.dumpStmt(b, c, depth+1)
		}
	case StmtIf:
		indent(b, depth)
		b.WriteString("if\n")
		t.dumpStmt(b, s.If.Then, depth+1)
		if s.If.HasElse {
			indent(b, depth)
			b.WriteString("else\n")
			t.dumpStmt(b, s.If.Else, depth+1)
		}
	case StmtWhile:
		indent(b, depth)
		b.WriteString("while\n")
		t.dumpStmt(b, s.While.Body, depth+1)
	case StmtDoWhile:
		indent(b, depth)
		b.WriteString("do-while\n")
		t.dumpStmt(b, s.DoWhile.Body, depth+1)
	case StmtSwitch:
		indent(b, depth)
		b.WriteString("switch\n")
		t.dumpStmt(b, s.Switch.Body, depth+1)
	case StmtCaseLabel:
		indent(b, depth)
		if s.CaseLabel.IsDefault {
			b.WriteString("default:\n")
		} else {
			fmt.Fprintf(b, "case %d:\n", s.CaseLabel.Value)
		}
	case StmtLabelStatement:
		indent(b, depth)
		if lbl := t.Label(s.LabelStmt.Label); lbl != nil {
			fmt.Fprintf(b, "label %s:\n", lbl.Name)
		}
	case StmtGoto:
		indent(b, depth)
		if s.Goto.ToLabel {
			if lbl := t.Label(s.Goto.Label); lbl != nil {
				fmt.Fprintf(b, "goto %s\n", lbl.Name)
			}
		} else {
			b.WriteString("goto <expr>\n")
		}
	case StmtBreak:
		indent(b, depth)
		b.WriteString("break\n")
	case StmtContinue:
		indent(b, depth)
		b.WriteString("continue\n")
	case StmtReturn:
		indent(b, depth)
		b.WriteString("return\n")
	case StmtExpressionStatement:
		indent(b, depth)
		b.WriteString("expr-stmt\n")
	case StmtInlineAssembly:
		indent(b, depth)
		b.WriteString("asm\n")
	case StmtCommentStatement:
		indent(b, depth)
		b.WriteString("comment\n")
	}
}

// CaseValues returns every integer case value attached to stmt's switch
// body, sorted, for invariant checks like "every case label is unique".
func (t *Tree) CaseValues(switchBody StmtID) []int64 {
	var out []int64
	var walk func(id StmtID)
	walk = func(id StmtID) {
		s := t.Stmt(id)
		if s == nil {
			return
		}
		switch s.Kind {
		case StmtBlock:
			for _, c := range s.Block.Stmts {
				walk(c)
			}
		case StmtCaseLabel:
			if !s.CaseLabel.IsDefault {
				out = append(out, s.CaseLabel.Value)
			}
		}
	}
	walk(switchBody)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
