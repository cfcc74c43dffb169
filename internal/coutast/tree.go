package coutast

// Tree owns every arena backing a single function's C-out AST: the node
// factory the generator threads through its whole walk, analogous to the
// likec::Tree the reference implementation allocates nodes from.
type Tree struct {
	exprs  *Arena[Expr]
	stmts  *Arena[Stmt]
	decls  *Arena[Decl]
	labels *Arena[Label]
}

// NewTree returns an empty Tree sized by the given capacity hints.
func NewTree(exprCap, stmtCap, declCap, labelCap int) *Tree {
	return &Tree{
		exprs:  NewArena[Expr](exprCap),
		stmts:  NewArena[Stmt](stmtCap),
		decls:  NewArena[Decl](declCap),
		labels: NewArena[Label](labelCap),
	}
}

// Expr returns the expression node for id.
func (t *Tree) Expr(id ExprID) *Expr { return t.exprs.Get(uint32(id)) }

// Stmt returns the statement node for id.
func (t *Tree) Stmt(id StmtID) *Stmt { return t.stmts.Get(uint32(id)) }

// Decl returns the declaration node for id.
func (t *Tree) Decl(id DeclID) *Decl { return t.decls.Get(uint32(id)) }

// Label returns the label node for id.
func (t *Tree) Label(id LabelID) *Label { return t.labels.Get(uint32(id)) }

func (t *Tree) addExpr(e Expr) ExprID {
	id := ExprID(t.exprs.Allocate(e))
	if node := t.Expr(id); node != nil {
		node.ID = id
	}
	return id
}

func (t *Tree) addStmt(s Stmt) StmtID {
	id := StmtID(t.stmts.Allocate(s))
	if node := t.Stmt(id); node != nil {
		node.ID = id
	}
	return id
}

func (t *Tree) addDecl(d Decl) DeclID {
	id := DeclID(t.decls.Allocate(d))
	if node := t.Decl(id); node != nil {
		node.ID = id
	}
	return id
}

// NewIntegerConstant allocates an integer-constant expression.
func (t *Tree) NewIntegerConstant(value uint64, size uint32, unsigned bool) ExprID {
	return t.addExpr(Expr{Kind: ExprIntegerConstant, IntegerConstant: IntegerConstantExpr{Value: value, Size: size, Unsigned: unsigned}})
}

// NewStringLiteral allocates a string-literal expression.
func (t *Tree) NewStringLiteral(s string) ExprID {
	return t.addExpr(Expr{Kind: ExprStringLiteral, StringLiteral: s})
}

// NewWideStringLiteral allocates a string-literal expression decoded from
// a wchar_t-sized constant (§6.1's supplemented wide-string handling).
func (t *Tree) NewWideStringLiteral(s string) ExprID {
	return t.addExpr(Expr{Kind: ExprStringLiteral, StringLiteral: s, WideStringPrefix: true})
}

// NewVariableIdentifier allocates a reference to a variable declaration.
func (t *Tree) NewVariableIdentifier(decl DeclID) ExprID {
	return t.addExpr(Expr{Kind: ExprVariableIdentifier, VariableIdent: decl})
}

// NewLabelIdentifier allocates a reference to a label, used as a goto
// operand.
func (t *Tree) NewLabelIdentifier(label LabelID) ExprID {
	return t.addExpr(Expr{Kind: ExprLabelIdentifier, LabelIdent: label})
}

// NewFunctionIdentifier allocates a reference to a named function.
func (t *Tree) NewFunctionIdentifier(name string) ExprID {
	return t.addExpr(Expr{Kind: ExprFunctionIdentifier, FunctionIdent: name})
}

// NewTypecast allocates an explicit cast of operand to (size, unsigned).
func (t *Tree) NewTypecast(operand ExprID, size uint32, unsigned bool) ExprID {
	return t.addExpr(Expr{Kind: ExprTypecast, Typecast: TypecastExpr{Operand: operand, Size: size, Unsigned: unsigned}})
}

// NewPointerTypecast allocates a cast of operand to a pointer-to-(size,
// unsigned) type.
func (t *Tree) NewPointerTypecast(operand ExprID, size uint32, unsigned bool) ExprID {
	return t.addExpr(Expr{Kind: ExprTypecast, Typecast: TypecastExpr{Operand: operand, Size: size, Unsigned: unsigned, IsPtr: true}})
}

// NewUnaryOperator allocates a unary expression.
func (t *Tree) NewUnaryOperator(op UnaryExprOp, operand ExprID) ExprID {
	return t.addExpr(Expr{Kind: ExprUnaryOperator, Unary: UnaryExprNode{Op: op, Operand: operand}})
}

// NewBinaryOperator allocates a binary expression.
func (t *Tree) NewBinaryOperator(op BinaryExprOp, left, right ExprID) ExprID {
	return t.addExpr(Expr{Kind: ExprBinaryOperator, Binary: BinaryExprNode{Op: op, Left: left, Right: right}})
}

// NewAssign allocates `left = right`.
func (t *Tree) NewAssign(left, right ExprID) ExprID {
	return t.NewBinaryOperator(BinAssign, left, right)
}

// NewCallOperator allocates a call of target with args.
func (t *Tree) NewCallOperator(target ExprID, args []ExprID) ExprID {
	return t.addExpr(Expr{Kind: ExprCallOperator, Call: CallExprNode{Target: target, Args: args}})
}

// NewComma allocates the comma expression `(left, right)`.
func (t *Tree) NewComma(left, right ExprID) ExprID {
	return t.addExpr(Expr{Kind: ExprComma, Comma: CommaExprNode{Left: left, Right: right}})
}

// NewBlock allocates an (initially empty) block statement.
func (t *Tree) NewBlock() StmtID {
	return t.addStmt(Stmt{Kind: StmtBlock})
}

// AppendToBlock appends stmt to the block at blockID.
func (t *Tree) AppendToBlock(blockID StmtID, stmt StmtID) {
	if b := t.Stmt(blockID); b != nil {
		b.Block.Stmts = append(b.Block.Stmts, stmt)
	}
}

// AppendDeclToBlock appends decl to the block's declaration list.
func (t *Tree) AppendDeclToBlock(blockID StmtID, decl DeclID) {
	if b := t.Stmt(blockID); b != nil {
		b.Block.Decls = append(b.Block.Decls, decl)
	}
}

// NewIf allocates an if statement.
func (t *Tree) NewIf(cond ExprID, then StmtID, elseStmt StmtID, hasElse bool) StmtID {
	return t.addStmt(Stmt{Kind: StmtIf, If: IfStmtNode{Cond: cond, Then: then, Else: elseStmt, HasElse: hasElse}})
}

// NewWhile allocates a while statement.
func (t *Tree) NewWhile(cond ExprID, body StmtID) StmtID {
	return t.addStmt(Stmt{Kind: StmtWhile, While: CondLoopNode{Cond: cond, Body: body}})
}

// NewDoWhile allocates a do-while statement.
func (t *Tree) NewDoWhile(cond ExprID, body StmtID) StmtID {
	return t.addStmt(Stmt{Kind: StmtDoWhile, DoWhile: CondLoopNode{Cond: cond, Body: body}})
}

// NewSwitch allocates a switch statement.
func (t *Tree) NewSwitch(expr ExprID, body StmtID) StmtID {
	return t.addStmt(Stmt{Kind: StmtSwitch, Switch: SwitchStmtNode{Expr: expr, Body: body}})
}

// NewCaseLabel allocates `case value:`.
func (t *Tree) NewCaseLabel(value int64) StmtID {
	return t.addStmt(Stmt{Kind: StmtCaseLabel, CaseLabel: CaseLabelNode{Value: value}})
}

// NewDefaultLabel allocates `default:`.
func (t *Tree) NewDefaultLabel() StmtID {
	return t.addStmt(Stmt{Kind: StmtDefaultLabel, CaseLabel: CaseLabelNode{IsDefault: true}})
}

// NewLabelStatement allocates `Label:` for label.
func (t *Tree) NewLabelStatement(label LabelID) StmtID {
	return t.addStmt(Stmt{Kind: StmtLabelStatement, LabelStmt: LabelStmtNode{Label: label}})
}

// NewGotoLabel allocates `goto Label;`.
func (t *Tree) NewGotoLabel(label LabelID) StmtID {
	return t.addStmt(Stmt{Kind: StmtGoto, Goto: GotoStmtNode{ToLabel: true, Label: label}})
}

// NewGotoExpr allocates `goto <expr>;` for an address or the literal
// `goto "???";` fallback.
func (t *Tree) NewGotoExpr(expr ExprID) StmtID {
	return t.addStmt(Stmt{Kind: StmtGoto, Goto: GotoStmtNode{TargetExpr: expr}})
}

// NewBreak allocates a break statement.
func (t *Tree) NewBreak() StmtID { return t.addStmt(Stmt{Kind: StmtBreak}) }

// NewContinue allocates a continue statement.
func (t *Tree) NewContinue() StmtID { return t.addStmt(Stmt{Kind: StmtContinue}) }

// NewReturn allocates a return statement.
func (t *Tree) NewReturn(hasValue bool, value ExprID) StmtID {
	return t.addStmt(Stmt{Kind: StmtReturn, Return: ReturnStmtNode{HasValue: hasValue, Value: value}})
}

// NewExpressionStatement allocates an expression statement.
func (t *Tree) NewExpressionStatement(expr ExprID) StmtID {
	return t.addStmt(Stmt{Kind: StmtExpressionStatement, ExprStmt: expr})
}

// NewInlineAssembly allocates an inline-assembly statement.
func (t *Tree) NewInlineAssembly(text string) StmtID {
	return t.addStmt(Stmt{Kind: StmtInlineAssembly, InlineAsm: text})
}

// NewVariableDeclaration allocates a local variable declaration.
func (t *Tree) NewVariableDeclaration(name string, size uint32, unsigned bool) DeclID {
	return t.addDecl(Decl{Kind: DeclVariable, Variable: GlobalOrLocalVar{Name: name, Size: size, Unsigned: unsigned}})
}

// NewFunctionDefinition allocates the root function-definition node.
func (t *Tree) NewFunctionDefinition(fn FunctionDefinitionNode) DeclID {
	return t.addDecl(Decl{Kind: DeclFunctionDefinition, Function: fn})
}

// NewLabel allocates a fresh label with the given display name.
func (t *Tree) NewLabel(name string) LabelID {
	return LabelID(t.labels.Allocate(Label{Name: name}))
}
