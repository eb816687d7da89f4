package tex

// registerPrimitives seeds a freshly built Interpreter's outermost
// frame with every built-in this package implements. Table style
// grounded on the teacher's package-init keyword map
// (parser/token.go's `keywords = map[string]int{...}`), here split
// across one repeated define() call per primitive instead of a single
// literal map, since several primitives need a constructor
// (registerDefFactory, defAssignFactory) rather than a bare literal.
func registerPrimitives(in *Interpreter) {
	in.define("relax", cmdRelax)
	in.define("par", primitiveCommand("par", false, parApply))
	in.define("the", primitiveCommand("the", true, theApply))

	countCmd := assignmentCommand("count", countAssign)
	countCmd.ReadValue = countReadValue
	in.define("count", countCmd)

	dimenCmd := assignmentCommand("dimen", dimenAssign)
	dimenCmd.ReadValue = dimenReadValue
	in.define("dimen", dimenCmd)

	skipCmd := assignmentCommand("skip", skipAssign)
	skipCmd.ReadValue = skipReadValue
	skipCmd.ReadGlue = skipReadGlue
	in.define("skip", skipCmd)

	muskipCmd := assignmentCommand("muskip", muskipAssign)
	muskipCmd.ReadValue = muskipReadValue
	muskipCmd.ReadGlue = muskipReadGlue
	in.define("muskip", muskipCmd)

	in.define("catcode", assignmentCommand("catcode", catcodeAssign))

	in.define("countdef", assignmentCommand("countdef", registerDefFactory(KindRegisterRef)))
	in.define("dimendef", assignmentCommand("dimendef", registerDefFactory(KindDimenRef)))
	in.define("skipdef", assignmentCommand("skipdef", registerDefFactory(KindSkipRef)))
	in.define("muskipdef", assignmentCommand("muskipdef", registerDefFactory(KindMuSkipRef)))

	in.define("let", assignmentCommand("let", letAssign))
	in.define("global", primitiveCommand("global", false, globalApply))
	in.define("long", primitiveCommand("long", false, longApply))
	in.define("outer", primitiveCommand("outer", false, outerApply))
	in.define("protected", primitiveCommand("protected", false, protectedApply))

	in.define("def", assignmentCommand("def", defAssignFactory(false, false)))
	in.define("edef", assignmentCommand("edef", defAssignFactory(false, true)))
	in.define("gdef", assignmentCommand("gdef", defAssignFactory(true, false)))
	in.define("xdef", assignmentCommand("xdef", defAssignFactory(true, true)))

	in.define("begingroup", primitiveCommand("begingroup", false, begingroupApply))
	in.define("endgroup", primitiveCommand("endgroup", false, endgroupApply))

	in.define("afterassignment", primitiveCommand("afterassignment", false, afterassignmentApply))
	in.define("aftergroup", primitiveCommand("aftergroup", false, aftergroupApply))

	in.define("input", primitiveCommand("input", false, inputApply))

	in.define("csname", expandableCommand("csname", csnameExpand))
	in.define("endcsname", primitiveCommand("endcsname", false, func(tok Token, _ *Interpreter) (*Expansion, error) {
		return nil, newErr(ArgumentMismatch, tok.Source, "extra \\endcsname")
	}))
	in.define("noexpand", expandableCommand("noexpand", noexpandExpand))
	in.define("expandafter", expandableCommand("expandafter", expandafterExpand))
	in.define("string", expandableCommand("string", stringExpand))
	in.define("meaning", expandableCommand("meaning", meaningExpand))

	in.define("ifnum", conditionalCommand("ifnum", ifnumConditional))
	in.define("ifdim", conditionalCommand("ifdim", ifdimConditional))
	in.define("ifodd", conditionalCommand("ifodd", ifoddConditional))
	in.define("iftrue", conditionalCommand("iftrue", iftrueConditional))
	in.define("iffalse", conditionalCommand("iffalse", iffalseConditional))
	in.define("ifx", conditionalCommand("ifx", ifxConditional))
	in.define("ifcase", conditionalCommand("ifcase", ifcaseConditional))

	in.define("else", primitiveCommand("else", false, elsePrimitive))
	in.define("fi", primitiveCommand("fi", false, fiPrimitive))
	in.define("or", primitiveCommand("or", false, orPrimitive))
	in.define("unless", expandableCommand("unless", unlessExpand))
}
