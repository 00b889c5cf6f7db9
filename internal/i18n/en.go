package i18n

var messagesEN = map[string]string{
	// ========== Source decoding ==========
	ErrUnknownEncoding: "unknown source encoding %q",
	ErrInvalidText:     "source is not valid %s text (first bad byte at offset %d)",

	// ========== Lexer ==========
	ErrUnexpectedChar:     "unexpected character %q",
	ErrUnterminatedString: "unterminated string literal",
	ErrInvalidEscape:      "invalid escape sequence %q",
	ErrInvalidNumber:      "invalid number literal %q",

	// ========== Parser ==========
	ErrExpectedToken:            "expected %s, found %s",
	ErrUnexpectedToken:          "unexpected %s",
	ErrUnknownDirective:         "unknown directive %q",
	ErrUnsupportedInstruction:   "instruction %s is not supported",
	ErrMissingClass:             "missing .class or .interface directive",
	ErrMissingSuper:             "class %s has no .super directive",
	ErrDuplicateDirective:       "duplicate %s directive",
	ErrDirectiveOutOfPlace:      "%s is not allowed here",
	ErrUnterminatedMethod:       "method %s is never closed with .end method",
	ErrUndefinedLabel:           "undefined label %q",
	ErrDuplicateLabel:           "label %q is already defined on line %d",
	ErrLabelOutsideMethod:       "label %q appears outside a method body",
	ErrInstructionOutsideMethod: "instruction %s appears outside a method body",
	ErrOperandRange:             "operand %d of %s is out of range [%d, %d]",
	ErrUnknownAccessFlag:        "unknown access flag %q",
	ErrBadMemberRef:             "malformed member reference %q",
	ErrBadDescriptor:            "invalid descriptor %q",
	ErrBadConstant:              "%s cannot load %s",
	ErrBadFieldValue:            "initial value %s does not match field descriptor %s",
	ErrBadVersion:               "invalid class file version %q",
	ErrBadArrayType:             "invalid array element type %q",
	ErrCodeInAbstract:           "abstract or native method %s cannot have a body",
	ErrDuplicateSwitchKey:       "duplicate switch key %d",
	ErrSwitchTargetCount:        "tableswitch %d..%d expects %d targets, found %d",
	ErrEmptySwitch:              "%s has no targets",

	// ========== Constant pool ==========
	ErrPoolOverflow: "constant pool exceeds 65535 slots",
	ErrUtf8TooLong:  "string constant is %d bytes long, the limit is 65535",
	ErrPoolMiss:     "constant %s is missing from the pool",

	// ========== Code generation ==========
	ErrBranchRange:     "branch offset %d does not fit in 16 bits",
	ErrCodeTooLong:     "method code is %d bytes long, the limit is 65535",
	ErrStackHeight:     "inconsistent stack height at instruction %d: %d vs %d",
	ErrStackUnderflow:  "%s pops %d value(s) but the stack holds %d",
	ErrEmptyRange:      "exception range %s..%s is empty",
	ErrEmptyCode:       "method %s has no instructions",
	ErrLimitTooLarge:   "%s limit %d exceeds 65535",
	ErrBranchToEnd:     "label %q marks the end of the code and cannot be a branch target",
	ErrBadInstrOperand: "instruction %s has no operand of the expected kind",

	// ========== Verifier ==========
	ErrMalformedClass:   "malformed class file: %s",
	ErrBadCPIndex:       "constant pool index %d is out of range",
	ErrBadCPTag:         "constant pool entry %d is %s, expected %s",
	ErrNameMismatch:     "class file declares %s, expected %s",
	ErrBadSuper:         "invalid superclass: %s",
	ErrBadAccessFlags:   "invalid access flags 0x%04x: %s",
	ErrBadMemberDesc:    "invalid descriptor %q",
	ErrMissingCode:      "method %s has no Code attribute",
	ErrUnexpectedCode:   "abstract or native method %s has a Code attribute",
	ErrBadInstruction:   "invalid instruction: %s",
	ErrBadBranchTarget:  "branch target %d is not an instruction boundary",
	ErrFallOffCode:      "execution can fall off the end of the code",
	ErrBadLocalIndex:    "local variable %d is outside max_locals %d",
	ErrBadHandler:       "invalid exception handler: %s",
	ErrStackOverflow:    "stack depth %d exceeds max_stack %d",
	ErrStackUnderflowV:  "operand stack underflow",
	ErrStackMismatch:    "stack height %d does not match %d from another path",
	ErrDuplicateMember:  "duplicate member %s",
	ErrMissingAttribute: "attribute %s is truncated",

	// ========== I/O ==========
	ErrReadFile:  "cannot read %s",
	ErrWriteFile: "cannot write %s",

	// ========== Hints ==========
	HintUseWideBranch:  "use goto_w or jsr_w for far jumps, or restructure the code",
	HintEndMethod:      "add .end method after the last instruction",
	HintAddSuper:       "add a directive such as .super java/lang/Object",
	HintCheckLabel:     "define the label inside the same method",
	HintDirectiveList:  "known directives: .source .bytecode .class .interface .super .implements .field .method .limit .catch .line .var .throws .end",
	HintLimitStack:     "declare the limit explicitly with .limit stack",
	HintSplitMethod:    "split the method into smaller methods",
	HintEscapeList:     "valid escapes are \\n \\t \\r \\b \\f \\\\ \\\" \\' \\uXXXX and octal \\NNN",
	HintEncodingConfig: "set [build].encoding in jasmin.toml or pass --encoding",
	HintDidYouMean:     "did you mean %q?",
	HintLdcVersion:     "ldc of a class constant needs .bytecode 49.0 or later; method handles and method types need 51.0",

	// ========== CLI ==========
	MsgBuildSummary:    "%d compiled, %d failed",
	MsgCheckOK:         "%s: ok (%s)",
	MsgErrorCount:      "found %d error(s)",
	MsgConfigCreated:   "created %s",
	MsgConfigExists:    "%s already exists",
	MsgNoSources:       "no .j sources found",
	MsgReportWritten:   "build report written to %s",
	MsgWroteClass:      "wrote class file",
	MsgNameMismatch:    "class file is named after the declared class, not the source file",
	MsgPackageMismatch: "declared package does not match the source directory",

	CmdRoot:    "jasm assembles Jasmin (.j) sources into JVM class files",
	CmdBuild:   "Assemble every source of the project, or the given files",
	CmdCheck:   "Assemble and verify sources without writing class files",
	CmdTokens:  "Print the token stream of a source file",
	CmdDump:    "Disassemble a class file",
	CmdLSP:     "Start the language server on stdin/stdout",
	CmdInit:    "Create jasmin.toml and the default source directory",
	CmdVersion: "Print version information",

	OptLang:      "message language (en|zh)",
	OptNoColor:   "disable colored output",
	OptVerbose:   "enable debug logging",
	OptOutput:    "output directory for class files",
	OptSourceDir: "source root (repeatable, replaces the configured roots)",
	OptEncoding:  "source encoding",
	OptNoVerify:  "skip structural verification of generated classes",
	OptWorkers:   "number of parallel workers (0 = number of CPUs)",
	OptKeepGoing: "continue after a unit fails",
	OptReport:    "write a JSON build report to this path",
	OptLogFile:   "write server logs to this file instead of stderr",
}
