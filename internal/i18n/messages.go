package i18n

// 消息 ID
//
// ID 使用 "阶段.名称" 的形式，阶段与错误种类一一对应，便于在目录中分组查找。
const (
	// ========== 源码解码 ==========
	ErrUnknownEncoding = "source.unknown_encoding"
	ErrInvalidText     = "source.invalid_text"

	// ========== 词法分析器 ==========
	ErrUnexpectedChar     = "lexer.unexpected_char"
	ErrUnterminatedString = "lexer.unterminated_string"
	ErrInvalidEscape      = "lexer.invalid_escape"
	ErrInvalidNumber      = "lexer.invalid_number"

	// ========== 语法分析器 ==========
	ErrExpectedToken            = "parser.expected_token"
	ErrUnexpectedToken          = "parser.unexpected_token"
	ErrUnknownDirective         = "parser.unknown_directive"
	ErrUnsupportedInstruction   = "parser.unsupported_instruction"
	ErrMissingClass             = "parser.missing_class"
	ErrMissingSuper             = "parser.missing_super"
	ErrDuplicateDirective       = "parser.duplicate_directive"
	ErrDirectiveOutOfPlace      = "parser.directive_out_of_place"
	ErrUnterminatedMethod       = "parser.unterminated_method"
	ErrUndefinedLabel           = "parser.undefined_label"
	ErrDuplicateLabel           = "parser.duplicate_label"
	ErrLabelOutsideMethod       = "parser.label_outside_method"
	ErrInstructionOutsideMethod = "parser.instruction_outside_method"
	ErrOperandRange             = "parser.operand_range"
	ErrUnknownAccessFlag        = "parser.unknown_access_flag"
	ErrBadMemberRef             = "parser.bad_member_ref"
	ErrBadDescriptor            = "parser.bad_descriptor"
	ErrBadConstant              = "parser.bad_constant"
	ErrBadFieldValue            = "parser.bad_field_value"
	ErrBadVersion               = "parser.bad_version"
	ErrBadArrayType             = "parser.bad_array_type"
	ErrCodeInAbstract           = "parser.code_in_abstract"
	ErrDuplicateSwitchKey       = "parser.duplicate_switch_key"
	ErrSwitchTargetCount        = "parser.switch_target_count"
	ErrEmptySwitch              = "parser.empty_switch"

	// ========== 常量池 ==========
	ErrPoolOverflow = "constpool.overflow"
	ErrUtf8TooLong  = "constpool.utf8_too_long"
	ErrPoolMiss     = "constpool.missing"

	// ========== 字节码生成 ==========
	ErrBranchRange     = "jvmgen.branch_range"
	ErrCodeTooLong     = "jvmgen.code_too_long"
	ErrStackHeight     = "jvmgen.stack_height"
	ErrStackUnderflow  = "jvmgen.stack_underflow"
	ErrEmptyRange      = "jvmgen.empty_range"
	ErrEmptyCode       = "jvmgen.empty_code"
	ErrLimitTooLarge   = "jvmgen.limit_too_large"
	ErrBranchToEnd     = "jvmgen.branch_to_end"
	ErrBadInstrOperand = "jvmgen.bad_operand"

	// ========== 验证器 ==========
	ErrMalformedClass   = "verifier.malformed"
	ErrBadCPIndex       = "verifier.bad_cp_index"
	ErrBadCPTag         = "verifier.bad_cp_tag"
	ErrNameMismatch     = "verifier.name_mismatch"
	ErrBadSuper         = "verifier.bad_super"
	ErrBadAccessFlags   = "verifier.bad_access_flags"
	ErrBadMemberDesc    = "verifier.bad_descriptor"
	ErrMissingCode      = "verifier.missing_code"
	ErrUnexpectedCode   = "verifier.unexpected_code"
	ErrBadInstruction   = "verifier.bad_instruction"
	ErrBadBranchTarget  = "verifier.bad_branch_target"
	ErrFallOffCode      = "verifier.fall_off_code"
	ErrBadLocalIndex    = "verifier.bad_local_index"
	ErrBadHandler       = "verifier.bad_handler"
	ErrStackOverflow    = "verifier.stack_overflow"
	ErrStackUnderflowV  = "verifier.stack_underflow"
	ErrStackMismatch    = "verifier.stack_mismatch"
	ErrDuplicateMember  = "verifier.duplicate_member"
	ErrMissingAttribute = "verifier.missing_attribute"

	// ========== 文件读写 ==========
	ErrReadFile  = "io.read"
	ErrWriteFile = "io.write"

	// ========== 修复建议 ==========
	HintUseWideBranch  = "hint.use_wide_branch"
	HintEndMethod      = "hint.end_method"
	HintAddSuper       = "hint.add_super"
	HintCheckLabel     = "hint.check_label"
	HintDirectiveList  = "hint.directive_list"
	HintLimitStack     = "hint.limit_stack"
	HintSplitMethod    = "hint.split_method"
	HintEscapeList     = "hint.escape_list"
	HintEncodingConfig = "hint.encoding_config"
	HintDidYouMean     = "hint.did_you_mean"
	HintLdcVersion     = "hint.ldc_version"

	// ========== 命令行 ==========
	MsgBuildSummary    = "cli.build_summary"
	MsgCheckOK         = "cli.check_ok"
	MsgErrorCount      = "cli.error_count"
	MsgConfigCreated   = "cli.config_created"
	MsgConfigExists    = "cli.config_exists"
	MsgNoSources       = "cli.no_sources"
	MsgReportWritten   = "cli.report_written"
	MsgWroteClass      = "cli.wrote_class"
	MsgNameMismatch    = "cli.name_mismatch"
	MsgPackageMismatch = "cli.package_mismatch"

	CmdRoot    = "cli.cmd.root"
	CmdBuild   = "cli.cmd.build"
	CmdCheck   = "cli.cmd.check"
	CmdTokens  = "cli.cmd.tokens"
	CmdDump    = "cli.cmd.dump"
	CmdLSP     = "cli.cmd.lsp"
	CmdInit    = "cli.cmd.init"
	CmdVersion = "cli.cmd.version"

	OptLang      = "cli.opt.lang"
	OptNoColor   = "cli.opt.no_color"
	OptVerbose   = "cli.opt.verbose"
	OptOutput    = "cli.opt.output"
	OptSourceDir = "cli.opt.source_dir"
	OptEncoding  = "cli.opt.encoding"
	OptNoVerify  = "cli.opt.no_verify"
	OptWorkers   = "cli.opt.workers"
	OptKeepGoing = "cli.opt.keep_going"
	OptReport    = "cli.opt.report"
	OptLogFile   = "cli.opt.log_file"
)
