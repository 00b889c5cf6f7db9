package i18n

var messagesZH = map[string]string{
	// ========== 源码解码 ==========
	ErrUnknownEncoding: "未知的源码编码 %q",
	ErrInvalidText:     "源码不是有效的 %s 文本（第一个错误字节位于偏移 %d）",

	// ========== 词法分析器 ==========
	ErrUnexpectedChar:     "意外字符 %q",
	ErrUnterminatedString: "未闭合的字符串",
	ErrInvalidEscape:      "无效的转义序列 %q",
	ErrInvalidNumber:      "无效的数字字面量 %q",

	// ========== 语法分析器 ==========
	ErrExpectedToken:            "需要 %s，实际为 %s",
	ErrUnexpectedToken:          "意外的 %s",
	ErrUnknownDirective:         "未知的指令 %q",
	ErrUnsupportedInstruction:   "不支持指令 %s",
	ErrMissingClass:             "缺少 .class 或 .interface 指令",
	ErrMissingSuper:             "类 %s 缺少 .super 指令",
	ErrDuplicateDirective:       "重复的 %s 指令",
	ErrDirectiveOutOfPlace:      "此处不允许使用 %s",
	ErrUnterminatedMethod:       "方法 %s 没有以 .end method 结束",
	ErrUndefinedLabel:           "未定义的标签 %q",
	ErrDuplicateLabel:           "标签 %q 已在第 %d 行定义",
	ErrLabelOutsideMethod:       "标签 %q 出现在方法体之外",
	ErrInstructionOutsideMethod: "指令 %s 出现在方法体之外",
	ErrOperandRange:             "操作数 %d 超出 %s 的范围 [%d, %d]",
	ErrUnknownAccessFlag:        "未知的访问修饰符 %q",
	ErrBadMemberRef:             "成员引用格式错误 %q",
	ErrBadDescriptor:            "无效的描述符 %q",
	ErrBadConstant:              "%s 不能加载 %s",
	ErrBadFieldValue:            "初始值 %s 与字段描述符 %s 不匹配",
	ErrBadVersion:               "无效的类文件版本 %q",
	ErrBadArrayType:             "无效的数组元素类型 %q",
	ErrCodeInAbstract:           "抽象或本地方法 %s 不能有方法体",
	ErrDuplicateSwitchKey:       "重复的 switch 键 %d",
	ErrSwitchTargetCount:        "tableswitch %d..%d 需要 %d 个目标，实际为 %d",
	ErrEmptySwitch:              "%s 没有任何目标",

	// ========== 常量池 ==========
	ErrPoolOverflow: "常量池超过 65535 个槽位",
	ErrUtf8TooLong:  "字符串常量长 %d 字节，上限为 65535",
	ErrPoolMiss:     "常量池中缺少常量 %s",

	// ========== 字节码生成 ==========
	ErrBranchRange:     "跳转偏移 %d 超出 16 位范围",
	ErrCodeTooLong:     "方法代码长 %d 字节，上限为 65535",
	ErrStackHeight:     "第 %d 条指令处栈高度不一致：%d 与 %d",
	ErrStackUnderflow:  "%s 需要弹出 %d 个值，但栈中只有 %d 个",
	ErrEmptyRange:      "异常范围 %s..%s 为空",
	ErrEmptyCode:       "方法 %s 没有任何指令",
	ErrLimitTooLarge:   "%s 上限 %d 超过 65535",
	ErrBranchToEnd:     "标签 %q 位于代码末尾，不能作为跳转目标",
	ErrBadInstrOperand: "指令 %s 缺少所需的操作数",

	// ========== 验证器 ==========
	ErrMalformedClass:   "类文件格式错误：%s",
	ErrBadCPIndex:       "常量池索引 %d 越界",
	ErrBadCPTag:         "常量池第 %d 项是 %s，需要 %s",
	ErrNameMismatch:     "类文件声明的类为 %s，期望 %s",
	ErrBadSuper:         "无效的父类：%s",
	ErrBadAccessFlags:   "无效的访问标志 0x%04x：%s",
	ErrBadMemberDesc:    "无效的描述符 %q",
	ErrMissingCode:      "方法 %s 缺少 Code 属性",
	ErrUnexpectedCode:   "抽象或本地方法 %s 含有 Code 属性",
	ErrBadInstruction:   "无效的指令：%s",
	ErrBadBranchTarget:  "跳转目标 %d 不在指令边界上",
	ErrFallOffCode:      "执行可能越过代码末尾",
	ErrBadLocalIndex:    "局部变量 %d 超出 max_locals %d",
	ErrBadHandler:       "无效的异常处理器：%s",
	ErrStackOverflow:    "栈深度 %d 超过 max_stack %d",
	ErrStackUnderflowV:  "操作数栈下溢",
	ErrStackMismatch:    "栈高度 %d 与另一路径的 %d 不一致",
	ErrDuplicateMember:  "重复的成员 %s",
	ErrMissingAttribute: "属性 %s 被截断",

	// ========== 文件读写 ==========
	ErrReadFile:  "无法读取 %s",
	ErrWriteFile: "无法写入 %s",

	// ========== 修复建议 ==========
	HintUseWideBranch:  "远距离跳转请使用 goto_w 或 jsr_w，或调整代码结构",
	HintEndMethod:      "在最后一条指令之后添加 .end method",
	HintAddSuper:       "添加类似 .super java/lang/Object 的指令",
	HintCheckLabel:     "请在同一个方法内定义该标签",
	HintDirectiveList:  "可用指令：.source .bytecode .class .interface .super .implements .field .method .limit .catch .line .var .throws .end",
	HintLimitStack:     "使用 .limit stack 显式声明上限",
	HintSplitMethod:    "将方法拆分为多个较小的方法",
	HintEscapeList:     "有效的转义为 \\n \\t \\r \\b \\f \\\\ \\\" \\' \\uXXXX 以及八进制 \\NNN",
	HintEncodingConfig: "在 jasmin.toml 中设置 [build].encoding，或使用 --encoding",
	HintDidYouMean:     "是否想使用 %q？",
	HintLdcVersion:     "ldc 加载类常量需要 .bytecode 49.0 及以上；方法句柄和方法类型需要 51.0",

	// ========== 命令行 ==========
	MsgBuildSummary:    "编译成功 %d 个，失败 %d 个",
	MsgCheckOK:         "%s：通过（%s）",
	MsgErrorCount:      "发现 %d 个错误",
	MsgConfigCreated:   "已创建 %s",
	MsgConfigExists:    "%s 已存在",
	MsgNoSources:       "没有找到 .j 源文件",
	MsgReportWritten:   "构建报告已写入 %s",
	MsgWroteClass:      "已写入类文件",
	MsgNameMismatch:    "类文件以声明的类名命名，而不是源文件名",
	MsgPackageMismatch: "声明的包与源码目录不一致",

	CmdRoot:    "jasm 将 Jasmin (.j) 源码汇编为 JVM 类文件",
	CmdBuild:   "汇编项目的全部源码，或指定的文件",
	CmdCheck:   "汇编并校验源码，不写出类文件",
	CmdTokens:  "输出源文件的 token 序列",
	CmdDump:    "反汇编类文件",
	CmdLSP:     "在标准输入输出上启动语言服务",
	CmdInit:    "创建 jasmin.toml 和默认源码目录",
	CmdVersion: "显示版本信息",

	OptLang:      "消息语言 (en|zh)",
	OptNoColor:   "禁用彩色输出",
	OptVerbose:   "输出调试日志",
	OptOutput:    "类文件输出目录",
	OptSourceDir: "源码根目录（可重复，替换配置中的目录）",
	OptEncoding:  "源码字符集",
	OptNoVerify:  "跳过生成类的结构校验",
	OptWorkers:   "并行任务数（0 表示 CPU 数）",
	OptKeepGoing: "某个单元失败后继续编译",
	OptReport:    "将 JSON 构建报告写入该路径",
	OptLogFile:   "将服务日志写入该文件而不是标准错误",
}
