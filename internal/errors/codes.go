// Package errors 提供 jasm 汇编器的错误分类与诊断输出
package errors

import "github.com/tangzhangming/jasm/internal/i18n"

// ============================================================================
// 错误级别
// ============================================================================

// Level 错误级别
type Level int

const (
	LevelError   Level = iota // 错误
	LevelWarning              // 警告
	LevelNote                 // 提示
	LevelHelp                 // 帮助
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	case LevelHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ============================================================================
// 错误种类
// ============================================================================

// Kind 错误种类，对应流水线中出错的阶段
type Kind int

const (
	KindLex          Kind = iota + 1 // 词法错误
	KindParse                        // 语法错误
	KindConstantPool                 // 常量池错误
	KindEncode                       // 编码错误
	KindVerify                       // 验证错误
	KindIO                           // 读写错误
)

var kindNames = map[Kind]string{
	KindLex:          "LexError",
	KindParse:        "ParseError",
	KindConstantPool: "ConstantPoolError",
	KindEncode:       "EncodeError",
	KindVerify:       "VerifyError",
	KindIO:           "IOError",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Error"
}

// ============================================================================
// 错误码 (E 开头)
// ============================================================================

const (
	// E0001-E0099: 词法错误
	E0001 = "E0001" // 意外的字符
	E0002 = "E0002" // 未闭合的字符串
	E0003 = "E0003" // 无效的转义序列
	E0004 = "E0004" // 无效的数字
	E0005 = "E0005" // 源码编码错误

	// E0100-E0199: 语法错误
	E0100 = "E0100" // 意外的 token
	E0101 = "E0101" // 未知的指令
	E0102 = "E0102" // 方法未结束
	E0103 = "E0103" // 未定义的标签
	E0104 = "E0104" // 重复的标签
	E0105 = "E0105" // 缺少类声明
	E0106 = "E0106" // 缺少父类声明
	E0107 = "E0107" // 指令位置错误
	E0108 = "E0108" // 操作数越界
	E0109 = "E0109" // 描述符或成员引用格式错误
	E0110 = "E0110" // 常量类型不匹配
	E0111 = "E0111" // 不支持的指令

	// E0200-E0299: 常量池错误
	E0200 = "E0200" // 常量池溢出
	E0201 = "E0201" // 字符串常量过长
	E0202 = "E0202" // 常量缺失

	// E0300-E0399: 编码错误
	E0300 = "E0300" // 跳转偏移越界
	E0301 = "E0301" // 代码过长
	E0302 = "E0302" // 栈高度不一致
	E0303 = "E0303" // 栈下溢
	E0304 = "E0304" // 异常范围无效
	E0305 = "E0305" // 方法体为空

	// E0400-E0499: 验证错误
	E0400 = "E0400" // 类文件格式错误
	E0401 = "E0401" // 常量池引用错误
	E0402 = "E0402" // 类名不一致
	E0403 = "E0403" // 类层次或访问标志错误
	E0404 = "E0404" // 代码结构错误
	E0405 = "E0405" // 栈深度错误

	// E0500-E0599: 读写错误
	E0500 = "E0500" // 读取失败
	E0501 = "E0501" // 写入失败
)

// ============================================================================
// 错误码信息
// ============================================================================

// ErrorInfo 错误码信息
type ErrorInfo struct {
	Code     string // 错误码
	Kind     Kind   // 错误种类
	HintID   string // 默认修复建议的 i18n 消息 ID（可选）
	Category string // 错误分类
}

// errorInfos 错误码信息表
var errorInfos = map[string]ErrorInfo{
	E0001: {E0001, KindLex, "", "lexer"},
	E0002: {E0002, KindLex, "", "lexer"},
	E0003: {E0003, KindLex, i18n.HintEscapeList, "lexer"},
	E0004: {E0004, KindLex, "", "lexer"},
	E0005: {E0005, KindLex, i18n.HintEncodingConfig, "lexer"},

	E0100: {E0100, KindParse, "", "syntax"},
	E0101: {E0101, KindParse, i18n.HintDirectiveList, "syntax"},
	E0102: {E0102, KindParse, i18n.HintEndMethod, "syntax"},
	E0103: {E0103, KindParse, i18n.HintCheckLabel, "label"},
	E0104: {E0104, KindParse, "", "label"},
	E0105: {E0105, KindParse, "", "syntax"},
	E0106: {E0106, KindParse, i18n.HintAddSuper, "syntax"},
	E0107: {E0107, KindParse, "", "syntax"},
	E0108: {E0108, KindParse, "", "operand"},
	E0109: {E0109, KindParse, "", "operand"},
	E0110: {E0110, KindParse, "", "operand"},
	E0111: {E0111, KindParse, "", "operand"},

	E0200: {E0200, KindConstantPool, i18n.HintSplitMethod, "pool"},
	E0201: {E0201, KindConstantPool, "", "pool"},
	E0202: {E0202, KindEncode, "", "pool"},

	E0300: {E0300, KindEncode, i18n.HintUseWideBranch, "code"},
	E0301: {E0301, KindEncode, i18n.HintSplitMethod, "code"},
	E0302: {E0302, KindEncode, i18n.HintLimitStack, "stack"},
	E0303: {E0303, KindEncode, "", "stack"},
	E0304: {E0304, KindEncode, "", "code"},
	E0305: {E0305, KindEncode, "", "code"},

	E0400: {E0400, KindVerify, "", "format"},
	E0401: {E0401, KindVerify, "", "pool"},
	E0402: {E0402, KindVerify, "", "class"},
	E0403: {E0403, KindVerify, "", "class"},
	E0404: {E0404, KindVerify, "", "code"},
	E0405: {E0405, KindVerify, "", "stack"},

	E0500: {E0500, KindIO, "", "io"},
	E0501: {E0501, KindIO, "", "io"},
}

// GetErrorInfo 获取错误码信息
func GetErrorInfo(code string) (ErrorInfo, bool) {
	info, ok := errorInfos[code]
	return info, ok
}
