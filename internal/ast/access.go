package ast

import "strings"

// ============================================================================
// 访问标志
// ============================================================================

// 访问标志位。部分位在类、字段、方法上含义不同：
// 0x0020 对类是 ACC_SUPER、对方法是 ACC_SYNCHRONIZED，
// 0x0040 对字段是 ACC_VOLATILE、对方法是 ACC_BRIDGE，
// 0x0080 对字段是 ACC_TRANSIENT、对方法是 ACC_VARARGS。
const (
	AccPublic       uint16 = 0x0001
	AccPrivate      uint16 = 0x0002
	AccProtected    uint16 = 0x0004
	AccStatic       uint16 = 0x0008
	AccFinal        uint16 = 0x0010
	AccSuper        uint16 = 0x0020
	AccSynchronized uint16 = 0x0020
	AccVolatile     uint16 = 0x0040
	AccBridge       uint16 = 0x0040
	AccTransient    uint16 = 0x0080
	AccVarargs      uint16 = 0x0080
	AccNative       uint16 = 0x0100
	AccInterface    uint16 = 0x0200
	AccAbstract     uint16 = 0x0400
	AccStrict       uint16 = 0x0800
	AccSynthetic    uint16 = 0x1000
	AccAnnotation   uint16 = 0x2000
	AccEnum         uint16 = 0x4000
)

// accessKeywords 源码中可用的访问修饰符
var accessKeywords = map[string]uint16{
	"public":       AccPublic,
	"private":      AccPrivate,
	"protected":    AccProtected,
	"static":       AccStatic,
	"final":        AccFinal,
	"super":        AccSuper,
	"synchronized": AccSynchronized,
	"volatile":     AccVolatile,
	"bridge":       AccBridge,
	"transient":    AccTransient,
	"varargs":      AccVarargs,
	"native":       AccNative,
	"interface":    AccInterface,
	"abstract":     AccAbstract,
	"strict":       AccStrict,
	"strictfp":     AccStrict,
	"synthetic":    AccSynthetic,
	"annotation":   AccAnnotation,
	"enum":         AccEnum,
}

// AccessFlag 返回访问修饰符对应的标志位
func AccessFlag(keyword string) (uint16, bool) {
	flag, ok := accessKeywords[keyword]
	return flag, ok
}

// AccessKeywords 返回所有访问修饰符（用于错误提示）
func AccessKeywords() []string {
	keywords := make([]string, 0, len(accessKeywords))
	for k := range accessKeywords {
		keywords = append(keywords, k)
	}
	return keywords
}

type flagName struct {
	flag uint16
	name string
}

var classFlagOrder = []flagName{
	{AccPublic, "public"}, {AccPrivate, "private"}, {AccProtected, "protected"},
	{AccStatic, "static"}, {AccFinal, "final"}, {AccSuper, "super"},
	{AccInterface, "interface"}, {AccAbstract, "abstract"}, {AccSynthetic, "synthetic"},
	{AccAnnotation, "annotation"}, {AccEnum, "enum"},
}

var fieldFlagOrder = []flagName{
	{AccPublic, "public"}, {AccPrivate, "private"}, {AccProtected, "protected"},
	{AccStatic, "static"}, {AccFinal, "final"}, {AccVolatile, "volatile"},
	{AccTransient, "transient"}, {AccSynthetic, "synthetic"}, {AccEnum, "enum"},
}

var methodFlagOrder = []flagName{
	{AccPublic, "public"}, {AccPrivate, "private"}, {AccProtected, "protected"},
	{AccStatic, "static"}, {AccFinal, "final"}, {AccSynchronized, "synchronized"},
	{AccBridge, "bridge"}, {AccVarargs, "varargs"}, {AccNative, "native"},
	{AccAbstract, "abstract"}, {AccStrict, "strict"}, {AccSynthetic, "synthetic"},
}

func flagNames(flags uint16, order []flagName) string {
	var names []string
	for _, f := range order {
		if flags&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, " ")
}

// ClassFlagNames 类访问标志的文本形式
func ClassFlagNames(flags uint16) string { return flagNames(flags, classFlagOrder) }

// FieldFlagNames 字段访问标志的文本形式
func FieldFlagNames(flags uint16) string { return flagNames(flags, fieldFlagOrder) }

// MethodFlagNames 方法访问标志的文本形式
func MethodFlagNames(flags uint16) string { return flagNames(flags, methodFlagOrder) }
